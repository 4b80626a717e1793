package impl

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"ministry/config"
	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const reportDateFormat = "2006-01-02"

type reportService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	renderer    service.PDFRenderer
	lowStock    int
	logger      *slog.Logger
}

// ReportServiceParams holds dependencies for ReportService, injected by Fx.
type ReportServiceParams struct {
	fx.In

	OrderRepo   repository.OrderRepository
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	Renderer    service.PDFRenderer
	Config      *config.Config
	Logger      *slog.Logger
}

// NewReportService creates a new report service instance
func NewReportService(params ReportServiceParams) usecase.ReportUsecase {
	return &reportService{
		orderRepo:   params.OrderRepo,
		userRepo:    params.UserRepo,
		productRepo: params.ProductRepo,
		renderer:    params.Renderer,
		lowStock:    lowStockThreshold(params.Config),
		logger:      params.Logger,
	}
}

func (srv *reportService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *reportService) Build(ctx context.Context, input *usecase.ReportInput) (*service.ReportTable, error) {
	switch input.Type {
	case usecase.ReportOrders:
		return srv.ordersReport(ctx, input)
	case usecase.ReportUsers:
		return srv.usersReport(ctx)
	case usecase.ReportProducts:
		return srv.productsReport(ctx)
	case usecase.ReportStock:
		return srv.stockReport(ctx, input)
	default:
		return nil, domainerrors.ErrReportNotFound.WithDetails(string(input.Type))
	}
}

func (srv *reportService) Render(ctx context.Context, w io.Writer, input *usecase.ReportInput) error {
	table, err := srv.Build(ctx, input)
	if err != nil {
		return err
	}

	if err := srv.renderer.Render(w, table); err != nil {
		return errors.Wrap(domainerrors.ErrReportRenderFails.WithDetails(string(input.Type)), err.Error())
	}

	srv.log(ctx).Info("Report rendered", slog.String("type", string(input.Type)), slog.Int("rows", len(table.Rows)))

	return nil
}

func (srv *reportService) ordersReport(ctx context.Context, input *usecase.ReportInput) (*service.ReportTable, error) {
	orders, err := srv.orderRepo.ListAll(ctx, repository.OrderFilter{Status: input.Status, From: input.From, To: input.To})
	if err != nil {
		return nil, err
	}

	table := &service.ReportTable{
		Title:    "Orders Report",
		Subtitle: periodOf(input),
		Columns: []service.ReportColumn{
			{Header: "Order", Width: 42},
			{Header: "Date", Width: 24},
			{Header: "Customer"},
			{Header: "Status", Width: 28},
			{Header: "Payment", Width: 34},
			{Header: "Items", Width: 16, Align: "R"},
			{Header: "Total", Width: 30, Align: "R"},
		},
	}

	grand := decimal.Zero
	currency := ""
	for _, o := range orders {
		items := 0
		for _, item := range o.Items {
			items += item.Quantity
		}
		grand = grand.Add(o.Total)
		currency = o.Currency
		table.Rows = append(table.Rows, []string{
			o.OrderNumber,
			o.CreatedAt.Format(reportDateFormat),
			o.CustomerName,
			string(o.Status),
			string(o.PaymentStatus),
			strconv.Itoa(items),
			o.Total.StringFixed(2),
		})
	}
	table.Footer = []string{
		"Orders: " + strconv.Itoa(len(orders)),
		strings.TrimSpace("Grand total: " + grand.StringFixed(2) + " " + currency),
	}

	return table, nil
}

// usersReport walks the user list page by page.
func (srv *reportService) usersReport(ctx context.Context) (*service.ReportTable, error) {
	table := &service.ReportTable{
		Title: "Users Report",
		Columns: []service.ReportColumn{
			{Header: "Name"},
			{Header: "Email", Width: 70},
			{Header: "Phone", Width: 34},
			{Header: "Status", Width: 24},
			{Header: "Roles", Width: 40},
			{Header: "Joined", Width: 24},
		},
	}

	p := repository.Pagination{Page: 1, PerPage: constants.MaxPerPage}
	for {
		page, err := srv.userRepo.List(ctx, repository.UserFilter{Pagination: p})
		if err != nil {
			return nil, err
		}
		for _, u := range page.Items {
			table.Rows = append(table.Rows, []string{
				u.Name,
				u.Email,
				u.PhoneNumber,
				string(u.Status),
				roleNames(u.Roles),
				u.CreatedAt.Format(reportDateFormat),
			})
		}
		if page.Page >= page.LastPage {
			break
		}
		p.Page++
	}
	table.Footer = []string{"Users: " + strconv.Itoa(len(table.Rows))}

	return table, nil
}

func roleNames(roles []*entity.Role) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}

	return strings.Join(names, ", ")
}

func (srv *reportService) productsReport(ctx context.Context) (*service.ReportTable, error) {
	products, err := srv.productRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	table := &service.ReportTable{
		Title: "Products Report",
		Columns: []service.ReportColumn{
			{Header: "SKU", Width: 36},
			{Header: "Name"},
			{Header: "Category", Width: 50},
			{Header: "Price", Width: 30, Align: "R"},
			{Header: "Stock", Width: 20, Align: "R"},
			{Header: "Active", Width: 18, Align: "C"},
		},
	}
	for _, p := range products {
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		active := "no"
		if p.IsActive {
			active = "yes"
		}
		table.Rows = append(table.Rows, []string{
			p.SKU,
			p.Name,
			category,
			p.Price.StringFixed(2),
			strconv.Itoa(p.Stock),
			active,
		})
	}
	table.Footer = []string{"Products: " + strconv.Itoa(len(products))}

	return table, nil
}

func (srv *reportService) stockReport(ctx context.Context, input *usecase.ReportInput) (*service.ReportTable, error) {
	threshold := srv.lowStock
	if input.Threshold > 0 {
		threshold = input.Threshold
	}

	items, err := srv.productRepo.LowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}

	table := &service.ReportTable{
		Title:    "Low Stock Report",
		Subtitle: "Stock at or below " + strconv.Itoa(threshold),
		Columns: []service.ReportColumn{
			{Header: "SKU", Width: 40},
			{Header: "Product"},
			{Header: "Variant", Width: 70},
			{Header: "Stock", Width: 24, Align: "R"},
		},
	}
	for _, item := range items {
		table.Rows = append(table.Rows, []string{item.SKU, item.Name, item.VariantName, strconv.Itoa(item.Stock)})
	}
	table.Footer = []string{"Items: " + strconv.Itoa(len(items))}

	return table, nil
}

func periodOf(input *usecase.ReportInput) string {
	var parts []string
	if input.From != nil {
		parts = append(parts, "from "+input.From.Format(reportDateFormat))
	}
	if input.To != nil {
		parts = append(parts, "to "+input.To.Format(reportDateFormat))
	}
	if input.Status != "" {
		parts = append(parts, "status "+string(input.Status))
	}
	if len(parts) == 0 {
		return "All orders"
	}

	return "Orders " + strings.Join(parts, " ")
}
