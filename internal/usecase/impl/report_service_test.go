package impl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	err    error
	tables []*service.ReportTable
}

func (r *recordingRenderer) Render(w io.Writer, table *service.ReportTable) error {
	if r.err != nil {
		return r.err
	}
	r.tables = append(r.tables, table)
	_, err := io.WriteString(w, "%PDF-"+table.Title)

	return err
}

func newTestReportService(f *fixture, renderer service.PDFRenderer) usecase.ReportUsecase {
	return NewReportService(ReportServiceParams{
		OrderRepo:   f.orders,
		UserRepo:    f.users,
		ProductRepo: f.products,
		Renderer:    renderer,
		Config:      f.cfg,
		Logger:      f.logger,
	})
}

func TestReportService_Build(t *testing.T) {
	f := newFixture(t)
	srv := newTestReportService(f, &recordingRenderer{})
	ctx := context.Background()

	user := f.createUser(t, "reports@example.com")
	product := f.createProduct(t, "bible", 30, 5)
	f.paidOrder(t, user, product)
	f.createProduct(t, "poster", 2, 50)

	orders, err := srv.Build(ctx, &usecase.ReportInput{Type: usecase.ReportOrders})
	require.NoError(t, err)
	assert.Equal(t, "All orders", orders.Subtitle)
	require.Len(t, orders.Rows, 1)
	assert.Len(t, orders.Rows[0], len(orders.Columns))
	assert.Equal(t, "2", orders.Rows[0][5])
	assert.Equal(t, "73.00", orders.Rows[0][6])
	assert.Equal(t, "Grand total: 73.00 NGN", orders.Footer[1])

	users, err := srv.Build(ctx, &usecase.ReportInput{Type: usecase.ReportUsers})
	require.NoError(t, err)
	require.Len(t, users.Rows, 1)
	assert.Equal(t, "reports@example.com", users.Rows[0][1])

	products, err := srv.Build(ctx, &usecase.ReportInput{Type: usecase.ReportProducts})
	require.NoError(t, err)
	assert.Len(t, products.Rows, 2)

	stock, err := srv.Build(ctx, &usecase.ReportInput{Type: usecase.ReportStock})
	require.NoError(t, err)
	require.Len(t, stock.Rows, 1)
	assert.Equal(t, "SKU-bible", stock.Rows[0][0])
	assert.Equal(t, "3", stock.Rows[0][3])

	wide, err := srv.Build(ctx, &usecase.ReportInput{Type: usecase.ReportStock, Threshold: 100})
	require.NoError(t, err)
	assert.Len(t, wide.Rows, 2)

	_, err = srv.Build(ctx, &usecase.ReportInput{Type: "sales"})
	assert.ErrorIs(t, err, domainerrors.ErrReportNotFound)
}

func TestReportService_Render(t *testing.T) {
	f := newFixture(t)
	renderer := &recordingRenderer{}
	srv := newTestReportService(f, renderer)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, srv.Render(ctx, &buf, &usecase.ReportInput{Type: usecase.ReportProducts}))
	assert.Equal(t, "%PDF-Products Report", buf.String())
	require.Len(t, renderer.tables, 1)

	failing := newTestReportService(f, &recordingRenderer{err: errors.New("font missing")})
	err := failing.Render(ctx, io.Discard, &usecase.ReportInput{Type: usecase.ReportUsers})
	assert.ErrorIs(t, err, domainerrors.ErrReportRenderFails)
}

func TestDashboardService_Stats(t *testing.T) {
	f := newFixture(t)
	srv := NewDashboardService(DashboardServiceParams{
		UserRepo:       f.users,
		OrderRepo:      f.orders,
		TxnRepo:        f.txns,
		DonationRepo:   postgres.NewDonationRepository(f.db),
		TicketTypeRepo: postgres.NewTicketTypeRepository(f.db),
		ProductRepo:    f.products,
		Config:         f.cfg,
	})
	ctx := context.Background()

	empty, err := srv.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, empty.Revenue.IsZero())
	assert.Empty(t, empty.RecentOrders)

	user := f.createUser(t, "stats@example.com")
	product := f.createProduct(t, "stole", 30, 5)
	f.paidOrder(t, user, product)

	stats, err := srv.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.UsersByStatus[string(entity.UserStatusActive)])
	assert.True(t, decimal.NewFromInt(73).Equal(stats.Revenue), stats.Revenue.String())
	assert.True(t, stats.DonationsCompleted.IsZero())
	assert.Zero(t, stats.TicketsSold)
	assert.EqualValues(t, 1, stats.LowStockCount)
	require.Len(t, stats.RecentOrders, 1)

	var orders int64
	for _, n := range stats.OrdersByStatus {
		orders += n
	}
	assert.EqualValues(t, 1, orders)
}
