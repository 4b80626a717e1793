package impl

import (
	"context"

	"ministry/config"
	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

const recentOrdersLimit = 5

type dashboardService struct {
	userRepo       repository.UserRepository
	orderRepo      repository.OrderRepository
	txnRepo        repository.TransactionRepository
	donationRepo   repository.DonationRepository
	ticketTypeRepo repository.TicketTypeRepository
	productRepo    repository.ProductRepository
	lowStock       int
}

// DashboardServiceParams holds dependencies for DashboardService, injected by Fx.
type DashboardServiceParams struct {
	fx.In

	UserRepo       repository.UserRepository
	OrderRepo      repository.OrderRepository
	TxnRepo        repository.TransactionRepository
	DonationRepo   repository.DonationRepository
	TicketTypeRepo repository.TicketTypeRepository
	ProductRepo    repository.ProductRepository
	Config         *config.Config
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(params DashboardServiceParams) usecase.DashboardUsecase {
	return &dashboardService{
		userRepo:       params.UserRepo,
		orderRepo:      params.OrderRepo,
		txnRepo:        params.TxnRepo,
		donationRepo:   params.DonationRepo,
		ticketTypeRepo: params.TicketTypeRepo,
		productRepo:    params.ProductRepo,
		lowStock:       lowStockThreshold(params.Config),
	}
}

// Stats runs the overview aggregates concurrently.
func (srv *dashboardService) Stats(ctx context.Context) (*entity.DashboardStats, error) {
	stats := &entity.DashboardStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.UsersByStatus, err = srv.userRepo.CountByStatus(ctx)

		return err
	})
	g.Go(func() (err error) {
		stats.OrdersByStatus, err = srv.orderRepo.CountByStatus(ctx)

		return err
	})
	g.Go(func() (err error) {
		stats.Revenue, err = srv.txnRepo.Revenue(ctx)

		return err
	})
	g.Go(func() (err error) {
		stats.DonationsCompleted, err = srv.donationRepo.SumCompleted(ctx, nil)

		return err
	})
	g.Go(func() (err error) {
		stats.TicketsSold, err = srv.ticketTypeRepo.TotalSold(ctx)

		return err
	})
	g.Go(func() (err error) {
		stats.LowStockCount, err = srv.productRepo.CountLowStock(ctx, srv.lowStock)

		return err
	})
	g.Go(func() (err error) {
		stats.RecentOrders, err = srv.orderRepo.Recent(ctx, recentOrdersLimit)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}
