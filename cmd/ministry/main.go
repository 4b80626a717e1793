package main

import (
	"context"
	"log/slog"
	"os"

	"ministry/config"
	"ministry/internal/delivery"
	"ministry/internal/delivery/api"
	"ministry/internal/delivery/api/middleware"
	"ministry/internal/delivery/api/router/handler"
	"ministry/internal/domain/service"
	"ministry/internal/infra/auth"
	"ministry/internal/infra/cache"
	"ministry/internal/infra/imageproc"
	logs "ministry/internal/infra/log"
	"ministry/internal/infra/payment"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/infra/pubsub"
	"ministry/internal/infra/qrcode"
	"ministry/internal/infra/report"
	"ministry/internal/infra/storage"
	"ministry/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		cache.NewRedisClient,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewRoleRepository,
			postgres.NewDepartmentRepository,
			postgres.NewAddressRepository,
			postgres.NewDeviceRepository,
			postgres.NewReferenceRepository,
			postgres.NewCatalogRepository,
			postgres.NewProductRepository,
			postgres.NewVariantRepository,
			postgres.NewCartRepository,
			postgres.NewOrderRepository,
			postgres.NewShipmentRepository,
			postgres.NewTransactionRepository,
			postgres.NewRefundRepository,
			postgres.NewCampaignRepository,
			postgres.NewDonationRepository,
			postgres.NewEventRepository,
			postgres.NewTicketTypeRepository,
			postgres.NewTicketOrderRepository,
			postgres.NewNewsRepository,
			postgres.NewBlogRepository,
			postgres.NewMusicRepository,
			postgres.NewSliderRepository,
			postgres.NewAboutUsRepository,
			postgres.NewContactMessageRepository,
			postgres.NewUserMessageRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			cache.NewCooldownStore,
			imageproc.NewImageProcessor,
			report.NewPDFRenderer,
			qrcode.NewQRCodeService,
			payment.NewPaymentGateway,
			payment.NewWebhookVerifier,
			pubsub.NewNotificationPublisher,
			fx.Annotate(
				storage.New,
				fx.As(new(service.FileStorage)),
			),
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewNotificationService,
			impl.NewAuthService,
			impl.NewRBACService,
			impl.NewProfileService,
			impl.NewAddressService,
			impl.NewDeviceService,
			impl.NewReferenceService,
			impl.NewCatalogService,
			impl.NewCartService,
			impl.NewOrderService,
			impl.NewPaymentService,
			impl.NewRefundService,
			impl.NewDonationService,
			impl.NewEventService,
			impl.NewNewsService,
			impl.NewBlogService,
			impl.NewMusicService,
			impl.NewSliderService,
			impl.NewAboutUsService,
			impl.NewMessageService,
			impl.NewReportService,
			impl.NewDashboardService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewAPIKeyMiddleware,
			middleware.NewRateLimitMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewHealthHandler,
			handler.NewAuthHandler,
			handler.NewAccountHandler,
			handler.NewRBACHandler,
			handler.NewCatalogHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewPaymentHandler,
			handler.NewDonationHandler,
			handler.NewEventHandler,
			handler.NewContentHandler,
			handler.NewReportHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
