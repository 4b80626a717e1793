package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type paymentService struct {
	txManager     repository.TransactionManager
	orderRepo     repository.OrderRepository
	txnRepo       repository.TransactionRepository
	referenceRepo repository.ReferenceRepository
	gateway       service.PaymentGateway
	verifier      service.WebhookVerifier
	events        usecase.EventUsecase
	donations     usecase.DonationUsecase
	logger        *slog.Logger
	now           func() time.Time
}

// PaymentServiceParams holds dependencies for PaymentService, injected by Fx.
type PaymentServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	OrderRepo     repository.OrderRepository
	TxnRepo       repository.TransactionRepository
	ReferenceRepo repository.ReferenceRepository
	Gateway       service.PaymentGateway
	Verifier      service.WebhookVerifier
	Events        usecase.EventUsecase
	Donations     usecase.DonationUsecase
	Logger        *slog.Logger
}

// NewPaymentService is the constructor for paymentService.
func NewPaymentService(params PaymentServiceParams) usecase.PaymentUsecase {
	return &paymentService{
		txManager:     params.TxManager,
		orderRepo:     params.OrderRepo,
		txnRepo:       params.TxnRepo,
		referenceRepo: params.ReferenceRepo,
		gateway:       params.Gateway,
		verifier:      params.Verifier,
		events:        params.Events,
		donations:     params.Donations,
		logger:        params.Logger,
		now:           time.Now,
	}
}

func (srv *paymentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *paymentService) Initiate(ctx context.Context, userID, orderID uuid.UUID) (*usecase.PaymentOutput, error) {
	order, err := findOwnedOrder(ctx, srv.orderRepo, userID, orderID)
	if err != nil {
		return nil, err
	}
	txn := order.Transaction
	if txn == nil {
		return nil, domainerrors.ErrTransactionNotFound
	}
	if txn.IsSettled() {
		return paymentOutput(txn), nil
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails("order is cancelled")
	}

	result, err := srv.gateway.Initiate(ctx, service.PaymentInitRequest{
		Reference: txn.Reference,
		Amount:    txn.Amount,
		Currency:  txn.Currency,
		Email:     order.CustomerEmail,
		Provider:  srv.providerOf(ctx, txn.PaymentMethod),
	})
	if err != nil {
		srv.log(ctx).Error("Payment initiation failed", slog.String("reference", txn.Reference), slog.Any("error", err))

		return nil, err
	}

	txn.GatewayReference = result.GatewayReference
	txn.CheckoutURL = result.CheckoutURL
	if err := srv.txnRepo.Update(ctx, txn); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Payment initiated", slog.String("reference", txn.Reference))

	return paymentOutput(txn), nil
}

// providerOf resolves the gateway provider of a payment method code.
func (srv *paymentService) providerOf(ctx context.Context, code string) string {
	method, err := srv.referenceRepo.FindPaymentMethodByCode(ctx, code)
	if err != nil {
		return code
	}

	return method.Provider
}

func paymentOutput(txn *entity.Transaction) *usecase.PaymentOutput {
	return &usecase.PaymentOutput{
		Reference:        txn.Reference,
		GatewayReference: txn.GatewayReference,
		CheckoutURL:      txn.CheckoutURL,
		Amount:           txn.Amount,
		Currency:         txn.Currency,
		Status:           txn.Status,
	}
}

func (srv *paymentService) Confirm(ctx context.Context, userID, orderID uuid.UUID, reference string) (*entity.Order, error) {
	order, err := findOwnedOrder(ctx, srv.orderRepo, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Transaction == nil || order.Transaction.Reference != strings.TrimSpace(reference) {
		return nil, domainerrors.ErrTransactionNotFound
	}

	if err := srv.settle(ctx, order.Transaction); err != nil {
		return nil, err
	}

	return srv.orderRepo.FindByID(ctx, orderID)
}

func (srv *paymentService) ConfirmByReference(ctx context.Context, reference string) error {
	txn, err := srv.txnRepo.FindByReference(ctx, reference)
	if err != nil {
		return err
	}

	return srv.settle(ctx, txn)
}

// settle verifies txn with the gateway and marks it and its order paid.
// A settled transaction is left as is.
func (srv *paymentService) settle(ctx context.Context, txn *entity.Transaction) error {
	if txn.IsSettled() {
		return nil
	}

	verification, err := srv.gateway.Verify(ctx, txn.Reference)
	if err != nil {
		return err
	}
	if !verification.Paid {
		return domainerrors.ErrPaymentNotVerified.WithDetails(verification.Status)
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		txnRepo := repoFactory.TransactionRepo()
		current, err := txnRepo.FindByID(ctx, txn.ID)
		if err != nil {
			return err
		}
		if current.IsSettled() {
			return nil
		}

		now := srv.now()
		current.Status = entity.TransactionStatusPaid
		current.PaidAt = &now
		if err := txnRepo.Update(ctx, current); err != nil {
			return err
		}

		orderRepo := repoFactory.OrderRepo()
		if err := orderRepo.UpdatePaymentStatus(ctx, current.OrderID, entity.PaymentStatusPaid); err != nil {
			return err
		}

		order, err := orderRepo.FindByID(ctx, current.OrderID)
		if err != nil {
			return err
		}
		if order.Status == entity.OrderStatusPending {
			return applyTransition(ctx, repoFactory, nil, order, entity.OrderStatusProcessing, "Payment received")
		}

		return nil
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Payment confirmed", slog.String("reference", txn.Reference))

	return nil
}

func (srv *paymentService) Status(ctx context.Context, reference string) (*usecase.PaymentStatusOutput, error) {
	txn, err := srv.txnRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	out := &usecase.PaymentStatusOutput{
		Reference: txn.Reference,
		Status:    txn.Status,
		Paid:      txn.IsSettled(),
	}

	verification, err := srv.gateway.Verify(ctx, txn.Reference)
	if err != nil {
		srv.log(ctx).Warn("Gateway status lookup failed", slog.String("reference", reference), slog.Any("error", err))
		out.GatewayStatus = "unknown"

		return out, nil
	}
	out.GatewayStatus = verification.Status

	return out, nil
}

// HandleWebhook verifies a callback and settles whatever its reference points at:
// an order transaction, a ticket order or a donation.
func (srv *paymentService) HandleWebhook(ctx context.Context, input *usecase.WebhookInput) error {
	logger := srv.log(ctx)

	event, err := srv.verifier.Verify(input.Provider, input.Signature, input.Body)
	if err != nil {
		logger.Warn("Webhook rejected", slog.String("provider", input.Provider), slog.Any("error", err))

		return err
	}

	logger.Info("Webhook received",
		slog.String("provider", event.Provider),
		slog.String("type", event.Type),
		slog.String("reference", event.Reference),
		slog.Bool("success", event.Success),
	)
	if !event.Success || event.Reference == "" {
		return nil
	}

	// processing errors are logged only; the provider gets its acknowledgement
	if err := srv.route(ctx, event.Reference); err != nil {
		logger.Error("Webhook processing failed", slog.String("reference", event.Reference), slog.Any("error", err))
	}

	return nil
}

func (srv *paymentService) route(ctx context.Context, reference string) error {
	if strings.HasPrefix(reference, donationPrefix+"-") {
		_, err := srv.donations.Complete(ctx, reference)

		return err
	}
	if strings.HasPrefix(reference, ticketOrderPrefix+"-") {
		_, err := srv.events.ConfirmPayment(ctx, nil, &usecase.ConfirmTicketInput{Reference: reference})

		return err
	}

	// ticket orders also carry TXN- payment references
	err := srv.ConfirmByReference(ctx, reference)
	if errors.Is(err, domainerrors.ErrTransactionNotFound) {
		_, err = srv.events.ConfirmPayment(ctx, nil, &usecase.ConfirmTicketInput{Reference: reference})
	}

	return err
}
