package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"ministry/config"
	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/testutil"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			OTPTTL:            10 * time.Minute,
			OTPLength:         6,
			OTPResendCooldown: time.Minute,
		},
		Shop: &config.ShopConfig{
			Currency:              "NGN",
			ShippingFlatFee:       decimal.NewFromInt(10),
			FreeShippingThreshold: decimal.NewFromInt(100),
			TaxRate:               decimal.RequireFromString("0.05"),
			LowStockThreshold:     3,
		},
		Tickets: &config.TicketsConfig{MaxPerOrder: 4},
	}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"

	return cfg
}

// fixture is a seeded SQLite database with the repositories the services run on.
type fixture struct {
	db       *gorm.DB
	cfg      *config.Config
	logger   *slog.Logger
	tx       repository.TransactionManager
	notifier *recordingNotifier
	gateway  *fakeGateway
	storage  *memStorage

	users     repository.UserRepository
	roles     repository.RoleRepository
	addresses repository.AddressRepository
	products  repository.ProductRepository
	variants  repository.VariantRepository
	orders    repository.OrderRepository
	txns      repository.TransactionRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	require.NoError(t, postgres.Seed(context.Background(), db))

	return &fixture{
		db:        db,
		cfg:       newTestConfig(),
		logger:    newDiscardLogger(),
		tx:        postgres.NewTransactionManager(db),
		notifier:  &recordingNotifier{},
		gateway:   &fakeGateway{paid: true},
		storage:   newMemStorage(),
		users:     postgres.NewUserRepository(db),
		roles:     postgres.NewRoleRepository(db),
		addresses: postgres.NewAddressRepository(db),
		products:  postgres.NewProductRepository(db),
		variants:  postgres.NewVariantRepository(db),
		orders:    postgres.NewOrderRepository(db),
		txns:      postgres.NewTransactionRepository(db),
	}
}

func (f *fixture) createUser(t *testing.T, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		Name:         "User " + email,
		Email:        email,
		PasswordHash: "hashed:secret123",
		Status:       entity.UserStatusActive,
	}
	require.NoError(t, f.users.Create(context.Background(), user))

	return user
}

func (f *fixture) createProduct(t *testing.T, slug string, price int64, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:     "Product " + slug,
		Slug:     slug,
		SKU:      "SKU-" + slug,
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		IsActive: true,
		Images:   []string{},
	}
	require.NoError(t, f.products.Create(context.Background(), product))

	return product
}

func (f *fixture) createAddress(t *testing.T, userID uuid.UUID) *entity.Address {
	t.Helper()

	address := &entity.Address{
		UserID:        userID,
		Type:          entity.AddressTypeShipping,
		RecipientName: "Ada",
		Phone:         "+2348000000000",
		Line1:         "1 Chapel Road",
		City:          "Lagos",
		IsDefault:     true,
	}
	require.NoError(t, f.addresses.Create(context.Background(), address))

	return address
}

func (f *fixture) productStock(t *testing.T, id uuid.UUID) int {
	t.Helper()

	product, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)

	return product.Stock
}

// recordingNotifier keeps every notification instead of publishing it.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []*service.NotificationMessage
}

func (n *recordingNotifier) Notify(_ context.Context, msg *service.NotificationMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) ofType(typ service.NotificationType) []*service.NotificationMessage {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []*service.NotificationMessage
	for _, msg := range n.msgs {
		if msg.Type == typ {
			out = append(out, msg)
		}
	}

	return out
}

type fakeGateway struct {
	paid      bool
	initiated []service.PaymentInitRequest
	refunds   []decimal.Decimal
}

func (g *fakeGateway) Initiate(_ context.Context, req service.PaymentInitRequest) (*service.PaymentInitResult, error) {
	g.initiated = append(g.initiated, req)

	return &service.PaymentInitResult{
		GatewayReference: "GW-" + req.Reference,
		CheckoutURL:      "https://pay.test/" + req.Reference,
	}, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (*service.PaymentVerification, error) {
	status := "abandoned"
	if g.paid {
		status = "success"
	}

	return &service.PaymentVerification{Reference: reference, Status: status, Paid: g.paid}, nil
}

func (g *fakeGateway) Refund(_ context.Context, reference string, amount decimal.Decimal) (*service.RefundResult, error) {
	g.refunds = append(g.refunds, amount)

	return &service.RefundResult{GatewayRefundID: "RF-" + reference, Status: "processed"}, nil
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (s *memStorage) Put(_ context.Context, key string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data

	return nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)

	return nil
}

func (s *memStorage) URL(key string) string {
	if key == "" {
		return ""
	}

	return "https://cdn.test/" + key
}

func (s *memStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]

	return ok
}

func (s *memStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.objects)
}

// passthroughImages returns the upload bytes unchanged.
type passthroughImages struct{}

func (passthroughImages) Process(r io.Reader, _ service.ImageOptions) ([]byte, error) {
	return io.ReadAll(r)
}

func (passthroughImages) Thumbnail(r io.Reader, _, _ int) ([]byte, error) {
	return io.ReadAll(r)
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// memCooldown grants each key once.
type memCooldown struct {
	mu   sync.Mutex
	held map[string]bool
}

func (c *memCooldown) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.held == nil {
		c.held = make(map[string]bool)
	}
	if c.held[key] {
		return false, nil
	}
	c.held[key] = true

	return true, nil
}

func testUpload(name, body string) usecase.Upload {
	return usecase.Upload{Filename: name, Body: bytes.NewReader([]byte(body))}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sunday Service", "sunday-service"},
		{"  Youth -- Camp 2026! ", "youth-camp-2026"},
		{"Ça va", "ça-va"},
		{"***", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), tt.in)
	}

	assert.Equal(t, "explicit-slug", slugOr("Explicit Slug", "Title"))
	assert.Equal(t, "the-title", slugOr("", "The Title"))
}

func TestNewReference(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	ref := newReference("ORD", now)
	require.True(t, strings.HasPrefix(ref, "ORD-20260309-"), ref)
	suffix := strings.TrimPrefix(ref, "ORD-20260309-")
	assert.Len(t, suffix, 6)
	for _, r := range suffix {
		assert.Contains(t, referenceAlphabet, string(r))
	}

	assert.NotEqual(t, newReference("ORD", now), newReference("ORD", now))
}

func TestNewOTP(t *testing.T) {
	otp := newOTP(6)
	assert.Len(t, otp, 6)
	for _, r := range otp {
		assert.True(t, r >= '0' && r <= '9')
	}
	assert.Equal(t, hashSecret(otp), hashSecret(otp))
	assert.Len(t, hashSecret(otp), 64)
}

func TestImageStoreUsesConfiguredBounds(t *testing.T) {
	cfg := newTestConfig()
	cfg.Image = &config.ImageConfig{MaxWidth: 640, JPEGQuality: 70}

	store := newImageStore(newMemStorage(), passthroughImages{}, cfg)
	assert.Equal(t, service.ImageOptions{MaxWidth: 640, MaxHeight: 1200, Quality: 70}, store.opts)
}
