package impl

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"ministry/config"
	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const otpCooldownPrefix = "otp:"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	cooldown         service.CooldownStore
	notifier         usecase.NotificationUsecase
	authCfg          config.AuthConfig
	logger           *slog.Logger
	now              func() time.Time
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Cooldown         service.CooldownStore
	Notifier         usecase.NotificationUsecase
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	authCfg := config.AuthConfig{OTPTTL: 10 * time.Minute, OTPLength: 6, OTPResendCooldown: time.Minute}
	if params.Config != nil && params.Config.Auth != nil {
		authCfg = *params.Config.Auth
	}

	return &authService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		cooldown:         params.Cooldown,
		notifier:         params.Notifier,
		authCfg:          authCfg,
		logger:           params.Logger,
		now:              time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the member registration process.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	otp := newOTP(srv.authCfg.OTPLength)
	expiresAt := srv.now().Add(srv.authCfg.OTPTTL)
	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		PasswordHash: hash,
		CountryID:    input.CountryID,
		Status:       entity.UserStatusPending,
		OTPHash:      hashSecret(otp),
		OTPExpiresAt: &expiresAt,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		role, err := repoFactory.RoleRepo().FindRoleBySlug(ctx, constants.RoleMember)
		if err != nil {
			return errors.Wrap(err, "failed to find member role")
		}
		user.Roles = []*entity.Role{role}

		return repoFactory.UserRepo().Create(ctx, user)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", user.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.sendOTP(ctx, user, otp, input.OTPChannel)
	srv.log(ctx).Debug("Registration completed", slog.Any("userID", user.ID))

	return user, nil
}

func (srv *authService) VerifyOTP(ctx context.Context, input *usecase.VerifyOTPInput) (*entity.User, error) {
	user, err := srv.findByIdentifier(ctx, input.Identifier)
	if errors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, domainerrors.ErrOTPInvalid
	}
	if err != nil {
		return nil, err
	}
	if user.Status == entity.UserStatusActive {
		return nil, domainerrors.ErrAccountAlreadyVerified
	}
	if !srv.otpMatches(user, input.OTP) {
		return nil, domainerrors.ErrOTPInvalid
	}

	now := srv.now().UTC()
	user.Status = entity.UserStatusActive
	user.VerifiedAt = &now
	user.OTPHash = ""
	user.OTPExpiresAt = nil
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to activate user")
	}

	srv.log(ctx).Info("Account verified", slog.Any("userID", user.ID))

	return user, nil
}

func (srv *authService) otpMatches(user *entity.User, otp string) bool {
	if user.OTPHash == "" || user.OTPExpiresAt == nil || !srv.now().Before(*user.OTPExpiresAt) {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(user.OTPHash), []byte(hashSecret(strings.TrimSpace(otp)))) == 1
}

func (srv *authService) ResendOTP(ctx context.Context, input *usecase.ResendOTPInput) error {
	user, err := srv.findByIdentifier(ctx, input.Identifier)
	if errors.Is(err, domainerrors.ErrUserNotFound) {
		srv.log(ctx).Debug("OTP resend for unknown identifier")

		return nil
	}
	if err != nil {
		return err
	}
	if user.Status == entity.UserStatusActive {
		return domainerrors.ErrAccountAlreadyVerified
	}

	acquired, err := srv.cooldown.Acquire(ctx, otpCooldownPrefix+user.ID.String(), srv.authCfg.OTPResendCooldown)
	if err != nil {
		return errors.Wrap(err, "failed to check otp cooldown")
	}
	if !acquired {
		return domainerrors.ErrOTPCooldown
	}

	otp := newOTP(srv.authCfg.OTPLength)
	expiresAt := srv.now().Add(srv.authCfg.OTPTTL)
	user.OTPHash = hashSecret(otp)
	user.OTPExpiresAt = &expiresAt
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store otp")
	}

	channel := input.Channel
	if channel == "" && !strings.Contains(input.Identifier, "@") {
		channel = entity.OTPChannelSMS
	}
	srv.sendOTP(ctx, user, otp, channel)

	return nil
}

func (srv *authService) sendOTP(ctx context.Context, user *entity.User, otp string, channel entity.OTPChannel) {
	msg := &service.NotificationMessage{
		Type:    service.NotificationOTP,
		Channel: service.ChannelEmail,
		UserID:  user.ID.String(),
		Email:   user.Email,
		OTP:     otp,
	}
	if channel == entity.OTPChannelSMS && user.PhoneNumber != "" {
		msg.Channel = service.ChannelSMS
		msg.Email = ""
		msg.PhoneNumber = user.PhoneNumber
	}

	srv.notifier.Notify(ctx, msg)
}

// Login handles the user login process.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.findByIdentifier(ctx, input.Login)
	if errors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login rejected", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err := checkLoginAllowed(user); err != nil {
		return nil, err
	}

	var out *usecase.AuthOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		out, err = srv.issueTokens(ctx, repoFactory.RefreshTokenRepo(), user)
		if err != nil {
			return err
		}

		now := srv.now().UTC()
		user.LastLoginAt = &now

		return repoFactory.UserRepo().Update(ctx, user)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute login transaction")
	}

	srv.log(ctx).Info("User logged in", slog.Any("userID", user.ID))

	return out, nil
}

func checkLoginAllowed(user *entity.User) error {
	switch user.Status {
	case entity.UserStatusActive:
		return nil
	case entity.UserStatusSuspended:
		return domainerrors.ErrAccountSuspended
	default:
		return domainerrors.ErrAccountNotVerified
	}
}

// Refresh validates the refresh token and rotates it.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	hash := hashSecret(refreshToken)
	stored, err := srv.refreshTokenRepo.FindByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if stored.UserID != claims.UserID || stored.IsExpired(srv.now()) {
		_ = srv.refreshTokenRepo.DeleteByHash(ctx, hash)

		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	user, err := srv.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if err := checkLoginAllowed(user); err != nil {
		return nil, err
	}

	var out *usecase.AuthOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		tokenRepo := repoFactory.RefreshTokenRepo()
		if err := tokenRepo.DeleteByHash(ctx, hash); err != nil {
			return err
		}
		out, err = srv.issueTokens(ctx, tokenRepo, user)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to rotate refresh token")
	}

	return out, nil
}

// issueTokens signs a token pair and stores the refresh token hash.
func (srv *authService) issueTokens(ctx context.Context, tokenRepo repository.RefreshTokenRepository, user *entity.User) (*usecase.AuthOutput, error) {
	pair, err := srv.tokenService.GenerateTokens(user.ID, user.RoleNames(), user.PermissionNames())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := tokenRepo.Create(ctx, &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashSecret(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	return &usecase.AuthOutput{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        "Bearer",
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             user,
	}, nil
}

func (srv *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	return srv.refreshTokenRepo.DeleteByHash(ctx, hashSecret(refreshToken))
}

func (srv *authService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return srv.userRepo.FindByID(ctx, userID)
}

// ChangePassword verifies the current password and signs out every session.
func (srv *authService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
		return domainerrors.NewFieldError("current_password", "The current password is incorrect.")
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}
	user.PasswordHash = hash

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.UserRepo().Update(ctx, user); err != nil {
			return err
		}

		return repoFactory.RefreshTokenRepo().DeleteByUser(ctx, user.ID)
	})
}

func (srv *authService) findByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return srv.userRepo.FindByEmail(ctx, normalizeEmail(identifier))
	}

	return srv.userRepo.FindByPhone(ctx, identifier)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
