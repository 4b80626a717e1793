package impl

import (
	"context"
	"testing"
	"time"

	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/infra/auth"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T, f *fixture) *authService {
	t.Helper()

	tokens, err := auth.NewJWTService(f.cfg)
	require.NoError(t, err)

	return NewAuthService(AuthServiceParams{
		TxManager:        f.tx,
		UserRepo:         f.users,
		RefreshTokenRepo: postgres.NewRefreshTokenRepository(f.db),
		Hasher:           plainHasher{},
		TokenService:     tokens,
		Cooldown:         &memCooldown{},
		Notifier:         f.notifier,
		Config:           f.cfg,
		Logger:           f.logger,
	}).(*authService)
}

func registerInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Name:        " Grace Okafor ",
		Email:       "Grace@Example.com",
		PhoneNumber: "+2348011111111",
		Password:    "secret123",
	}
}

func lastOTP(t *testing.T, f *fixture) *service.NotificationMessage {
	t.Helper()

	msgs := f.notifier.ofType(service.NotificationOTP)
	require.NotEmpty(t, msgs)

	return msgs[len(msgs)-1]
}

func TestAuthService_RegisterAndVerify(t *testing.T) {
	f := newFixture(t)
	srv := newTestAuthService(t, f)
	ctx := context.Background()

	user, err := srv.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", user.Email)
	assert.Equal(t, "Grace Okafor", user.Name)
	assert.Equal(t, entity.UserStatusPending, user.Status)
	assert.True(t, user.HasRole(constants.RoleMember))

	otp := lastOTP(t, f)
	assert.Equal(t, service.ChannelEmail, otp.Channel)
	assert.Equal(t, "grace@example.com", otp.Email)
	assert.Len(t, otp.OTP, 6)

	stored, err := f.users.FindByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, otp.OTP, stored.OTPHash)

	_, err = srv.VerifyOTP(ctx, &usecase.VerifyOTPInput{Identifier: "grace@example.com", OTP: "000000x"})
	assert.ErrorIs(t, err, domainerrors.ErrOTPInvalid)

	verified, err := srv.VerifyOTP(ctx, &usecase.VerifyOTPInput{Identifier: "GRACE@example.com", OTP: otp.OTP})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusActive, verified.Status)
	assert.NotNil(t, verified.VerifiedAt)

	_, err = srv.VerifyOTP(ctx, &usecase.VerifyOTPInput{Identifier: "grace@example.com", OTP: otp.OTP})
	assert.ErrorIs(t, err, domainerrors.ErrAccountAlreadyVerified)
}

func TestAuthService_RegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	srv := newTestAuthService(t, f)
	ctx := context.Background()

	_, err := srv.Register(ctx, registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.PhoneNumber = "+2348022222222"
	_, err = srv.Register(ctx, input)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_VerifyOTPExpires(t *testing.T) {
	f := newFixture(t)
	srv := newTestAuthService(t, f)
	ctx := context.Background()

	_, err := srv.Register(ctx, registerInput())
	require.NoError(t, err)
	otp := lastOTP(t, f)

	srv.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	_, err = srv.VerifyOTP(ctx, &usecase.VerifyOTPInput{Identifier: "grace@example.com", OTP: otp.OTP})
	assert.ErrorIs(t, err, domainerrors.ErrOTPInvalid)

	_, err = srv.VerifyOTP(ctx, &usecase.VerifyOTPInput{Identifier: "nobody@example.com", OTP: otp.OTP})
	assert.ErrorIs(t, err, domainerrors.ErrOTPInvalid)
}

func TestAuthService_ResendOTP(t *testing.T) {
	f := newFixture(t)
	srv := newTestAuthService(t, f)
	ctx := context.Background()

	_, err := srv.Register(ctx, registerInput())
	require.NoError(t, err)
	first := lastOTP(t, f)

	require.NoError(t, srv.ResendOTP(ctx, &usecase.ResendOTPInput{Identifier: "+2348011111111"}))
	resent := lastOTP(t, f)
	assert.Equal(t, service.ChannelSMS, resent.Channel)
	assert.Equal(t, "+2348011111111", resent.PhoneNumber)
	assert.Empty(t, resent.Email)

	err = srv.ResendOTP(ctx, &usecase.ResendOTPInput{Identifier: "grace@example.com"})
	assert.ErrorIs(t, err, domainerrors.ErrOTPCooldown)

	// the first code was replaced
	_, err = srv.VerifyOTP(ctx, &usecase.VerifyOTPInput{Identifier: "grace@example.com", OTP: first.OTP})
	if first.OTP != resent.OTP {
		assert.ErrorIs(t, err, domainerrors.ErrOTPInvalid)
	}

	assert.NoError(t, srv.ResendOTP(ctx, &usecase.ResendOTPInput{Identifier: "unknown@example.com"}))
}

func TestAuthService_LoginRefreshLogout(t *testing.T) {
	f := newFixture(t)
	srv := newTestAuthService(t, f)
	ctx := context.Background()

	_, err := srv.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = srv.Login(ctx, &usecase.LoginInput{Login: "grace@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotVerified)

	_, err = srv.VerifyOTP(ctx, &usecase.VerifyOTPInput{Identifier: "grace@example.com", OTP: lastOTP(t, f).OTP})
	require.NoError(t, err)

	_, err = srv.Login(ctx, &usecase.LoginInput{Login: "grace@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = srv.Login(ctx, &usecase.LoginInput{Login: "missing@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	out, err := srv.Login(ctx, &usecase.LoginInput{Login: "+2348011111111", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotNil(t, out.User.LastLoginAt)

	rotated, err := srv.Refresh(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, out.RefreshToken, rotated.RefreshToken)

	_, err = srv.Refresh(ctx, out.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	require.NoError(t, srv.Logout(ctx, rotated.RefreshToken))
	_, err = srv.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	_, err = srv.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_LoginRejectsSuspended(t *testing.T) {
	f := newFixture(t)
	srv := newTestAuthService(t, f)
	ctx := context.Background()

	user := f.createUser(t, "suspended@example.com")
	user.Status = entity.UserStatusSuspended
	require.NoError(t, f.users.Update(ctx, user))

	_, err := srv.Login(ctx, &usecase.LoginInput{Login: "suspended@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountSuspended)
}

func TestAuthService_ChangePasswordEndsSessions(t *testing.T) {
	f := newFixture(t)
	srv := newTestAuthService(t, f)
	ctx := context.Background()

	user := f.createUser(t, "member@example.com")
	out, err := srv.Login(ctx, &usecase.LoginInput{Login: "member@example.com", Password: "secret123"})
	require.NoError(t, err)

	err = srv.ChangePassword(ctx, user.ID, &usecase.ChangePasswordInput{CurrentPassword: "nope", NewPassword: "newsecret1"})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, srv.ChangePassword(ctx, user.ID, &usecase.ChangePasswordInput{CurrentPassword: "secret123", NewPassword: "newsecret1"}))

	_, err = srv.Refresh(ctx, out.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	_, err = srv.Login(ctx, &usecase.LoginInput{Login: "member@example.com", Password: "newsecret1"})
	assert.NoError(t, err)
}
