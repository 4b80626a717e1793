package impl

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"ministry/config"
	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type profileService struct {
	userRepo repository.UserRepository
	storage  service.FileStorage
	images   imageStore
	logger   *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	UserRepo       repository.UserRepository
	Storage        service.FileStorage
	ImageProcessor service.ImageProcessor
	Config         *config.Config
	Logger         *slog.Logger
}

// NewProfileService creates a new profile service instance
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		userRepo: params.UserRepo,
		storage:  params.Storage,
		images:   newImageStore(params.Storage, params.ImageProcessor, params.Config),
		logger:   params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *profileService) Get(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return srv.withPictureURL(user), nil
}

// Update applies the set fields and creates the profile row when missing.
func (srv *profileService) Update(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.CountryID != nil {
		user.CountryID = input.CountryID
	}
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	profile := profileOf(user)
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.DateOfBirth != nil {
		profile.DateOfBirth = input.DateOfBirth
	}
	if input.Gender != nil {
		profile.Gender = *input.Gender
	}
	if input.City != nil {
		profile.City = *input.City
	}
	if err := srv.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	return srv.Get(ctx, userID)
}

func (srv *profileService) UploadPicture(ctx context.Context, userID uuid.UUID, file io.Reader) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := profileOf(user)
	key, err := srv.images.save(ctx, path.Join(constants.StorageProfilePictures, userID.String()), usecase.Upload{Body: file})
	if err != nil {
		return nil, err
	}

	old := profile.ProfilePicture
	profile.ProfilePicture = key
	if err := srv.userRepo.SaveProfile(ctx, profile); err != nil {
		srv.images.remove(ctx, key)

		return nil, errors.Wrap(err, "failed to save profile picture")
	}
	srv.images.remove(ctx, old)

	srv.log(ctx).Info("Profile picture updated", slog.Any("userID", userID))

	return srv.Get(ctx, userID)
}

func (srv *profileService) DeletePicture(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Profile == nil || user.Profile.ProfilePicture == "" {
		return srv.withPictureURL(user), nil
	}

	old := user.Profile.ProfilePicture
	user.Profile.ProfilePicture = ""
	if err := srv.userRepo.SaveProfile(ctx, user.Profile); err != nil {
		return nil, err
	}
	srv.images.remove(ctx, old)

	return srv.Get(ctx, userID)
}

func profileOf(user *entity.User) *entity.UserProfile {
	if user.Profile != nil {
		return user.Profile
	}

	return &entity.UserProfile{UserID: user.ID}
}

func (srv *profileService) withPictureURL(user *entity.User) *entity.User {
	if user.Profile != nil {
		user.Profile.ProfilePictureURL = srv.storage.URL(user.Profile.ProfilePicture)
	}

	return user
}
