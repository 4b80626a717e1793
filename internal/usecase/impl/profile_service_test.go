package impl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ministry/internal/domain/constants"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	mockService "ministry/internal/mocks/service"
	"ministry/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProfileService(f *fixture) usecase.ProfileUsecase {
	return NewProfileService(ProfileServiceParams{
		UserRepo:       f.users,
		Storage:        f.storage,
		ImageProcessor: passthroughImages{},
		Config:         f.cfg,
		Logger:         f.logger,
	})
}

func TestProfileService_UpdateCreatesProfile(t *testing.T) {
	f := newFixture(t)
	srv := newTestProfileService(f)
	ctx := context.Background()

	user := f.createUser(t, "profile@example.com")

	got, err := srv.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Profile)

	name := " Grace Obi "
	bio := "Choir lead"
	city := "Enugu"
	born := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	updated, err := srv.Update(ctx, user.ID, &usecase.UpdateProfileInput{Name: &name, Bio: &bio, City: &city, DateOfBirth: &born})
	require.NoError(t, err)
	assert.Equal(t, "Grace Obi", updated.Name)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, "Choir lead", updated.Profile.Bio)
	assert.Equal(t, "Enugu", updated.Profile.City)

	// unset fields are left alone
	newCity := "Abuja"
	updated, err = srv.Update(ctx, user.ID, &usecase.UpdateProfileInput{City: &newCity})
	require.NoError(t, err)
	assert.Equal(t, "Grace Obi", updated.Name)
	assert.Equal(t, "Choir lead", updated.Profile.Bio)
	assert.Equal(t, "Abuja", updated.Profile.City)
}

func TestProfileService_Picture(t *testing.T) {
	f := newFixture(t)
	srv := newTestProfileService(f)
	ctx := context.Background()

	user := f.createUser(t, "picture@example.com")

	first, err := srv.UploadPicture(ctx, user.ID, bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	require.NotNil(t, first.Profile)
	firstKey := first.Profile.ProfilePicture
	assert.True(t, f.storage.has(firstKey))
	assert.Equal(t, "https://cdn.test/"+firstKey, first.Profile.ProfilePictureURL)

	second, err := srv.UploadPicture(ctx, user.ID, bytes.NewReader([]byte("two")))
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, second.Profile.ProfilePicture)
	assert.False(t, f.storage.has(firstKey))
	assert.Equal(t, 1, f.storage.count())

	cleared, err := srv.DeletePicture(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.Profile.ProfilePicture)
	assert.Empty(t, cleared.Profile.ProfilePictureURL)
	assert.Zero(t, f.storage.count())

	// deleting again is a no-op
	_, err = srv.DeletePicture(ctx, user.ID)
	require.NoError(t, err)
}

func TestProfileService_PictureFailuresKeepProfile(t *testing.T) {
	f := newFixture(t)
	storage := mockService.NewMockFileStorage(t)
	images := mockService.NewMockImageProcessor(t)
	srv := NewProfileService(ProfileServiceParams{
		UserRepo:       f.users,
		Storage:        storage,
		ImageProcessor: images,
		Config:         f.cfg,
		Logger:         f.logger,
	})
	ctx := context.Background()

	user := f.createUser(t, "picture-fail@example.com")
	storage.EXPECT().URL("").Return("").Maybe()
	defaults := service.ImageOptions{MaxWidth: 1200, MaxHeight: 1200, Quality: 85}

	images.EXPECT().
		Process(mock.Anything, defaults).
		Return(nil, domainerrors.ErrInvalidImage).
		Once()
	_, err := srv.UploadPicture(ctx, user.ID, bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidImage)

	images.EXPECT().
		Process(mock.Anything, defaults).
		Return([]byte("jpeg"), nil).
		Once()
	storage.EXPECT().
		Put(mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, constants.StorageProfilePictures+"/"+user.ID.String()+"/")
		}), mock.Anything, "image/jpeg").
		Return(errors.New("disk full")).
		Once()
	_, err = srv.UploadPicture(ctx, user.ID, bytes.NewReader([]byte("png")))
	assert.ErrorIs(t, err, domainerrors.ErrStorageFailed)

	got, err := srv.Get(ctx, user.ID)
	require.NoError(t, err)
	if got.Profile != nil {
		assert.Empty(t, got.Profile.ProfilePicture)
	}
}
