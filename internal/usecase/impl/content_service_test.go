package impl

import (
	"context"
	"strings"
	"testing"

	"ministry/internal/domain/constants"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentParams(f *fixture) ContentServiceParams {
	return ContentServiceParams{
		NewsRepo:       postgres.NewNewsRepository(f.db),
		BlogRepo:       postgres.NewBlogRepository(f.db),
		MusicRepo:      postgres.NewMusicRepository(f.db),
		SliderRepo:     postgres.NewSliderRepository(f.db),
		AboutUsRepo:    postgres.NewAboutUsRepository(f.db),
		Storage:        f.storage,
		ImageProcessor: passthroughImages{},
		Config:         f.cfg,
		Logger:         f.logger,
	}
}

func TestNewsService_PublishedVisibility(t *testing.T) {
	f := newFixture(t)
	srv := NewNewsService(contentParams(f))
	ctx := context.Background()

	_, err := srv.Create(ctx, &usecase.ArticleInput{Title: "  "})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)

	draft, err := srv.Create(ctx, &usecase.ArticleInput{Title: "Easter Program", Body: "Details soon"})
	require.NoError(t, err)
	assert.Equal(t, "easter-program", draft.Slug)
	assert.Nil(t, draft.PublishedAt)

	_, err = srv.Get(ctx, draft.ID, true)
	assert.ErrorIs(t, err, domainerrors.ErrNewsNotFound)
	_, err = srv.GetBySlug(ctx, "easter-program", true)
	assert.ErrorIs(t, err, domainerrors.ErrNewsNotFound)

	got, err := srv.Get(ctx, draft.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Easter Program", got.Title)

	published, err := srv.Update(ctx, draft.ID, &usecase.ArticleInput{Title: "Easter Program", Body: "Sunday 9am", IsPublished: true})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstPublished := *published.PublishedAt

	// later edits keep the first publish time
	edited, err := srv.Update(ctx, draft.ID, &usecase.ArticleInput{Title: "Easter Program", Body: "Sunday 10am", IsPublished: true})
	require.NoError(t, err)
	assert.True(t, firstPublished.Equal(*edited.PublishedAt))

	bySlug, err := srv.GetBySlug(ctx, "easter-program", true)
	require.NoError(t, err)
	assert.Equal(t, "Sunday 10am", bySlug.Body)
}

func TestBlogService_ImageLifecycle(t *testing.T) {
	f := newFixture(t)
	srv := NewBlogService(contentParams(f))
	ctx := context.Background()

	post, err := srv.Create(ctx, &usecase.ArticleInput{Title: "Grace", Body: "text", IsPublished: true})
	require.NoError(t, err)

	first, err := srv.UploadImage(ctx, post.ID, testUpload("a.png", "one"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.Image, constants.StorageBlogs+"/"), first.Image)
	firstKey := first.Image

	second, err := srv.UploadImage(ctx, post.ID, testUpload("b.png", "two"))
	require.NoError(t, err)
	assert.False(t, f.storage.has(firstKey))
	assert.True(t, f.storage.has(second.Image))

	require.NoError(t, srv.Delete(ctx, post.ID))
	assert.Zero(t, f.storage.count())
	_, err = srv.Get(ctx, post.ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrBlogNotFound)
}

func TestSliderService_InactiveHidden(t *testing.T) {
	f := newFixture(t)
	srv := NewSliderService(contentParams(f))
	ctx := context.Background()

	slide, err := srv.Create(ctx, &usecase.SliderInput{Title: "Welcome", LinkURL: " /about ", IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, "/about", slide.LinkURL)

	_, err = srv.Get(ctx, slide.ID, true)
	assert.ErrorIs(t, err, domainerrors.ErrSliderNotFound)
}

func TestMusicService_UploadAudio(t *testing.T) {
	f := newFixture(t)
	srv := NewMusicService(contentParams(f))
	ctx := context.Background()

	_, err := srv.Create(ctx, &usecase.MusicInput{Title: "Hymn", DurationSeconds: -1})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)

	track, err := srv.Create(ctx, &usecase.MusicInput{Title: "Amazing Grace", Artist: " Choir ", DurationSeconds: 240, IsPublished: true})
	require.NoError(t, err)
	assert.Equal(t, "Choir", track.Artist)

	_, err = srv.UploadAudio(ctx, track.ID, testUpload("grace.exe", "bin"))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidFileType)

	first, err := srv.UploadAudio(ctx, track.ID, testUpload("grace.MP3", "audio"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(first.AudioPath, ".mp3"), first.AudioPath)
	assert.True(t, strings.HasPrefix(first.AudioPath, constants.StorageMusicAudio+"/"))
	firstKey := first.AudioPath

	second, err := srv.UploadAudio(ctx, track.ID, testUpload("grace.ogg", "audio2"))
	require.NoError(t, err)
	assert.False(t, f.storage.has(firstKey))

	_, err = srv.UploadImage(ctx, track.ID, testUpload("cover.jpg", "cover"))
	require.NoError(t, err)
	assert.Equal(t, 2, f.storage.count())

	require.NoError(t, srv.Delete(ctx, track.ID))
	assert.False(t, f.storage.has(second.AudioPath))
	assert.Zero(t, f.storage.count())
}

func TestAboutUsService_SaveKeepsSingleRecord(t *testing.T) {
	f := newFixture(t)
	srv := NewAboutUsService(contentParams(f))
	ctx := context.Background()

	_, err := srv.Get(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrAboutUsNotFound)

	_, err = srv.Save(ctx, &usecase.AboutUsInput{})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)

	first, err := srv.Save(ctx, &usecase.AboutUsInput{Title: "Who we are", Mission: "Serve"})
	require.NoError(t, err)

	withImage, err := srv.UploadImage(ctx, testUpload("team.jpg", "img"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, withImage.ID)

	second, err := srv.Save(ctx, &usecase.AboutUsInput{Title: "Our story", Vision: "Grow"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := srv.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Our story", got.Title)
	assert.Equal(t, "Grow", got.Vision)
	assert.Equal(t, withImage.Image, got.Image)
}
