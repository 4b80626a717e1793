package postgres

import (
	"context"
	"testing"
	"time"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsRepository_PublishedSearch(t *testing.T) {
	repo := NewNewsRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	published := &entity.News{Title: "Harvest Thanksgiving", Slug: "harvest", Body: "...", IsPublished: true, PublishedAt: &now}
	draft := &entity.News{Title: "Harvest Draft", Slug: "harvest-draft", Body: "..."}
	other := &entity.News{Title: "Choir Practice", Slug: "choir", Body: "...", IsPublished: true, PublishedAt: &now}
	for _, item := range []*entity.News{published, draft, other} {
		require.NoError(t, repo.Create(ctx, item))
		require.NotEqual(t, uuid.Nil, item.ID)
		require.False(t, item.CreatedAt.IsZero())
	}

	page, err := repo.List(ctx, repository.ContentFilter{Search: "HARVEST", PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, published.ID, page.Items[0].ID)

	all, err := repo.List(ctx, repository.ContentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	found, err := repo.FindBySlug(ctx, "choir")
	require.NoError(t, err)
	assert.Equal(t, other.ID, found.ID)

	dup := &entity.News{Title: "Again", Slug: "choir", Body: "..."}
	assert.ErrorIs(t, repo.Create(ctx, dup), domainerrors.ErrSlugAlreadyExists)
}

func TestNewsRepository_UpdateAndDelete(t *testing.T) {
	repo := NewNewsRepository(testutil.NewDB(t))
	ctx := context.Background()

	item := &entity.News{Title: "Old", Slug: "old", Body: "..."}
	require.NoError(t, repo.Create(ctx, item))

	item.Title = "New"
	item.IsPublished = true
	require.NoError(t, repo.Update(ctx, item))

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", found.Title)
	assert.True(t, found.IsPublished)

	require.NoError(t, repo.Delete(ctx, item.ID))
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), domainerrors.ErrNewsNotFound)
	_, err = repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNewsNotFound)
}

func TestSliderRepository_SortOrder(t *testing.T) {
	repo := NewSliderRepository(testutil.NewDB(t))
	ctx := context.Background()

	second := &entity.HomeSlider{Title: "Second", SortOrder: 2, IsActive: true}
	first := &entity.HomeSlider{Title: "First", SortOrder: 1, IsActive: true}
	hidden := &entity.HomeSlider{Title: "Hidden", SortOrder: 0}
	for _, s := range []*entity.HomeSlider{second, first, hidden} {
		require.NoError(t, repo.Create(ctx, s))
	}

	page, err := repo.List(ctx, repository.ContentFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "First", page.Items[0].Title)
	assert.Equal(t, "Second", page.Items[1].Title)
}

func TestAboutUsRepository_SaveKeepsOneRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAboutUsRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrAboutUsNotFound)

	require.NoError(t, repo.Save(ctx, &entity.AboutUs{Title: "Who we are", Mission: "Serve"}))
	require.NoError(t, repo.Save(ctx, &entity.AboutUs{Title: "Our story", Vision: "Grow"}))

	about, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Our story", about.Title)
	assert.Equal(t, "Grow", about.Vision)

	var count int64
	require.NoError(t, db.Table("about_us").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserMessageRepository_UnreadFilter(t *testing.T) {
	repo := NewUserMessageRepository(testutil.NewDB(t))
	ctx := context.Background()

	userID := uuid.New()
	answered := &entity.UserMessage{UserID: userID, Subject: "Prayer", Body: "Please pray"}
	open := &entity.UserMessage{UserID: userID, Subject: "Visit", Body: "When is service?"}
	require.NoError(t, repo.Create(ctx, answered))
	require.NoError(t, repo.Create(ctx, open))

	now := time.Now().UTC()
	answered.Reply = "We will"
	answered.RepliedAt = &now
	require.NoError(t, repo.Update(ctx, answered))

	page, err := repo.List(ctx, repository.MessageFilter{UserID: &userID, Unread: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, open.ID, page.Items[0].ID)
}
