package impl

import (
	"context"
	"testing"

	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/infra/persistence/postgres"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMessageService(f *fixture) usecase.MessageUsecase {
	return NewMessageService(MessageServiceParams{
		ContactRepo: postgres.NewContactMessageRepository(f.db),
		MessageRepo: postgres.NewUserMessageRepository(f.db),
		UserRepo:    f.users,
		Notifier:    f.notifier,
		Logger:      f.logger,
	})
}

func TestMessageService_SubmitContact(t *testing.T) {
	f := newFixture(t)
	srv := newTestMessageService(f)
	ctx := context.Background()

	_, err := srv.SubmitContact(ctx, &usecase.ContactInput{Email: "not-an-email"})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.FieldErrors(), 3)

	msg, err := srv.SubmitContact(ctx, &usecase.ContactInput{
		Name:    " Ngozi ",
		Email:   "Ngozi@Example.com",
		Subject: "Prayer request",
		Message: "Please pray for my family.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ngozi", msg.Name)
	assert.Equal(t, "ngozi@example.com", msg.Email)
	assert.False(t, msg.IsRead)

	read, err := srv.MarkContactRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)
	readAt := *read.ReadAt

	again, err := srv.MarkContactRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, readAt.Equal(*again.ReadAt))

	require.NoError(t, srv.DeleteContact(ctx, msg.ID))
	_, err = srv.MarkContactRead(ctx, msg.ID)
	assert.Error(t, err)
}

func TestMessageService_SendAndReply(t *testing.T) {
	f := newFixture(t)
	srv := newTestMessageService(f)
	ctx := context.Background()

	user := f.createUser(t, "asker@example.com")

	_, err := srv.Send(ctx, user.ID, &usecase.UserMessageInput{Subject: "Hi"})
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)

	msg, err := srv.Send(ctx, user.ID, &usecase.UserMessageInput{Subject: "Baptism", Body: "When is the next class?"})
	require.NoError(t, err)

	_, err = srv.Reply(ctx, uuid.New(), msg.ID, "   ")
	require.ErrorAs(t, err, &verr)

	pastor := uuid.New()
	replied, err := srv.Reply(ctx, pastor, msg.ID, " Next Saturday. ")
	require.NoError(t, err)
	assert.Equal(t, "Next Saturday.", replied.Reply)
	assert.Equal(t, &pastor, replied.RepliedBy)
	assert.NotNil(t, replied.RepliedAt)

	sent := f.notifier.ofType(service.NotificationMessageReply)
	require.Len(t, sent, 1)
	assert.Equal(t, "asker@example.com", sent[0].Email)
	assert.Equal(t, "Baptism", sent[0].Data["subject"])

	mine, err := srv.ListMine(ctx, user.ID, repository.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Total)

	others, err := srv.ListMine(ctx, uuid.New(), repository.Pagination{})
	require.NoError(t, err)
	assert.Zero(t, others.Total)
}
