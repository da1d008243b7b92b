package services

import (
	"context"
	"testing"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
	"campus-sublets/internal/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageServiceFlow(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewMessageService(repo, validators.NewMessageValidator())
	ctx := context.Background()

	first, err := svc.Send(ctx, "alice", &models.SendMessageRequest{ReceiverID: "bob", Content: "  Is it still free? "})
	require.NoError(t, err)
	assert.Equal(t, "Is it still free?", first.Content)
	assert.False(t, first.Read)

	_, err = svc.Send(ctx, "bob", &models.SendMessageRequest{ReceiverID: "alice", Content: "Yes"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, "carol", &models.SendMessageRequest{ReceiverID: "bob", Content: "Hi"})
	require.NoError(t, err)

	inbox, err := svc.Inbox(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, inbox, 3)
	assert.Equal(t, "Hi", inbox[0].Content)

	conv, err := svc.Conversation(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "Is it still free?", conv[0].Content)
	assert.Equal(t, "Yes", conv[1].Content)

	_, err = svc.MarkRead(ctx, "alice", first.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrOwnershipViolation)

	read, err := svc.MarkRead(ctx, "bob", first.ID.Hex())
	require.NoError(t, err)
	assert.True(t, read.Read)
}

func TestMessageServiceRejects(t *testing.T) {
	svc := NewMessageService(&fakeMessageRepo{}, validators.NewMessageValidator())
	ctx := context.Background()

	_, err := svc.Send(ctx, "", &models.SendMessageRequest{ReceiverID: "bob", Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Send(ctx, "alice", &models.SendMessageRequest{ReceiverID: "alice", Content: "x"})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Conversation(ctx, "alice", " ")
	assert.ErrorAs(t, err, &verr)

	_, err = svc.MarkRead(ctx, "bob", "ffffffffffffffffffffffff")
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
}
