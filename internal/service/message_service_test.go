package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devmarket/internal/model"
	"devmarket/internal/testutil"
)

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", model.RoleBuyer)

	_, err := f.messages.SendMessage(alice.ID, 999, "hi", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.messages.SendMessage(alice.ID, alice.ID, "hi", nil)
	assert.ErrorIs(t, err, ErrMessageSelf)
	_, err = f.messages.SendMessage(alice.ID, 999, "   \n\t", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendMessagePushesToReceiver(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", model.RoleBuyer)
	bob := testutil.CreateUser(t, f.db, "bob", model.RoleSeller)
	category := testutil.CreateCategory(t, f.db, "Templates")
	p := testutil.CreateProduct(t, f.db, bob, category, "Theme", 100, model.ProductAvailable)

	msg, err := f.messages.SendMessage(alice.ID, bob.ID, "  is this still available? ", &p.ID)
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.False(t, msg.CreatedAt.IsZero())
	assert.Equal(t, "is this still available?", msg.Message)
	assert.Equal(t, []string{"message.new"}, f.publisher.types(bob.ID))
	assert.Empty(t, f.publisher.types(alice.ID))
}

func TestFetchNewMessagesAfterSinceID(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", model.RoleBuyer)
	bob := testutil.CreateUser(t, f.db, "bob", model.RoleSeller)
	carol := testutil.CreateUser(t, f.db, "carol", model.RoleBuyer)

	first, err := f.messages.SendMessage(alice.ID, bob.ID, "one", nil)
	require.NoError(t, err)
	_, err = f.messages.SendMessage(bob.ID, alice.ID, "two", nil)
	require.NoError(t, err)
	_, err = f.messages.SendMessage(carol.ID, bob.ID, "unrelated", nil)
	require.NoError(t, err)
	_, err = f.messages.SendMessage(alice.ID, bob.ID, "three", nil)
	require.NoError(t, err)

	unread, err := f.messages.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	messages, err := f.messages.FetchNewMessages(bob.ID, alice.ID, first.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "two", messages[0].Message)
	assert.Equal(t, "three", messages[1].Message)
	for i, m := range messages {
		assert.Greater(t, m.ID, first.ID)
		if i > 0 {
			assert.Greater(t, m.ID, messages[i-1].ID)
		}
	}
	assert.True(t, messages[1].IsRead)

	// only "three" was addressed to bob in the fetched range
	unread, err = f.messages.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	messages, err = f.messages.FetchNewMessages(bob.ID, alice.ID, messages[1].ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestListConversations(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", model.RoleBuyer)
	bob := testutil.CreateUser(t, f.db, "bob", model.RoleSeller)
	carol := testutil.CreateUser(t, f.db, "carol", model.RoleBuyer)

	_, err := f.messages.SendMessage(alice.ID, bob.ID, "hello bob", nil)
	require.NoError(t, err)
	_, err = f.messages.SendMessage(bob.ID, alice.ID, "hi alice", nil)
	require.NoError(t, err)
	_, err = f.messages.SendMessage(carol.ID, bob.ID, "question", nil)
	require.NoError(t, err)

	convs, err := f.messages.ListConversations(bob.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, carol.ID, convs[0].PartnerID)
	assert.Equal(t, "carol", convs[0].PartnerUsername)
	assert.Equal(t, "question", convs[0].LastMessage)
	assert.Equal(t, int64(1), convs[0].UnreadCount)

	assert.Equal(t, alice.ID, convs[1].PartnerID)
	assert.Equal(t, "hi alice", convs[1].LastMessage)
	assert.Equal(t, int64(1), convs[1].UnreadCount)
}
