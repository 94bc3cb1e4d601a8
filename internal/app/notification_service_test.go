package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/mocks"
)

func TestNewNotificationService_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() {
		NewNotificationService(NotificationServiceConfig{})
	})
}

func TestNotificationService_Inbox(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.create(t)
	f.create(t)

	count, err := f.inbox.UnreadCount(ctx, operatorID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, err := f.inbox.List(ctx, operatorID, false, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	err = f.inbox.MarkRead(ctx, consultantID, list[0].ID)
	assert.True(t, domain.IsNotFound(err), "someone else's notification must stay hidden")

	require.NoError(t, f.inbox.MarkRead(ctx, operatorID, list[0].ID))
	count, err = f.inbox.UnreadCount(ctx, operatorID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err := f.inbox.MarkAllRead(ctx, operatorID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	unread, err := f.inbox.List(ctx, operatorID, true, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// The other operator's inbox is untouched.
	count, err = f.inbox.UnreadCount(ctx, operator2ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNotificationService_LimitBounds(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: DefaultNotificationLimit},
		{name: "negative", limit: -3, want: DefaultNotificationLimit},
		{name: "within bounds", limit: 10, want: 10},
		{name: "capped", limit: 5000, want: MaxNotificationLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockNotificationStore(t)
			store.EXPECT().ListNotifications(mock.Anything, int64(1), false, tt.want).Return(nil, nil)

			svc := NewNotificationService(NotificationServiceConfig{Store: store, Logger: discardLogger()})
			_, err := svc.List(context.Background(), 1, false, tt.limit)

			require.NoError(t, err)
		})
	}
}

func TestNotificationService_StoreErrors(t *testing.T) {
	storeErr := domain.NewStorageError("count unread", errors.New("timeout"))
	store := mocks.NewMockNotificationStore(t)
	store.EXPECT().CountUnread(mock.Anything, int64(1)).Return(0, storeErr)
	store.EXPECT().MarkAllRead(mock.Anything, int64(1)).Return(0, storeErr)

	svc := NewNotificationService(NotificationServiceConfig{Store: store, Logger: discardLogger()})

	_, err := svc.UnreadCount(context.Background(), 1)
	assert.True(t, domain.IsStorage(err))

	_, err = svc.MarkAllRead(context.Background(), 1)
	assert.True(t, domain.IsStorage(err))
}
