package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gatorguides/tutoring_core/internal/model"
	"github.com/gatorguides/tutoring_core/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	alice = int64(1)
	bob   = int64(2)
	carol = int64(3)
)

func newMessaging() (*service.MessageService, *fakeMessageRepo, *fakeDeliverer) {
	repo := newFakeMessageRepo()
	deliverer := &fakeDeliverer{}
	return service.NewMessageService(repo, deliverer, zap.NewNop()), repo, deliverer
}

func TestSendRequiresSharedBooking(t *testing.T) {
	svc, repo, _ := newMessaging()
	ctx := context.Background()

	_, err := svc.Send(ctx, alice, bob, "hello")
	require.True(t, errors.Is(err, model.ErrPermissionDenied))

	// Отказ не оставляет следов в журнале
	page, err := svc.Conversation(ctx, alice, bob, 0, 0)
	require.NoError(t, err)
	require.Empty(t, page)

	repo.link(alice, bob)

	sent, err := svc.Send(ctx, alice, bob, "hello")
	require.NoError(t, err)
	require.NotZero(t, sent.ID)

	page, err = svc.Conversation(ctx, alice, bob, 0, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "hello", page[0].Content)
}

func TestSendEmptyContent(t *testing.T) {
	svc, repo, deliverer := newMessaging()
	repo.link(alice, bob)

	_, err := svc.Send(context.Background(), alice, bob, "   ")
	require.True(t, errors.Is(err, model.ErrEmptyContent))
	require.Zero(t, deliverer.count())
}

func TestCanMessageSymmetry(t *testing.T) {
	svc, repo, _ := newMessaging()
	ctx := context.Background()

	repo.link(alice, bob)

	for _, pair := range [][2]int64{{alice, bob}, {bob, alice}} {
		ok, err := svc.CanMessage(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := svc.CanMessage(ctx, alice, carol)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSendDeliversToChannel(t *testing.T) {
	svc, repo, deliverer := newMessaging()
	repo.link(alice, bob)

	sent, err := svc.Send(context.Background(), alice, bob, "ping")
	require.NoError(t, err)
	require.Equal(t, 1, deliverer.count())
	require.Equal(t, sent.ID, deliverer.delivered[0].ID)
	require.Equal(t, bob, deliverer.delivered[0].ReceiverID)
}

// Конкатенация страниц воспроизводит журнал без пропусков и дублей
func TestConversationPagination(t *testing.T) {
	svc, repo, _ := newMessaging()
	ctx := context.Background()
	repo.link(alice, bob)
	repo.link(alice, carol)

	const total = 25
	for i := 0; i < total; i++ {
		_, err := svc.Send(ctx, alice, bob, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}
	// Чужая переписка не должна попадать в выборку пары
	_, err := svc.Send(ctx, alice, carol, "aside")
	require.NoError(t, err)

	var collected []*model.Message
	for offset := 0; ; offset += 10 {
		page, err := svc.Conversation(ctx, alice, bob, 10, offset)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		collected = append(collected, page...)
	}

	require.Len(t, collected, total)
	for i, m := range collected {
		require.Equal(t, fmt.Sprintf("msg %d", i), m.Content)
		if i > 0 {
			require.Greater(t, m.ID, collected[i-1].ID)
		}
	}
}

func TestConversationLimitClamped(t *testing.T) {
	svc, repo, _ := newMessaging()
	ctx := context.Background()
	repo.link(alice, bob)

	for i := 0; i < 3; i++ {
		_, err := svc.Send(ctx, alice, bob, "x")
		require.NoError(t, err)
	}

	page, err := svc.Conversation(ctx, alice, bob, -5, -10)
	require.NoError(t, err)
	require.Len(t, page, 3)

	page, err = svc.Conversation(ctx, alice, bob, 100000, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
}

func TestRecentConversations(t *testing.T) {
	svc, repo, _ := newMessaging()
	ctx := context.Background()
	repo.link(alice, bob)
	repo.link(alice, carol)

	_, err := svc.Send(ctx, alice, bob, "first")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.Send(ctx, carol, alice, "second")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.Send(ctx, bob, alice, "third")
	require.NoError(t, err)

	recent, err := svc.RecentConversations(ctx, alice, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, bob, recent[0].OtherUserID)
	require.Equal(t, "third", recent[0].LastMessage)
	require.Equal(t, carol, recent[1].OtherUserID)
	require.Equal(t, "second", recent[1].LastMessage)

	recent, err = svc.RecentConversations(ctx, alice, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, bob, recent[0].OtherUserID)
}
