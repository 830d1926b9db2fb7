package messaging_test

import (
	"context"
	"encoding/json"
	"testing"

	"wefund/internal/messaging"
	"wefund/internal/storagetest"
	"wefund/pkg/domain"
	"wefund/pkg/serrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type notificationRecorder struct {
	notifications []domain.Notification
}

func (r *notificationRecorder) Notify(_ context.Context,
	n domain.Notification,
) (*domain.Notification, error) {
	r.notifications = append(r.notifications, n)

	return &n, nil
}

// fakePusher simulates a hub with a fixed set of online users.
type fakePusher struct {
	online map[domain.UserID]bool
	pushed [][]byte
}

func (p *fakePusher) Push(_ domain.UserID, payload []byte) int {
	p.pushed = append(p.pushed, payload)

	return 1
}

func (p *fakePusher) Online(userID domain.UserID) bool { return p.online[userID] }

func userStore(users ...*domain.User) *storagetest.FakeStorage {
	byID := make(map[domain.UserID]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	return &storagetest.FakeStorage{
		UserByIDFunc: func(_ context.Context, id domain.UserID) (*domain.User, error) {
			return byID[id], nil
		},
	}
}

func TestMessaging_Send_OnlinePush(t *testing.T) {
	sender := domain.User{ID: domain.UserID(uuid.New()), Name: "Jane"}
	receiver := domain.User{ID: domain.UserID(uuid.New()), Name: "John"}

	pusher := &fakePusher{online: map[domain.UserID]bool{receiver.ID: true}}
	recorder := &notificationRecorder{}
	m := messaging.New(userStore(&receiver), recorder, pusher)

	message, err := m.Send(context.Background(), sender, receiver.ID, "hello")
	require.NoError(t, err)
	require.Equal(t, "hello", message.Body)

	// delivered over the socket, no notification raised
	require.Len(t, pusher.pushed, 1)
	require.Empty(t, recorder.notifications)

	var pushed domain.Message
	require.NoError(t, json.Unmarshal(pusher.pushed[0], &pushed))
	require.Equal(t, "hello", pushed.Body)
}

func TestMessaging_Send_OfflineNotifies(t *testing.T) {
	sender := domain.User{ID: domain.UserID(uuid.New()), Name: "Jane"}
	receiver := domain.User{ID: domain.UserID(uuid.New())}

	pusher := &fakePusher{online: map[domain.UserID]bool{}}
	recorder := &notificationRecorder{}
	m := messaging.New(userStore(&receiver), recorder, pusher)

	_, err := m.Send(context.Background(), sender, receiver.ID, "hello")
	require.NoError(t, err)

	require.Empty(t, pusher.pushed)
	require.Len(t, recorder.notifications, 1)
	require.Equal(t, receiver.ID, recorder.notifications[0].UserID)
	require.Equal(t, domain.NotificationTypeMessage, recorder.notifications[0].Type)
	require.Equal(t, "Message from Jane", recorder.notifications[0].Title)
}

func TestMessaging_Send_Validation(t *testing.T) {
	sender := domain.User{ID: domain.UserID(uuid.New())}
	m := messaging.New(userStore(), &notificationRecorder{}, nil)

	_, err := m.Send(context.Background(), sender, domain.UserID(uuid.New()), "")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = m.Send(context.Background(), sender, sender.ID, "hi")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = m.Send(context.Background(), sender, domain.UserID(uuid.New()), "hi")
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestMessaging_Thread_MarksRead(t *testing.T) {
	userID := domain.UserID(uuid.New())
	peerID := domain.UserID(uuid.New())

	marked := false
	fake := &storagetest.FakeStorage{
		ThreadFunc: func(context.Context, domain.UserID, domain.UserID) ([]domain.Message, error) {
			return []domain.Message{{Body: "a"}, {Body: "b"}}, nil
		},
		MarkThreadReadFunc: func(_ context.Context, u, p domain.UserID) (int64, error) {
			require.Equal(t, userID, u)
			require.Equal(t, peerID, p)
			marked = true

			return 2, nil
		},
	}
	m := messaging.New(fake, &notificationRecorder{}, nil)

	messages, err := m.Thread(context.Background(), userID, peerID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.True(t, marked)
}

func TestHub_PushAndOnline(t *testing.T) {
	hub := messaging.NewHub()
	userID := domain.UserID(uuid.New())

	require.False(t, hub.Online(userID))
	require.Zero(t, hub.Push(userID, []byte("x")))
}
