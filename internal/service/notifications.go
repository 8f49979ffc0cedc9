// notifications.go — хаб уведомлений формы.
// Рассылает события формы подписчикам SSE своей сессии. Очереди нет:
// визуально побеждает последнее уведомление.
package service

import (
	"context"
	"sync"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
)

// Типы событий для подписчиков.
const (
	EventNotification = "notification"
	EventUploading    = "uploading"
)

// subscriberBuffer — буфер канала подписчика; при переполнении событие отбрасывается.
const subscriberBuffer = 8

// Event — событие формы, доставляемое подписчику.
type Event struct {
	Type         string
	Notification *model.Notification
	Uploading    bool
}

// NotificationHub — рассылка событий форм по сессиям.
type NotificationHub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

// NewNotificationHub создаёт пустой хаб.
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// ForSession возвращает Notifier, привязанный к сессии.
func (h *NotificationHub) ForSession(sessionID string) Notifier {
	return &sessionNotifier{hub: h, sessionID: sessionID}
}

// Subscribe подписывает на события сессии.
// Возвращённая функция отменяет подписку и закрывает канал.
func (h *NotificationHub) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan Event]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[sessionID]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(h.subs, sessionID)
				}
			}
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Forget закрывает каналы подписчиков сессии.
// Вызывается при вытеснении сессии из хранилища.
func (h *NotificationHub) Forget(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[sessionID] {
		close(ch)
	}
	delete(h.subs, sessionID)
}

// Subscribers возвращает количество подписчиков сессии.
func (h *NotificationHub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID])
}

// publish доставляет событие подписчикам сессии без блокировки.
func (h *NotificationHub) publish(sessionID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[sessionID] {
		select {
		case ch <- ev:
		default:
			// медленный подписчик — пропускаем событие
		}
	}
}

// sessionNotifier — Notifier и UploadingListener одной сессии.
type sessionNotifier struct {
	hub       *NotificationHub
	sessionID string
}

func (n *sessionNotifier) Notify(_ context.Context, notification model.Notification) {
	n.hub.publish(n.sessionID, Event{Type: EventNotification, Notification: &notification})
}

func (n *sessionNotifier) UploadingChanged(uploading bool) {
	n.hub.publish(n.sessionID, Event{Type: EventUploading, Uploading: uploading})
}
