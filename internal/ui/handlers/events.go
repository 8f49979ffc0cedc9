// events.go — SSE (Server-Sent Events) endpoint формы отчёта:
// уведомления о результате отправки, флаг загрузки и состояние ingest-сервера.
// Каждый SSE-клиент обслуживается отдельной горутиной.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/service"
	uimiddleware "github.com/Tornike-I/digiEduHack-hackathon/internal/ui/middleware"
)

// IngestHealthSource — источник состояния зависимостей (DephealthService).
type IngestHealthSource interface {
	Health() map[string]bool
}

// EventsHandler — обработчик SSE endpoint формы.
type EventsHandler struct {
	hub          *service.NotificationHub
	health       IngestHealthSource // может быть nil
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewEventsHandler создаёт новый EventsHandler.
// pollInterval — период отправки состояния ingest-сервера.
func NewEventsHandler(
	hub *service.NotificationHub,
	health IngestHealthSource,
	pollInterval time.Duration,
	logger *slog.Logger,
) *EventsHandler {
	return &EventsHandler{
		hub:          hub,
		health:       health,
		pollInterval: pollInterval,
		logger:       logger.With(slog.String("component", "ui.events")),
	}
}

// uploadingEvent — SSE-событие флага загрузки.
type uploadingEvent struct {
	Uploading bool `json:"uploading"`
}

// ingestStatusEvent — SSE-событие состояния ingest-сервера.
type ingestStatusEvent struct {
	Status string `json:"status"` // online, offline, unavailable
}

// HandleNotifications обрабатывает GET /events/notifications — SSE endpoint.
// Формат: event: <type>\ndata: {json}\n\n
// Типы: uploading, notification, ingest-status.
// При подключении сразу отправляется текущее состояние загрузки и ingest-сервера.
func (h *EventsHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	sessionID := uimiddleware.SessionIDFromContext(r.Context())
	ctrl := uimiddleware.ControllerFromContext(r.Context())
	if sessionID == "" || ctrl == nil {
		http.Error(w, "Сессия формы не найдена", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Отключаем буферизацию Nginx

	// ResponseController находит http.Flusher через Unwrap() обёрток middleware
	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		http.Error(w, "SSE не поддерживается", http.StatusInternalServerError)
		return
	}

	events, cancel := h.hub.Subscribe(sessionID)
	defer cancel()

	ctx := r.Context()
	h.logger.Debug("SSE клиент подключён",
		slog.String("session_id", sessionID),
		slog.Int("subscribers", h.hub.Subscribers(sessionID)),
	)

	h.send(w, rc, "uploading", uploadingEvent{Uploading: ctrl.Uploading()})
	h.sendIngestStatus(w, rc)

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("SSE клиент отключён", slog.String("session_id", sessionID))
			return
		case ev, ok := <-events:
			if !ok {
				// Сессия вытеснена из хранилища
				return
			}
			switch ev.Type {
			case service.EventUploading:
				h.send(w, rc, "uploading", uploadingEvent{Uploading: ev.Uploading})
			case service.EventNotification:
				if ev.Notification != nil {
					h.send(w, rc, "notification", newToastView(ctx, *ev.Notification))
				}
			}
		case <-ticker.C:
			h.sendIngestStatus(w, rc)
		}
	}
}

// sendIngestStatus отправляет состояние ingest-сервера.
func (h *EventsHandler) sendIngestStatus(w http.ResponseWriter, rc *http.ResponseController) {
	status := "unavailable"
	if h.health != nil {
		status = ingestStatus(h.health.Health())
	}
	h.send(w, rc, "ingest-status", ingestStatusEvent{Status: status})
}

// ingestStatus сводит результат проверок к online/offline.
// Пустой результат (проверка ещё не выполнялась) — unavailable.
func ingestStatus(health map[string]bool) string {
	if len(health) == 0 {
		return "unavailable"
	}
	for _, ok := range health {
		if !ok {
			return "offline"
		}
	}
	return "online"
}

// send сериализует и отправляет одно SSE-событие.
func (h *EventsHandler) send(w http.ResponseWriter, rc *http.ResponseController, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Ошибка сериализации SSE-события",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	_ = rc.Flush()
}
