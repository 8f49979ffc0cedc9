// sessions.go — хранилище форм по сессиям браузера.
// Обёртка над hashicorp/golang-lru/v2/expirable: ограниченный размер и TTL.
// Каждое обращение продлевает жизнь формы.
package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var formSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "rf_form_sessions",
	Help: "Количество форм отчёта, хранимых в памяти.",
})

// ControllerFactory создаёт контроллер новой формы для сессии.
type ControllerFactory func(sessionID string) *SubmissionController

// SessionStore — LRU-хранилище контроллеров форм.
//
// Форма, вытесненная во время отправки, не теряется: она переносится в
// pinned и возвращается в кэш при следующем обращении сессии. Если сессия
// не вернулась, форма освобождается после окончания загрузки.
type SessionStore struct {
	mu      sync.Mutex
	cache   *expirable.LRU[string, *SubmissionController]
	factory ControllerFactory
	onEvict func(sessionID string)
	logger  *slog.Logger

	// pinMu отдельный: колбэк вытеснения вызывается и под mu, и из горутины TTL
	pinMu  sync.Mutex
	pinned map[string]*SubmissionController
}

// NewSessionStore создаёт хранилище.
// maxSize — максимум форм; ttl — время жизни формы без обращений.
// onEvict вызывается после вытеснения формы (может быть nil).
func NewSessionStore(maxSize int, ttl time.Duration, factory ControllerFactory, onEvict func(sessionID string), logger *slog.Logger) *SessionStore {
	s := &SessionStore{
		factory: factory,
		onEvict: onEvict,
		logger:  logger.With(slog.String("component", "sessions")),
		pinned:  make(map[string]*SubmissionController),
	}
	s.cache = expirable.NewLRU[string, *SubmissionController](maxSize, s.evicted, ttl)
	return s
}

// evicted вызывается LRU при вытеснении или истечении TTL.
func (s *SessionStore) evicted(sessionID string, ctrl *SubmissionController) {
	if ctrl.Uploading() {
		s.pinMu.Lock()
		s.pinned[sessionID] = ctrl
		s.pinMu.Unlock()
		s.logger.Debug("Форма вытеснена во время отправки, сохранена до завершения",
			slog.String("session_id", sessionID),
		)
		return
	}
	s.logger.Debug("Форма вытеснена из хранилища", slog.String("session_id", sessionID))
	if s.onEvict != nil {
		s.onEvict(sessionID)
	}
}

// GetOrCreate возвращает контроллер формы сессии, создавая его при отсутствии.
// created — форма создана этим вызовом.
func (s *SessionStore) GetOrCreate(sessionID string) (ctrl *SubmissionController, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.lookupLocked(sessionID)
	if !ok {
		ctrl = s.factory(sessionID)
		created = true
	}
	// Повторный Add продлевает TTL
	s.cache.Add(sessionID, ctrl)
	s.releaseIdle()
	formSessions.Set(float64(s.Len()))
	return ctrl, created
}

// Get возвращает контроллер существующей формы.
func (s *SessionStore) Get(sessionID string) (*SubmissionController, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.lookupLocked(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.cache.Add(sessionID, ctrl)
	s.releaseIdle()
	formSessions.Set(float64(s.Len()))
	return ctrl, nil
}

// Len возвращает количество хранимых форм, включая вытесненные во время отправки.
func (s *SessionStore) Len() int {
	// Порядок важен: колбэк LRU берёт pinMu под блокировкой кэша
	n := s.cache.Len()
	s.pinMu.Lock()
	defer s.pinMu.Unlock()
	return n + len(s.pinned)
}

// lookupLocked ищет форму в кэше, затем среди вытесненных во время отправки.
// Вызывается под s.mu.
func (s *SessionStore) lookupLocked(sessionID string) (*SubmissionController, bool) {
	if ctrl, ok := s.cache.Get(sessionID); ok {
		return ctrl, true
	}
	s.pinMu.Lock()
	defer s.pinMu.Unlock()
	ctrl, ok := s.pinned[sessionID]
	if ok {
		delete(s.pinned, sessionID)
	}
	return ctrl, ok
}

// releaseIdle окончательно освобождает вытесненные формы, отправка которых завершилась.
func (s *SessionStore) releaseIdle() {
	var released []string
	s.pinMu.Lock()
	for id, ctrl := range s.pinned {
		if !ctrl.Uploading() {
			delete(s.pinned, id)
			released = append(released, id)
		}
	}
	s.pinMu.Unlock()

	for _, id := range released {
		s.logger.Debug("Форма освобождена после отправки", slog.String("session_id", id))
		if s.onEvict != nil {
			s.onEvict(id)
		}
	}
}
