// Пакет middleware — HTTP middleware формы отчёта.
// session.go — привязка браузера к серверной форме через cookie.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/Tornike-I/digiEduHack-hackathon/internal/api/errors"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/service"
)

// SessionCookieName — имя cookie с идентификатором формы.
const SessionCookieName = "report_form_session"

// contextKey — тип для ключей контекста UI.
type contextKey string

const (
	// ContextKeySessionID — идентификатор сессии формы.
	ContextKeySessionID contextKey = "form_session_id"
	// ContextKeyController — контроллер формы сессии.
	ContextKeyController contextKey = "form_controller"
)

// FormSession — middleware, находящий форму по cookie или создающий новую.
type FormSession struct {
	store        *service.SessionStore
	secureCookie bool
	logger       *slog.Logger
}

// NewFormSession создаёт middleware сессий формы.
// secureCookie — выставлять Secure у cookie (RF_SESSION_SECURE_COOKIE).
func NewFormSession(store *service.SessionStore, secureCookie bool, logger *slog.Logger) *FormSession {
	return &FormSession{
		store:        store,
		secureCookie: secureCookie,
		logger:       logger.With(slog.String("component", "ui_session_middleware")),
	}
}

// Middleware помещает в контекст ID сессии и контроллер формы.
// Cookie с некорректным значением заменяется новым.
func (fs *FormSession) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionFromCookie(r)
			if sessionID == "" {
				sessionID = uuid.New().String()
				fs.setCookie(w, sessionID)
			}

			ctrl, created := fs.store.GetOrCreate(sessionID)
			if created {
				fs.logger.Debug("Создана форма", slog.String("session_id", sessionID))
			}

			ctx := context.WithValue(r.Context(), ContextKeySessionID, sessionID)
			ctx = context.WithValue(ctx, ContextKeyController, ctrl)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Existing пропускает запрос только для уже открытой формы и не создаёт новую.
// Используется потоком событий: подписка на форму, которой нет, бессмысленна.
func (fs *FormSession) Existing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionFromCookie(r)
			if sessionID == "" {
				apierrors.NotFound(w, "Сессия формы не найдена")
				return
			}

			ctrl, err := fs.store.Get(sessionID)
			if err != nil {
				fs.logger.Debug("Форма сессии не найдена", slog.String("session_id", sessionID))
				apierrors.NotFound(w, "Сессия формы не найдена")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySessionID, sessionID)
			ctx = context.WithValue(ctx, ContextKeyController, ctrl)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromCookie возвращает ID сессии из cookie или "", если cookie нет или он некорректен.
func sessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// setCookie выставляет cookie сессии (без срока: живёт до закрытия браузера).
func (fs *FormSession) setCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   fs.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionIDFromContext извлекает ID сессии формы из контекста.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeySessionID).(string)
	return id
}

// ControllerFromContext извлекает контроллер формы из контекста.
func ControllerFromContext(ctx context.Context) *service.SubmissionController {
	ctrl, _ := ctx.Value(ContextKeyController).(*service.SubmissionController)
	return ctrl
}
