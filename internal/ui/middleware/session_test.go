package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/service"
)

type noopUploader struct{}

func (noopUploader) Ingest(context.Context, model.SelectedFile, model.IngestMetadata) error {
	return nil
}

func newTestFormSession(t *testing.T) (*FormSession, *service.SessionStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := service.NewSessionStore(10, time.Hour, func(string) *service.SubmissionController {
		return service.NewSubmissionController(noopUploader{}, nil, false, logger)
	}, nil, logger)
	return NewFormSession(store, true, logger), store
}

func TestFormSession_NewCookie(t *testing.T) {
	fs, store := newTestFormSession(t)

	var gotID string
	var gotCtrl *service.SubmissionController
	handler := fs.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotID = SessionIDFromContext(r.Context())
		gotCtrl = ControllerFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(gotID); err != nil {
		t.Fatalf("ID сессии должен быть UUID: %q", gotID)
	}
	if gotCtrl == nil {
		t.Fatal("контроллер не помещён в контекст")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName || cookies[0].Value != gotID {
		t.Fatalf("ожидался cookie %s=%s, получено %v", SessionCookieName, gotID, cookies)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Error("cookie должен быть HttpOnly и Secure")
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, ожидается 1", store.Len())
	}
}

func TestFormSession_ExistingCookie(t *testing.T) {
	fs, _ := newTestFormSession(t)

	var ctrls []*service.SubmissionController
	handler := fs.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctrls = append(ctrls, ControllerFromContext(r.Context()))
	}))

	id := uuid.New().String()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if len(rec.Result().Cookies()) != 0 {
			t.Error("при валидном cookie новый не выставляется")
		}
	}

	if ctrls[0] == nil || ctrls[0] != ctrls[1] {
		t.Error("одна сессия должна получать один контроллер")
	}
}

func TestFormSession_InvalidCookieReplaced(t *testing.T) {
	fs, _ := newTestFormSession(t)
	handler := fs.Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "not-a-uuid" {
		t.Errorf("некорректный cookie должен быть заменён: %v", cookies)
	}
}

func TestFormSession_Existing(t *testing.T) {
	fs, store := newTestFormSession(t)

	var gotCtrl *service.SubmissionController
	handler := fs.Existing()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotCtrl = ControllerFromContext(r.Context())
	}))

	known := uuid.New().String()
	ctrl, _ := store.GetOrCreate(known)

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
	}{
		{"без cookie", "", http.StatusNotFound},
		{"некорректный cookie", "not-a-uuid", http.StatusNotFound},
		{"неизвестная сессия", uuid.New().String(), http.StatusNotFound},
		{"открытая форма", known, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCtrl = nil
			req := httptest.NewRequest(http.MethodGet, "/events/notifications", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("статус = %d, ожидается %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotCtrl != ctrl {
				t.Error("в контекст должен попасть контроллер открытой формы")
			}
			if len(rec.Result().Cookies()) != 0 {
				t.Error("Existing не выставляет cookie")
			}
		})
	}

	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, Existing не должен создавать формы", store.Len())
	}
}
