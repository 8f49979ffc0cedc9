// Пакет handlers — HTTP-обработчики формы отчёта.
// form.go — страница формы, изменение полей, выбор файлов и отправка.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/Tornike-I/digiEduHack-hackathon/internal/api/errors"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/service"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/ui/i18n"
	uimiddleware "github.com/Tornike-I/digiEduHack-hackathon/internal/ui/middleware"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/ui/pages"
)

// maxMultipartMemory — объём выбранных файлов, хранимый в памяти при разборе.
const maxMultipartMemory = 32 << 20

// FormHandler — обработчик страницы формы отчёта.
type FormHandler struct {
	logger *slog.Logger
}

// NewFormHandler создаёт новый FormHandler.
func NewFormHandler(logger *slog.Logger) *FormHandler {
	return &FormHandler{
		logger: logger.With(slog.String("component", "ui.form")),
	}
}

// toastView — уведомление, переведённое на язык пользователя.
type toastView struct {
	Kind        model.NotificationKind `json:"kind"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	At          string                 `json:"at"`
}

// newToastView переводит уведомление по его ключу каталога.
func newToastView(ctx context.Context, n model.Notification) *toastView {
	v := &toastView{
		Kind:  n.Kind,
		Title: i18n.T(ctx, n.Key),
		At:    n.At.UTC().Format(time.RFC3339Nano),
	}
	if n.Description != "" {
		v.Description = i18n.T(ctx, n.Key+"_description")
	}
	return v
}

// fieldResponse — ответ POST /form/field.
type fieldResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// submitResponse — ответ POST /form/submit.
type submitResponse struct {
	SubmissionID string     `json:"submission_id,omitempty"`
	Toast        *toastView `json:"toast,omitempty"`
	// Reset — форма очищена, клиент сбрасывает поля
	Reset bool `json:"reset"`
}

// HandleForm обрабатывает GET / — отображает форму с текущим состоянием сессии.
func (h *FormHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	ctrl := uimiddleware.ControllerFromContext(r.Context())
	if ctrl == nil {
		http.Error(w, "Сессия формы не найдена", http.StatusInternalServerError)
		return
	}

	snap := ctrl.Snapshot()
	data := pages.FormPageData{
		Form:      snap.Form,
		Files:     snap.Files,
		Uploading: snap.Uploading,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := pages.FormPage(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга формы",
			slog.String("error", err.Error()),
			slog.String("session_id", uimiddleware.SessionIDFromContext(r.Context())),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// HandleField обрабатывает POST /form/field (name, value).
// Возвращает сохранённое значение: для reportDate — после маски DD/MM/YYYY.
func (h *FormHandler) HandleField(w http.ResponseWriter, r *http.Request) {
	ctrl := uimiddleware.ControllerFromContext(r.Context())
	if ctrl == nil {
		http.Error(w, "Сессия формы не найдена", http.StatusInternalServerError)
		return
	}

	name := r.FormValue("name")
	value, err := ctrl.UpdateField(name, r.FormValue("value"))
	if err != nil {
		if errors.Is(err, model.ErrUnknownField) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Ошибка обновления поля", slog.String("error", err.Error()))
		http.Error(w, "Внутренняя ошибка", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, fieldResponse{Name: name, Value: value})
}

// HandleFiles обрабатывает POST /form/files (multipart, поле files).
// Новый выбор заменяет прежний целиком. Возвращает HTML-фрагмент списка файлов.
func (h *FormHandler) HandleFiles(w http.ResponseWriter, r *http.Request) {
	ctrl := uimiddleware.ControllerFromContext(r.Context())
	if ctrl == nil {
		http.Error(w, "Сессия формы не найдена", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, "Ожидается multipart/form-data", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files, err := service.SelectedFilesFromMultipart(r.MultipartForm.File["files"])
	if err != nil {
		h.logger.Warn("Ошибка чтения выбранных файлов", slog.String("error", err.Error()))
		http.Error(w, "Не удалось прочитать файлы", http.StatusBadRequest)
		return
	}
	ctrl.SelectFiles(files)

	h.logger.Debug("Файлы выбраны",
		slog.String("session_id", uimiddleware.SessionIDFromContext(r.Context())),
		slog.Int("count", len(files)),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.FileList(files).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга списка файлов", slog.String("error", err.Error()))
	}
}

// HandleSubmit обрабатывает POST /form/submit.
// 200 — все файлы приняты (форма очищена); 502 — ошибка загрузки
// (форма сохранена); 409 — отправка уже выполняется.
// Закрытие соединения клиентом не прерывает загрузку.
func (h *FormHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctrl := uimiddleware.ControllerFromContext(r.Context())
	if ctrl == nil {
		http.Error(w, "Сессия формы не найдена", http.StatusInternalServerError)
		return
	}

	result, err := ctrl.Submit(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, service.ErrSubmitInProgress):
		// Без уведомления: кнопка отправки на клиенте остаётся заблокированной
		apierrors.SubmitInProgress(w, "Отправка отчёта уже выполняется")
		return
	case errors.Is(err, service.ErrSubmitFailed):
		writeJSON(w, http.StatusBadGateway, submitResponse{
			SubmissionID: result.SubmissionID,
			Toast:        newToastView(r.Context(), result.Notification),
		})
		return
	case err != nil:
		h.logger.Error("Ошибка отправки отчёта", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Внутренняя ошибка")
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		SubmissionID: result.SubmissionID,
		Toast:        newToastView(r.Context(), result.Notification),
		Reset:        true,
	})
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
