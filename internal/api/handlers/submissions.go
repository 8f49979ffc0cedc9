// submissions.go — POST /api/v1/submissions: отправка отчёта одним запросом.
// Поля формы и файлы передаются в multipart-теле; обработка та же, что у
// формы в браузере: последовательная загрузка, остановка на первой ошибке.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/Tornike-I/digiEduHack-hackathon/internal/api/errors"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/service"
)

// MaxMultipartMemory — объём multipart-тела, хранимый в памяти (остальное — во временных файлах).
const MaxMultipartMemory = 32 << 20

// SubmissionHandler — обработчик API отправки отчётов.
type SubmissionHandler struct {
	uploader         service.Uploader
	metadataFromForm bool
	logger           *slog.Logger
}

// NewSubmissionHandler создаёт обработчик.
func NewSubmissionHandler(uploader service.Uploader, metadataFromForm bool, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		uploader:         uploader,
		metadataFromForm: metadataFromForm,
		logger:           logger.With(slog.String("component", "api.submissions")),
	}
}

// submissionResponse — ответ на успешную отправку.
type submissionResponse struct {
	SubmissionID string             `json:"submission_id"`
	Uploaded     int                `json:"uploaded"`
	Form         model.FormState    `json:"form"`
	Notification model.Notification `json:"notification"`
}

// CreateSubmission обрабатывает POST /api/v1/submissions.
// 201 — все файлы приняты; 400 — некорректное тело; 502 — ingest-сервер
// отклонил файл или недоступен.
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxMultipartMemory); err != nil {
		apierrors.ValidationError(w, "Ожидается multipart/form-data: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	// Контроллер без уведомлений: результат возвращается в ответе
	ctrl := service.NewSubmissionController(h.uploader, nil, h.metadataFromForm, h.logger)

	for _, name := range model.FieldNames {
		if _, err := ctrl.UpdateField(name, r.FormValue(name)); err != nil {
			apierrors.InternalError(w, err.Error())
			return
		}
	}
	form := ctrl.Snapshot().Form

	files, err := service.SelectedFilesFromMultipart(r.MultipartForm.File["files"])
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	ctrl.SelectFiles(files)

	result, err := ctrl.Submit(context.WithoutCancel(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrSubmitFailed) {
			msg := model.SubmitErrorMessage
			if result != nil && result.FailedFile != "" {
				msg += ": " + result.FailedFile
			}
			apierrors.IngestUnavailable(w, msg)
			return
		}
		h.logger.Error("Ошибка отправки отчёта", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Внутренняя ошибка")
		return
	}

	writeJSON(w, http.StatusCreated, submissionResponse{
		SubmissionID: result.SubmissionID,
		Uploaded:     result.Uploaded,
		Form:         form,
		Notification: result.Notification,
	})
}
