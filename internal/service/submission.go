// submission.go — контроллер формы отчёта: состояние полей, выбранные файлы,
// последовательная загрузка файлов на ingest-сервер и итоговое уведомление.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/format"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
)

// Prometheus-метрики отправок.
var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rf_submissions_total",
			Help: "Общее количество отправок отчёта по результату.",
		},
		[]string{"result"}, // success, failure
	)
	submittedFilesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rf_submitted_files_total",
		Help: "Общее количество файлов, принятых ingest-сервером.",
	})
)

// Uploader — отправка одного файла на ingest-сервер.
// Реализуется ingestclient.Client.
type Uploader interface {
	Ingest(ctx context.Context, file model.SelectedFile, metadata model.IngestMetadata) error
}

// Notifier — приёмник уведомлений (toast) для пользователя.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// UploadingListener — опциональный интерфейс Notifier:
// получает изменения флага загрузки.
type UploadingListener interface {
	UploadingChanged(uploading bool)
}

// FormSnapshot — копия состояния формы для отображения.
type FormSnapshot struct {
	Form      model.FormState
	Files     []model.SelectedFile
	Uploading bool
}

// SubmitResult — итог отправки отчёта.
type SubmitResult struct {
	// SubmissionID — идентификатор отправки (для логов и ответа API)
	SubmissionID string
	// Notification — показанное пользователю уведомление
	Notification model.Notification
	// Uploaded — сколько файлов принято до завершения или ошибки
	Uploaded int
	// FailedFile — имя файла, на котором цикл прервался
	FailedFile string
}

// SubmissionController — контроллер формы отчёта.
//
// Файлы загружаются строго последовательно; при первой ошибке цикл
// прерывается, уже загруженные файлы не откатываются. Пользователь получает
// ровно одно уведомление на отправку. После полного успеха форма и список
// файлов очищаются.
type SubmissionController struct {
	mu        sync.Mutex
	form      model.FormState
	files     []model.SelectedFile
	uploading bool

	uploader         Uploader
	notifier         Notifier
	metadataFromForm bool
	now              func() time.Time
	logger           *slog.Logger
}

// NewSubmissionController создаёт контроллер пустой формы.
// metadataFromForm — отправлять выбранный регион в metadata вместо ["prague"].
func NewSubmissionController(uploader Uploader, notifier Notifier, metadataFromForm bool, logger *slog.Logger) *SubmissionController {
	return &SubmissionController{
		uploader:         uploader,
		notifier:         notifier,
		metadataFromForm: metadataFromForm,
		now:              time.Now,
		logger:           logger.With(slog.String("component", "submission")),
	}
}

// UpdateField записывает значение поля формы.
// Для reportDate применяется маска DD/MM/YYYY, остальные поля сохраняются как есть.
// Возвращает сохранённое значение.
func (c *SubmissionController) UpdateField(name, rawValue string) (string, error) {
	value := rawValue
	if name == model.FieldReportDate {
		value = format.FormatDateInput(rawValue)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.form.Set(name, value); err != nil {
		return "", err
	}
	return value, nil
}

// SelectFiles заменяет список выбранных файлов целиком (не добавляет).
func (c *SubmissionController) SelectFiles(files []model.SelectedFile) {
	selected := make([]model.SelectedFile, len(files))
	copy(selected, files)

	c.mu.Lock()
	c.files = selected
	c.mu.Unlock()
}

// Uploading возвращает true, пока выполняется Submit.
func (c *SubmissionController) Uploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading
}

// Snapshot возвращает копию текущего состояния формы.
func (c *SubmissionController) Snapshot() FormSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	files := make([]model.SelectedFile, len(c.files))
	copy(files, c.files)
	return FormSnapshot{
		Form:      c.form,
		Files:     files,
		Uploading: c.uploading,
	}
}

// Submit отправляет выбранные файлы по одному на ingest-сервер.
//
// Поток:
//  1. Флаг uploading = true (повторный Submit возвращает ErrSubmitInProgress)
//  2. Для каждого файла — Ingest; при ошибке цикл прерывается
//  3. Одно уведомление: успех или ошибка
//  4. При успехе — очистка полей и списка файлов
//  5. Флаг uploading = false
//
// Отмены нет: вызывающая сторона передаёт контекст без отмены.
func (c *SubmissionController) Submit(ctx context.Context) (*SubmitResult, error) {
	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	c.uploading = true
	files := make([]model.SelectedFile, len(c.files))
	copy(files, c.files)
	metadata := c.metadataLocked()
	c.mu.Unlock()
	c.uploadingChanged(true)

	result := &SubmitResult{SubmissionID: uuid.New().String()}
	logger := c.logger.With(slog.String("submission_id", result.SubmissionID))
	logger.Info("Отправка отчёта начата", slog.Int("files", len(files)))

	var uploadErr error
	for _, f := range files {
		if err := c.uploader.Ingest(ctx, f, metadata); err != nil {
			uploadErr = err
			result.FailedFile = f.Name
			break
		}
		result.Uploaded++
		submittedFilesTotal.Inc()
	}

	if uploadErr != nil {
		submissionsTotal.WithLabelValues("failure").Inc()
		logger.Error("Ошибка загрузки файлов",
			slog.String("filename", result.FailedFile),
			slog.Int("uploaded", result.Uploaded),
			slog.Int("total", len(files)),
			slog.String("error", uploadErr.Error()),
		)

		result.Notification = model.SubmitFailed(c.now())
		c.notify(ctx, result.Notification)
		c.finish(false)
		return result, fmt.Errorf("%w: %w", ErrSubmitFailed, uploadErr)
	}

	submissionsTotal.WithLabelValues("success").Inc()
	logger.Info("Отчёт отправлен", slog.Int("uploaded", result.Uploaded))

	result.Notification = model.SubmitSucceeded(c.now())
	c.notify(ctx, result.Notification)
	c.finish(true)
	return result, nil
}

// metadataLocked формирует metadata для ingest. Вызывается под c.mu.
func (c *SubmissionController) metadataLocked() model.IngestMetadata {
	if c.metadataFromForm && c.form.Region != "" {
		return model.IngestMetadata{Regions: []string{c.form.Region}}
	}
	return model.DefaultIngestMetadata()
}

// finish снимает флаг загрузки; при успехе очищает форму и файлы.
func (c *SubmissionController) finish(reset bool) {
	c.mu.Lock()
	if reset {
		c.form = model.FormState{}
		c.files = nil
	}
	c.uploading = false
	c.mu.Unlock()
	c.uploadingChanged(false)
}

func (c *SubmissionController) notify(ctx context.Context, n model.Notification) {
	if c.notifier != nil {
		c.notifier.Notify(ctx, n)
	}
}

func (c *SubmissionController) uploadingChanged(uploading bool) {
	if l, ok := c.notifier.(UploadingListener); ok {
		l.UploadingChanged(uploading)
	}
}
