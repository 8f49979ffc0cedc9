package model

import "time"

// NotificationKind — тип уведомления (toast).
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Тексты уведомлений о результате отправки.
const (
	SubmitSuccessMessage     = "Report submitted successfully!"
	SubmitSuccessDescription = "Your report has been received and files uploaded successfully."
	SubmitErrorMessage       = "Error uploading files"
)

// Notification — уведомление пользователю о результате отправки отчёта.
type Notification struct {
	Kind NotificationKind `json:"kind"`
	// Key — ключ i18n-каталога для Message
	Key         string    `json:"key"`
	Message     string    `json:"message"`
	Description string    `json:"description,omitempty"`
	At          time.Time `json:"at"`
}

// SubmitSucceeded — уведомление об успешной отправке отчёта.
func SubmitSucceeded(at time.Time) Notification {
	return Notification{
		Kind:        NotificationSuccess,
		Key:         "toast.submit_success",
		Message:     SubmitSuccessMessage,
		Description: SubmitSuccessDescription,
		At:          at,
	}
}

// SubmitFailed — уведомление об ошибке загрузки файлов.
func SubmitFailed(at time.Time) Notification {
	return Notification{
		Kind:    NotificationError,
		Key:     "toast.submit_error",
		Message: SubmitErrorMessage,
		At:      at,
	}
}
