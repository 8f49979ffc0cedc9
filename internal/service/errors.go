// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrSubmitInProgress — отправка этой формы уже выполняется.
	ErrSubmitInProgress = errors.New("отправка отчёта уже выполняется")
	// ErrSubmitFailed — один из файлов не был принят ingest-сервером.
	ErrSubmitFailed = errors.New("ошибка загрузки файлов")
	// ErrSessionNotFound — форма с таким идентификатором сессии не найдена.
	ErrSessionNotFound = errors.New("сессия формы не найдена")
)
