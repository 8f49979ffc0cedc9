package model

// AcceptedExtensions — фильтр диалога выбора файлов (атрибут accept).
// Носит рекомендательный характер: контроллер формы расширения не проверяет.
const AcceptedExtensions = ".pdf,.docx,.md,.mp3"

// MaxFileSizeHint — ограничение размера файла, указанное в правилах подачи.
// Только текст подсказки, не проверяется.
const MaxFileSizeHint = "10MB"

// SelectedFile — файл, выбранный пользователем для отправки вместе с отчётом.
type SelectedFile struct {
	// Name — оригинальное имя файла
	Name string
	// Size — размер в байтах
	Size int64
	// ContentType — MIME-тип, переданный браузером
	ContentType string
	// Content — содержимое файла
	Content []byte
}

// IngestMetadata — JSON-метаданные, отправляемые в part "metadata" вместе с каждым файлом.
type IngestMetadata struct {
	Regions []string `json:"regions"`
}

// DefaultIngestRegion — регион, который ingest-сервер получает по умолчанию
// независимо от выбора в форме.
const DefaultIngestRegion = "prague"

// DefaultIngestMetadata возвращает metadata по умолчанию: {"regions": ["prague"]}.
func DefaultIngestMetadata() IngestMetadata {
	return IngestMetadata{Regions: []string{DefaultIngestRegion}}
}
