package service

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
)

// SelectedFilesFromMultipart читает файлы multipart-формы в порядке выбора.
// Расширение и размер не проверяются: фильтр accept в браузере — только подсказка.
func SelectedFilesFromMultipart(headers []*multipart.FileHeader) ([]model.SelectedFile, error) {
	files := make([]model.SelectedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("открытие %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("чтение %s: %w", fh.Filename, err)
		}

		files = append(files, model.SelectedFile{
			Name:        fh.Filename,
			Size:        int64(len(content)),
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return files, nil
}
