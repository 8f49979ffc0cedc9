package service

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

func TestSelectedFilesFromMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="files"; filename="report.pdf"`)
	h.Set("Content-Type", "application/pdf")
	pw, _ := mw.CreatePart(h)
	_, _ = pw.Write([]byte("%PDF-1.7"))

	fw, _ := mw.CreateFormFile("files", "notes.md")
	_, _ = fw.Write([]byte("# notes"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/form/files", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}

	files, err := SelectedFilesFromMultipart(req.MultipartForm.File["files"])
	if err != nil {
		t.Fatalf("SelectedFilesFromMultipart вернул ошибку: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("ожидалось 2 файла, получено %d", len(files))
	}
	if files[0].Name != "report.pdf" || files[0].ContentType != "application/pdf" || files[0].Size != 8 {
		t.Errorf("первый файл: %+v", files[0])
	}
	if files[1].Name != "notes.md" || string(files[1].Content) != "# notes" {
		t.Errorf("второй файл: %+v", files[1])
	}
}
