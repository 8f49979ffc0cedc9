package ingestclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupMockIngest создаёт mock HTTP-сервер ingest.
func setupMockIngest(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func testFile() model.SelectedFile {
	return model.SelectedFile{
		Name:        "report.pdf",
		Size:        11,
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.7 ok"),
	}
}

// TestClient_Ingest проверяет формат multipart-запроса POST /api/ingest.
func TestClient_Ingest(t *testing.T) {
	server := setupMockIngest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ingest" {
			t.Errorf("ожидался путь /api/ingest, получен %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method != http.MethodPost {
			t.Errorf("ожидался POST, получен %s", r.Method)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ошибка парсинга multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("part file отсутствует: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		if header.Filename != "report.pdf" {
			t.Errorf("ожидалось имя report.pdf, получено %s", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("ожидался Content-Type application/pdf, получен %s", ct)
		}
		if string(data) != "%PDF-1.7 ok" {
			t.Errorf("содержимое файла искажено: %q", data)
		}

		var meta model.IngestMetadata
		if err := json.Unmarshal([]byte(r.FormValue("metadata")), &meta); err != nil {
			t.Errorf("metadata не JSON: %v", err)
		}
		if len(meta.Regions) != 1 || meta.Regions[0] != "prague" {
			t.Errorf("ожидались regions=[prague], получено %v", meta.Regions)
		}
		if r.FormValue("metadata") != `{"regions":["prague"]}` {
			t.Errorf("metadata = %q", r.FormValue("metadata"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"ok","inserted_chunks":1}`))
	})

	client, err := New(server.URL, "", 0, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := client.Ingest(context.Background(), testFile(), model.DefaultIngestMetadata()); err != nil {
		t.Fatalf("Ошибка Ingest: %v", err)
	}
}

// TestClient_Ingest_TrailingSlash проверяет базовый URL с trailing slash.
func TestClient_Ingest_TrailingSlash(t *testing.T) {
	server := setupMockIngest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ingest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	client, err := New(server.URL+"/", "", 0, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if client.Endpoint() != server.URL+"/api/ingest" {
		t.Errorf("Endpoint() = %s", client.Endpoint())
	}

	if err := client.Ingest(context.Background(), testFile(), model.DefaultIngestMetadata()); err != nil {
		t.Fatalf("Ошибка Ingest: %v", err)
	}
}

// TestClient_Ingest_EmptyContentType проверяет подстановку application/octet-stream.
func TestClient_Ingest_EmptyContentType(t *testing.T) {
	server := setupMockIngest(t, func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("part file отсутствует: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if ct := header.Header.Get("Content-Type"); ct != "application/octet-stream" {
			t.Errorf("ожидался application/octet-stream, получен %s", ct)
		}
		w.WriteHeader(http.StatusAccepted)
	})

	client, err := New(server.URL, "", 0, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	f := testFile()
	f.ContentType = ""
	if err := client.Ingest(context.Background(), f, model.DefaultIngestMetadata()); err != nil {
		t.Fatalf("Ошибка Ingest: %v", err)
	}
}

// TestClient_Ingest_Rejected проверяет UploadFailure — статус вне 2xx.
func TestClient_Ingest_Rejected(t *testing.T) {
	server := setupMockIngest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Missing 'text' in body"}`))
	})

	client, err := New(server.URL, "", 0, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	err = client.Ingest(context.Background(), testFile(), model.DefaultIngestMetadata())
	if err == nil {
		t.Fatal("ожидалась ошибка, получен nil")
	}
	if !errors.Is(err, ErrIngestFailed) {
		t.Errorf("ожидалась ErrIngestFailed, получена %v", err)
	}

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("ожидалась *UploadError, получена %T", err)
	}
	if uploadErr.StatusCode != http.StatusBadRequest {
		t.Errorf("ожидался StatusCode=400, получен %d", uploadErr.StatusCode)
	}
	if uploadErr.FileName != "report.pdf" {
		t.Errorf("ожидался FileName=report.pdf, получен %s", uploadErr.FileName)
	}
}

// TestClient_Ingest_Redirect проверяет, что 3xx без Location считается отказом.
func TestClient_Ingest_Redirect(t *testing.T) {
	server := setupMockIngest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	})

	client, err := New(server.URL, "", 0, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	var uploadErr *UploadError
	err = client.Ingest(context.Background(), testFile(), model.DefaultIngestMetadata())
	if !errors.As(err, &uploadErr) {
		t.Fatalf("ожидалась *UploadError, получена %v", err)
	}
}

// TestClient_Ingest_Unreachable проверяет TransportFailure — сервер недоступен.
func TestClient_Ingest_Unreachable(t *testing.T) {
	client, err := New("http://localhost:1", "", 0, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	err = client.Ingest(context.Background(), testFile(), model.DefaultIngestMetadata())
	if err == nil {
		t.Fatal("ожидалась ошибка для недоступного сервера")
	}
	if !errors.Is(err, ErrIngestFailed) {
		t.Errorf("ожидалась ErrIngestFailed, получена %v", err)
	}

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("ожидалась *TransportError, получена %T", err)
	}
}

// TestNew_InvalidCACert проверяет ошибку при отсутствующем CA-сертификате.
func TestNew_InvalidCACert(t *testing.T) {
	if _, err := New("https://ingest", "/nonexistent/ca.pem", 0, testLogger()); err == nil {
		t.Error("ожидалась ошибка для отсутствующего файла")
	}

	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := New("https://ingest", path, 0, testLogger()); err == nil {
		t.Error("ожидалась ошибка для файла без PEM")
	}
}
