// Пакет ingestclient — HTTP-клиент сервера приёма документов (ingest).
// Поддерживает TLS с кастомным CA (RF_INGEST_CA_CERT_PATH).
// Операции: Ingest (POST /api/ingest, multipart: file + metadata).
package ingestclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/domain/model"
)

// IngestPath — путь endpoint приёма документов.
const IngestPath = "/api/ingest"

// maxErrorBody — сколько байт тела ответа с ошибкой сохраняется в UploadError.
const maxErrorBody = 4096

// Prometheus-метрики запросов к ingest-серверу.
var (
	ingestRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rf_ingest_requests_total",
			Help: "Общее количество запросов загрузки файлов на ingest-сервер.",
		},
		[]string{"result"}, // success, rejected, transport_error
	)
	ingestRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rf_ingest_request_duration_seconds",
			Help:    "Длительность запросов загрузки файлов на ingest-сервер в секундах.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// ErrIngestFailed — общий признак неудачной загрузки файла.
// И UploadError, и TransportError удовлетворяют errors.Is(err, ErrIngestFailed).
var ErrIngestFailed = errors.New("ошибка загрузки файла на ingest-сервер")

// UploadError — ingest-сервер ответил статусом вне диапазона 2xx.
type UploadError struct {
	FileName   string
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("загрузка %s: ingest-сервер вернул статус %d: %s", e.FileName, e.StatusCode, e.Body)
}

// Is связывает UploadError с ErrIngestFailed.
func (e *UploadError) Is(target error) bool {
	return target == ErrIngestFailed
}

// TransportError — запрос не дошёл до ingest-сервера или ответ не получен.
type TransportError struct {
	FileName string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("загрузка %s: %v", e.FileName, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is связывает TransportError с ErrIngestFailed.
func (e *TransportError) Is(target error) bool {
	return target == ErrIngestFailed
}

// Client — HTTP-клиент ingest-сервера.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт ingest-клиент.
// baseURL — адрес ingest-сервера без пути (http://127.0.0.1:5000).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
// timeout — таймаут запроса; 0 означает отсутствие таймаута.
func New(baseURL, caCertPath string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата ingest: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат ingest добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		baseURL:    normalizeURL(baseURL),
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "ingest_client")),
	}, nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("CA-сертификат %s не содержит PEM-блоков", caCertPath)
	}

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}

// Endpoint возвращает полный URL приёма документов.
func (c *Client) Endpoint() string {
	return c.baseURL + IngestPath
}

// Ingest отправляет один файл на ingest-сервер.
// POST /api/ingest — multipart: "file" (содержимое файла) и "metadata" (JSON-строка).
// Любой статус 2xx означает, что файл принят.
func (c *Client) Ingest(ctx context.Context, file model.SelectedFile, metadata model.IngestMetadata) error {
	body, contentType, err := buildMultipart(file, metadata)
	if err != nil {
		return fmt.Errorf("формирование multipart для %s: %w", file.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return fmt.Errorf("создание запроса Ingest: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	ingestRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		ingestRequestsTotal.WithLabelValues("transport_error").Inc()
		return &TransportError{FileName: file.Name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ingestRequestsTotal.WithLabelValues("rejected").Inc()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UploadError{
			FileName:   file.Name,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	// Дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, resp.Body)
	ingestRequestsTotal.WithLabelValues("success").Inc()

	c.logger.Debug("Файл принят ingest-сервером",
		slog.String("filename", file.Name),
		slog.Int64("size", file.Size),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}

// buildMultipart формирует тело запроса: part "file" с заголовками имени
// и MIME-типа файла, затем part "metadata" с JSON.
func buildMultipart(file model.SelectedFile, metadata model.IngestMetadata) (*bytes.Buffer, string, error) {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", fmt.Errorf("кодирование metadata: %w", err)
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", err
	}

	if err := mw.WriteField("metadata", string(metaJSON)); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// escapeQuotes экранирует имя файла для Content-Disposition
// (так же, как mime/multipart.CreateFormFile).
func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// normalizeURL убирает trailing slash из URL.
func normalizeURL(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}
