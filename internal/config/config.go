// Пакет config — загрузка и валидация конфигурации Report Form
// из переменных окружения (и опционального .env файла).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Report Form.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Ingest-сервер ---

	// Базовый URL сервера приёма документов (POST {url}/api/ingest)
	IngestURL string
	// Таймаут одного запроса к ingest-серверу (0 — без таймаута)
	IngestTimeout time.Duration
	// Путь к CA-сертификату для TLS-соединений с ingest-сервером (опционально)
	IngestCACertPath string
	// Брать регион для metadata из формы вместо фиксированного ["prague"]
	IngestMetadataFromForm bool
	// Path health-проверки ingest-сервера для topologymetrics
	IngestHealthPath string

	// --- Сессии формы ---

	// Максимальное количество одновременно хранимых форм
	SessionMax int
	// Время жизни формы без обращений
	SessionTTL time.Duration
	// Secure flag для cookie сессии
	SessionSecureCookie bool

	// --- API ---

	// Origins, которым разрешён POST /api/v1/submissions (через запятую).
	// Пустой список — cross-origin запросы не разрешены
	CORSAllowedOrigins []string

	// --- topologymetrics ---

	// Имя группы в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
// Если в рабочей директории есть .env, он подгружается без перезаписи
// уже заданных переменных.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnvDefault("RF_ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{}
	var err error

	// --- Сервер ---

	// RF_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("RF_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("RF_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("RF_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// RF_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("RF_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("RF_LOG_LEVEL: %w", err)
	}

	// RF_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("RF_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("RF_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Ingest-сервер ---

	// RF_INGEST_URL — базовый URL (по умолчанию локальный ingest-сервер)
	cfg.IngestURL = strings.TrimRight(getEnvDefault("RF_INGEST_URL", "http://127.0.0.1:5000"), "/")
	parsed, err := url.Parse(cfg.IngestURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("RF_INGEST_URL: некорректный URL %q", cfg.IngestURL)
	}

	// RF_INGEST_TIMEOUT — таймаут запроса (по умолчанию 0 — таймаут транспорта)
	cfg.IngestTimeout, err = getEnvDuration("RF_INGEST_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("RF_INGEST_TIMEOUT: %w", err)
	}
	if cfg.IngestTimeout < 0 {
		return nil, fmt.Errorf("RF_INGEST_TIMEOUT: отрицательное значение %v", cfg.IngestTimeout)
	}

	// RF_INGEST_CA_CERT_PATH — путь к CA-сертификату (опционально)
	cfg.IngestCACertPath = getEnvDefault("RF_INGEST_CA_CERT_PATH", "")

	// RF_INGEST_METADATA_FROM_FORM — регион из формы (по умолчанию false)
	cfg.IngestMetadataFromForm, err = getEnvBool("RF_INGEST_METADATA_FROM_FORM", false)
	if err != nil {
		return nil, fmt.Errorf("RF_INGEST_METADATA_FROM_FORM: %w", err)
	}

	// RF_INGEST_HEALTH_PATH — path health-проверки (по умолчанию /)
	cfg.IngestHealthPath = getEnvDefault("RF_INGEST_HEALTH_PATH", "/")
	if !strings.HasPrefix(cfg.IngestHealthPath, "/") {
		return nil, fmt.Errorf("RF_INGEST_HEALTH_PATH: путь должен начинаться с '/': %q", cfg.IngestHealthPath)
	}

	// --- Сессии формы ---

	// RF_SESSION_MAX — максимум форм в памяти (по умолчанию 1000)
	cfg.SessionMax, err = getEnvInt("RF_SESSION_MAX", 1000)
	if err != nil {
		return nil, fmt.Errorf("RF_SESSION_MAX: %w", err)
	}
	if cfg.SessionMax < 1 || cfg.SessionMax > 100000 {
		return nil, fmt.Errorf("RF_SESSION_MAX: значение %d вне допустимого диапазона 1-100000", cfg.SessionMax)
	}

	// RF_SESSION_TTL — время жизни формы (по умолчанию 2h)
	cfg.SessionTTL, err = getEnvDuration("RF_SESSION_TTL", 2*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("RF_SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("RF_SESSION_TTL: значение должно быть положительным")
	}

	// RF_SESSION_SECURE_COOKIE — Secure flag cookie (по умолчанию false)
	cfg.SessionSecureCookie, err = getEnvBool("RF_SESSION_SECURE_COOKIE", false)
	if err != nil {
		return nil, fmt.Errorf("RF_SESSION_SECURE_COOKIE: %w", err)
	}

	// --- API ---

	// RF_CORS_ALLOWED_ORIGINS — origins для API (по умолчанию пусто; "*" — любой origin)
	cfg.CORSAllowedOrigins = parseCSV(getEnvDefault("RF_CORS_ALLOWED_ORIGINS", ""))

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("RF_DEPHEALTH_GROUP", "report-form")

	// RF_DEPHEALTH_CHECK_INTERVAL — интервал проверки (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("RF_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RF_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	if cfg.DephealthCheckInterval <= 0 {
		return nil, fmt.Errorf("RF_DEPHEALTH_CHECK_INTERVAL: значение должно быть положительным")
	}

	// --- Graceful shutdown ---

	// RF_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("RF_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RF_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// IngestEndpoint возвращает полный URL приёма документов.
func (c *Config) IngestEndpoint() string {
	return c.IngestURL + "/api/ingest"
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// loadDotEnv подгружает .env, если файл существует.
// Отсутствие файла — не ошибка.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("загрузка %s: %w", path, err)
	}
	return nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает bool из переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное логическое значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
