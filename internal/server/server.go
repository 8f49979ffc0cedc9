// Пакет server — HTTP-сервер Report Form с graceful shutdown.
// Без TLS: TLS termination выполняет reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/api/handlers"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/api/middleware"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/config"
	uihandlers "github.com/Tornike-I/digiEduHack-hackathon/internal/ui/handlers"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/ui/i18n"
	uimiddleware "github.com/Tornike-I/digiEduHack-hackathon/internal/ui/middleware"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/ui/static"
)

// Components — обработчики и middleware, собранные в main.
type Components struct {
	HealthHandler     *handlers.HealthHandler
	SubmissionHandler *handlers.SubmissionHandler
	FormHandler       *uihandlers.FormHandler
	EventsHandler     *uihandlers.EventsHandler
	FormSession       *uimiddleware.FormSession
}

// Server — HTTP-сервер Report Form.
type Server struct {
	httpServer *http.Server
	// cancelBase завершает контексты запросов (SSE) перед shutdown
	cancelBase context.CancelFunc
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, c Components) *Server {
	baseCtx, cancelBase := context.WithCancel(context.Background())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           NewRouter(cfg, logger, c),
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
		ReadHeaderTimeout: 10 * time.Second,
		// Без WriteTimeout: SSE-соединения долгоживущие, загрузка на
		// ingest-сервер не ограничена по времени.
		IdleTimeout: 120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		cancelBase: cancelBase,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-маршрутизатор:
//   - /health/*, /metrics — без сессии
//   - /static/* — встроенные CSS/JS
//   - /api/v1/submissions — JSON API с CORS
//   - остальное — форма (i18n + сессия формы)
func NewRouter(cfg *config.Config, logger *slog.Logger, c Components) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	router.Get("/health/live", c.HealthHandler.HealthLive)
	router.Get("/health/ready", c.HealthHandler.HealthReady)
	router.Get("/metrics", c.HealthHandler.GetMetrics)

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Route("/api/v1", func(r chi.Router) {
		// Пустой AllowedOrigins в rs/cors означает "любой origin",
		// поэтому без явного списка middleware не подключается
		if len(cfg.CORSAllowedOrigins) > 0 {
			// Preflight обрабатывается cors до маршрутизации подроутера
			r.Use(cors.New(cors.Options{
				AllowedOrigins: cfg.CORSAllowedOrigins,
				AllowedMethods: []string{http.MethodPost},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         600,
			}).Handler)
		}
		r.Post("/submissions", c.SubmissionHandler.CreateSubmission)
	})

	router.Group(func(r chi.Router) {
		r.Use(i18n.Middleware())
		r.Post("/set-language", uihandlers.HandleSetLanguage)

		r.Group(func(r chi.Router) {
			r.Use(c.FormSession.Middleware())
			r.Get("/", c.FormHandler.HandleForm)
			r.Post("/form/field", c.FormHandler.HandleField)
			r.Post("/form/files", c.FormHandler.HandleFiles)
			r.Post("/form/submit", c.FormHandler.HandleSubmit)
		})

		r.With(c.FormSession.Existing()).Get("/events/notifications", c.EventsHandler.HandleNotifications)
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	// SSE-соединения не становятся idle сами: закрываем их контексты.
	// Начатые отправки отчётов работают с контекстом без отмены.
	s.cancelBase()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
