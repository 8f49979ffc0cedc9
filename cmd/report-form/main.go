// main.go — точка входа Report Form.
// Форма отчёта в браузере: состояние формы хранится на сервере по сессии,
// выбранные файлы по одному отправляются на ingest-сервер (POST /api/ingest).
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/Tornike-I/digiEduHack-hackathon/internal/api/handlers"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/config"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/ingestclient"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/server"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/service"
	uihandlers "github.com/Tornike-I/digiEduHack-hackathon/internal/ui/handlers"
	"github.com/Tornike-I/digiEduHack-hackathon/internal/ui/i18n"
	uimiddleware "github.com/Tornike-I/digiEduHack-hackathon/internal/ui/middleware"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения (и .env)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Report Form запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("ingest_endpoint", cfg.IngestEndpoint()),
	)

	// 3. i18n каталоги
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки i18n каталогов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Клиент ingest-сервера
	ingest, err := ingestclient.New(cfg.IngestURL, cfg.IngestCACertPath, cfg.IngestTimeout, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента ingest-сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.IngestMetadataFromForm {
		logger.Info("Регион для metadata берётся из формы")
	}

	// 5. Уведомления и хранилище форм по сессиям
	hub := service.NewNotificationHub()
	store := service.NewSessionStore(
		cfg.SessionMax,
		cfg.SessionTTL,
		func(sessionID string) *service.SubmissionController {
			return service.NewSubmissionController(ingest, hub.ForSession(sessionID), cfg.IngestMetadataFromForm, logger)
		},
		hub.Forget,
		logger,
	)

	// 6. topologymetrics — мониторинг ingest-сервера (опционально)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		readiness handlers.ReadinessChecker
		health    uihandlers.IngestHealthSource
	)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"report-form",
		cfg.DephealthGroup,
		cfg.IngestURL,
		cfg.IngestHealthPath,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		readiness = dephealthSvc
		health = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 7. HTTP-обработчики
	components := server.Components{
		HealthHandler:     handlers.NewHealthHandler(readiness),
		SubmissionHandler: handlers.NewSubmissionHandler(ingest, cfg.IngestMetadataFromForm, logger),
		FormHandler:       uihandlers.NewFormHandler(logger),
		EventsHandler:     uihandlers.NewEventsHandler(hub, health, cfg.DephealthCheckInterval, logger),
		FormSession:       uimiddleware.NewFormSession(store, cfg.SessionSecureCookie, logger),
	}

	// 8. Запуск сервера (блокирующий вызов с graceful shutdown)
	srv := server.New(cfg, logger, components)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 9. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Report Form остановлен")
}
