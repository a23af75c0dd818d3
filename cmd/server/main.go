package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/buslog-visualizer/backend/internal/api"
	"github.com/buslog-visualizer/backend/internal/config"
	"github.com/buslog-visualizer/backend/internal/session"
	"github.com/buslog-visualizer/backend/internal/storage"
	"github.com/buslog-visualizer/backend/internal/upload"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Resolve config next to the executable for air-gapped deployments
	exePath, err := os.Executable()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get executable path")
	}
	exeDir := filepath.Dir(exePath)

	configPath := filepath.Join(exeDir, "buslog-visualizer.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Advanced.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directories")
	}

	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	sessionMgr := session.NewManagerWithTempDir(cfg.Storage.TempDirectory)

	if cfg.Processing.ChannelRulesFile != "" {
		rules, err := config.LoadChannelRules(cfg.Processing.ChannelRulesFile)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Processing.ChannelRulesFile).Msg("failed to load channel rules")
		} else {
			sessionMgr.SetChannelRules(rules)
			log.Info().Int("channels", len(rules.Channels)).Msg("channel rules loaded")
		}
	}

	uploadMgr := upload.NewManager(cfg.GetUploadDir(), fileStore)

	// Background cleanup of aged sessions and finished upload jobs
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Processing.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			sessionMgr.CleanupOldSessions(time.Duration(cfg.Processing.SessionTimeoutMinutes) * time.Minute)
			uploadMgr.CleanupOldJobs(time.Hour)
		}
	}()

	// Drop-directory auto-ingest
	if cfg.Storage.WatchDirectory != "" {
		watcher := upload.NewWatcher(cfg.Storage.WatchDirectory, fileStore,
			strings.Split(cfg.Security.AllowedFileTypes, ","))
		go func() {
			if err := watcher.Run(context.Background()); err != nil {
				log.Error().Err(err).Msg("drop directory watcher stopped")
			}
		}()
	}

	handlers := api.NewHandlers(&api.Dependencies{
		Store:            fileStore,
		SessionMgr:       sessionMgr,
		UploadMgr:        uploadMgr,
		AllowedFileTypes:  cfg.Security.AllowedFileTypes,
		AllowFileDeletion: cfg.Security.AllowFileDeletion,
		Version:           Version,
	})

	e := echo.New()
	e.HideBanner = true
	api.SetupMiddleware(e)

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/status") ||
				strings.HasSuffix(path, "/progress") ||
				path == "/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.Contains(path, "/stream") ||
				strings.Contains(path, "/progress") ||
				strings.Contains(path, "/upload") ||
				c.Request().Header.Get("Accept") == "text/event-stream"
		},
		ErrorMessage: "Request timeout - query took too long",
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Accept") == "text/event-stream" ||
				strings.HasSuffix(c.Request().URL.Path, "/msgpack")
		},
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	api.RegisterRoutes(e, handlers)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	log.Info().
		Str("version", Version).
		Str("buildTime", BuildTime).
		Str("config", configPath).
		Str("addr", cfg.GetServerAddr()).
		Str("dataDir", cfg.GetDataDir()).
		Msg("bus log visualizer server starting")

	if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
