package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"question-analyzer/internal/analyzer"
	"question-analyzer/internal/config"
	"question-analyzer/internal/handle"
	"question-analyzer/internal/httpserver"
	"question-analyzer/internal/logger"
	"question-analyzer/internal/upload"
	"question-analyzer/internal/vision"
	"question-analyzer/internal/vision/gemini"
	"question-analyzer/internal/vision/openai"
	"question-analyzer/web/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		lg := logger.Setup("info", "json")
		lg.Fatal().Err(err).Msg("configuration error")
	}
	logg := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	engines := &vision.Engines{
		Gemini:  gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		OpenAI:  openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL),
		Default: cfg.DefaultEngine,
	}

	store, err := upload.NewStore(cfg.MaxUploadBytes())
	if err != nil {
		logg.Fatal().Err(err).Msg("upload store init failed")
	}
	defer store.Close()

	svc := analyzer.New(engines, store, logg)
	h := handle.New(svc, logg, cfg.MaxUploadBytes())

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handle.Healthz)
	mux.HandleFunc("/v1/analyze", h.Analyze)
	mux.Handle("/", ui.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logg.Info().
		Str("default_engine", cfg.DefaultEngine).
		Str("gemini_model", cfg.GeminiModel).
		Int("max_upload_mb", cfg.MaxUploadMB).
		Msg("question analyzer starting")

	if err := httpserver.Serve(ctx, "0.0.0.0:"+cfg.Port, mux, logg); err != nil {
		logg.Fatal().Err(err).Msg("http server failed")
	}
}
