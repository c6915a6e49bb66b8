package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"question-analyzer/internal/analyzer"
	"question-analyzer/internal/config"
	"question-analyzer/internal/handle"
	"question-analyzer/internal/logger"
	"question-analyzer/internal/telegram"
	"question-analyzer/internal/upload"
	"question-analyzer/internal/vision"
	"question-analyzer/internal/vision/gemini"
	"question-analyzer/internal/vision/openai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		lg := logger.Setup("info", "json")
		lg.Fatal().Err(err).Msg("configuration error")
	}
	logg := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if strings.TrimSpace(cfg.TelegramBotToken) == "" {
		logg.Fatal().Msg("TELEGRAM_BOT_TOKEN is required for the bot")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logg.Fatal().Err(err).Msg("telegram connect failed")
	}
	bot.Debug = false
	logg.Info().Str("username", bot.Self.UserName).Msg("authorized on telegram")

	engines := &vision.Engines{
		Gemini:  gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		OpenAI:  openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL),
		Default: cfg.DefaultEngine,
	}
	defEng, err := engines.Get("")
	if err != nil {
		logg.Fatal().Err(err).Msg("default engine unavailable")
	}

	store, err := upload.NewStore(cfg.MaxUploadBytes())
	if err != nil {
		logg.Fatal().Err(err).Msg("upload store init failed")
	}
	defer store.Close()

	r := &telegram.Router{
		Bot:        bot,
		Analyzer:   analyzer.New(engines, store, logg),
		Engines:    engines,
		EngManager: vision.NewManager(defEng),
		Log:        logg,
	}

	// ListenForWebhook registers its handler on DefaultServeMux, so healthz
	// goes there too.
	http.HandleFunc("/healthz", handle.Healthz)

	addr := "0.0.0.0:" + cfg.Port

	// --- Choose mode: Webhook vs Polling ---
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL != "" {
		startWebhookMode(addr, bot, r, webhookURL, logg)
	} else {
		startPollingMode(addr, bot, r, logg)
	}
}

// ---------------- Modes -----------------

func startWebhookMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string, logg zerolog.Logger) {
	// secret webhook path derived from the token
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		logg.Fatal().Err(err).Msg("bad webhook url")
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		logg.Fatal().Err(err).Msg("webhook registration failed")
	}

	updates := bot.ListenForWebhook(path)

	go func() {
		for upd := range updates {
			r.HandleUpdate(upd)
		}
		logg.Info().Msg("webhook updates channel closed")
	}()

	logg.Info().Str("addr", addr).Str("path", path).Msg("webhook listening")
	if err := http.ListenAndServe(addr, nil); err != nil { // DefaultServeMux
		logg.Fatal().Err(err).Msg("http server failed")
	}
}

func startPollingMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, logg zerolog.Logger) {
	// healthz is optional for polling but keeps deploys uniform
	go func() {
		logg.Info().Str("addr", addr).Msg("health server listening")
		if err := http.ListenAndServe(addr, nil); err != nil { // DefaultServeMux
			logg.Fatal().Err(err).Msg("http server failed")
		}
	}()

	runPolling(context.Background(), bot, logg, r.HandleUpdate)
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return 2 * time.Second
		}
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, logg zerolog.Logger, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			logg.Info().Msg("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < baseDelay {
				d = baseDelay
			}
			if d > maxDelay {
				d = maxDelay
			}
			logg.Warn().Err(err).Dur("retry_in", d).Msg("polling error")
			time.Sleep(d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			time.Sleep(200 * time.Millisecond)
		}
	}
}

// ---------------- Helpers -----------------

func shortHash(s string) string {
	// FNV-1a; not crypto, but stable for a given token
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	// 16-char hex
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
