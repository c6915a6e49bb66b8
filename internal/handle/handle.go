package handle

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"question-analyzer/internal/analyzer"
)

type Handle struct {
	svc      *analyzer.Service
	log      zerolog.Logger
	maxBytes int64
}

// New builds the HTTP handler set. maxBytes caps a single uploaded
// image; zero disables the cap.
func New(svc *analyzer.Service, log zerolog.Logger, maxBytes int64) *Handle {
	return &Handle{
		svc:      svc,
		log:      log,
		maxBytes: maxBytes,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
