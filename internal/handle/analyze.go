package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"question-analyzer/internal/analyzer"
	"question-analyzer/internal/util"
)

// AnalyzeResponse wraps the per-image results of one upload.
type AnalyzeResponse struct {
	Results []analyzer.Result `json:"results"`
}

// AnalyzeJSONRequest is the non-browser variant of the analyze call:
// one base64 image per request.
type AnalyzeJSONRequest struct {
	Engine   string `json:"engine"`
	Filename string `json:"filename"`
	ImageB64 string `json:"image_b64"`
}

// Analyze accepts uploaded question images and returns structured
// records per image. Browsers send multipart/form-data with an "images"
// field (any number of files) plus an optional "engine" value; API
// clients may instead POST JSON with image_b64.
func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var (
		engineName string
		inputs     []analyzer.Input
		err        error
	)

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		engineName, inputs, err = h.readMultipart(r)
	case strings.HasPrefix(ct, "application/json"), ct == "":
		engineName, inputs, err = h.readJSON(w, r)
	default:
		http.Error(w, "unsupported content type: "+ct, http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 180*time.Second)
	defer cancel()

	results, err := h.svc.Analyze(ctx, engineName, inputs)
	if err != nil {
		http.Error(w, "analyze error: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{Results: results})
}

func (h *Handle) readMultipart(r *http.Request) (string, []analyzer.Input, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", nil, fmt.Errorf("bad multipart form: %w", err)
	}
	engineName := r.FormValue("engine")

	var inputs []analyzer.Input
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return "", nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		// Read at most one byte past the cap; that is enough for the
		// store to reject the file as too large.
		var rd io.Reader = f
		if h.maxBytes > 0 {
			rd = io.LimitReader(f, h.maxBytes+1)
		}
		data, err := io.ReadAll(rd)
		_ = f.Close()
		if err != nil {
			return "", nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		inputs = append(inputs, analyzer.Input{
			Data:        data,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}
	return engineName, inputs, nil
}

func (h *Handle) readJSON(w http.ResponseWriter, r *http.Request) (string, []analyzer.Input, error) {
	body := r.Body
	if h.maxBytes > 0 {
		// Headroom for base64 expansion plus the JSON envelope.
		body = http.MaxBytesReader(w, r.Body, h.maxBytes*2)
	}

	var req AnalyzeJSONRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return "", nil, fmt.Errorf("bad json: %w", err)
	}
	if strings.TrimSpace(req.ImageB64) == "" {
		return "", nil, errors.New("image_b64 is required")
	}

	data, hintMIME, err := util.DecodeBase64MaybeDataURL(req.ImageB64)
	if err != nil || len(data) == 0 {
		return "", nil, errors.New("bad image_b64")
	}

	return req.Engine, []analyzer.Input{{
		Data:        data,
		Filename:    req.Filename,
		ContentType: hintMIME,
	}}, nil
}
