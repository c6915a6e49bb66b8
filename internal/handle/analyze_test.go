package handle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"question-analyzer/internal/analyzer"
	"question-analyzer/internal/upload"
	"question-analyzer/internal/vision"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 13}

type stubEngine struct {
	out string
	err error
}

func (s *stubEngine) Name() string     { return "stub" }
func (s *stubEngine) GetModel() string { return "stub-model" }
func (s *stubEngine) Analyze(ctx context.Context, req vision.Request) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

func newTestHandle(t *testing.T, eng vision.Engine) *Handle {
	t.Helper()
	store, err := upload.NewStore(1 << 20)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := analyzer.New(&vision.Engines{Gemini: eng}, store, zerolog.Nop())
	return New(svc, zerolog.Nop(), 1<<20)
}

func multipartBody(t *testing.T, engine string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if engine != "" {
		_ = mw.WriteField("engine", engine)
	}
	for name, data := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, name))
		hdr.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		_, _ = part.Write(data)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeMultipart(t *testing.T) {
	h := newTestHandle(t, &stubEngine{out: `[{"type":"mcq","number":1,"text":"Pick A or B.","options":["A","B"]}]`})

	body, ct := multipartBody(t, "", map[string][]byte{
		"one.png": pngBytes,
		"two.png": pngBytes,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Err != "" {
			t.Errorf("%s failed: %s", r.Filename, r.Err)
		}
		if len(r.Records) != 1 {
			t.Errorf("%s records = %d", r.Filename, len(r.Records))
		}
		if r.SolverPrompt == "" {
			t.Errorf("%s missing solver prompt", r.Filename)
		}
	}
}

func TestAnalyzeMultipartNoFiles(t *testing.T) {
	h := newTestHandle(t, &stubEngine{out: "[]"})

	body, ct := multipartBody(t, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("results = %d, want 0", len(resp.Results))
	}
}

func TestAnalyzeJSONBody(t *testing.T) {
	h := newTestHandle(t, &stubEngine{out: `[{"type":"coding","text":"Sort an array."}]`})

	payload, _ := json.Marshal(AnalyzeJSONRequest{
		Filename: "shot.png",
		ImageB64: base64.StdEncoding.EncodeToString(pngBytes),
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].Filename != "shot.png" {
		t.Errorf("filename = %q", resp.Results[0].Filename)
	}
}

func TestAnalyzeJSONBadBase64(t *testing.T) {
	h := newTestHandle(t, &stubEngine{out: "[]"})

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze",
		strings.NewReader(`{"image_b64":"%%%"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	h := newTestHandle(t, &stubEngine{out: "[]"})

	req := httptest.NewRequest(http.MethodGet, "/v1/analyze", nil)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestAnalyzeUnknownEngine(t *testing.T) {
	h := newTestHandle(t, &stubEngine{out: "[]"})

	body, ct := multipartBody(t, "claude", map[string][]byte{"a.png": pngBytes})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestAnalyzePerImageFailureStaysInBatch(t *testing.T) {
	h := newTestHandle(t, &stubEngine{err: errors.New("upstream down")})

	body, ct := multipartBody(t, "", map[string][]byte{"a.png": pngBytes})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, per-image failures must not fail the request", rec.Code)
	}
	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.Results[0].Err == "" {
		t.Error("expected per-image error in result")
	}
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "ok" {
		t.Errorf("body = %q", got)
	}
}
