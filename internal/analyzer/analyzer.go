package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"question-analyzer/internal/prompt"
	"question-analyzer/internal/question"
	"question-analyzer/internal/upload"
	"question-analyzer/internal/vision"
)

// Input is one uploaded image as received from a client.
type Input struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Result is the outcome for one image. A failed image carries Err and
// empty records; the batch it belongs to is unaffected.
type Result struct {
	Filename     string            `json:"filename"`
	Engine       string            `json:"engine"`
	Model        string            `json:"model"`
	Records      []question.Record `json:"records"`
	SolverPrompt string            `json:"solver_prompt,omitempty"`
	Err          string            `json:"error,omitempty"`
}

// Service turns uploaded images into question records.
type Service struct {
	engines *vision.Engines
	store   *upload.Store
	log     zerolog.Logger
}

func New(engines *vision.Engines, store *upload.Store, log zerolog.Logger) *Service {
	return &Service{engines: engines, store: store, log: log}
}

// Analyze runs every uploaded image through the engine named by
// engineName (empty picks the default). One bad image never aborts the
// batch; its result carries the error instead. Zero inputs yield zero
// results.
func (s *Service) Analyze(ctx context.Context, engineName string, inputs []Input) ([]Result, error) {
	eng, err := s.engines.Get(engineName)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		results = append(results, s.analyzeOne(ctx, eng, in))
	}
	return results, nil
}

func (s *Service) analyzeOne(ctx context.Context, eng vision.Engine, in Input) Result {
	start := time.Now()
	res := Result{Filename: in.Filename, Engine: eng.Name(), Model: eng.GetModel()}

	img, err := s.store.Save(in.Data, in.Filename, in.ContentType)
	if err != nil {
		s.log.Warn().Err(err).Str("file", in.Filename).Msg("upload rejected")
		res.Err = err.Error()
		return res
	}
	defer func() {
		if err := img.Remove(); err != nil {
			s.log.Warn().Err(err).Str("path", img.Path).Msg("temp file cleanup failed")
		}
	}()
	res.Filename = img.Name

	records, solver, err := s.AnalyzeImage(ctx, eng, img)
	if err != nil {
		s.log.Warn().Err(err).Str("file", img.Name).Str("engine", eng.Name()).Msg("analysis failed")
		res.Err = err.Error()
		return res
	}

	s.log.Info().
		Str("file", img.Name).
		Str("engine", eng.Name()).
		Int("records", len(records)).
		Dur("took", time.Since(start)).
		Msg("image analyzed")

	res.Records = records
	res.SolverPrompt = solver
	return res
}

// AnalyzeImage runs one stored image through the pipeline: model call,
// record parsing, normalization, solver prompt rendering. The caller
// owns the image handle and its removal.
func (s *Service) AnalyzeImage(ctx context.Context, eng vision.Engine, img *upload.Image) ([]question.Record, string, error) {
	data, err := os.ReadFile(img.Path)
	if err != nil {
		return nil, "", fmt.Errorf("read temp file: %w", err)
	}

	raw, err := eng.Analyze(ctx, vision.Request{
		Image:        data,
		MIME:         img.MIME,
		Instructions: prompt.Extraction(),
	})
	if err != nil {
		return nil, "", err
	}

	records, err := question.ParseRecords(raw)
	if err != nil {
		return nil, "", err
	}
	for i := range records {
		question.Normalize(&records[i])
	}

	if len(records) == 0 {
		return records, "", nil
	}

	buf, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return records, prompt.Solver(string(buf)), nil
}
