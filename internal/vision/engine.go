package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Engine names accepted from clients.
const (
	EngineGemini = "gemini"
	EngineOpenAI = "openai"
)

// Request carries one image and the instructions for analyzing it.
type Request struct {
	Image        []byte
	MIME         string
	Instructions string
}

// Engine is one vision-capable model provider. Analyze returns the raw
// model text; callers parse it into question records.
type Engine interface {
	Name() string
	GetModel() string
	Analyze(ctx context.Context, req Request) (string, error)
}

// Engines holds the configured providers. Default names the engine used
// when a request does not pick one; empty means gemini.
type Engines struct {
	Gemini  Engine
	OpenAI  Engine
	Default string
}

// Get resolves a provider by client-facing name.
func (e *Engines) Get(name string) (Engine, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		n = strings.ToLower(strings.TrimSpace(e.Default))
	}
	switch n {
	case "", EngineGemini:
		if e.Gemini == nil {
			return nil, errors.New("gemini engine is not configured")
		}
		return e.Gemini, nil
	case EngineOpenAI, "gpt":
		if e.OpenAI == nil {
			return nil, errors.New("openai engine is not configured")
		}
		return e.OpenAI, nil
	default:
		return nil, fmt.Errorf("unknown engine %q; use 'gemini' or 'openai'", name)
	}
}

// Names lists the configured engine names.
func (e *Engines) Names() []string {
	var names []string
	if e.Gemini != nil {
		names = append(names, EngineGemini)
	}
	if e.OpenAI != nil {
		names = append(names, EngineOpenAI)
	}
	return names
}

// Manager tracks a per-chat engine selection with a process-wide default.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
