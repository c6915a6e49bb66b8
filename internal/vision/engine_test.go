package vision

import (
	"context"
	"testing"
)

type fakeEngine struct{ name string }

func (f *fakeEngine) Name() string     { return f.name }
func (f *fakeEngine) GetModel() string { return "fake-model" }
func (f *fakeEngine) Analyze(ctx context.Context, req Request) (string, error) {
	return "[]", nil
}

func TestEnginesGet(t *testing.T) {
	gem := &fakeEngine{name: EngineGemini}
	oai := &fakeEngine{name: EngineOpenAI}
	engs := &Engines{Gemini: gem, OpenAI: oai}

	tests := []struct {
		name string
		pick string
		want Engine
	}{
		{"empty picks gemini", "", gem},
		{"gemini", "gemini", gem},
		{"case insensitive", "GEMINI", gem},
		{"openai", "openai", oai},
		{"gpt alias", "gpt", oai},
		{"whitespace", "  openai  ", oai},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engs.Get(tt.pick)
			if err != nil {
				t.Fatalf("Get(%q): %v", tt.pick, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %v, want %v", tt.pick, got.Name(), tt.want.Name())
			}
		})
	}
}

func TestEnginesGetUnknown(t *testing.T) {
	engs := &Engines{Gemini: &fakeEngine{name: EngineGemini}}
	if _, err := engs.Get("claude"); err == nil {
		t.Error("expected error for unknown engine name")
	}
}

func TestEnginesGetUnconfigured(t *testing.T) {
	engs := &Engines{Gemini: &fakeEngine{name: EngineGemini}}
	if _, err := engs.Get("openai"); err == nil {
		t.Error("expected error for unconfigured openai engine")
	}
}

func TestEnginesDefault(t *testing.T) {
	gem := &fakeEngine{name: EngineGemini}
	oai := &fakeEngine{name: EngineOpenAI}
	engs := &Engines{Gemini: gem, OpenAI: oai, Default: "openai"}

	got, err := engs.Get("")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != oai {
		t.Errorf("Get(\"\") = %v, want default openai", got.Name())
	}
}

func TestEnginesNames(t *testing.T) {
	engs := &Engines{Gemini: &fakeEngine{name: EngineGemini}, OpenAI: &fakeEngine{name: EngineOpenAI}}
	names := engs.Names()
	if len(names) != 2 || names[0] != EngineGemini || names[1] != EngineOpenAI {
		t.Errorf("Names = %v", names)
	}
}

func TestManager(t *testing.T) {
	def := &fakeEngine{name: EngineGemini}
	other := &fakeEngine{name: EngineOpenAI}
	m := NewManager(def)

	if got := m.Get(1); got != def {
		t.Errorf("Get(1) = %v, want default", got.Name())
	}

	m.Set(1, other)
	if got := m.Get(1); got != other {
		t.Errorf("Get(1) after Set = %v, want openai", got.Name())
	}
	if got := m.Get(2); got != def {
		t.Errorf("Get(2) = %v, want default untouched", got.Name())
	}
}
