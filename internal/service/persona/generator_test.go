package persona

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/service/ai"
	"go.uber.org/zap"
)

type scriptedModel struct {
	responses []string
	errs      []error
	calls     atomic.Int32
	prompts   []string
}

func (m *scriptedModel) GenerateJSON(ctx context.Context, prompt string, preset ai.ModelPreset, dest any, opts *ai.GenerateOptions) (*ai.GenerateMetadata, error) {
	i := int(m.calls.Add(1)) - 1
	m.prompts = append(m.prompts, prompt)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.responses) {
		return nil, errors.New("no scripted response")
	}
	if err := json.Unmarshal([]byte(m.responses[i]), dest); err != nil {
		return nil, err
	}
	return &ai.GenerateMetadata{Provider: "fake"}, nil
}

const validPersona = `{
  "niche": {"primary": "Tech", "secondary": "Education"},
  "archetype": "Educator",
  "topics": ["coding"],
  "engagement": {"behavior": "Interactive", "rate": "High"},
  "summary": "Teaches coding to beginners."
}`

func TestGenerateSuccess(t *testing.T) {
	model := &scriptedModel{responses: []string{validPersona}}
	g := NewGenerator(model, zap.NewNop()).WithRetry(3, 0, 0)

	got, err := g.Generate(context.Background(), &domain.YouTubeProfile{Title: "Acme"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Archetype != "Educator" || got.IsFallback() {
		t.Fatalf("unexpected persona %+v", got)
	}
	if got.SWOT.Strengths == nil || got.SWOT.Weaknesses == nil {
		t.Fatal("expected normalized swot lists")
	}
	if model.calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", model.calls.Load())
	}
}

func TestGenerateRetriesThenSucceeds(t *testing.T) {
	model := &scriptedModel{
		errs:      []error{errors.New("503 unavailable"), nil},
		responses: []string{"", validPersona},
	}
	g := NewGenerator(model, zap.NewNop()).WithRetry(3, 0, 0)

	got, err := g.Generate(context.Background(), nil, &domain.InstagramProfile{Username: "acme"})
	if err != nil || got.IsFallback() {
		t.Fatalf("expected generated persona, got %+v err=%v", got, err)
	}
	if model.calls.Load() != 2 {
		t.Fatalf("expected two calls, got %d", model.calls.Load())
	}
}

func TestGenerateFallsBackAfterRetries(t *testing.T) {
	boom := errors.New("boom")
	model := &scriptedModel{errs: []error{boom, boom, boom}}
	g := NewGenerator(model, zap.NewNop()).WithRetry(3, 0, 0)

	got, err := g.Generate(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("fallback must not return an error, got %v", err)
	}
	if !got.IsFallback() || got.Archetype != "Unknown" || got.Audience.Type != "General" {
		t.Fatalf("expected fallback persona, got %+v", got)
	}
	if model.calls.Load() != 3 {
		t.Fatalf("expected three attempts, got %d", model.calls.Load())
	}
}

func TestGenerateRejectsEmptyPersona(t *testing.T) {
	model := &scriptedModel{responses: []string{`{}`}}
	g := NewGenerator(model, zap.NewNop()).WithRetry(1, 0, 0)

	got, _ := g.Generate(context.Background(), nil, nil)
	if !got.IsFallback() {
		t.Fatalf("expected fallback for empty persona, got %+v", got)
	}
}

func TestGenerateStopsOnCanceledContext(t *testing.T) {
	model := &scriptedModel{errs: []error{errors.New("boom"), errors.New("boom")}}
	g := NewGenerator(model, zap.NewNop()).WithRetry(5, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := g.Generate(ctx, nil, nil)
	if err != nil || !got.IsFallback() {
		t.Fatalf("expected fallback, got %+v err=%v", got, err)
	}
	if model.calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", model.calls.Load())
	}
}

func TestGenerateWithoutModel(t *testing.T) {
	got, err := NewGenerator(nil, nil).Generate(context.Background(), nil, nil)
	if err != nil || !got.IsFallback() {
		t.Fatalf("expected fallback, got %+v err=%v", got, err)
	}
}
