package ai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type fakeProvider struct {
	name string
	text string
	err  error

	mu    sync.Mutex
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if opts == nil || !opts.JSONMode {
		return ProviderResult{}, errors.New("expected json mode")
	}
	if f.err != nil {
		return ProviderResult{}, f.err
	}
	return ProviderResult{Text: f.text, Model: f.name + "-model"}, nil
}

func (f *fakeProvider) Ping(ctx context.Context) bool { return false }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type answer struct {
	Archetype string `json:"archetype"`
}

func TestGenerateJSONPrimary(t *testing.T) {
	primary := &fakeProvider{name: "primary", text: "```json\n{\"archetype\":\"Educator\"}\n```"}
	fallback := &fakeProvider{name: "fallback", text: `{"archetype":"Other"}`}
	mm := NewModelManagerWithProviders(primary, fallback, zap.NewNop())

	var got answer
	meta, err := mm.GenerateJSON(context.Background(), "prompt", PresetReport, &got, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Archetype != "Educator" {
		t.Fatalf("unexpected decode %+v", got)
	}
	if meta.UsedFallback || meta.Provider != "primary" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if fallback.callCount() != 0 {
		t.Fatal("fallback should not be called")
	}
}

func TestGenerateJSONFallback(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("googleapi: Error 503: overloaded")}
	fallback := &fakeProvider{name: "fallback", text: `{"archetype":"Entertainer"}`}
	mm := NewModelManagerWithProviders(primary, fallback, zap.NewNop())

	var got answer
	meta, err := mm.GenerateJSON(context.Background(), "prompt", PresetReport, &got, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !meta.UsedFallback || got.Archetype != "Entertainer" {
		t.Fatalf("expected fallback answer, got %+v %+v", meta, got)
	}
}

func TestGenerateJSONInvalidJSON(t *testing.T) {
	mm := NewModelManagerWithProviders(&fakeProvider{name: "primary", text: "not json"}, nil, zap.NewNop())

	var got answer
	if _, err := mm.GenerateJSON(context.Background(), "prompt", PresetReport, &got, nil); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCircuitOpensAfterServiceFailures(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("500 internal error")}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	var got answer
	for i := 0; i < 3; i++ {
		_, err := mm.GenerateJSON(context.Background(), "prompt", PresetReport, &got, nil)
		if !errors.Is(err, ErrServiceUnavailable) {
			t.Fatalf("attempt %d: expected service unavailable, got %v", i, err)
		}
	}

	if _, err := mm.GenerateJSON(context.Background(), "prompt", PresetReport, &got, nil); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if primary.callCount() != 3 {
		t.Fatalf("open circuit should short-circuit, provider called %d times", primary.callCount())
	}

	mm.ResetCircuit()
	if mm.GetCircuitStatus().FailureCount != 0 {
		t.Fatal("expected reset failure count")
	}
}

func TestClientErrorsDoNotTripCircuit(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("400 invalid argument")}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	var got answer
	for i := 0; i < 5; i++ {
		if _, err := mm.GenerateJSON(context.Background(), "prompt", PresetReport, &got, nil); errors.Is(err, ErrServiceUnavailable) {
			t.Fatalf("client error classified as outage: %v", err)
		}
	}
	if mm.GetCircuitStatus().FailureCount != 0 {
		t.Fatal("client errors should not be counted")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		msg       string
		service   bool
		rateLimit bool
	}{
		{"429 Too Many Requests", true, true},
		{`{"error":{"code":503,"message":"unavailable"}}`, true, false},
		{"request timeout", true, false},
		{"Rate limit reached", true, true},
		{"400 bad request", false, false},
		{"invalid api key", false, false},
	}
	for _, tt := range tests {
		err := errors.New(tt.msg)
		if got := isServiceFailure(err); got != tt.service {
			t.Errorf("isServiceFailure(%q) = %v, want %v", tt.msg, got, tt.service)
		}
		if got := isRateLimitError(err); got != tt.rateLimit {
			t.Errorf("isRateLimitError(%q) = %v, want %v", tt.msg, got, tt.rateLimit)
		}
	}
	if !isServiceFailure(context.DeadlineExceeded) {
		t.Error("deadline exceeded should be a service failure")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"```json\n{}\n```": "{}",
		"```\n[]\n```":     "[]",
		"  {\"a\":1}  ":    `{"a":1}`,
		"":                 "",
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
