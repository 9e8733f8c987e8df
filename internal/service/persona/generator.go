// Package persona produces the strategic creator summary from fetched profiles.
package persona

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/prompt"
	"github.com/kapu/zenith-go/internal/service/ai"
	"github.com/kapu/zenith-go/internal/util"
	"go.uber.org/zap"
)

// JSONGenerator is the model call the generator depends on; *ai.ModelManager satisfies it.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, preset ai.ModelPreset, dest any, opts *ai.GenerateOptions) (*ai.GenerateMetadata, error)
}

// Generator renders the persona prompt and asks the model for a JSON persona. Every
// failure path ends in domain.FallbackPersona with a nil error.
type Generator struct {
	model          JSONGenerator
	logger         *zap.Logger
	maxAttempts    int
	baseDelay      time.Duration
	jitter         time.Duration
	attemptTimeout time.Duration
}

func NewGenerator(model JSONGenerator, logger *zap.Logger) *Generator {
	return &Generator{
		model:          model,
		logger:         util.OrNop(logger),
		maxAttempts:    constants.RetryConfig.MaxAttempts,
		baseDelay:      constants.RetryConfig.BaseDelay,
		jitter:         constants.RetryConfig.Jitter,
		attemptTimeout: constants.APIConfig.PersonaAttemptTimeout,
	}
}

// WithRetry overrides the retry schedule.
func (g *Generator) WithRetry(maxAttempts int, baseDelay, jitter time.Duration) *Generator {
	g.maxAttempts = util.Max(maxAttempts, 1)
	g.baseDelay = baseDelay
	g.jitter = jitter
	return g
}

// Generate never returns a nil persona on a nil error. Both profiles may be nil.
func (g *Generator) Generate(ctx context.Context, yt *domain.YouTubeProfile, ig *domain.InstagramProfile) (*domain.Persona, error) {
	if g.model == nil {
		g.logger.Warn("Persona model not configured, using fallback")
		return domain.FallbackPersona(), nil
	}

	text, err := prompt.BuildPersonaPrompt(yt, ig)
	if err != nil {
		g.logger.Warn("Failed to build persona prompt, using fallback", zap.Error(err))
		return domain.FallbackPersona(), nil
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		persona, meta, err := g.attempt(ctx, text)
		if err == nil {
			g.logger.Debug("Persona generated",
				zap.Int("attempt", attempt),
				zap.String("provider", meta.Provider),
				zap.Bool("used_fallback", meta.UsedFallback),
			)
			return persona, nil
		}
		lastErr = err

		g.logger.Warn("Persona generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.maxAttempts),
			zap.Error(err),
		)

		if attempt == g.maxAttempts || ctx.Err() != nil {
			break
		}
		if !sleepContext(ctx, g.backoff(attempt)) {
			break
		}
	}

	g.logger.Warn("Persona generation failed, using fallback", zap.Error(lastErr))
	return domain.FallbackPersona(), nil
}

func (g *Generator) attempt(ctx context.Context, text string) (*domain.Persona, *ai.GenerateMetadata, error) {
	attemptCtx := ctx
	if g.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, g.attemptTimeout)
		defer cancel()
	}

	var persona domain.Persona
	meta, err := g.model.GenerateJSON(attemptCtx, text, ai.PresetReport, &persona, nil)
	if err != nil {
		return nil, nil, err
	}
	if meta == nil {
		meta = &ai.GenerateMetadata{}
	}
	if persona.Summary == "" && persona.Archetype == "" {
		return nil, nil, fmt.Errorf("persona response missing archetype and summary")
	}
	return persona.Normalize(), meta, nil
}

func (g *Generator) backoff(attempt int) time.Duration {
	delay := g.baseDelay * time.Duration(1<<(attempt-1))
	if g.jitter > 0 {
		delay += time.Duration(rand.Int64N(int64(g.jitter)))
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
