package analysis

import (
	"time"

	"github.com/kapu/zenith-go/internal/domain"
	"go.uber.org/zap"
)

// Stage statuses reported in the summary log and to the metrics recorder.
const (
	StatusOK       = "ok"
	StatusEmpty    = "empty"
	StatusError    = "error"
	StatusSkipped  = "skipped"
	StatusHit      = "hit"
	StatusMiss     = "miss"
	StatusBypassed = "bypassed"
	StatusFallback = "fallback"
	StatusSaved    = "saved"
)

// Analysis outcomes.
const (
	OutcomeCacheHit = "cache_hit"
	OutcomeFresh    = "fresh"
	OutcomeNoData   = "no_data"
	OutcomeInvalid  = "invalid"
	OutcomeCanceled = "canceled"
)

// FetchOutcome captures one platform task's result. Failures are values, not panics.
type FetchOutcome[T any] struct {
	Requested bool
	Profile   *T
	Err       error
	Latency   time.Duration
}

func (o FetchOutcome[T]) Status() string {
	switch {
	case !o.Requested:
		return StatusSkipped
	case o.Err != nil:
		return StatusError
	case o.Profile == nil:
		return StatusEmpty
	default:
		return StatusOK
	}
}

func (o FetchOutcome[T]) fields(platform string) []zap.Field {
	fields := []zap.Field{zap.String(platform+"_fetch", o.Status())}
	if o.Requested {
		fields = append(fields, zap.Duration(platform+"_latency", o.Latency))
	}
	if o.Err != nil {
		fields = append(fields, zap.NamedError(platform+"_error", o.Err))
	}
	return fields
}

type PersonaOutcome struct {
	Status string
	Err    error
}

type PersistOutcome struct {
	Status    string
	CreatorID int64
	Err       error
}

// report accumulates per-stage outcomes for the single summary log entry.
type report struct {
	id        string
	handle    string
	started   time.Time
	cache     string
	youtube   FetchOutcome[domain.YouTubeProfile]
	instagram FetchOutcome[domain.InstagramProfile]
	persona   PersonaOutcome
	persist   PersistOutcome
}

func (r *report) platforms() []string {
	var platforms []string
	if r.youtube.Requested {
		platforms = append(platforms, "youtube")
	}
	if r.instagram.Requested {
		platforms = append(platforms, "instagram")
	}
	return platforms
}

func (r *report) fields(outcome string, elapsed time.Duration) []zap.Field {
	fields := []zap.Field{
		zap.String("analysis_id", r.id),
		zap.String("handle", r.handle),
		zap.String("outcome", outcome),
		zap.String("cache", r.cache),
		zap.Duration("elapsed", elapsed),
	}
	fields = append(fields, r.youtube.fields("youtube")...)
	fields = append(fields, r.instagram.fields("instagram")...)
	if r.persona.Status != "" {
		fields = append(fields, zap.String("persona", r.persona.Status))
		if r.persona.Err != nil {
			fields = append(fields, zap.NamedError("persona_error", r.persona.Err))
		}
	}
	if r.persist.Status != "" {
		fields = append(fields, zap.String("persist", r.persist.Status))
		if r.persist.CreatorID != 0 {
			fields = append(fields, zap.Int64("creator_id", r.persist.CreatorID))
		}
		if r.persist.Err != nil {
			fields = append(fields, zap.NamedError("persist_error", r.persist.Err))
		}
	}
	return fields
}
