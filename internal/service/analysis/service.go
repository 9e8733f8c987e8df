// Package analysis orchestrates a creator analysis: resolve the handle, serve the stored
// record when present, otherwise fetch every requested platform concurrently, generate
// a persona and persist the merged result.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/service/handle"
	"github.com/kapu/zenith-go/internal/service/normalize"
	"github.com/kapu/zenith-go/internal/service/store"
	"github.com/kapu/zenith-go/internal/util"
	apperrors "github.com/kapu/zenith-go/pkg/errors"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

var errFetcherNotConfigured = errors.New("fetcher not configured")

type YouTubeFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.YouTubeProfile, error)
}

type InstagramFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.InstagramProfile, error)
}

type PersonaGenerator interface {
	Generate(ctx context.Context, yt *domain.YouTubeProfile, ig *domain.InstagramProfile) (*domain.Persona, error)
}

// Recorder receives per-stage outcomes. *metrics.Collector satisfies it.
type Recorder interface {
	RecordAnalysis(outcome string, duration time.Duration)
	RecordCacheLookup(status string)
	RecordFetch(platform, outcome string, latency time.Duration)
	RecordPersona(status string)
	RecordPersist(status string)
}

// Dependencies wires the orchestrator. Any collaborator may be nil: a nil Store disables
// caching and persistence, a nil fetcher fails that platform, a nil Persona yields no persona.
type Dependencies struct {
	Resolver  *handle.Resolver
	Store     store.Store
	YouTube   YouTubeFetcher
	Instagram InstagramFetcher
	Persona   PersonaGenerator
	Metrics   Recorder
}

type Service struct {
	resolver       *handle.Resolver
	store          store.Store
	youtube        YouTubeFetcher
	instagram      InstagramFetcher
	persona        PersonaGenerator
	metrics        Recorder
	logger         *zap.Logger
	now            func() time.Time
	persistTimeout time.Duration
}

func NewService(deps Dependencies, logger *zap.Logger) *Service {
	logger = util.OrNop(logger)
	resolver := deps.Resolver
	if resolver == nil {
		resolver = handle.NewResolver(logger)
	}
	return &Service{
		resolver:       resolver,
		store:          deps.Store,
		youtube:        deps.YouTube,
		instagram:      deps.Instagram,
		persona:        deps.Persona,
		metrics:        deps.Metrics,
		logger:         logger,
		now:            time.Now,
		persistTimeout: constants.APIConfig.PersistTimeout,
	}
}

// Analyze runs one analysis. It returns a ValidationError when no URL is given and a
// NoDataError when no requested platform produced a profile.
func (s *Service) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	youtubeURL := strings.TrimSpace(req.YouTubeURL)
	instagramURL := strings.TrimSpace(req.InstagramURL)

	if youtubeURL == "" && instagramURL == "" {
		s.recordAnalysis(OutcomeInvalid, 0)
		return nil, apperrors.NewValidationError("at least one of youtubeUrl or instagramUrl is required", "youtubeUrl", nil)
	}

	rep := &report{
		id:      uuid.NewString(),
		started: s.now(),
		handle:  s.resolver.Resolve(youtubeURL, instagramURL),
	}

	if result := s.lookup(ctx, rep, req.ForceRefresh); result != nil {
		s.finish(rep, OutcomeCacheHit)
		return result, nil
	}

	rep.youtube, rep.instagram = s.fetchAll(ctx, youtubeURL, instagramURL)

	if rep.youtube.Profile == nil && rep.instagram.Profile == nil {
		if err := ctx.Err(); err != nil {
			s.finish(rep, OutcomeCanceled)
			return nil, fmt.Errorf("analysis canceled: %w", err)
		}
		s.finish(rep, OutcomeNoData)
		return nil, apperrors.NewNoDataError(rep.handle, rep.platforms())
	}

	result := &domain.AnalysisResult{
		YouTube:   normalize.YouTubeProfile(rep.youtube.Profile),
		Instagram: normalize.InstagramProfile(rep.instagram.Profile),
	}
	result.Persona = s.generatePersona(ctx, rep, result.YouTube, result.Instagram)

	s.persist(ctx, rep, result)
	s.finish(rep, OutcomeFresh)
	return result, nil
}

func (s *Service) lookup(ctx context.Context, rep *report, forceRefresh bool) *domain.AnalysisResult {
	switch {
	case s.store == nil || rep.handle == constants.HandleUnknown:
		rep.cache = StatusSkipped
	case forceRefresh:
		rep.cache = StatusBypassed
	default:
		rec, err := s.store.GetCreator(ctx, rep.handle)
		if err != nil {
			s.logger.Warn("Creator lookup failed, treating as miss",
				zap.String("analysis_id", rep.id),
				zap.String("handle", rep.handle),
				zap.Error(err),
			)
			rep.cache = StatusError
			break
		}
		if result := normalize.ResultFromRecord(rec); result != nil {
			rep.cache = StatusHit
			s.recordCache(rep.cache)
			return result
		}
		rep.cache = StatusMiss
	}
	s.recordCache(rep.cache)
	return nil
}

func (s *Service) fetchAll(ctx context.Context, youtubeURL, instagramURL string) (FetchOutcome[domain.YouTubeProfile], FetchOutcome[domain.InstagramProfile]) {
	var (
		wg        conc.WaitGroup
		youtube   FetchOutcome[domain.YouTubeProfile]
		instagram FetchOutcome[domain.InstagramProfile]
	)

	if youtubeURL != "" {
		var fetch func(context.Context, string) (*domain.YouTubeProfile, error)
		if s.youtube != nil {
			fetch = s.youtube.Fetch
		}
		wg.Go(func() { youtube = runFetch(ctx, fetch, youtubeURL) })
	}
	if instagramURL != "" {
		var fetch func(context.Context, string) (*domain.InstagramProfile, error)
		if s.instagram != nil {
			fetch = s.instagram.Fetch
		}
		wg.Go(func() { instagram = runFetch(ctx, fetch, instagramURL) })
	}
	wg.Wait()

	s.recordFetch(domain.PlatformYouTube, youtube.Requested, youtube.Status(), youtube.Latency)
	s.recordFetch(domain.PlatformInstagram, instagram.Requested, instagram.Status(), instagram.Latency)
	return youtube, instagram
}

// runFetch never panics; a panicking fetcher is recorded as the task's error.
func runFetch[T any](ctx context.Context, fetch func(context.Context, string) (*T, error), rawURL string) FetchOutcome[T] {
	out := FetchOutcome[T]{Requested: true}
	if fetch == nil {
		out.Err = errFetcherNotConfigured
		return out
	}

	start := time.Now()
	var catcher panics.Catcher
	catcher.Try(func() {
		out.Profile, out.Err = fetch(ctx, rawURL)
	})
	out.Latency = time.Since(start)

	if recovered := catcher.Recovered(); recovered != nil {
		out.Profile = nil
		out.Err = recovered.AsError()
	}
	if out.Err != nil {
		out.Profile = nil
	}
	return out
}

func (s *Service) generatePersona(ctx context.Context, rep *report, yt *domain.YouTubeProfile, ig *domain.InstagramProfile) *domain.Persona {
	if s.persona == nil {
		rep.persona = PersonaOutcome{Status: StatusSkipped}
		s.recordPersona(rep.persona.Status)
		return nil
	}

	var (
		persona *domain.Persona
		err     error
		catcher panics.Catcher
	)
	catcher.Try(func() {
		persona, err = s.persona.Generate(ctx, yt, ig)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		persona, err = nil, recovered.AsError()
	}

	switch {
	case err != nil:
		rep.persona = PersonaOutcome{Status: StatusError, Err: err}
		persona = nil
	case persona == nil:
		rep.persona = PersonaOutcome{Status: StatusEmpty}
	case persona.IsFallback():
		rep.persona = PersonaOutcome{Status: StatusFallback}
	default:
		rep.persona = PersonaOutcome{Status: StatusOK}
	}
	s.recordPersona(rep.persona.Status)
	return persona.Normalize()
}

// persist outlives the caller's cancellation so a disconnected client still gets its
// result stored.
func (s *Service) persist(ctx context.Context, rep *report, result *domain.AnalysisResult) {
	if s.store == nil || rep.handle == constants.HandleUnknown {
		rep.persist = PersistOutcome{Status: StatusSkipped}
		s.recordPersist(rep.persist.Status)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	id, err := s.store.SaveAnalysis(ctx, rep.handle, result)
	if err != nil {
		rep.persist = PersistOutcome{Status: StatusError, Err: err}
	} else {
		rep.persist = PersistOutcome{Status: StatusSaved, CreatorID: id}
	}
	s.recordPersist(rep.persist.Status)
}

func (s *Service) finish(rep *report, outcome string) {
	elapsed := s.now().Sub(rep.started)
	fields := rep.fields(outcome, elapsed)

	switch outcome {
	case OutcomeCacheHit, OutcomeFresh:
		s.logger.Info("Analysis completed", fields...)
	default:
		s.logger.Warn("Analysis failed", fields...)
	}
	s.recordAnalysis(outcome, elapsed)
}

func (s *Service) recordAnalysis(outcome string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordAnalysis(outcome, elapsed)
	}
}

func (s *Service) recordCache(status string) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(status)
	}
}

func (s *Service) recordFetch(platform domain.Platform, requested bool, status string, latency time.Duration) {
	if s.metrics != nil && requested {
		s.metrics.RecordFetch(platform.String(), status, latency)
	}
}

func (s *Service) recordPersona(status string) {
	if s.metrics != nil {
		s.metrics.RecordPersona(status)
	}
}

func (s *Service) recordPersist(status string) {
	if s.metrics != nil {
		s.metrics.RecordPersist(status)
	}
}
