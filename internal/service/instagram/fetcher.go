// Package instagram fetches public creator profiles from Instagram.
package instagram

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/service/handle"
	"github.com/kapu/zenith-go/internal/service/normalize"
	"github.com/kapu/zenith-go/internal/util"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Config struct {
	AccessToken       string
	BusinessAccountID string
	GraphVersion      string
	RequestsPerMinute int
	GraphBaseURL      string
	WebBaseURL        string
	Timeout           time.Duration
}

// Fetcher uses Graph API business discovery when credentials are configured and the
// public profile page otherwise. Both paths share one rate limiter.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger

	accessToken       string
	businessAccountID string
	graphVersion      string
	graphBaseURL      string
	webBaseURL        string
}

func NewFetcher(cfg Config, logger *zap.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.APIConfig.InstagramTimeout
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
		burst = util.Max(cfg.RequestsPerMinute/10, 1)
	}

	return &Fetcher{
		httpClient:        &http.Client{Timeout: timeout},
		limiter:           rate.NewLimiter(limit, burst),
		logger:            util.OrNop(logger),
		accessToken:       cfg.AccessToken,
		businessAccountID: cfg.BusinessAccountID,
		graphVersion:      util.FirstNonEmpty(cfg.GraphVersion, "v21.0"),
		graphBaseURL:      strings.TrimRight(util.FirstNonEmpty(cfg.GraphBaseURL, constants.APIConfig.InstagramGraphBaseURL), "/"),
		webBaseURL:        strings.TrimRight(util.FirstNonEmpty(cfg.WebBaseURL, constants.APIConfig.InstagramWebBaseURL), "/"),
	}
}

// UsesGraphAPI reports whether business discovery credentials are configured.
func (f *Fetcher) UsesGraphAPI() bool {
	return f.accessToken != "" && f.businessAccountID != ""
}

// Fetch returns nil, nil when the account does not exist.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.InstagramProfile, error) {
	username, err := ExtractUsername(rawURL)
	if err != nil {
		return nil, err
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("instagram rate limiter: %w", err)
	}

	var profile *domain.InstagramProfile
	if f.UsesGraphAPI() {
		profile, err = f.fetchGraph(ctx, username)
	} else {
		profile, err = f.fetchPublicPage(ctx, username)
	}
	if err != nil || profile == nil {
		return nil, err
	}

	return normalize.InstagramProfile(profile), nil
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// ExtractUsername returns the first path segment of an Instagram profile URL. The
// segment must be a valid Instagram username since it is embedded in Graph API
// field expressions.
func ExtractUsername(rawURL string) (string, error) {
	parsed, err := handle.ParseURL(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid Instagram URL %q", rawURL)
	}
	segments := handle.SplitPath(parsed.Path)
	if len(segments) == 0 {
		return "", fmt.Errorf("instagram URL %q has no username", rawURL)
	}
	username := strings.TrimPrefix(segments[0], "@")
	if !usernamePattern.MatchString(username) {
		return "", fmt.Errorf("instagram URL %q has an invalid username", rawURL)
	}
	return username, nil
}
