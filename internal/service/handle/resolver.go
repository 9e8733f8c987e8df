// Package handle derives the canonical creator handle used as the cache key.
package handle

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/util"
	"go.uber.org/zap"
)

// Resolver turns profile URLs into lowercased, trimmed handles. Malformed URLs
// resolve to constants.HandleUnknown and are logged, never returned as errors.
type Resolver struct {
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: util.OrNop(logger)}
}

// Resolve returns the handle used as the cache key. When both URLs are supplied the
// Instagram handle wins.
func (r *Resolver) Resolve(youtubeURL, instagramURL string) string {
	if strings.TrimSpace(instagramURL) != "" {
		return r.ResolveInstagram(instagramURL)
	}
	if strings.TrimSpace(youtubeURL) != "" {
		return r.ResolveYouTube(youtubeURL)
	}
	return constants.HandleUnknown
}

// ResolveInstagram takes the first non-empty path segment.
func (r *Resolver) ResolveInstagram(rawURL string) string {
	segments, ok := r.pathSegments(rawURL, "instagram")
	if !ok {
		return constants.HandleUnknown
	}
	return finalize(segments[0])
}

// ResolveYouTube takes the segment after "@" for /@handle paths and the last
// non-empty segment otherwise (/channel/<id>, /c/<name>, /user/<name>).
func (r *Resolver) ResolveYouTube(rawURL string) string {
	segments, ok := r.pathSegments(rawURL, "youtube")
	if !ok {
		return constants.HandleUnknown
	}
	if strings.HasPrefix(segments[0], "@") {
		return finalize(strings.TrimPrefix(segments[0], "@"))
	}
	return finalize(segments[len(segments)-1])
}

func (r *Resolver) pathSegments(rawURL, platform string) ([]string, bool) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, false
	}

	parsed, err := ParseURL(trimmed)
	if err != nil {
		r.logger.Warn("Unparseable profile URL, using unknown handle",
			zap.String("platform", platform),
			zap.String("url", trimmed),
			zap.Error(err),
		)
		return nil, false
	}

	segments := SplitPath(parsed.Path)
	if len(segments) == 0 {
		r.logger.Warn("Profile URL has no path, using unknown handle",
			zap.String("platform", platform),
			zap.String("url", trimmed),
		)
		return nil, false
	}
	return segments, true
}

// ParseURL parses a profile URL, assuming https when the scheme is omitted
// ("instagram.com/acme"). A URL without a host is an error.
func ParseURL(rawURL string) (*url.URL, error) {
	s := strings.TrimSpace(rawURL)
	switch {
	case s == "":
		return nil, fmt.Errorf("empty URL")
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case !strings.Contains(s, "://"):
		s = "https://" + s
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", rawURL)
	}
	return parsed, nil
}

// SplitPath returns the non-empty segments of an URL path.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func finalize(segment string) string {
	h := util.Normalize(segment)
	if h == "" {
		return constants.HandleUnknown
	}
	return h
}
