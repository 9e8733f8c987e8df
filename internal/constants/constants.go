package constants

import "time"

// HandleUnknown is the sentinel handle for URLs that cannot be resolved.
// Requests resolving to it skip the cache lookup and persistence.
const HandleUnknown = "unknown"

var CacheTTL = struct {
	CreatorSnapshot time.Duration
	ChannelID       time.Duration
}{
	CreatorSnapshot: 10 * time.Minute,   // redis copy of a creator record
	ChannelID:       7 * 24 * time.Hour, // youtube identifier -> channel id
}

var ProfileLimits = struct {
	MaxRecentVideos int
	MaxRecentPosts  int
}{
	MaxRecentVideos: 10,
	MaxRecentPosts:  6,
}

var YouTubeQuota = struct {
	DailyLimit    int
	SafetyMargin  int
	SearchCost    int
	ListCost      int
	ResetLocation string
}{
	DailyLimit:    10000,
	SafetyMargin:  2000,
	SearchCost:    100,
	ListCost:      1,
	ResetLocation: "America/Los_Angeles",
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    1 * time.Hour,
	HealthCheckInterval: 10 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var APIConfig = struct {
	YouTubeCallTimeout     time.Duration
	InstagramTimeout       time.Duration
	InstagramGraphBaseURL  string
	InstagramWebBaseURL    string
	PersonaAttemptTimeout  time.Duration
	InstagramUserAgent     string
	MaxPromptProfileLength int
	PersistTimeout         time.Duration
	HealthCheckTimeout     time.Duration
}{
	YouTubeCallTimeout:     10 * time.Second,
	InstagramTimeout:       15 * time.Second,
	InstagramGraphBaseURL:  "https://graph.facebook.com",
	InstagramWebBaseURL:    "https://www.instagram.com",
	PersonaAttemptTimeout:  45 * time.Second,
	InstagramUserAgent:     "Mozilla/5.0 (compatible; ZenithBot/1.0)",
	MaxPromptProfileLength: 20000,
	PersistTimeout:         10 * time.Second,
	HealthCheckTimeout:     3 * time.Second,
}

// PromptLimits bound the profile data serialized into the persona prompt.
var PromptLimits = struct {
	MaxDescription int // runes of channel description or biography
	MaxItemText    int // runes of a video title or post caption
	MaxTags        int // tags kept per video
}{
	MaxDescription: 1000,
	MaxItemText:    280,
	MaxTags:        15,
}
