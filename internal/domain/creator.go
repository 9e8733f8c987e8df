package domain

import "time"

// InsightEntry is one element of a creator's append-only insight history.
type InsightEntry struct {
	Date            time.Time `json:"date"`
	Summary         string    `json:"summary"`
	EngagementScore string    `json:"engagement_score"`
}

// YouTubeStatsRecord is the persisted youtube_stats sub-record.
type YouTubeStatsRecord struct {
	CreatorID       int64          `json:"creator_id"`
	SubscriberCount string         `json:"subscriber_count"`
	ViewCount       string         `json:"view_count"`
	VideoCount      string         `json:"video_count"`
	RecentVideos    []YouTubeVideo `json:"recent_videos"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// InstagramStatsRecord is the persisted instagram_stats sub-record.
type InstagramStatsRecord struct {
	CreatorID      int64           `json:"creator_id"`
	Username       string          `json:"username"`
	FollowerCount  int64           `json:"follower_count"`
	EngagementRate *float64        `json:"engagement_rate"`
	RecentPosts    []InstagramPost `json:"recent_posts"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PersonaRecord is the persisted ai_personas sub-record.
type PersonaRecord struct {
	CreatorID  int64     `json:"creator_id"`
	Archetype  string    `json:"archetype"`
	Summary    string    `json:"summary"`
	FullReport *Persona  `json:"full_report"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreatorRecord is the persisted aggregate for one handle. Sub-records are nil when absent;
// the store reduces any list-shaped sub-record to its first element before building this.
type CreatorRecord struct {
	ID             int64                 `json:"id"`
	Handle         string                `json:"search_handle"`
	Name           string                `json:"name"`
	AvatarURL      string                `json:"avatar_url"`
	InsightHistory []InsightEntry        `json:"insight_history"`
	LastUpdated    time.Time             `json:"last_updated"`
	YouTube        *YouTubeStatsRecord   `json:"youtube_stats"`
	Instagram      *InstagramStatsRecord `json:"instagram_stats"`
	Persona        *PersonaRecord        `json:"ai_personas"`
}

// HasPlatformData reports whether at least one platform's stats are present.
func (c *CreatorRecord) HasPlatformData() bool {
	return c != nil && (c.YouTube != nil || c.Instagram != nil)
}

// CreatorIdentity holds the top-level fields written on every save.
type CreatorIdentity struct {
	Name      string
	AvatarURL string
}
