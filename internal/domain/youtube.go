package domain

// YouTubeVideo is one recent upload. Counters are kept as the decimal strings the
// YouTube Data API reports them as.
type YouTubeVideo struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Thumbnail    string   `json:"thumbnail"`
	PublishedAt  string   `json:"publishedAt"`
	ViewCount    string   `json:"viewCount"`
	LikeCount    string   `json:"likeCount"`
	CommentCount string   `json:"commentCount"`
	Duration     string   `json:"duration"` // ISO 8601, e.g. PT10M5S
	Tags         []string `json:"tags"`
}

type YouTubeStatistics struct {
	ViewCount             string `json:"viewCount"`
	SubscriberCount       string `json:"subscriberCount"`
	VideoCount            string `json:"videoCount"`
	HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
}

// YouTubeProfile is the normalized channel shape returned by the YouTube fetcher.
// RecentVideos holds at most 10 entries and is never nil once normalized.
type YouTubeProfile struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	CustomURL    string            `json:"customUrl"`
	Thumbnail    string            `json:"thumbnail"`
	Statistics   YouTubeStatistics `json:"statistics"`
	RecentVideos []YouTubeVideo    `json:"recentVideos"`
}
