package domain

import "time"

// InstagramPost is one recent media item.
type InstagramPost struct {
	ID           string    `json:"id"`
	Caption      string    `json:"caption"`
	Permalink    string    `json:"permalink"`
	MediaType    string    `json:"mediaType"`
	MediaURL     string    `json:"mediaUrl"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	ViewCount    int64     `json:"viewCount"`
	Timestamp    time.Time `json:"timestamp"`
}

// InstagramProfile is the normalized account shape returned by the Instagram fetcher.
// RecentPosts holds at most 6 entries and is never nil once normalized.
type InstagramProfile struct {
	Username       string          `json:"username"`
	FullName       string          `json:"fullName"`
	Biography      string          `json:"biography"`
	ProfilePicURL  string          `json:"profilePicUrl"`
	Followers      int64           `json:"followers"`
	Following      int64           `json:"following"`
	PostsCount     int64           `json:"postsCount"`
	EngagementRate float64         `json:"engagementRate"`
	RecentPosts    []InstagramPost `json:"recentPosts"`
}
