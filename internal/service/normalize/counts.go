package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/util"
)

// ParseCount coerces a counter string to a number. Blank, unparseable or non-finite
// input is 0.
func ParseCount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatCount renders an API counter as the decimal string stored for YouTube statistics.
func FormatCount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// EngagementRate is (avgLikes / followers) * 100 rounded to two decimals. Zero or
// negative followers yield 0.
func EngagementRate(avgLikes, followers float64) float64 {
	if followers <= 0 {
		return 0
	}
	return util.Round2(avgLikes / followers * 100)
}

// AverageLikes returns the mean like count of posts, 0 for none.
func AverageLikes(posts []domain.InstagramPost) float64 {
	if len(posts) == 0 {
		return 0
	}
	var total int64
	for _, p := range posts {
		total += p.LikeCount
	}
	return float64(total) / float64(len(posts))
}

// AverageVideoLikes returns the mean like count of videos, 0 for none.
func AverageVideoLikes(videos []domain.YouTubeVideo) float64 {
	if len(videos) == 0 {
		return 0
	}
	var total float64
	for _, v := range videos {
		total += ParseCount(v.LikeCount)
	}
	return total / float64(len(videos))
}

// InstagramEngagement computes the profile's engagement rate from its recent posts.
func InstagramEngagement(p *domain.InstagramProfile) float64 {
	if p == nil {
		return 0
	}
	return EngagementRate(AverageLikes(p.RecentPosts), float64(p.Followers))
}

// YouTubeEngagement computes likes per subscriber over the channel's recent videos.
func YouTubeEngagement(p *domain.YouTubeProfile) float64 {
	if p == nil {
		return 0
	}
	return EngagementRate(AverageVideoLikes(p.RecentVideos), ParseCount(p.Statistics.SubscriberCount))
}
