package normalize

import (
	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
)

// YouTubeProfile bounds recent videos and replaces nil slices and blank counters.
func YouTubeProfile(p *domain.YouTubeProfile) *domain.YouTubeProfile {
	if p == nil {
		return nil
	}
	if len(p.RecentVideos) > constants.ProfileLimits.MaxRecentVideos {
		p.RecentVideos = p.RecentVideos[:constants.ProfileLimits.MaxRecentVideos]
	}
	if p.RecentVideos == nil {
		p.RecentVideos = []domain.YouTubeVideo{}
	}
	for i := range p.RecentVideos {
		v := &p.RecentVideos[i]
		v.ViewCount = countOrZero(v.ViewCount)
		v.LikeCount = countOrZero(v.LikeCount)
		v.CommentCount = countOrZero(v.CommentCount)
		if v.Tags == nil {
			v.Tags = []string{}
		}
	}
	p.Statistics.ViewCount = countOrZero(p.Statistics.ViewCount)
	p.Statistics.SubscriberCount = countOrZero(p.Statistics.SubscriberCount)
	p.Statistics.VideoCount = countOrZero(p.Statistics.VideoCount)
	return p
}

// InstagramProfile bounds recent posts, replaces a nil slice and fills a missing
// engagement rate from the posts.
func InstagramProfile(p *domain.InstagramProfile) *domain.InstagramProfile {
	if p == nil {
		return nil
	}
	if len(p.RecentPosts) > constants.ProfileLimits.MaxRecentPosts {
		p.RecentPosts = p.RecentPosts[:constants.ProfileLimits.MaxRecentPosts]
	}
	if p.RecentPosts == nil {
		p.RecentPosts = []domain.InstagramPost{}
	}
	if p.EngagementRate == 0 {
		p.EngagementRate = InstagramEngagement(p)
	}
	return p
}

func countOrZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
