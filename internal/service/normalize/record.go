package normalize

import (
	"github.com/kapu/zenith-go/internal/domain"
)

// ResultFromRecord rebuilds the response payload from a cached creator record. A record
// without platform data yields nil.
func ResultFromRecord(rec *domain.CreatorRecord) *domain.AnalysisResult {
	if !rec.HasPlatformData() {
		return nil
	}

	result := &domain.AnalysisResult{Persona: PersonaFromRecord(rec.Persona)}

	if yt := rec.YouTube; yt != nil {
		result.YouTube = YouTubeProfile(&domain.YouTubeProfile{
			Title:     rec.Name,
			Thumbnail: rec.AvatarURL,
			Statistics: domain.YouTubeStatistics{
				SubscriberCount: yt.SubscriberCount,
				ViewCount:       yt.ViewCount,
				VideoCount:      yt.VideoCount,
			},
			RecentVideos: yt.RecentVideos,
		})
	}

	if ig := rec.Instagram; ig != nil {
		profile := &domain.InstagramProfile{
			Username:    ig.Username,
			Followers:   ig.FollowerCount,
			RecentPosts: ig.RecentPosts,
		}
		if rec.YouTube == nil {
			profile.FullName = rec.Name
			profile.ProfilePicURL = rec.AvatarURL
		}
		if ig.EngagementRate != nil {
			profile.EngagementRate = *ig.EngagementRate
		}
		result.Instagram = InstagramProfile(profile)
	}

	return result
}

// PersonaFromRecord prefers the stored full report and otherwise builds a persona
// from the archetype and summary columns.
func PersonaFromRecord(rec *domain.PersonaRecord) *domain.Persona {
	if rec == nil {
		return nil
	}
	if rec.FullReport != nil {
		report := *rec.FullReport
		return report.Normalize()
	}
	if rec.Archetype == "" && rec.Summary == "" {
		return nil
	}
	return (&domain.Persona{
		Archetype: rec.Archetype,
		Summary:   rec.Summary,
	}).Normalize()
}

// CreatorIdentity picks the display name and avatar written on save: YouTube title,
// then Instagram full name, then the handle; YouTube thumbnail, then Instagram picture.
func CreatorIdentity(handle string, yt *domain.YouTubeProfile, ig *domain.InstagramProfile) domain.CreatorIdentity {
	var ytTitle, ytThumb, igName, igPic string
	if yt != nil {
		ytTitle, ytThumb = yt.Title, yt.Thumbnail
	}
	if ig != nil {
		igName, igPic = ig.FullName, ig.ProfilePicURL
	}
	name := ytTitle
	if name == "" {
		name = igName
	}
	if name == "" {
		name = handle
	}
	avatar := ytThumb
	if avatar == "" {
		avatar = igPic
	}
	return domain.CreatorIdentity{Name: name, AvatarURL: avatar}
}

// InsightFor builds the history entry appended on every save.
func InsightFor(persona *domain.Persona) (summary, engagementScore string) {
	summary, engagementScore = "No summary", "N/A"
	if persona == nil {
		return summary, engagementScore
	}
	if persona.Summary != "" {
		summary = persona.Summary
	}
	if persona.Engagement.Rate != "" {
		engagementScore = persona.Engagement.Rate
	}
	return summary, engagementScore
}
