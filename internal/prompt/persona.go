package prompt

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/service/normalize"
	"github.com/kapu/zenith-go/internal/util"
)

const notAvailable = `"Not Available"`

// PersonaPromptVars holds the pre-serialized profile data for the persona template.
type PersonaPromptVars struct {
	YouTube    string
	Instagram  string
	Keywords   []string
	Engagement []string
}

// NewPersonaPromptVars serializes both profiles and extracts keyword hints from
// video titles, tags and post captions. Profiles are trimmed before serialization
// so the embedded JSON stays valid and within constants.APIConfig.MaxPromptProfileLength.
func NewPersonaPromptVars(yt *domain.YouTubeProfile, ig *domain.InstagramProfile) (PersonaPromptVars, error) {
	vars := PersonaPromptVars{YouTube: notAvailable, Instagram: notAvailable}

	var texts []string
	if yt != nil {
		data, err := youtubeJSON(yt)
		if err != nil {
			return vars, err
		}
		vars.YouTube = data
		for _, v := range yt.RecentVideos {
			texts = append(texts, v.Title)
			texts = append(texts, v.Tags...)
		}
		vars.Engagement = append(vars.Engagement,
			fmt.Sprintf("YouTube %.2f%%", normalize.YouTubeEngagement(yt)))
	}
	if ig != nil {
		data, err := instagramJSON(ig)
		if err != nil {
			return vars, err
		}
		vars.Instagram = data
		for _, p := range ig.RecentPosts {
			texts = append(texts, p.Caption)
		}
		rate := ig.EngagementRate
		if rate == 0 {
			rate = normalize.InstagramEngagement(ig)
		}
		vars.Engagement = append(vars.Engagement, fmt.Sprintf("Instagram %.2f%%", rate))
	}

	vars.Keywords = util.TopKeywords(texts, 10)
	return vars, nil
}

func youtubeJSON(yt *domain.YouTubeProfile) (string, error) {
	limits := constants.PromptLimits
	trimmed := *yt
	trimmed.Description = util.TruncateString(yt.Description, limits.MaxDescription)
	trimmed.RecentVideos = make([]domain.YouTubeVideo, len(yt.RecentVideos))
	for i, v := range yt.RecentVideos {
		v.Title = util.TruncateString(v.Title, limits.MaxItemText)
		if len(v.Tags) > limits.MaxTags {
			v.Tags = v.Tags[:limits.MaxTags]
		}
		trimmed.RecentVideos[i] = v
	}

	for {
		data, err := json.Marshal(&trimmed)
		if err != nil {
			return "", err
		}
		if fitsPrompt(data) || len(trimmed.RecentVideos) == 0 {
			return string(data), nil
		}
		trimmed.RecentVideos = trimmed.RecentVideos[:len(trimmed.RecentVideos)-1]
	}
}

func instagramJSON(ig *domain.InstagramProfile) (string, error) {
	limits := constants.PromptLimits
	trimmed := *ig
	trimmed.Biography = util.TruncateString(ig.Biography, limits.MaxDescription)
	trimmed.RecentPosts = make([]domain.InstagramPost, len(ig.RecentPosts))
	for i, p := range ig.RecentPosts {
		p.Caption = util.TruncateString(p.Caption, limits.MaxItemText)
		trimmed.RecentPosts[i] = p
	}

	for {
		data, err := json.Marshal(&trimmed)
		if err != nil {
			return "", err
		}
		if fitsPrompt(data) || len(trimmed.RecentPosts) == 0 {
			return string(data), nil
		}
		trimmed.RecentPosts = trimmed.RecentPosts[:len(trimmed.RecentPosts)-1]
	}
}

func fitsPrompt(data []byte) bool {
	return utf8.RuneCount(data) <= constants.APIConfig.MaxPromptProfileLength
}

// BuildPersonaPrompt renders the brand strategist prompt for the given profiles.
func BuildPersonaPrompt(yt *domain.YouTubeProfile, ig *domain.InstagramProfile) (string, error) {
	vars, err := NewPersonaPromptVars(yt, ig)
	if err != nil {
		return "", err
	}
	return DefaultPromptBuilder().Render(TemplatePersona, vars)
}
