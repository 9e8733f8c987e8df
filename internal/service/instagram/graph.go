package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
	"go.uber.org/zap"
)

// Graph API error subcode for "user not found" in business discovery.
const subcodeUserNotFound = 2207013

const graphTimeLayout = "2006-01-02T15:04:05-0700"

type graphResponse struct {
	BusinessDiscovery *graphAccount `json:"business_discovery"`
	Error             *graphError   `json:"error"`
}

type graphError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
}

func (e *graphError) Error() string {
	return fmt.Sprintf("instagram graph error %d/%d: %s", e.Code, e.ErrorSubcode, e.Message)
}

type graphAccount struct {
	Username          string `json:"username"`
	Name              string `json:"name"`
	Biography         string `json:"biography"`
	ProfilePictureURL string `json:"profile_picture_url"`
	FollowersCount    int64  `json:"followers_count"`
	FollowsCount      int64  `json:"follows_count"`
	MediaCount        int64  `json:"media_count"`
	Media             struct {
		Data []graphMedia `json:"data"`
	} `json:"media"`
}

type graphMedia struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	Permalink     string `json:"permalink"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	LikeCount     int64  `json:"like_count"`
	CommentsCount int64  `json:"comments_count"`
	ViewCount     int64  `json:"view_count"`
	Timestamp     string `json:"timestamp"`
}

func businessDiscoveryFields(username string) string {
	return fmt.Sprintf(
		"business_discovery.username(%s){username,name,biography,profile_picture_url,followers_count,follows_count,media_count,"+
			"media.limit(%d){id,caption,permalink,media_type,media_url,like_count,comments_count,timestamp}}",
		username, constants.ProfileLimits.MaxRecentPosts)
}

func (f *Fetcher) fetchGraph(ctx context.Context, username string) (*domain.InstagramProfile, error) {
	params := url.Values{}
	params.Set("fields", businessDiscoveryFields(username))
	params.Set("access_token", f.accessToken)
	endpoint := fmt.Sprintf("%s/%s/%s?%s", f.graphBaseURL, f.graphVersion, url.PathEscape(f.businessAccountID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram graph request failed: %w", err)
	}
	defer resp.Body.Close()

	var body graphResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode instagram graph response (status %d): %w", resp.StatusCode, err)
	}

	if body.Error != nil {
		if body.Error.ErrorSubcode == subcodeUserNotFound {
			f.logger.Debug("Instagram account not found", zap.String("username", username))
			return nil, nil
		}
		return nil, body.Error
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram graph unexpected status code: %d", resp.StatusCode)
	}
	if body.BusinessDiscovery == nil {
		return nil, nil
	}

	return graphProfile(body.BusinessDiscovery), nil
}

func graphProfile(acct *graphAccount) *domain.InstagramProfile {
	profile := &domain.InstagramProfile{
		Username:      acct.Username,
		FullName:      acct.Name,
		Biography:     acct.Biography,
		ProfilePicURL: acct.ProfilePictureURL,
		Followers:     acct.FollowersCount,
		Following:     acct.FollowsCount,
		PostsCount:    acct.MediaCount,
		RecentPosts:   make([]domain.InstagramPost, 0, len(acct.Media.Data)),
	}

	for _, m := range acct.Media.Data {
		post := domain.InstagramPost{
			ID:           m.ID,
			Caption:      m.Caption,
			Permalink:    m.Permalink,
			MediaType:    m.MediaType,
			MediaURL:     m.MediaURL,
			LikeCount:    m.LikeCount,
			CommentCount: m.CommentsCount,
			ViewCount:    m.ViewCount,
		}
		if ts, err := time.Parse(graphTimeLayout, m.Timestamp); err == nil {
			post.Timestamp = ts.UTC()
		}
		profile.RecentPosts = append(profile.RecentPosts, post)
	}

	return profile
}
