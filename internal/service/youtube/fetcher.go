package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/service/normalize"
	"github.com/kapu/zenith-go/internal/util"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	channelParts = []string{"snippet", "contentDetails", "statistics"}
	videoParts   = []string{"snippet", "statistics", "contentDetails"}
)

// ChannelIDCache remembers resolved channel ids; *cache.CacheService satisfies it.
type ChannelIDCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Config struct {
	APIKey          string
	CredentialsFile string
	ChannelIDTTL    time.Duration
	CallTimeout     time.Duration
}

// Fetcher loads a channel profile and its recent uploads from the YouTube Data API.
type Fetcher struct {
	service     *youtube.Service
	cache       ChannelIDCache
	logger      *zap.Logger
	quota       *quotaTracker
	cacheTTL    time.Duration
	callTimeout time.Duration
}

// NewFetcher authenticates with a service account when CredentialsFile is set and with
// the API key otherwise. cache may be nil.
func NewFetcher(ctx context.Context, cfg Config, cache ChannelIDCache, logger *zap.Logger, opts ...option.ClientOption) (*Fetcher, error) {
	clientOpts, err := authOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	service, err := youtube.NewService(ctx, append(clientOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	f := NewFetcherWithService(service, cache, logger)
	if cfg.ChannelIDTTL > 0 {
		f.cacheTTL = cfg.ChannelIDTTL
	}
	if cfg.CallTimeout > 0 {
		f.callTimeout = cfg.CallTimeout
	}

	used, remaining, resetAt := f.quota.Status()
	f.logger.Info("YouTube fetcher initialized",
		zap.Bool("service_account", cfg.CredentialsFile != ""),
		zap.Int("quota_used", used),
		zap.Int("quota_remaining", remaining),
		zap.Time("quota_reset", resetAt),
	)

	return f, nil
}

func authOptions(ctx context.Context, cfg Config) ([]option.ClientOption, error) {
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read YouTube credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, youtube.YoutubeReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse YouTube credentials: %w", err)
		}
		return []option.ClientOption{option.WithCredentials(creds)}, nil
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key or credentials file is required")
	}
	return []option.ClientOption{option.WithAPIKey(cfg.APIKey)}, nil
}

// NewFetcherWithService wraps an already constructed API client.
func NewFetcherWithService(service *youtube.Service, cache ChannelIDCache, logger *zap.Logger) *Fetcher {
	logger = util.OrNop(logger)
	return &Fetcher{
		service:     service,
		cache:       cache,
		logger:      logger,
		quota:       newQuotaTracker(logger),
		cacheTTL:    constants.CacheTTL.ChannelID,
		callTimeout: constants.APIConfig.YouTubeCallTimeout,
	}
}

// Fetch returns nil, nil when the channel does not exist.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.YouTubeProfile, error) {
	ident, err := ExtractIdentifier(rawURL)
	if err != nil {
		return nil, err
	}

	channel, err := f.lookupChannel(ctx, ident)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		f.logger.Debug("YouTube channel not found",
			zap.String("kind", string(ident.Kind)),
			zap.String("identifier", ident.Value),
		)
		return nil, nil
	}

	var videos []domain.YouTubeVideo
	if channel.ContentDetails != nil && channel.ContentDetails.RelatedPlaylists != nil {
		if uploads := channel.ContentDetails.RelatedPlaylists.Uploads; uploads != "" {
			ids, err := f.playlistVideoIDs(ctx, uploads)
			if err != nil {
				return nil, err
			}
			if videos, err = f.videoDetails(ctx, ids); err != nil {
				return nil, err
			}
		}
	}

	profile := channelProfile(channel)
	profile.RecentVideos = videos
	return normalize.YouTubeProfile(profile), nil
}

func (f *Fetcher) lookupChannel(ctx context.Context, ident Identifier) (*youtube.Channel, error) {
	if ident.Kind == KindChannelID {
		return f.channelBy(ctx, func(call *youtube.ChannelsListCall) *youtube.ChannelsListCall {
			return call.Id(ident.Value)
		})
	}

	if id := f.cachedChannelID(ctx, ident); id != "" {
		channel, err := f.channelBy(ctx, func(call *youtube.ChannelsListCall) *youtube.ChannelsListCall {
			return call.Id(id)
		})
		if err != nil || channel != nil {
			return channel, err
		}
	}

	var (
		channel *youtube.Channel
		err     error
	)
	switch ident.Kind {
	case KindHandle:
		channel, err = f.channelBy(ctx, func(call *youtube.ChannelsListCall) *youtube.ChannelsListCall {
			return call.ForHandle(ident.Value)
		})
	case KindUsername:
		channel, err = f.channelBy(ctx, func(call *youtube.ChannelsListCall) *youtube.ChannelsListCall {
			return call.ForUsername(ident.Value)
		})
	default:
		var id string
		if id, err = f.searchChannelID(ctx, ident.Value); err == nil && id != "" {
			channel, err = f.channelBy(ctx, func(call *youtube.ChannelsListCall) *youtube.ChannelsListCall {
				return call.Id(id)
			})
		}
	}
	if err != nil || channel == nil {
		return nil, err
	}

	f.rememberChannelID(ctx, ident, channel.Id)
	return channel, nil
}

func (f *Fetcher) channelBy(ctx context.Context, selector func(*youtube.ChannelsListCall) *youtube.ChannelsListCall) (*youtube.Channel, error) {
	cost := constants.YouTubeQuota.ListCost
	if err := f.quota.check(cost); err != nil {
		return nil, err
	}

	callCtx, cancel := f.callContext(ctx)
	defer cancel()

	resp, err := selector(f.service.Channels.List(channelParts)).Context(callCtx).Do()
	if err != nil {
		return nil, f.apiError("channels.list", cost, err)
	}
	f.quota.consume(cost)

	if len(resp.Items) == 0 {
		return nil, nil
	}
	return resp.Items[0], nil
}

func (f *Fetcher) searchChannelID(ctx context.Context, query string) (string, error) {
	cost := constants.YouTubeQuota.SearchCost
	if err := f.quota.check(cost); err != nil {
		return "", err
	}

	callCtx, cancel := f.callContext(ctx)
	defer cancel()

	resp, err := f.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(1).
		Context(callCtx).
		Do()
	if err != nil {
		return "", f.apiError("search.list", cost, err)
	}
	f.quota.consume(cost)

	for _, item := range resp.Items {
		if item.Snippet != nil && item.Snippet.ChannelId != "" {
			return item.Snippet.ChannelId, nil
		}
		if item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, nil
		}
	}
	return "", nil
}

func (f *Fetcher) playlistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	cost := constants.YouTubeQuota.ListCost
	if err := f.quota.check(cost); err != nil {
		return nil, err
	}

	callCtx, cancel := f.callContext(ctx)
	defer cancel()

	resp, err := f.service.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(int64(constants.ProfileLimits.MaxRecentVideos)).
		Context(callCtx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			// channels without uploads have no uploads playlist
			return nil, nil
		}
		return nil, f.apiError("playlistItems.list", cost, err)
	}
	f.quota.consume(cost)

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
			ids = append(ids, item.ContentDetails.VideoId)
		}
	}
	return ids, nil
}

func (f *Fetcher) videoDetails(ctx context.Context, ids []string) ([]domain.YouTubeVideo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cost := constants.YouTubeQuota.ListCost
	if err := f.quota.check(cost); err != nil {
		return nil, err
	}

	callCtx, cancel := f.callContext(ctx)
	defer cancel()

	resp, err := f.service.Videos.List(videoParts).Id(ids...).Context(callCtx).Do()
	if err != nil {
		return nil, f.apiError("videos.list", cost, err)
	}
	f.quota.consume(cost)

	videos := make([]domain.YouTubeVideo, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, videoFromItem(item))
	}
	return videos, nil
}

func (f *Fetcher) cachedChannelID(ctx context.Context, ident Identifier) string {
	if f.cache == nil {
		return ""
	}
	var id string
	found, err := f.cache.Get(ctx, ident.cacheKey(), &id)
	if err != nil {
		f.logger.Debug("Channel id cache lookup failed", zap.String("key", ident.cacheKey()), zap.Error(err))
		return ""
	}
	if !found {
		return ""
	}
	return id
}

func (f *Fetcher) rememberChannelID(ctx context.Context, ident Identifier, channelID string) {
	if f.cache == nil || channelID == "" {
		return
	}
	if err := f.cache.Set(ctx, ident.cacheKey(), channelID, f.cacheTTL); err != nil {
		f.logger.Debug("Channel id cache write failed", zap.String("key", ident.cacheKey()), zap.Error(err))
	}
}

func (f *Fetcher) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.callTimeout)
}

func (f *Fetcher) apiError(operation string, cost int, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden && isQuotaReason(apiErr) {
		f.logger.Warn("YouTube API reported quota exhausted", zap.String("operation", operation))
		return f.quota.exhaust(cost)
	}
	return fmt.Errorf("YouTube %s failed: %w", operation, err)
}

func isQuotaReason(apiErr *googleapi.Error) bool {
	if len(apiErr.Errors) == 0 {
		return true
	}
	for _, item := range apiErr.Errors {
		if item.Reason == "quotaExceeded" || item.Reason == "dailyLimitExceeded" {
			return true
		}
	}
	return false
}

// QuotaStatus reports the locally tracked Data API usage.
func (f *Fetcher) QuotaStatus() (used, remaining int, resetAt time.Time) {
	return f.quota.Status()
}

func channelProfile(ch *youtube.Channel) *domain.YouTubeProfile {
	profile := &domain.YouTubeProfile{ID: ch.Id}
	if ch.Snippet != nil {
		profile.Title = ch.Snippet.Title
		profile.Description = ch.Snippet.Description
		profile.CustomURL = ch.Snippet.CustomUrl
		profile.Thumbnail = extractThumbnail(ch.Snippet.Thumbnails)
	}
	if ch.Statistics != nil {
		profile.Statistics = domain.YouTubeStatistics{
			ViewCount:             normalize.FormatCount(ch.Statistics.ViewCount),
			SubscriberCount:       normalize.FormatCount(ch.Statistics.SubscriberCount),
			VideoCount:            normalize.FormatCount(ch.Statistics.VideoCount),
			HiddenSubscriberCount: ch.Statistics.HiddenSubscriberCount,
		}
	}
	return profile
}

func videoFromItem(item *youtube.Video) domain.YouTubeVideo {
	video := domain.YouTubeVideo{ID: item.Id}
	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.PublishedAt = item.Snippet.PublishedAt
		video.Tags = item.Snippet.Tags
		video.Thumbnail = videoThumbnail(item.Snippet.Thumbnails)
	}
	if item.Statistics != nil {
		video.ViewCount = normalize.FormatCount(item.Statistics.ViewCount)
		video.LikeCount = normalize.FormatCount(item.Statistics.LikeCount)
		video.CommentCount = normalize.FormatCount(item.Statistics.CommentCount)
	}
	if item.ContentDetails != nil {
		video.Duration = item.ContentDetails.Duration
	}
	return video
}

// extractThumbnail picks the highest resolution available.
func extractThumbnail(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbnails.Maxres, thumbnails.High, thumbnails.Medium, thumbnails.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

// videoThumbnail prefers the medium size used in listings.
func videoThumbnail(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbnails.Medium, thumbnails.Default, thumbnails.High} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}
