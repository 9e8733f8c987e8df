package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/service/database"
	"github.com/kapu/zenith-go/internal/service/normalize"
	"github.com/kapu/zenith-go/internal/util"
	"go.uber.org/zap"
)

// PostgresStore keeps one row per handle in creators plus one-to-one stats and persona rows.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewPostgresStore(postgres *database.PostgresService, logger *zap.Logger) *PostgresStore {
	return NewPostgresStoreWithDB(postgres.GetDB(), logger)
}

func NewPostgresStoreWithDB(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: util.OrNop(logger),
		now:    time.Now,
	}
}

// Platform stats are aggregated as JSON lists and the persona as a single object, which
// is how the relational client of the legacy schema reported them. Both decode through
// normalize.OneOrMany.
const selectCreatorQuery = `
	SELECT c.id, c.search_handle, c.name, c.avatar_url, c.insight_history, c.last_updated,
	       COALESCE((SELECT json_agg(y) FROM youtube_stats y WHERE y.creator_id = c.id), '[]'::json),
	       COALESCE((SELECT json_agg(i) FROM instagram_stats i WHERE i.creator_id = c.id), '[]'::json),
	       (SELECT row_to_json(p) FROM ai_personas p WHERE p.creator_id = c.id)
	FROM creators c
	WHERE c.search_handle = $1
	LIMIT 1
`

// creatorRow holds the raw column values of selectCreatorQuery.
type creatorRow struct {
	id             int64
	handle         string
	name           string
	avatarURL      string
	insightHistory []byte
	lastUpdated    time.Time
	youtube        []byte
	instagram      []byte
	persona        []byte
}

func (s *PostgresStore) GetCreator(ctx context.Context, handle string) (*domain.CreatorRecord, error) {
	var row creatorRow
	err := s.db.QueryRowContext(ctx, selectCreatorQuery, handle).Scan(
		&row.id, &row.handle, &row.name, &row.avatarURL, &row.insightHistory, &row.lastUpdated,
		&row.youtube, &row.instagram, &row.persona,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query creator %q: %w", handle, err)
	}

	return decodeCreator(row)
}

func decodeCreator(row creatorRow) (*domain.CreatorRecord, error) {
	rec := &domain.CreatorRecord{
		ID:             row.id,
		Handle:         row.handle,
		Name:           row.name,
		AvatarURL:      row.avatarURL,
		LastUpdated:    row.lastUpdated,
		InsightHistory: []domain.InsightEntry{},
	}

	if len(row.insightHistory) > 0 {
		if err := json.Unmarshal(row.insightHistory, &rec.InsightHistory); err != nil {
			return nil, fmt.Errorf("decode insight_history: %w", err)
		}
	}

	var (
		yt      normalize.OneOrMany[domain.YouTubeStatsRecord]
		ig      normalize.OneOrMany[domain.InstagramStatsRecord]
		persona normalize.OneOrMany[domain.PersonaRecord]
	)
	if err := decodeOptional(row.youtube, &yt); err != nil {
		return nil, fmt.Errorf("decode youtube_stats: %w", err)
	}
	if err := decodeOptional(row.instagram, &ig); err != nil {
		return nil, fmt.Errorf("decode instagram_stats: %w", err)
	}
	if err := decodeOptional(row.persona, &persona); err != nil {
		return nil, fmt.Errorf("decode ai_personas: %w", err)
	}

	rec.YouTube = yt.First()
	rec.Instagram = ig.First()
	rec.Persona = persona.First()
	return rec, nil
}

func decodeOptional(data []byte, dest json.Unmarshaler) error {
	if len(data) == 0 {
		return nil
	}
	return dest.UnmarshalJSON(data)
}

const upsertCreatorQuery = `
	INSERT INTO creators (search_handle, name, avatar_url, insight_history, last_updated)
	VALUES ($1, $2, $3, jsonb_build_array($4::jsonb), $5)
	ON CONFLICT (search_handle) DO UPDATE SET
		name = EXCLUDED.name,
		avatar_url = EXCLUDED.avatar_url,
		insight_history = COALESCE(creators.insight_history, '[]'::jsonb) || jsonb_build_array($4::jsonb),
		last_updated = EXCLUDED.last_updated
	RETURNING id
`

const upsertYouTubeQuery = `
	INSERT INTO youtube_stats (creator_id, subscriber_count, view_count, video_count, recent_videos, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (creator_id) DO UPDATE SET
		subscriber_count = EXCLUDED.subscriber_count,
		view_count = EXCLUDED.view_count,
		video_count = EXCLUDED.video_count,
		recent_videos = EXCLUDED.recent_videos,
		updated_at = EXCLUDED.updated_at
`

const upsertInstagramQuery = `
	INSERT INTO instagram_stats (creator_id, username, follower_count, engagement_rate, recent_posts, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (creator_id) DO UPDATE SET
		username = EXCLUDED.username,
		follower_count = EXCLUDED.follower_count,
		engagement_rate = EXCLUDED.engagement_rate,
		recent_posts = EXCLUDED.recent_posts,
		updated_at = EXCLUDED.updated_at
`

const upsertPersonaQuery = `
	INSERT INTO ai_personas (creator_id, archetype, summary, full_report, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (creator_id) DO UPDATE SET
		archetype = EXCLUDED.archetype,
		summary = EXCLUDED.summary,
		full_report = EXCLUDED.full_report,
		updated_at = EXCLUDED.updated_at
`

func (s *PostgresStore) SaveAnalysis(ctx context.Context, handle string, result *domain.AnalysisResult) (int64, error) {
	if result == nil {
		return 0, fmt.Errorf("nothing to save for %q", handle)
	}

	now := s.now().UTC()
	identity := normalize.CreatorIdentity(handle, result.YouTube, result.Instagram)
	summary, score := normalize.InsightFor(result.Persona)
	entry, err := json.Marshal(domain.InsightEntry{Date: now, Summary: summary, EngagementScore: score})
	if err != nil {
		return 0, fmt.Errorf("encode insight entry: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var creatorID int64
	if err := tx.QueryRowContext(ctx, upsertCreatorQuery,
		handle, identity.Name, identity.AvatarURL, string(entry), now,
	).Scan(&creatorID); err != nil {
		return 0, fmt.Errorf("failed to upsert creator %q: %w", handle, err)
	}

	if yt := result.YouTube; yt != nil {
		videos, err := json.Marshal(nonNilVideos(yt.RecentVideos))
		if err != nil {
			return 0, fmt.Errorf("encode recent videos: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upsertYouTubeQuery,
			creatorID, yt.Statistics.SubscriberCount, yt.Statistics.ViewCount, yt.Statistics.VideoCount,
			string(videos), now,
		); err != nil {
			return 0, fmt.Errorf("failed to upsert youtube_stats: %w", err)
		}
	}

	if ig := result.Instagram; ig != nil {
		posts, err := json.Marshal(nonNilPosts(ig.RecentPosts))
		if err != nil {
			return 0, fmt.Errorf("encode recent posts: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upsertInstagramQuery,
			creatorID, ig.Username, ig.Followers, ig.EngagementRate, string(posts), now,
		); err != nil {
			return 0, fmt.Errorf("failed to upsert instagram_stats: %w", err)
		}
	}

	if p := result.Persona; p != nil {
		report, err := json.Marshal(p)
		if err != nil {
			return 0, fmt.Errorf("encode persona: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upsertPersonaQuery,
			creatorID, p.Archetype, p.Summary, string(report), now,
		); err != nil {
			return 0, fmt.Errorf("failed to upsert ai_personas: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit analysis for %q: %w", handle, err)
	}

	s.logger.Debug("Analysis saved",
		zap.String("handle", handle),
		zap.Int64("creator_id", creatorID),
		zap.Bool("youtube", result.YouTube != nil),
		zap.Bool("instagram", result.Instagram != nil),
		zap.Bool("persona", result.Persona != nil),
	)

	return creatorID, nil
}

func nonNilVideos(v []domain.YouTubeVideo) []domain.YouTubeVideo {
	if v == nil {
		return []domain.YouTubeVideo{}
	}
	return v
}

func nonNilPosts(p []domain.InstagramPost) []domain.InstagramPost {
	if p == nil {
		return []domain.InstagramPost{}
	}
	return p
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
