package youtube

import (
	"fmt"
	"sync"
	"time"

	"github.com/kapu/zenith-go/internal/constants"
	"go.uber.org/zap"
)

// QuotaExceededError is returned when a call would push usage past the daily budget,
// or when the API itself reports the quota as exhausted.
type QuotaExceededError struct {
	Used      int
	Limit     int
	Requested int
	ResetTime time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("YouTube API quota exceeded: used %d/%d (requested %d more), resets at %s",
		e.Used, e.Limit, e.Requested, e.ResetTime.Format(time.RFC3339))
}

// quotaTracker accounts Data API units against the daily limit, which resets at
// midnight Pacific time.
type quotaTracker struct {
	mu       sync.Mutex
	used     int
	limit    int
	margin   int
	resetAt  time.Time
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func newQuotaTracker(logger *zap.Logger) *quotaTracker {
	loc, err := time.LoadLocation(constants.YouTubeQuota.ResetLocation)
	if err != nil {
		loc = time.FixedZone("PT", -8*60*60)
	}
	q := &quotaTracker{
		limit:    constants.YouTubeQuota.DailyLimit,
		margin:   constants.YouTubeQuota.SafetyMargin,
		location: loc,
		now:      time.Now,
		logger:   logger,
	}
	q.resetAt = nextQuotaReset(q.now(), loc)
	return q
}

func nextQuotaReset(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}

// must be called with q.mu held
func (q *quotaTracker) rollover() {
	if now := q.now(); !now.Before(q.resetAt) {
		q.used = 0
		q.resetAt = nextQuotaReset(now, q.location)
		q.logger.Info("YouTube API quota reset", zap.Time("next_reset", q.resetAt))
	}
}

func (q *quotaTracker) check(cost int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()

	if q.used+cost > q.limit-q.margin {
		return q.exceeded(cost)
	}
	return nil
}

func (q *quotaTracker) consume(cost int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	q.used += cost
	remaining := q.limit - q.used

	q.logger.Debug("YouTube API quota consumed",
		zap.Int("cost", cost),
		zap.Int("used", q.used),
		zap.Int("remaining", remaining),
	)

	if remaining < q.margin {
		q.logger.Warn("YouTube API quota running low",
			zap.Int("remaining", remaining),
			zap.Time("reset_time", q.resetAt),
		)
	}
}

// exhaust marks the budget as spent after the API reported quotaExceeded.
func (q *quotaTracker) exhaust(cost int) *QuotaExceededError {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.used = q.limit
	return q.exceeded(cost)
}

// must be called with q.mu held
func (q *quotaTracker) exceeded(cost int) *QuotaExceededError {
	return &QuotaExceededError{
		Used:      q.used,
		Limit:     q.limit,
		Requested: cost,
		ResetTime: q.resetAt,
	}
}

// Status reports used and remaining units and the next reset.
func (q *quotaTracker) Status() (used, remaining int, resetAt time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollover()
	return q.used, q.limit - q.used, q.resetAt
}
