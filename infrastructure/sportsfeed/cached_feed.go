package sportsfeed

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/infrastructure/observability"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultScheduleTTL  = 2 * time.Minute
	DefaultLiveGameTTL  = 30 * time.Second
	DefaultFinalGameTTL = 24 * time.Hour

	scheduleKeyPrefix   = "pickem:feed:schedule:"
	playByPlayKeyPrefix = "pickem:feed:pbp:"
)

// CachedFeed puts a Redis read-through cache in front of a SportsFeed.
// Play-by-play of a game the schedule reported as final is kept for a long
// TTL since it no longer changes. Cache failures never fail a fetch.
type CachedFeed struct {
	next         interfaces.SportsFeed
	rdb          redis.Cmdable
	scheduleTTL  time.Duration
	liveGameTTL  time.Duration
	finalGameTTL time.Duration

	mu         sync.RWMutex
	finalGames map[int64]bool
}

// NewCachedFeed wraps next with the default TTLs
func NewCachedFeed(next interfaces.SportsFeed, rdb redis.Cmdable) *CachedFeed {
	return &CachedFeed{
		next:         next,
		rdb:          rdb,
		scheduleTTL:  DefaultScheduleTTL,
		liveGameTTL:  DefaultLiveGameTTL,
		finalGameTTL: DefaultFinalGameTTL,
		finalGames:   make(map[int64]bool),
	}
}

// NewRedisClient connects to addr and verifies the connection
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (f *CachedFeed) GetSchedule(ctx context.Context, day string) ([]entities.ScheduledGame, error) {
	key := scheduleKeyPrefix + day

	var games []entities.ScheduledGame
	if f.load(ctx, endpointSchedule, key, &games) {
		f.rememberFinal(games)
		return games, nil
	}

	games, err := f.next.GetSchedule(ctx, day)
	if err != nil {
		return nil, err
	}
	f.rememberFinal(games)
	f.store(ctx, key, games, f.scheduleTTL)
	return games, nil
}

func (f *CachedFeed) GetScoringEvents(ctx context.Context, gameID int64) ([]entities.ScoringEvent, error) {
	key := playByPlayKeyPrefix + strconv.FormatInt(gameID, 10)

	var events []entities.ScoringEvent
	if f.load(ctx, endpointPlayByPlay, key, &events) {
		return events, nil
	}

	events, err := f.next.GetScoringEvents(ctx, gameID)
	if err != nil {
		return nil, err
	}

	ttl := f.liveGameTTL
	if f.isFinal(gameID) {
		ttl = f.finalGameTTL
	}
	f.store(ctx, key, events, ttl)
	return events, nil
}

func (f *CachedFeed) load(ctx context.Context, endpoint, key string, out any) bool {
	raw, err := f.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).WithField("key", key).Warn("Feed cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.WithError(err).WithField("key", key).Warn("Discarding unreadable feed cache entry")
		return false
	}
	observability.GetMetrics().RecordFeedRequest(endpoint, observability.ResultCached)
	return true
}

func (f *CachedFeed) store(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := f.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("Feed cache write failed")
	}
}

func (f *CachedFeed) rememberFinal(games []entities.ScheduledGame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range games {
		if g.IsFinal() {
			f.finalGames[g.ID] = true
		}
	}
}

func (f *CachedFeed) isFinal(gameID int64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.finalGames[gameID]
}
