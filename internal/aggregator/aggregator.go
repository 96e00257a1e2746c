package aggregator

import (
	"context"
	"time"

	"github.com/xaenox/discord-catchup/internal/cache"
	"github.com/xaenox/discord-catchup/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source lists threads from the remote messaging server. Each query is
// independently fallible; a failure on one never affects the others.
type Source interface {
	ActiveThreads(ctx context.Context, guildID string) ([]models.ThreadRecord, error)
	ArchivedPublicThreads(ctx context.Context, channelID string) ([]models.ThreadRecord, error)
	ArchivedPrivateThreads(ctx context.Context, channelID string) ([]models.ThreadRecord, error)
}

// Aggregator merges thread lists from the three remote queries into one
// deduplicated collection, backed by a cache store.
type Aggregator struct {
	source Source
	cache  cache.Store
	logger *zap.Logger
	now    func() time.Time
}

func New(source Source, store cache.Store, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		cache:  store,
		logger: logger,
		now:    time.Now,
	}
}

// AggregateThreads returns the threads of the given channel. With useCache
// set, a fresh cache entry short-circuits the remote queries entirely, and a
// successful aggregation is persisted before returning. maxAgeDays restricts
// the result to threads last active within that many days; zero disables the
// filter.
//
// The three remote queries run concurrently into separate slots; a failed
// query is logged and contributes an empty result. The returned error is
// reserved for future fatal conditions and is currently always nil.
func (a *Aggregator) AggregateThreads(ctx context.Context, channel models.Channel, useCache bool, maxAgeDays int) ([]models.ThreadRecord, error) {
	if useCache {
		if threads, ok := a.cache.Load(channel.ID); ok {
			return a.filterByAge(threads, maxAgeDays), nil
		}
	}

	// Slot order sets deduplication priority: active beats archived-public
	// beats archived-private.
	var results [3][]models.ThreadRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		threads, err := a.source.ActiveThreads(gctx, channel.GuildID)
		if err != nil {
			a.logger.Warn("Failed to fetch active threads",
				zap.Error(err),
				zap.String("channel_id", channel.ID))
			return nil
		}
		results[0] = threads
		return nil
	})
	g.Go(func() error {
		threads, err := a.source.ArchivedPublicThreads(gctx, channel.ID)
		if err != nil {
			a.logger.Warn("Failed to fetch archived threads",
				zap.Error(err),
				zap.String("channel_id", channel.ID))
			return nil
		}
		results[1] = threads
		return nil
	})
	g.Go(func() error {
		threads, err := a.source.ArchivedPrivateThreads(gctx, channel.ID)
		if err != nil {
			a.logger.Warn("Failed to fetch archived private threads",
				zap.Error(err),
				zap.String("channel_id", channel.ID))
			return nil
		}
		results[2] = threads
		return nil
	})
	_ = g.Wait()

	seen := make(map[string]struct{})
	merged := make([]models.ThreadRecord, 0)
	for _, batch := range results {
		for _, t := range batch {
			if t.ParentChannelID != channel.ID {
				continue
			}
			if _, dup := seen[t.ID]; dup {
				// First-seen-wins: the earlier, higher-priority record stays.
				continue
			}
			seen[t.ID] = struct{}{}
			merged = append(merged, t)
		}
	}

	merged = a.filterByAge(merged, maxAgeDays)

	if useCache {
		a.cache.Save(channel.ID, merged)
	}

	return merged, nil
}

// CachedThreadCount reports how many threads are cached for the channel
// without touching the remote source.
func (a *Aggregator) CachedThreadCount(channelID string) (int, bool) {
	threads, ok := a.cache.Load(channelID)
	if !ok {
		return 0, false
	}
	return len(threads), true
}

func (a *Aggregator) filterByAge(threads []models.ThreadRecord, maxAgeDays int) []models.ThreadRecord {
	if maxAgeDays <= 0 {
		return threads
	}

	now := a.now()
	cutoff := now.AddDate(0, 0, -maxAgeDays)
	kept := make([]models.ThreadRecord, 0, len(threads))
	for _, t := range threads {
		last, ok := t.LastActivity(now)
		if !ok {
			continue
		}
		// Closed on the lower bound: last_activity >= now - maxAgeDays.
		if !last.Before(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
