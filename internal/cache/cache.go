package cache

import (
	"time"

	"github.com/xaenox/discord-catchup/internal/models"
)

// FreshnessWindow is the maximum age of a cache entry before it is treated as
// stale. Entries older than this are reported as misses, never as errors.
const FreshnessWindow = 3600 * time.Second

// Store is a per-channel snapshot of aggregated thread records. Load reports
// found=false for absent, stale, or unreadable entries. Save overwrites any
// prior entry for the channel; failures are logged and swallowed, since
// caching is a performance optimization and never a correctness requirement.
type Store interface {
	Load(channelID string) ([]models.ThreadRecord, bool)
	Save(channelID string, threads []models.ThreadRecord)
}
