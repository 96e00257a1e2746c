package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/discord-catchup/internal/models"
	"go.uber.org/zap"
)

// entry is the on-disk cache record for one channel. Nullable thread fields
// serialize as explicit nulls so cache-sourced records round-trip with the
// full attribute set.
type entry struct {
	ChannelID string                `json:"channel_id"`
	FetchedAt time.Time             `json:"fetched_at"`
	Threads   []models.ThreadRecord `json:"threads"`
}

// FileStore keeps one JSON file per channel under a cache directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

func (s *FileStore) path(channelID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("threads_cache_%s.json", channelID))
}

func (s *FileStore) Load(channelID string) ([]models.ThreadRecord, bool) {
	data, err := os.ReadFile(s.path(channelID))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to read thread cache",
				zap.Error(err),
				zap.String("channel_id", channelID))
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Corrupt data is treated identically to absence.
		s.logger.Warn("Discarding corrupt thread cache",
			zap.Error(err),
			zap.String("channel_id", channelID))
		return nil, false
	}

	if e.ChannelID != channelID {
		return nil, false
	}
	if s.now().Sub(e.FetchedAt) > FreshnessWindow {
		return nil, false
	}

	return e.Threads, true
}

func (s *FileStore) Save(channelID string, threads []models.ThreadRecord) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Warn("Failed to create cache directory",
			zap.Error(err),
			zap.String("dir", s.dir))
		return
	}

	e := entry{
		ChannelID: channelID,
		FetchedAt: s.now(),
		Threads:   threads,
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		s.logger.Warn("Failed to encode thread cache",
			zap.Error(err),
			zap.String("channel_id", channelID))
		return
	}

	// Write to a unique temp file and rename so a reader never observes a
	// partially written entry.
	target := s.path(channelID)
	tmp := target + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.logger.Warn("Failed to write thread cache",
			zap.Error(err),
			zap.String("channel_id", channelID))
		return
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		s.logger.Warn("Failed to replace thread cache",
			zap.Error(err),
			zap.String("channel_id", channelID))
	}
}
