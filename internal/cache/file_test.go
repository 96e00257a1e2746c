package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/discord-catchup/internal/models"
	"go.uber.org/zap"
)

func testFileStore(t *testing.T) (*FileStore, *time.Time) {
	t.Helper()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewFileStore(t.TempDir(), zap.NewNop())
	s.now = func() time.Time { return now }
	return s, &now
}

func sampleThreads() []models.ThreadRecord {
	archived := time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC)
	lastMsg := "900"
	return []models.ThreadRecord{
		{
			ID:                  "100",
			ParentChannelID:     "ch-1",
			Name:                "release planning",
			Archived:            true,
			Locked:              true,
			ArchiveTimestamp:    &archived,
			LastMessageID:       &lastMsg,
			AutoArchiveDuration: 1440,
		},
		{
			ID:              "101",
			ParentChannelID: "ch-1",
			Name:            "standup",
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, _ := testFileStore(t)
	threads := sampleThreads()

	s.Save("ch-1", threads)

	got, found := s.Load("ch-1")
	require.True(t, found)
	assert.Equal(t, threads, got)
}

func TestFileStoreMissWhenAbsent(t *testing.T) {
	s, _ := testFileStore(t)

	_, found := s.Load("nope")
	assert.False(t, found)
}

func TestFileStoreMissWhenStale(t *testing.T) {
	s, now := testFileStore(t)
	s.Save("ch-1", sampleThreads())

	*now = now.Add(FreshnessWindow + time.Second)
	_, found := s.Load("ch-1")
	assert.False(t, found)
}

func TestFileStoreHitJustInsideWindow(t *testing.T) {
	s, now := testFileStore(t)
	s.Save("ch-1", sampleThreads())

	*now = now.Add(FreshnessWindow)
	_, found := s.Load("ch-1")
	assert.True(t, found)
}

func TestFileStoreMissOnCorruptEntry(t *testing.T) {
	s, _ := testFileStore(t)
	s.Save("ch-1", sampleThreads())

	require.NoError(t, os.WriteFile(s.path("ch-1"), []byte("{not json"), 0o644))

	_, found := s.Load("ch-1")
	assert.False(t, found)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	s, _ := testFileStore(t)
	s.Save("ch-1", sampleThreads())
	s.Save("ch-1", sampleThreads()[:1])

	got, found := s.Load("ch-1")
	require.True(t, found)
	assert.Len(t, got, 1)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	s, _ := testFileStore(t)
	s.Save("ch-1", sampleThreads())

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestFileStoreSerializesNullableFieldsExplicitly(t *testing.T) {
	s, _ := testFileStore(t)
	s.Save("ch-1", []models.ThreadRecord{{ID: "100", ParentChannelID: "ch-1", Name: "t"}})

	data, err := os.ReadFile(s.path("ch-1"))
	require.NoError(t, err)
	// Absent values are rendered as explicit nulls, not omitted.
	assert.Contains(t, string(data), `"archive_timestamp": null`)
	assert.Contains(t, string(data), `"last_message_id": null`)
	assert.Contains(t, string(data), `"fetched_at"`)
}

func TestFileStoreSaveFailureIsSwallowed(t *testing.T) {
	// A file where the cache directory should be makes every write fail.
	base := t.TempDir()
	blocked := filepath.Join(base, "occupied")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	s := NewFileStore(blocked, zap.NewNop())
	s.Save("ch-1", sampleThreads())

	_, found := s.Load("ch-1")
	assert.False(t, found)
}

func TestFileStoreKeysByChannel(t *testing.T) {
	s, _ := testFileStore(t)
	s.Save("ch-1", sampleThreads())
	s.Save("ch-2", nil)

	got, found := s.Load("ch-2")
	require.True(t, found)
	assert.Empty(t, got)

	got, found = s.Load("ch-1")
	require.True(t, found)
	assert.Len(t, got, 2)
}
