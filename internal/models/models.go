package models

import (
	"fmt"
	"time"
)

type ChannelKind string

const (
	TextChannel     ChannelKind = "text"
	CategoryChannel ChannelKind = "category"
	ThreadChannel   ChannelKind = "thread"
	OtherChannel    ChannelKind = "other"
)

// Channel is a guild channel as seen by the navigation layer.
type Channel struct {
	ID       string      `json:"id"`
	GuildID  string      `json:"guild_id"`
	ParentID string      `json:"parent_id,omitempty"`
	Name     string      `json:"name"`
	Kind     ChannelKind `json:"kind"`
}

// ThreadRecord represents one conversation thread, whether it came from a
// remote query or from a cache entry. Records are never mutated after
// construction.
type ThreadRecord struct {
	ID                  string     `json:"id"`
	ParentChannelID     string     `json:"parent_channel_id"`
	Name                string     `json:"name"`
	Archived            bool       `json:"archived"`
	Locked              bool       `json:"locked"`
	ArchiveTimestamp    *time.Time `json:"archive_timestamp"`
	LastMessageID       *string    `json:"last_message_id"`
	AutoArchiveDuration int        `json:"auto_archive_duration"`
}

// LastActivity derives the point in time the thread was last active.
// Archived threads use their archive timestamp; active threads without a
// timestamp count as active right now. An archived thread with no archive
// timestamp has no derivable activity and reports ok=false.
func (t ThreadRecord) LastActivity(now time.Time) (time.Time, bool) {
	if t.ArchiveTimestamp != nil {
		return *t.ArchiveTimestamp, true
	}
	if !t.Archived {
		return now, true
	}
	return time.Time{}, false
}

// Message is one chat message retrieved from a channel or thread.
type Message struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Line renders the message in the "[timestamp] author: content" form used by
// both the display output and prompt files.
func (m Message) Line() string {
	return fmt.Sprintf("[%s] %s: %s", m.Timestamp.Format("2006-01-02 15:04:05"), m.Author, m.Content)
}
