package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/xaenox/discord-catchup/internal/models"
	"go.uber.org/zap"
)

// archivedPageLimit caps one archived-thread listing request.
const archivedPageLimit = 100

// Client wraps a Discord REST session with the four operations the core
// needs: list channels, list active threads, list archived threads, list
// recent messages. The session is passed in explicitly wherever it is used;
// there is no shared global.
type Client struct {
	session *discordgo.Session
	logger  *zap.Logger
}

func New(token string, logger *zap.Logger) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	return &Client{
		session: session,
		logger:  logger,
	}, nil
}

// GuildName resolves the human-readable name of a guild.
func (c *Client) GuildName(ctx context.Context, guildID string) (string, error) {
	guild, err := c.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetching guild %s: %w", guildID, err)
	}
	return guild.Name, nil
}

// Channels lists all channels of a guild, including categories.
func (c *Client) Channels(ctx context.Context, guildID string) ([]models.Channel, error) {
	channels, err := c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching channels for guild %s: %w", guildID, err)
	}

	out := make([]models.Channel, 0, len(channels))
	for _, ch := range channels {
		out = append(out, models.Channel{
			ID:       ch.ID,
			GuildID:  guildID,
			ParentID: ch.ParentID,
			Name:     ch.Name,
			Kind:     channelKind(ch.Type),
		})
	}
	return out, nil
}

// ActiveThreads lists the guild's currently active threads. The aggregator
// filters them down to the requested channel.
func (c *Client) ActiveThreads(ctx context.Context, guildID string) ([]models.ThreadRecord, error) {
	list, err := c.session.GuildThreadsActive(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching active threads for guild %s: %w", guildID, err)
	}
	return threadRecords(list), nil
}

// ArchivedPublicThreads lists a channel's archived public threads.
func (c *Client) ArchivedPublicThreads(ctx context.Context, channelID string) ([]models.ThreadRecord, error) {
	list, err := c.session.ThreadsArchived(channelID, nil, archivedPageLimit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching archived threads for channel %s: %w", channelID, err)
	}
	return threadRecords(list), nil
}

// ArchivedPrivateThreads lists a channel's archived private threads. Requires
// the MANAGE_THREADS permission; the aggregator tolerates the failure.
func (c *Client) ArchivedPrivateThreads(ctx context.Context, channelID string) ([]models.ThreadRecord, error) {
	list, err := c.session.ThreadsPrivateArchived(channelID, nil, archivedPageLimit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching archived private threads for channel %s: %w", channelID, err)
	}
	return threadRecords(list), nil
}

// RecentMessages fetches up to limit messages from a channel or thread,
// newest first as returned by the API.
func (c *Client) RecentMessages(ctx context.Context, channelID string, limit int) ([]models.Message, error) {
	c.logger.Debug("Fetching messages",
		zap.String("channel_id", channelID),
		zap.Int("limit", limit))

	messages, err := c.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching messages for channel %s: %w", channelID, err)
	}

	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		author := ""
		if m.Author != nil {
			author = m.Author.Username
		}
		out = append(out, models.Message{
			ID:        m.ID,
			ChannelID: m.ChannelID,
			Author:    author,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return out, nil
}

func channelKind(t discordgo.ChannelType) models.ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return models.TextChannel
	case discordgo.ChannelTypeGuildCategory:
		return models.CategoryChannel
	case discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeGuildNewsThread:
		return models.ThreadChannel
	default:
		return models.OtherChannel
	}
}

func threadRecords(list *discordgo.ThreadsList) []models.ThreadRecord {
	if list == nil {
		return nil
	}
	out := make([]models.ThreadRecord, 0, len(list.Threads))
	for _, t := range list.Threads {
		out = append(out, threadRecord(t))
	}
	return out
}

func threadRecord(ch *discordgo.Channel) models.ThreadRecord {
	rec := models.ThreadRecord{
		ID:              ch.ID,
		ParentChannelID: ch.ParentID,
		Name:            ch.Name,
	}
	if ch.LastMessageID != "" {
		id := ch.LastMessageID
		rec.LastMessageID = &id
	}
	if md := ch.ThreadMetadata; md != nil {
		rec.Archived = md.Archived
		rec.Locked = md.Locked
		rec.AutoArchiveDuration = md.AutoArchiveDuration
		if !md.ArchiveTimestamp.IsZero() {
			ts := md.ArchiveTimestamp
			rec.ArchiveTimestamp = &ts
		}
	}
	return rec
}
