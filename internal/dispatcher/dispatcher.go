package dispatcher

import (
	"context"
	"fmt"
	"io"

	"github.com/xaenox/discord-catchup/internal/models"
	"github.com/xaenox/discord-catchup/internal/navigator"
	"github.com/xaenox/discord-catchup/internal/promptfile"
	"go.uber.org/zap"
)

// Mode selects what happens to retrieved messages.
type Mode int

const (
	// ModeDisplay renders the messages to the output stream.
	ModeDisplay Mode = iota
	// ModeCreatePromptFile hands the messages to the prompt-file collaborator.
	ModeCreatePromptFile
)

// MessageFetcher retrieves the most recent messages of a channel or thread,
// newest first.
type MessageFetcher interface {
	RecentMessages(ctx context.Context, channelID string, limit int) ([]models.Message, error)
}

// PromptCreator turns retrieved messages into a prompt file on disk.
type PromptCreator interface {
	Create(req promptfile.Request) (string, error)
}

// Dispatcher fetches messages for a resolved target and either displays them
// or produces a prompt file.
type Dispatcher struct {
	fetcher   MessageFetcher
	prompts   PromptCreator
	guildName string
	out       io.Writer
	logger    *zap.Logger
}

func New(fetcher MessageFetcher, prompts PromptCreator, guildName string, out io.Writer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		fetcher:   fetcher,
		prompts:   prompts,
		guildName: guildName,
		out:       out,
		logger:    logger,
	}
}

// Dispatch fetches up to limit messages from the target. In display mode the
// source's newest-first order is preserved. In prompt-file mode the messages
// are reversed to chronological order first; a collaborator failure is
// reported to the user and is not fatal. The returned path is empty unless a
// prompt file was created.
func (d *Dispatcher) Dispatch(ctx context.Context, target navigator.Target, limit int, mode Mode) (string, error) {
	messages, err := d.fetcher.RecentMessages(ctx, target.DestinationID(), limit)
	if err != nil {
		return "", fmt.Errorf("fetching messages from %s: %w", target.DestinationID(), err)
	}

	switch mode {
	case ModeCreatePromptFile:
		return d.createPromptFile(target, limit, messages)
	default:
		d.display(target, limit, messages)
		return "", nil
	}
}

func (d *Dispatcher) display(target navigator.Target, limit int, messages []models.Message) {
	fmt.Fprintf(d.out, "\nLast %d messages from %s:\n", limit, target.Name())
	for _, m := range messages {
		fmt.Fprintln(d.out, m.Line())
	}
}

func (d *Dispatcher) createPromptFile(target navigator.Target, limit int, messages []models.Message) (string, error) {
	// Oldest first: the template expects the conversation in chronological order.
	ordered := make([]models.Message, len(messages))
	for i, m := range messages {
		ordered[len(messages)-1-i] = m
	}

	req := promptfile.Request{
		GuildName:   d.guildName,
		ChannelName: target.Channel.Name,
		Limit:       limit,
		Messages:    ordered,
	}
	if target.Thread != nil {
		req.ThreadName = target.Thread.Name
	}

	path, err := d.prompts.Create(req)
	if err != nil {
		d.logger.Warn("Failed to create prompt file", zap.Error(err))
		fmt.Fprintf(d.out, "❌   %v\n", err)
		return "", nil
	}

	fmt.Fprintf(d.out, "\n✅   Created prompt file: %s\n", path)
	fmt.Fprintf(d.out, "✅   Last %d messages from %s saved.\n", limit, target.Name())
	return path, nil
}
