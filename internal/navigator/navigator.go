package navigator

import (
	"context"
	"fmt"
	"io"

	"github.com/xaenox/discord-catchup/internal/models"
	"go.uber.org/zap"
)

// State identifies the current step of the selection session.
type State int

const (
	SelectingCategory State = iota
	SelectingChannel
	SelectingThread
	ChoosingLimit
	Resolved
)

// Status reports how a session ended.
type Status int

const (
	// StatusResolved means the session produced a target and a limit.
	StatusResolved Status = iota
	// StatusCancelled means the user aborted a prompt; partial state is discarded.
	StatusCancelled
	// StatusEmpty means a selected bucket had nothing to offer.
	StatusEmpty
)

const (
	DefaultLimit = 10
	MinLimit     = 1
	MaxLimit     = 100
)

// mainChannelOption is the synthetic first thread choice standing for "no
// thread, read the channel itself".
const mainChannelOption = "No thread (main channel)"

// Target is the resolved destination: a channel, and optionally a thread
// within it. A nil Thread means the main channel.
type Target struct {
	Channel models.Channel
	Thread  *models.ThreadRecord
}

// DestinationID is the channel or thread messages should be read from.
func (t Target) DestinationID() string {
	if t.Thread != nil {
		return t.Thread.ID
	}
	return t.Channel.ID
}

// Name is the human-readable name of the destination.
func (t Target) Name() string {
	if t.Thread != nil {
		return t.Thread.Name
	}
	return t.Channel.Name
}

// Outcome is the final yield of a navigation session.
type Outcome struct {
	Status Status
	Target Target
	Limit  int
}

// CategoryPick is the result of the category step: a named bucket of channels.
type CategoryPick struct {
	Name     string
	Channels []models.Channel
}

// ThreadProvider supplies a channel's aggregated threads. Satisfied by
// aggregator.Aggregator.
type ThreadProvider interface {
	AggregateThreads(ctx context.Context, channel models.Channel, useCache bool, maxAgeDays int) ([]models.ThreadRecord, error)
	CachedThreadCount(channelID string) (int, bool)
}

// Options control how the session consults the thread layer.
type Options struct {
	UseCache   bool
	MaxAgeDays int
}

// Navigator drives the user through category, channel, thread and
// message-count selection.
type Navigator struct {
	threads  ThreadProvider
	prompter Prompter
	out      io.Writer
	logger   *zap.Logger
	opts     Options
}

func New(threads ThreadProvider, prompter Prompter, out io.Writer, logger *zap.Logger, opts Options) *Navigator {
	return &Navigator{
		threads:  threads,
		prompter: prompter,
		out:      out,
		logger:   logger,
		opts:     opts,
	}
}

// session is the transient state of one run, mutated by each confirmed step
// and discarded when the session ends.
type session struct {
	state    State
	channels []models.Channel
	channel  models.Channel
	threads  []models.ThreadRecord
	thread   *models.ThreadRecord
	limit    int
}

// Run executes the selection state machine over the given channel list. It
// returns when a target is resolved, the user cancels, or the chosen category
// turns out to be empty.
func (n *Navigator) Run(ctx context.Context, channels []models.Channel) (Outcome, error) {
	s := &session{state: SelectingCategory, limit: DefaultLimit}

	for {
		switch s.state {
		case SelectingCategory:
			pick, err := n.PickCategory(channels)
			if err != nil {
				return Outcome{}, err
			}
			if pick.Cancelled {
				return Outcome{Status: StatusCancelled}, nil
			}
			if len(pick.Value.Channels) == 0 {
				fmt.Fprintln(n.out, "No channels found in this category.")
				return Outcome{Status: StatusEmpty}, nil
			}
			s.channels = pick.Value.Channels
			s.state = SelectingChannel

		case SelectingChannel:
			res, err := n.selectChannel(ctx, s.channels)
			if err != nil {
				return Outcome{}, err
			}
			if res.Cancelled {
				return Outcome{Status: StatusCancelled}, nil
			}
			s.channel = res.Value
			threads, err := n.threads.AggregateThreads(ctx, s.channel, n.opts.UseCache, n.opts.MaxAgeDays)
			if err != nil {
				return Outcome{}, fmt.Errorf("aggregating threads for channel %s: %w", s.channel.ID, err)
			}
			s.threads = threads
			s.state = SelectingThread

		case SelectingThread:
			if len(s.threads) == 0 {
				// Nothing to choose from: fall through to the main channel
				// without prompting.
				fmt.Fprintln(n.out, "🤔   No threads found in this channel.")
				s.thread = nil
				s.state = ChoosingLimit
				continue
			}
			res, err := n.selectThread(s.threads)
			if err != nil {
				return Outcome{}, err
			}
			if res.Cancelled {
				return Outcome{Status: StatusCancelled}, nil
			}
			s.thread = res.Value
			s.state = ChoosingLimit

		case ChoosingLimit:
			res, err := n.prompter.Number("How many messages do you want to retrieve?", DefaultLimit, MinLimit, MaxLimit)
			if err != nil {
				return Outcome{}, err
			}
			if res.Cancelled {
				return Outcome{Status: StatusCancelled}, nil
			}
			s.limit = res.Value
			s.state = Resolved

		case Resolved:
			return Outcome{
				Status: StatusResolved,
				Target: Target{Channel: s.channel, Thread: s.thread},
				Limit:  s.limit,
			}, nil
		}
	}
}

// PickCategory runs only the category step: the channel list is partitioned
// into named buckets plus a synthetic "Uncategorized" one, and the user picks
// exactly one. An empty bucket is a valid pick; Run reports it as empty.
func (n *Navigator) PickCategory(channels []models.Channel) (Result[CategoryPick], error) {
	groups, uncategorized := models.GroupByCategory(channels)

	options := make([]string, 0, len(groups)+1)
	for _, g := range groups {
		options = append(options, fmt.Sprintf("%s (%d channels)", g.Name, len(g.Channels)))
	}
	if len(uncategorized) > 0 {
		options = append(options, fmt.Sprintf("Uncategorized (%d channels)", len(uncategorized)))
	}

	res, err := n.prompter.Select("Select a category:", options)
	if err != nil {
		return Result[CategoryPick]{}, fmt.Errorf("selecting category: %w", err)
	}
	if res.Cancelled {
		return Cancelled[CategoryPick](), nil
	}

	if res.Value >= len(groups) {
		return Selected(CategoryPick{Name: "Uncategorized", Channels: uncategorized}), nil
	}
	g := groups[res.Value]
	return Selected(CategoryPick{Name: g.Name, Channels: g.Channels}), nil
}

func (n *Navigator) selectChannel(ctx context.Context, channels []models.Channel) (Result[models.Channel], error) {
	options := make([]string, len(channels))
	for i, ch := range channels {
		options[i] = fmt.Sprintf("# %s (%s threads)", ch.Name, n.threadCountLabel(ctx, ch))
	}

	res, err := n.prompter.Select("Select a channel:", options)
	if err != nil {
		return Result[models.Channel]{}, fmt.Errorf("selecting channel: %w", err)
	}
	if res.Cancelled {
		return Cancelled[models.Channel](), nil
	}
	return Selected(channels[res.Value]), nil
}

// threadCountLabel computes the thread count shown next to a channel. Without
// caching the count is fetched eagerly; with caching it comes from the cache
// or shows as unknown rather than forcing a remote enumeration.
func (n *Navigator) threadCountLabel(ctx context.Context, ch models.Channel) string {
	if n.opts.UseCache {
		if count, ok := n.threads.CachedThreadCount(ch.ID); ok {
			return fmt.Sprintf("%d", count)
		}
		return "?"
	}

	threads, err := n.threads.AggregateThreads(ctx, ch, false, 0)
	if err != nil {
		n.logger.Warn("Failed to count threads",
			zap.Error(err),
			zap.String("channel_id", ch.ID))
		return "?"
	}
	return fmt.Sprintf("%d", len(threads))
}

func (n *Navigator) selectThread(threads []models.ThreadRecord) (Result[*models.ThreadRecord], error) {
	options := make([]string, 0, len(threads)+1)
	options = append(options, mainChannelOption)
	for _, t := range threads {
		options = append(options, "🧵 "+t.Name)
	}

	res, err := n.prompter.Select("Select a thread:", options)
	if err != nil {
		return Result[*models.ThreadRecord]{}, fmt.Errorf("selecting thread: %w", err)
	}
	if res.Cancelled {
		return Cancelled[*models.ThreadRecord](), nil
	}
	if res.Value == 0 {
		return Selected[*models.ThreadRecord](nil), nil
	}
	t := threads[res.Value-1]
	return Selected(&t), nil
}
