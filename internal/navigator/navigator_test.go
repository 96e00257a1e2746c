package navigator

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/discord-catchup/internal/models"
	"go.uber.org/zap"
)

// scriptedPrompter replays canned answers and records every prompt it was
// shown.
type scriptedPrompter struct {
	selects []Result[int]
	numbers []Result[int]

	selectTitles  []string
	selectOptions [][]string
	numberDefault int
	numberMin     int
	numberMax     int
}

func (p *scriptedPrompter) Select(title string, options []string) (Result[int], error) {
	p.selectTitles = append(p.selectTitles, title)
	p.selectOptions = append(p.selectOptions, options)
	res := p.selects[0]
	p.selects = p.selects[1:]
	return res, nil
}

func (p *scriptedPrompter) Number(title string, def, min, max int) (Result[int], error) {
	p.numberDefault, p.numberMin, p.numberMax = def, min, max
	res := p.numbers[0]
	p.numbers = p.numbers[1:]
	return res, nil
}

type fakeProvider struct {
	threads        map[string][]models.ThreadRecord
	counts         map[string]int
	aggregateCalls []string
}

func (f *fakeProvider) AggregateThreads(ctx context.Context, channel models.Channel, useCache bool, maxAgeDays int) ([]models.ThreadRecord, error) {
	f.aggregateCalls = append(f.aggregateCalls, channel.ID)
	return f.threads[channel.ID], nil
}

func (f *fakeProvider) CachedThreadCount(channelID string) (int, bool) {
	count, ok := f.counts[channelID]
	return count, ok
}

func testChannels() []models.Channel {
	return []models.Channel{
		{ID: "cat-1", Name: "Projects", Kind: models.CategoryChannel},
		{ID: "ch-1", Name: "general", ParentID: "cat-1", Kind: models.TextChannel},
		{ID: "ch-2", Name: "random", Kind: models.TextChannel},
	}
}

func newTestNavigator(p Prompter, f ThreadProvider, out *bytes.Buffer, opts Options) *Navigator {
	return New(f, p, out, zap.NewNop(), opts)
}

func TestRunResolvesThreadTarget(t *testing.T) {
	provider := &fakeProvider{
		threads: map[string][]models.ThreadRecord{
			"ch-1": {
				{ID: "t-1", ParentChannelID: "ch-1", Name: "planning"},
				{ID: "t-2", ParentChannelID: "ch-1", Name: "retro"},
			},
		},
	}
	prompter := &scriptedPrompter{
		selects: []Result[int]{Selected(0), Selected(0), Selected(2)},
		numbers: []Result[int]{Selected(25)},
	}
	var out bytes.Buffer
	nav := newTestNavigator(prompter, provider, &out, Options{})

	outcome, err := nav.Run(context.Background(), testChannels())
	require.NoError(t, err)

	require.Equal(t, StatusResolved, outcome.Status)
	assert.Equal(t, "ch-1", outcome.Target.Channel.ID)
	require.NotNil(t, outcome.Target.Thread)
	assert.Equal(t, "t-2", outcome.Target.Thread.ID)
	assert.Equal(t, 25, outcome.Limit)

	// Category labels carry channel counts, uncategorized last.
	require.Len(t, prompter.selectOptions, 3)
	assert.Equal(t, []string{"Projects (1 channels)", "Uncategorized (1 channels)"}, prompter.selectOptions[0])
	// The synthetic main-channel choice is always listed first.
	assert.Equal(t, "No thread (main channel)", prompter.selectOptions[2][0])
	// Limit prompt is bounded [1, 100] with a default of 10.
	assert.Equal(t, 10, prompter.numberDefault)
	assert.Equal(t, 1, prompter.numberMin)
	assert.Equal(t, 100, prompter.numberMax)
}

func TestRunMainChannelSentinel(t *testing.T) {
	provider := &fakeProvider{
		threads: map[string][]models.ThreadRecord{
			"ch-1": {{ID: "t-1", ParentChannelID: "ch-1", Name: "planning"}},
		},
	}
	prompter := &scriptedPrompter{
		selects: []Result[int]{Selected(0), Selected(0), Selected(0)},
		numbers: []Result[int]{Selected(10)},
	}
	var out bytes.Buffer
	nav := newTestNavigator(prompter, provider, &out, Options{})

	outcome, err := nav.Run(context.Background(), testChannels())
	require.NoError(t, err)

	require.Equal(t, StatusResolved, outcome.Status)
	assert.Nil(t, outcome.Target.Thread)
	assert.Equal(t, "ch-1", outcome.Target.DestinationID())
	assert.Equal(t, "general", outcome.Target.Name())
}

func TestRunEmptyCategoryShortCircuits(t *testing.T) {
	channels := []models.Channel{
		{ID: "cat-1", Name: "Ghost Town", Kind: models.CategoryChannel},
	}
	prompter := &scriptedPrompter{selects: []Result[int]{Selected(0)}}
	var out bytes.Buffer
	nav := newTestNavigator(prompter, &fakeProvider{}, &out, Options{})

	outcome, err := nav.Run(context.Background(), channels)
	require.NoError(t, err)

	assert.Equal(t, StatusEmpty, outcome.Status)
	assert.Contains(t, out.String(), "No channels found in this category.")
	// The channel prompt was never shown.
	assert.Len(t, prompter.selectTitles, 1)
}

func TestRunAutoSelectsMainChannelWithoutThreads(t *testing.T) {
	provider := &fakeProvider{threads: map[string][]models.ThreadRecord{}}
	prompter := &scriptedPrompter{
		selects: []Result[int]{Selected(0), Selected(0)},
		numbers: []Result[int]{Selected(10)},
	}
	var out bytes.Buffer
	nav := newTestNavigator(prompter, provider, &out, Options{})

	outcome, err := nav.Run(context.Background(), testChannels())
	require.NoError(t, err)

	require.Equal(t, StatusResolved, outcome.Status)
	assert.Nil(t, outcome.Target.Thread)
	assert.Contains(t, out.String(), "No threads found in this channel.")
	// Only the category and channel prompts ran; thread selection was skipped.
	assert.Len(t, prompter.selectTitles, 2)
}

func TestRunCancellation(t *testing.T) {
	provider := &fakeProvider{
		threads: map[string][]models.ThreadRecord{
			"ch-1": {{ID: "t-1", ParentChannelID: "ch-1", Name: "planning"}},
		},
	}

	tests := []struct {
		name    string
		selects []Result[int]
		numbers []Result[int]
	}{
		{"at category", []Result[int]{Cancelled[int]()}, nil},
		{"at channel", []Result[int]{Selected(0), Cancelled[int]()}, nil},
		{"at thread", []Result[int]{Selected(0), Selected(0), Cancelled[int]()}, nil},
		{"at limit", []Result[int]{Selected(0), Selected(0), Selected(1)}, []Result[int]{Cancelled[int]()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompter := &scriptedPrompter{selects: tt.selects, numbers: tt.numbers}
			var out bytes.Buffer
			nav := newTestNavigator(prompter, provider, &out, Options{})

			outcome, err := nav.Run(context.Background(), testChannels())
			require.NoError(t, err)
			assert.Equal(t, StatusCancelled, outcome.Status)
		})
	}
}

func TestChannelLabelsEagerCounts(t *testing.T) {
	provider := &fakeProvider{
		threads: map[string][]models.ThreadRecord{
			"ch-2": {{ID: "t-9", ParentChannelID: "ch-2", Name: "chatter"}},
		},
	}
	prompter := &scriptedPrompter{
		selects: []Result[int]{Selected(1), Cancelled[int]()},
	}
	var out bytes.Buffer
	nav := newTestNavigator(prompter, provider, &out, Options{})

	_, err := nav.Run(context.Background(), testChannels())
	require.NoError(t, err)

	require.Len(t, prompter.selectOptions, 2)
	assert.Equal(t, []string{"# random (1 threads)"}, prompter.selectOptions[1])
	// The eager count itself triggered an aggregation for the listed channel.
	assert.Equal(t, []string{"ch-2"}, provider.aggregateCalls)
}

func TestChannelLabelsCachedCounts(t *testing.T) {
	provider := &fakeProvider{counts: map[string]int{"ch-2": 4}}
	prompter := &scriptedPrompter{
		selects: []Result[int]{Selected(1), Cancelled[int]()},
	}
	var out bytes.Buffer
	nav := newTestNavigator(prompter, provider, &out, Options{UseCache: true})

	_, err := nav.Run(context.Background(), testChannels())
	require.NoError(t, err)

	assert.Equal(t, []string{"# random (4 threads)"}, prompter.selectOptions[1])
	// No remote aggregation just to label channels.
	assert.Empty(t, provider.aggregateCalls)
}

func TestChannelLabelsUnknownCachedCount(t *testing.T) {
	provider := &fakeProvider{}
	prompter := &scriptedPrompter{
		selects: []Result[int]{Selected(1), Cancelled[int]()},
	}
	var out bytes.Buffer
	nav := newTestNavigator(prompter, provider, &out, Options{UseCache: true})

	_, err := nav.Run(context.Background(), testChannels())
	require.NoError(t, err)

	assert.Equal(t, []string{"# random (? threads)"}, prompter.selectOptions[1])
}

func TestPickCategoryUncategorizedBucket(t *testing.T) {
	prompter := &scriptedPrompter{selects: []Result[int]{Selected(1)}}
	var out bytes.Buffer
	nav := newTestNavigator(prompter, &fakeProvider{}, &out, Options{})

	pick, err := nav.PickCategory(testChannels())
	require.NoError(t, err)
	require.False(t, pick.Cancelled)
	assert.Equal(t, "Uncategorized", pick.Value.Name)
	require.Len(t, pick.Value.Channels, 1)
	assert.Equal(t, "ch-2", pick.Value.Channels[0].ID)
}
