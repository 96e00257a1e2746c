package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/xaenox/discord-catchup/internal/aggregator"
	"github.com/xaenox/discord-catchup/internal/cache"
	"github.com/xaenox/discord-catchup/internal/discord"
	"github.com/xaenox/discord-catchup/internal/dispatcher"
	"github.com/xaenox/discord-catchup/internal/models"
	"github.com/xaenox/discord-catchup/internal/navigator"
	"github.com/xaenox/discord-catchup/internal/promptfile"
	"github.com/xaenox/discord-catchup/internal/summarizer"
	"github.com/xaenox/discord-catchup/internal/ui"
	"go.uber.org/zap"
)

var threadCatchupCmd = &cobra.Command{
	Use:   "thread-catchup",
	Short: "Interactively catch up on Discord threads",
	Long: `Interactive tool to catch up on Discord threads.

Navigate category, channel and thread, pick a message count, then display the
messages, write them into a summarization prompt file (--create-prompt), or
summarize them through OpenRouter (--summarize).`,
	RunE: runThreadCatchup,
}

var listChannelsCmd = &cobra.Command{
	Use:   "list-channels",
	Short: "List all channels in a Discord server",
	Long: `List all channels in a Discord server.

Interactive mode allows category selection; otherwise all text channels are
listed with their IDs and categories.`,
	RunE: runListChannels,
}

// newCacheStore picks the cache backend: files under the configured directory,
// or a process-lifetime memory store when no directory is set.
func newCacheStore() cache.Store {
	if cfg.Cache.Dir == "" {
		return cache.NewMemoryStore()
	}
	return cache.NewFileStore(cfg.Cache.Dir, logger)
}

func runThreadCatchup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	guildID := flagGuildID
	if guildID == "" {
		guildID = cfg.Discord.DefaultGuildID
	}
	if guildID == "" {
		return fmt.Errorf("guild ID is required: provide --guild-id or set discord.default_guild_id")
	}

	useCache := flagUseCache || cfg.Cache.Enabled
	maxAge := flagMaxAge
	if !cmd.Flags().Changed("max-age") {
		maxAge = cfg.Threads.MaxAgeDays
	}
	createPrompt := flagCreatePrompt || flagSummarize

	client, err := discord.New(cfg.Discord.Token, logger)
	if err != nil {
		return err
	}
	guildName, err := client.GuildName(ctx, guildID)
	if err != nil {
		return err
	}
	channels, err := client.Channels(ctx, guildID)
	if err != nil {
		return err
	}

	agg := aggregator.New(client, newCacheStore(), logger)
	nav := navigator.New(agg, ui.NewTerminalPrompter(), out, logger, navigator.Options{
		UseCache:   useCache,
		MaxAgeDays: maxAge,
	})

	outcome, err := nav.Run(ctx, channels)
	if err != nil {
		return err
	}
	if outcome.Status != navigator.StatusResolved {
		return nil
	}

	prompts := promptfile.NewCreator("prompt.md", "", logger)
	disp := dispatcher.New(client, prompts, guildName, out, logger)

	mode := dispatcher.ModeDisplay
	if createPrompt {
		mode = dispatcher.ModeCreatePromptFile
	}

	promptPath, err := disp.Dispatch(ctx, outcome.Target, outcome.Limit, mode)
	if err != nil {
		return err
	}

	if flagSummarize && promptPath != "" {
		if cfg.OpenRouter.APIKey == "" {
			fmt.Fprintln(out, "❌   OpenRouter API key not configured. Set OPENROUTER_API_KEY.")
			return nil
		}
		sum := summarizer.New(summarizer.Options{
			APIKey:   cfg.OpenRouter.APIKey,
			Model:    cfg.OpenRouter.Model,
			BaseURL:  cfg.OpenRouter.BaseURL,
			SiteURL:  cfg.OpenRouter.SiteURL,
			SiteName: cfg.OpenRouter.SiteName,
		}, logger)

		summaryPath, err := sum.SummarizePromptFile(ctx, promptPath)
		if err != nil {
			logger.Error("Failed to summarize prompt file", zap.Error(err))
			fmt.Fprintln(out, "❌   Failed to create summary. Check logs for details.")
			return nil
		}
		fmt.Fprintf(out, "✅   Created summary file: %s\n", summaryPath)
	}

	return nil
}

func runListChannels(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	client, err := discord.New(cfg.Discord.Token, logger)
	if err != nil {
		return err
	}
	guildName, err := client.GuildName(ctx, flagGuildID)
	if err != nil {
		return err
	}
	channels, err := client.Channels(ctx, flagGuildID)
	if err != nil {
		return err
	}

	if flagInteractive {
		agg := aggregator.New(client, newCacheStore(), logger)
		nav := navigator.New(agg, ui.NewTerminalPrompter(), out, logger, navigator.Options{
			UseCache: cfg.Cache.Enabled,
		})

		pick, err := nav.PickCategory(channels)
		if err != nil {
			return err
		}
		if pick.Cancelled {
			return nil
		}
		if len(pick.Value.Channels) == 0 {
			fmt.Fprintln(out, "No channels found in this category.")
			return nil
		}

		listed := make([]models.Channel, len(pick.Value.Channels))
		copy(listed, pick.Value.Channels)
		sort.Slice(listed, func(i, j int) bool { return listed[i].Name < listed[j].Name })

		fmt.Fprintf(out, "\nChannels in %s:\n", pick.Value.Name)
		for _, ch := range listed {
			fmt.Fprintf(out, "# %s (ID: %s)\n", ch.Name, ch.ID)
		}
		return nil
	}

	names := models.CategoryNames(channels)
	var listed []models.Channel
	for _, ch := range channels {
		if ch.Kind == models.TextChannel {
			listed = append(listed, ch)
		}
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].Name < listed[j].Name })

	fmt.Fprintf(out, "\nAll text channels in %s:\n", guildName)
	for _, ch := range listed {
		category := "Uncategorized"
		if name, ok := names[ch.ParentID]; ok {
			category = name
		}
		fmt.Fprintf(out, "# %s (ID: %s, Category: %s)\n", ch.Name, ch.ID, category)
	}
	return nil
}
