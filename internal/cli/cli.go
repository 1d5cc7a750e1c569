package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/gt-events/internal/logger"
	"github.com/pfrederiksen/gt-events/internal/pipeline"
	"github.com/pfrederiksen/gt-events/internal/scraper"
	"github.com/pfrederiksen/gt-events/internal/store"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagRedisURL      string
	flagSourceURL     string
	flagFormat        string
	flagDryRun        bool
	flagAbortBadDates bool
	flagVerbose       bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gt-events",
		Short: "Collect upcoming CS:GO matches into the event store",
		Long: `Fetches the game-tournaments.com CS:GO match schedule, normalizes each
match into a canonical event record, and upserts it into the event store,
replacing any previous record with the same fingerprint. Without a store
configured the collector runs dry: it fetches, extracts and logs only.`,
		RunE:          runCollect,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagRedisURL, "redis-url", os.Getenv("REDIS_URL"), "Redis URL for the event store (or env: REDIS_URL)")
	cmd.Flags().StringVar(&flagSourceURL, "source-url", "", "Override the match listing URL (default: the live site)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary output format: text or json")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Skip store mutations even if a store is configured")
	cmd.Flags().BoolVar(&flagAbortBadDates, "abort-bad-dates", false, "Fail the whole run on a malformed row timestamp instead of skipping the row")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runCollect is the main command logic.
func runCollect(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format %q (must be text or json)", flagFormat)
	}

	policy := scraper.TimestampSkip
	if flagAbortBadDates {
		policy = scraper.TimestampAbort
	}

	var st store.Store
	if flagRedisURL != "" && !flagDryRun {
		redisStore, err := store.NewRedis(flagRedisURL)
		if err != nil {
			return fmt.Errorf("connecting to event store: %w", err)
		}
		defer redisStore.Close()
		st = redisStore
	}

	driver := pipeline.New(scraper.New(flagSourceURL, policy), st)
	summary, err := driver.Run(cmd.Context())
	if err != nil {
		return err
	}

	return printSummary(os.Stdout, summary, format)
}
