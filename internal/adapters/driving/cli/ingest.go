package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chanscribe/chanscribe/internal/adapters/driving/tui/selectprompt"
	"github.com/chanscribe/chanscribe/internal/core/domain"
)

var (
	ingestAll    bool
	ingestOldest int
	ingestNewest int
	ingestVideo  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [channel-url]",
	Short: "Download and transcribe a channel's videos",
	Long: `Enumerates the channel, then downloads, transcribes and stores the
selected videos. Without a selection flag an interactive prompt asks which
videos to take; in a non-interactive shell everything new is taken.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestAll, "all", false, "download every new video")
	ingestCmd.Flags().IntVar(&ingestOldest, "oldest", 0, "download the N oldest new videos")
	ingestCmd.Flags().IntVar(&ingestNewest, "newest", 0, "download the N newest new videos")
	ingestCmd.Flags().StringVar(&ingestVideo, "video", "", "download a single video by ID")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if services == nil || services.Ingestor == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()

	plan, err := services.Ingestor.Plan(ctx, args[0])
	if err != nil {
		return fmt.Errorf("planning ingest: %w", err)
	}

	newCount := plan.NewCount()
	cmd.Printf("%s: %d videos, %d not yet downloaded\n", plan.Channel.Title, len(plan.Refs), newCount)

	sel, proceed, err := resolveSelection(plan.Channel.Title, newCount)
	if err != nil {
		return err
	}
	if !proceed {
		cmd.Println("Aborted.")
		return nil
	}
	if newCount == 0 && sel.Mode != domain.SelectSingle {
		cmd.Println("Nothing new to download.")
		return nil
	}

	result, err := services.Ingestor.Run(ctx, plan, sel)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Run %s: %d succeeded, %d failed, %d skipped\n",
		result.RunID, result.Succeeded, result.Failed, result.Skipped)
	if result.Failed > 0 {
		cmd.Println("Some videos failed; see failed_downloads.txt in the channel directory.")
	}
	return nil
}

// resolveSelection turns the flags into a selection, falling back to the
// interactive prompt on a terminal and to everything-new otherwise.
// The second return is false when the user cancelled.
func resolveSelection(channel string, newCount int) (domain.Selection, bool, error) {
	flagged := 0
	for _, set := range []bool{ingestAll, ingestOldest > 0, ingestNewest > 0, ingestVideo != ""} {
		if set {
			flagged++
		}
	}
	if flagged > 1 {
		return domain.Selection{}, false, errors.New("--all, --oldest, --newest and --video are mutually exclusive")
	}

	switch {
	case ingestAll:
		return domain.Selection{Mode: domain.SelectAllNew}, true, nil
	case ingestOldest > 0:
		return domain.Selection{Mode: domain.SelectOldest, Count: ingestOldest}, true, nil
	case ingestNewest > 0:
		return domain.Selection{Mode: domain.SelectNewest, Count: ingestNewest}, true, nil
	case ingestVideo != "":
		return domain.Selection{Mode: domain.SelectSingle, VideoID: ingestVideo}, true, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return domain.Selection{Mode: domain.SelectAllNew}, true, nil
	}

	sel, cancelled, err := selectprompt.Run(channel, newCount)
	if err != nil {
		return domain.Selection{}, false, err
	}
	return sel, !cancelled, nil
}
