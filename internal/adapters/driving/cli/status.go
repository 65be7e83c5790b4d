package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-channel ingest counts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Store == nil {
		return errors.New("store not configured")
	}

	rows, err := services.Store.Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	if len(rows) == 0 {
		cmd.Println("No channels ingested yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tID\tVIDEOS\tCHUNKS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", r.Title, r.ChannelID, r.Videos, r.Chunks)
	}
	return w.Flush()
}
