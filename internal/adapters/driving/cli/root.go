// Package cli provides the cobra-based command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chanscribe/chanscribe/internal/core/ports/driven"
	"github.com/chanscribe/chanscribe/internal/core/ports/driving"
	"github.com/chanscribe/chanscribe/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services carries the wired core services the commands run against.
type Services struct {
	Ingestor driving.Ingestor
	Store    driven.MetadataStore
}

var services *Services

// SetServices injects the wired services. Must be called before Execute.
func SetServices(s *Services) {
	services = s
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "chanscribe",
	Short: "Transcribe YouTube channels into a searchable archive",
	Long: `chanscribe downloads a channel's audio, strips silence, transcribes
the speech and stores timestamped transcript chunks in a relational and a
vector store for retrieval.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
