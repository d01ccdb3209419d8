// Package cli provides the command-line interface for tessera.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/tessera/internal/colour"
	"github.com/jmylchreest/tessera/internal/version"
)

// app holds the state shared by the commands of one root command.
type app struct {
	settings Settings
	verbose  bool
	quiet    bool
	noColour bool
	logger   hclog.Logger
}

// NewRootCmd builds the tessera command tree.
func NewRootCmd() *cobra.Command {
	a := &app{
		settings: DefaultSettings(),
		logger:   hclog.NewNullLogger(),
	}

	rootCmd := &cobra.Command{
		Use:   "tessera",
		Short: "Build photomosaics from texture libraries",
		Long: `tessera turns an image into a mosaic of small textures.

Every texture in a library is reduced to one dominant colour with repeated
k-means clustering in CIE L*a*b*. Each pixel of the target image is then
replaced by the texture whose colour is perceptually closest.

A library is a directory of images, a texture-pack archive (.zip, .tar.gz,
.tar.xz, .tar.bz2) or an HTTPS URL of such an archive.

Defaults can be set with environment variables: TESSERA_RUNS,
TESSERA_CLUSTERS, TESSERA_SEED, TESSERA_CONVERGENCE, TESSERA_ALPHA_POLICY,
TESSERA_METRIC, TESSERA_TILE_SIZE and TESSERA_CACHE_DIR.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = newLogger(a.verbose, a.quiet, cmd.ErrOrStderr())
			colour.DisableColourOutput = a.noColour
			return applyEnv(cmd.Flags(), os.LookupEnv)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&a.noColour, "no-color", false, "disable colour previews in terminal output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newPaletteCmd(a))
	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newMatchCmd(a))
	rootCmd.AddCommand(newGradientCmd())

	return rootCmd
}

// Execute runs the root command, cancelling work on interrupt.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newLogger creates the root logger. --quiet wins over --verbose.
func newLogger(verbose, quiet bool, w io.Writer) hclog.Logger {
	level := hclog.Info
	switch {
	case quiet:
		level = hclog.Error
	case verbose:
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "tessera",
		Output: w,
		Level:  level,
		Color:  hclog.AutoColor,
	})
}

// newVersionCmd represents the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
