package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tessera/internal/colour"
	"github.com/jmylchreest/tessera/internal/image"
)

// newExtractCmd represents the extract command.
func newExtractCmd(a *app) *cobra.Command {
	format := formatHex

	cmd := &cobra.Command{
		Use:   "extract <texture>",
		Short: "Print the dominant colour of a texture",
		Long: `Print the dominant colour of a single texture.

The texture is clustered with k-means several times using consecutive seeds.
The run with the lowest mean squared distance is kept and its most populous
cluster is reported.

Supported image formats: JPEG, PNG, GIF, BMP, WebP

Examples:
  # Dominant colour as hex
  tessera extract stone.png

  # As JSON, with a quicker search
  tessera extract --runs 10 --format json stone.png

  # Show which run was kept
  tessera extract -v stone.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args[0], format)
		},
	}

	addExtractorFlags(cmd.Flags(), &a.settings)
	cmd.Flags().VarP(newEnumValue(&format, formatHex, formatRGB, formatLab, formatJSON), "format", "f", "output format (hex, rgb, lab, json)")

	return cmd
}

// runExtract executes the extract command.
func (a *app) runExtract(cmd *cobra.Command, texturePath string, format string) error {
	if err := image.ValidateImagePath(texturePath); err != nil {
		return fmt.Errorf("invalid texture path: %w", err)
	}

	cfg := a.settings.ExtractorConfig()
	extractor, err := colour.NewExtractor(cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.logger.Debug("loading texture", "path", texturePath)
	pixels, err := image.LoadPixels(image.NewSmartLoader(), texturePath)
	if err != nil {
		return fmt.Errorf("failed to load texture: %w", err)
	}

	start := time.Now()
	swatch := colour.Swatch{Texture: texturePath}

	if dominant, ok := extractor.(*colour.DominantExtractor); ok {
		result, err := dominant.ExtractResult(pixels)
		if err != nil {
			return fmt.Errorf("failed to extract colour: %w", err)
		}
		swatch.Colour = result.Colour
		swatch.Score = result.Run.Score
		a.logger.Debug("kept run",
			"run", result.RunIndex,
			"seed", result.Run.Seed,
			"score", result.Run.Score,
			"iterations", result.Run.Iterations,
			"pixels", result.Pixels)
	} else {
		c, err := extractor.Extract(pixels)
		if err != nil {
			return fmt.Errorf("failed to extract colour: %w", err)
		}
		swatch.Colour = c
	}

	a.logger.Debug("found dominant colour", "colour", swatch.Colour.Hex(), "elapsed", time.Since(start))

	text, err := formatSwatch(swatch, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != formatJSON && isTerminal(out) {
		text = colour.ColourPreview(swatch.Colour.RGB(), 4) + " " + text
	}
	fmt.Fprintln(out, text)
	return nil
}
