package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tessera/internal/colour"
	"github.com/jmylchreest/tessera/internal/image"
	"github.com/jmylchreest/tessera/internal/mosaic"
)

// newPaletteCmd represents the palette command.
func newPaletteCmd(a *app) *cobra.Command {
	format := "table"
	swatchDir := ""

	cmd := &cobra.Command{
		Use:   "palette <library>",
		Short: "Show the dominant colour of every texture in a library",
		Long: `Reduce every texture in a library to its dominant colour and print the result.

With --swatches, a preview image is written per texture: the texture on the
left and a solid tile of its dominant colour on the right.

Examples:
  # Table of texture colours
  tessera palette ./textures

  # Texture pack, only the block textures, as JSON
  tessera palette --archive-dir assets/minecraft/textures/block --format json pack.zip

  # Write previews for checking the extraction
  tessera palette --swatches out ./textures`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPalette(cmd, args[0], format, swatchDir)
		},
	}

	addLibraryFlags(cmd.Flags(), &a.settings)
	cmd.Flags().IntVar(&a.settings.TileSize, "tile-size", a.settings.TileSize, "edge length of swatch preview tiles")
	cmd.Flags().VarP(newEnumValue(&format, "table", formatJSON), "format", "f", "output format (table, json)")
	cmd.Flags().StringVar(&swatchDir, "swatches", "", "write texture/colour preview images to this directory")

	return cmd
}

// runPalette executes the palette command.
func (a *app) runPalette(cmd *cobra.Command, ref, format, swatchDir string) error {
	lib, src, err := a.openLibrary(cmd.Context(), ref)
	if err != nil {
		return err
	}
	defer src.Close()

	swatches := lib.Swatches()
	out := cmd.OutOrStdout()

	if format == formatJSON {
		named := make([]colour.Swatch, len(swatches))
		for i, s := range swatches {
			s.Texture = textureName(src, s.Texture)
			named[i] = s
		}
		data, err := colour.SwatchesToJSON(named)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprint(out, paletteTable(src, swatches, isTerminal(out)).Render())
	}

	if swatchDir != "" {
		if a.settings.TileSize <= 0 {
			return fmt.Errorf("--tile-size must be positive to write swatches")
		}
		tiles := mosaic.NewTileCache(image.NewFileLoader(), a.settings.TileSize)
		written, err := mosaic.WriteSwatchPreviews(swatchDir, swatches, tiles)
		if err != nil {
			return fmt.Errorf("failed to write swatches: %w", err)
		}
		a.logger.Info("wrote swatch previews", "dir", swatchDir, "count", len(written))
	}

	return nil
}

// paletteTable lays out swatches as a table, with colour previews on terminals.
func paletteTable(src *mosaic.Source, swatches []colour.Swatch, preview bool) *Table {
	table := NewTable([]string{"TEXTURE", "HEX", "L*", "a*", "b*", "ALPHA", "SCORE"})
	table.SetColumnMaxWidth(0, 48)
	for _, s := range swatches {
		hex := s.Colour.Hex()
		if preview {
			hex = colour.ColourPreview(s.Colour.RGB(), 2) + " " + hex
		}
		table.AddRow([]string{
			textureName(src, s.Texture),
			hex,
			strconv.FormatFloat(s.Colour.L, 'f', 2, 64),
			strconv.FormatFloat(s.Colour.A, 'f', 2, 64),
			strconv.FormatFloat(s.Colour.B, 'f', 2, 64),
			strconv.FormatFloat(s.Colour.Alpha, 'f', 2, 64),
			strconv.FormatFloat(s.Score, 'f', 4, 64),
		})
	}
	return table
}
