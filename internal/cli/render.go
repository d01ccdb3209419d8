package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tessera/internal/image"
	"github.com/jmylchreest/tessera/internal/mosaic"
)

// newRenderCmd represents the render command.
func newRenderCmd(a *app) *cobra.Command {
	output := "mosaic.png"

	cmd := &cobra.Command{
		Use:   "render <library> <target>",
		Short: "Render an image as a mosaic of library textures",
		Long: `Render a target image as a mosaic of library textures.

Every fully opaque pixel of the target becomes one tile: the texture whose
dominant colour is perceptually closest to the pixel. Pixels that are not fully
opaque are left transparent. The output is tile-size times larger than the
target in each direction, so large targets should be shrunk with --width.

Examples:
  # Render with 16px tiles
  tessera render ./textures photo.jpg -o mosaic.png

  # Shrink the target to 120 tiles across and use CIE76 matching
  tessera render --width 120 --metric cie76 pack.zip photo.jpg

  # Render the demo gradient
  tessera gradient -o grad.png && tessera render ./textures grad.png -o grad_mosaic.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args[0], args[1], output)
		},
	}

	addLibraryFlags(cmd.Flags(), &a.settings)
	cmd.Flags().StringVarP(&output, "output", "o", output, "output image (.png, .jpg)")
	cmd.Flags().IntVarP(&a.settings.TileSize, "tile-size", "t", a.settings.TileSize, "edge length of each tile in output pixels")
	cmd.Flags().IntVarP(&a.settings.Width, "width", "w", a.settings.Width, "downscale the target to this many tiles across (0 = unchanged)")

	return cmd
}

// runRender executes the render command.
func (a *app) runRender(cmd *cobra.Command, ref, targetPath, output string) error {
	if !image.IsSupportedOutput(output) {
		return fmt.Errorf("unsupported output format: %s (supported: .png, .jpg, .jpeg)", output)
	}
	if a.settings.TileSize <= 0 {
		return fmt.Errorf("--tile-size must be positive")
	}
	if a.settings.Width < 0 {
		return fmt.Errorf("--width cannot be negative")
	}
	if err := image.ValidateImagePath(targetPath); err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	target, err := image.NewSmartLoader().Load(targetPath)
	if err != nil {
		return fmt.Errorf("failed to load target: %w", err)
	}
	target = mosaic.FitTarget(target, a.settings.Width)
	a.logger.Debug("target ready", "path", targetPath, "width", target.Bounds().Dx(), "height", target.Bounds().Dy())

	lib, src, err := a.openLibrary(cmd.Context(), ref)
	if err != nil {
		return err
	}
	defer src.Close()

	composer := mosaic.NewComposer(lib, image.NewFileLoader(),
		mosaic.WithTileSize(a.settings.TileSize),
		mosaic.WithComposerLogger(a.logger))

	canvas, stats, err := composer.Render(cmd.Context(), target)
	if err != nil {
		return fmt.Errorf("failed to render mosaic: %w", err)
	}

	if err := image.Save(output, canvas); err != nil {
		return err
	}

	a.logger.Info("wrote mosaic",
		"output", output,
		"size", fmt.Sprintf("%dx%d", canvas.Bounds().Dx(), canvas.Bounds().Dy()),
		"tiles", stats.Tiles,
		"textures", stats.Textures,
		"elapsed", stats.Elapsed)
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
