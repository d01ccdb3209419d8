package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tessera/internal/image"
	"github.com/jmylchreest/tessera/internal/mosaic"
)

// newGradientCmd represents the gradient command.
func newGradientCmd() *cobra.Command {
	output := "gradient.png"
	width, height := 256, 1

	cmd := &cobra.Command{
		Use:   "gradient",
		Short: "Write a red-green-blue gradient test image",
		Long: `Write a red to green to blue gradient, a handy target for checking how a
library covers the hue range. Channels are blended linearly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("gradient size must be positive (got %dx%d)", width, height)
			}
			if !image.IsSupportedOutput(output) {
				return fmt.Errorf("unsupported output format: %s (supported: .png, .jpg, .jpeg)", output)
			}
			if err := image.Save(output, mosaic.Gradient(width, height, mosaic.DefaultGradientStops())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", output, "output image (.png, .jpg)")
	cmd.Flags().IntVar(&width, "width", width, "gradient width in pixels")
	cmd.Flags().IntVar(&height, "height", height, "gradient height in pixels")

	return cmd
}
