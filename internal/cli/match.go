package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tessera/internal/colour"
)

// newMatchCmd represents the match command.
func newMatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <library> <colour>...",
		Short: "Find the library texture closest to a colour",
		Long: `Build a library index and print, for each hex colour, the texture whose
dominant colour is perceptually closest and the distance to it.

Examples:
  tessera match ./textures "#7f7f7f"
  tessera match --metric cie94 pack.zip "#ff0000" "#00ff00" "#0000ff"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMatch(cmd, args[0], args[1:])
		},
	}

	addLibraryFlags(cmd.Flags(), &a.settings)
	return cmd
}

// runMatch executes the match command.
func (a *app) runMatch(cmd *cobra.Command, ref string, hexes []string) error {
	queries := make([]colour.Lab, len(hexes))
	for i, h := range hexes {
		q, err := colour.ParseHex(h)
		if err != nil {
			return fmt.Errorf("invalid colour %q: %w", h, err)
		}
		queries[i] = q
	}

	lib, src, err := a.openLibrary(cmd.Context(), ref)
	if err != nil {
		return err
	}
	defer src.Close()

	out := cmd.OutOrStdout()
	preview := isTerminal(out)

	table := NewTable([]string{"COLOUR", "TEXTURE", "TEXTURE HEX", "DISTANCE"})
	for i, q := range queries {
		entry, dist, err := lib.NearestSwatch(q)
		if err != nil {
			return fmt.Errorf("failed to match %s: %w", hexes[i], err)
		}

		query, match := q.Hex(), entry.Colour.Hex()
		if preview {
			query = colour.ColourPreview(q.RGB(), 2) + " " + query
			match = colour.ColourPreview(entry.Colour.RGB(), 2) + " " + match
		}
		table.AddRow([]string{query, textureName(src, entry.ID), match, strconv.FormatFloat(dist, 'f', 3, 64)})
	}

	fmt.Fprint(out, table.Render())
	return nil
}
