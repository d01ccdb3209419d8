package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jmylchreest/tessera/internal/colour"
)

// Output formats for single colours.
const (
	formatHex  = "hex"
	formatRGB  = "rgb"
	formatLab  = "lab"
	formatJSON = "json"
)

// isTerminal reports whether w is a terminal that accepts ANSI colour.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && colour.SupportsANSIColours(f)
}

// formatSwatch renders one swatch in the requested format.
func formatSwatch(s colour.Swatch, format string) (string, error) {
	switch format {
	case formatHex:
		return s.Colour.Hex(), nil
	case formatRGB:
		return s.Colour.RGB().String(), nil
	case formatLab:
		return s.Colour.String(), nil
	case formatJSON:
		data, err := json.MarshalIndent(s.JSON(), "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}
