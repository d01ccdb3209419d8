package colour

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a color in 8-bit sRGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ParseHex parses a "#rrggbb" or "#rgb" string into an opaque Lab colour.
func ParseHex(s string) (Lab, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Lab{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return ToLab(Pixel{R: c.R, G: c.G, B: c.B, A: 1}), nil
}

// Swatch pairs a reduced colour with the texture it was extracted from.
type Swatch struct {
	Texture string
	Colour  Lab
	Score   float64
}

// SwatchJSON represents a swatch in JSON output format.
type SwatchJSON struct {
	Texture string     `json:"texture,omitempty"`
	Hex     string     `json:"hex"`
	RGB     RGB        `json:"rgb"`
	Lab     [3]float64 `json:"lab"`
	Alpha   float64    `json:"alpha"`
	Score   float64    `json:"score"`
}

// JSON returns the JSON representation of the swatch.
func (s Swatch) JSON() SwatchJSON {
	return SwatchJSON{
		Texture: s.Texture,
		Hex:     s.Colour.Hex(),
		RGB:     s.Colour.RGB(),
		Lab:     [3]float64{s.Colour.L, s.Colour.A, s.Colour.B},
		Alpha:   s.Colour.Alpha,
		Score:   s.Score,
	}
}

// SwatchesToJSON converts swatches to indented JSON.
func SwatchesToJSON(swatches []Swatch) ([]byte, error) {
	out := make([]SwatchJSON, len(swatches))
	for i, s := range swatches {
		out[i] = s.JSON()
	}
	return json.MarshalIndent(out, "", "  ")
}
