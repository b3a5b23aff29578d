package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/scoutpb/scout/pkg/core"
)

// ErrInvalidGPS is returned for malformed GPS clipboard strings.
var ErrInvalidGPS = errors.New("invalid GPS string")

// GPS is one entry in the in-game clipboard format
// "GPS:Name:X:Y:Z:#RRGGBB:". The color is optional.
type GPS struct {
	Name     string
	Position core.Position3D
	Color    core.Color
	HasColor bool
}

// ParseGPS parses a clipboard GPS string. An 8-digit color is read as
// AARRGGBB and the alpha is dropped.
func ParseGPS(s string) (GPS, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 5 || parts[0] != "GPS" {
		return GPS{}, fmt.Errorf("%w: %q", ErrInvalidGPS, s)
	}

	g := GPS{Name: parts[1]}
	pos, err := Position3DFromString(strings.Join(parts[2:5], ","))
	if err != nil {
		return GPS{}, fmt.Errorf("%w: %q: %v", ErrInvalidGPS, s, err)
	}
	g.Position = pos

	if len(parts) > 5 && strings.HasPrefix(parts[5], "#") {
		c, err := parseHexColor(parts[5][1:])
		if err != nil {
			return GPS{}, fmt.Errorf("%w: %q: %v", ErrInvalidGPS, s, err)
		}
		g.Color = c
		g.HasColor = true
	}
	return g, nil
}

func parseHexColor(hex string) (core.Color, error) {
	switch len(hex) {
	case 8:
		hex = hex[2:]
	case 6:
	default:
		return core.Color{}, fmt.Errorf("color %q: want 6 or 8 hex digits", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return core.Color{}, fmt.Errorf("color %q: %w", hex, err)
	}
	return core.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// String renders g in clipboard form.
func (g GPS) String() string {
	return fmt.Sprintf("GPS:%s:%s:%s:%s:#%02X%02X%02X:",
		g.Name,
		strconv.FormatFloat(g.Position.X, 'f', 2, 64),
		strconv.FormatFloat(g.Position.Y, 'f', 2, 64),
		strconv.FormatFloat(g.Position.Z, 'f', 2, 64),
		g.Color.R, g.Color.G, g.Color.B,
	)
}
