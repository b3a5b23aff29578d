// Package display renders the waypoint list shown on the programmable
// block's text surface.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scoutpb/scout/internal/glyph"
	"github.com/scoutpb/scout/pkg/core"
)

// Placeholder is written instead of the list when there are no waypoints.
const Placeholder = "No GPS results"

// Format renders one line per waypoint in the order given, below a header
// carrying the sensor's available range.
func Format(observer core.Position3D, waypoints []core.Waypoint, maxRange float64) string {
	if len(waypoints) == 0 {
		return Placeholder
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Raycast range: %s\n", strconv.FormatFloat(maxRange, 'f', -1, 64))
	for _, w := range waypoints {
		b.WriteString(Line(observer, w))
		b.WriteByte('\n')
	}
	return b.String()
}

// Line renders a single waypoint as "{glyph} {name} - {distance}m".
// Waypoints without a position show "n/a" for the distance.
func Line(observer core.Position3D, w core.Waypoint) string {
	g := glyph.EncodeColor(w.Color)
	if w.Position == nil {
		return fmt.Sprintf("%c %s - n/a", g, w.Name)
	}
	return fmt.Sprintf("%c %s - %.2fm", g, w.Name, observer.Distance(*w.Position))
}
