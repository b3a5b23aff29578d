package display

import (
	"strings"
	"testing"

	"github.com/scoutpb/scout/internal/glyph"
	"github.com/scoutpb/scout/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Empty(t *testing.T) {
	assert.Equal(t, Placeholder, Format(core.Position3D{}, nil, 40000))
	assert.Equal(t, Placeholder, Format(core.Position3D{}, []core.Waypoint{}, 40000))
}

func TestFormat_HeaderAndLines(t *testing.T) {
	waypoints := []core.Waypoint{
		{Name: "Asteroid #1 (Unvisited)", Position: &core.Position3D{X: 3, Y: 4}, Color: core.Color{R: 128, G: 64, B: 200}},
		{Name: "Asteroid #2 (Visited)", Position: &core.Position3D{Z: 1234.567}, Color: core.Gray},
	}

	got := Format(core.Position3D{}, waypoints, 40000)

	expected := "Raycast range: 40000\n" +
		string(rune(0xE215)) + " Asteroid #1 (Unvisited) - 5.00m\n" +
		string(glyph.EncodeColor(core.Gray)) + " Asteroid #2 (Visited) - 1234.57m\n"
	assert.Equal(t, expected, got)
}

func TestFormat_FractionalRange(t *testing.T) {
	waypoints := []core.Waypoint{{Name: "x", Position: &core.Position3D{}}}

	got := Format(core.Position3D{}, waypoints, 1523.25)

	assert.True(t, strings.HasPrefix(got, "Raycast range: 1523.25\n"))
}

func TestFormat_PreservesInputOrder(t *testing.T) {
	waypoints := []core.Waypoint{
		{Name: "far", Position: &core.Position3D{X: 9000}},
		{Name: "near", Position: &core.Position3D{X: 1}},
		{Name: "middle", Position: &core.Position3D{X: 500}},
	}

	lines := strings.Split(strings.TrimSuffix(Format(core.Position3D{}, waypoints, 0), "\n"), "\n")

	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "far")
	assert.Contains(t, lines[2], "near")
	assert.Contains(t, lines[3], "middle")
}

func TestLine_AbsentPosition(t *testing.T) {
	w := core.Waypoint{Name: "Pending", Color: core.Color{}}

	assert.Equal(t, string(glyph.Base)+" Pending - n/a", Line(core.Position3D{}, w))
}
