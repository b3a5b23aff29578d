// Package palette picks display colors for new waypoints.
package palette

import (
	"math"
	"math/rand"
	"time"

	"github.com/scoutpb/scout/pkg/core"
)

const (
	// MinBright is the lower bound of the brightest channel.
	MinBright = 0.8
	// MinChannel is the lower bound of every channel.
	MinChannel = 0.3
)

// Generator produces bright, distinguishable colors from an explicit source.
// It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a generator seeded with seed. A zero seed uses the clock.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewFromRand(rand.New(rand.NewSource(seed)))
}

// NewFromRand wraps a caller-supplied random source.
func NewFromRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Next returns a color whose channels all lie in [MinChannel, 1] with at
// least one in [MinBright, 1], sampled uniformly over that region.
func (g *Generator) Next() core.Color {
	for {
		r, gr, b := g.channel(), g.channel(), g.channel()
		if math.Max(r, math.Max(gr, b)) < MinBright {
			continue
		}
		return core.Color{R: toByte(r), G: toByte(gr), B: toByte(b)}
	}
}

func (g *Generator) channel() float64 {
	return MinChannel + (1-MinChannel)*g.rnd.Float64()
}

func toByte(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
