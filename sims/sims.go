// Package sims holds ready-made simulations for particle pools.
package sims

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

var white = mgl32.Vec4{1, 1, 1, 1}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// between returns a uniform value in [lo, hi).
func between(r *rand.Rand, lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func lerpColor(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return mgl32.Vec4{lerp(a[0], b[0], t), lerp(a[1], b[1], t), lerp(a[2], b[2], t), lerp(a[3], b[3], t)}
}
