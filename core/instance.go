package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ParticleInstance is the per-particle record a renderer uploads for
// instanced drawing. Layout: mat4 model (column-major), vec4 color.
type ParticleInstance struct {
	Model [16]float32
	Color [4]float32
}

// InstanceFloats is the number of float32 values per packed instance.
const InstanceFloats = 16 + 4

func PackInstance(world mgl32.Mat4, color mgl32.Vec4) ParticleInstance {
	return ParticleInstance{
		Model: [16]float32(world),
		Color: [4]float32(color),
	}
}

// AppendFloats flattens instances into dst, InstanceFloats values each.
func AppendFloats(dst []float32, instances ...ParticleInstance) []float32 {
	for i := range instances {
		dst = append(dst, instances[i].Model[:]...)
		dst = append(dst, instances[i].Color[:]...)
	}
	return dst
}
