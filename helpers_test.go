package sps

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const nearDelta = 1e-4

func assertMat4Near(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], nearDelta, "got %v want %v", got, want)
}

func assertVec3Near(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], nearDelta, "got %v want %v", got, want)
}

func quadTemplate() ShapeTemplate {
	return ShapeTemplate{
		Name: "quad",
		Positions: []mgl32.Vec3{
			{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0},
		},
		Normals: []mgl32.Vec3{
			{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		},
		UVs: []mgl32.Vec2{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

func pointTemplate() ShapeTemplate {
	return ShapeTemplate{
		Name:      "point",
		Positions: []mgl32.Vec3{{0, 0, 0}},
	}
}

// recordLogger keeps every formatted line per level.
type recordLogger struct {
	mu    sync.Mutex
	debug bool
	lines map[string][]string
}

func newRecordLogger() *recordLogger {
	return &recordLogger{lines: make(map[string][]string)}
}

func (l *recordLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[level] = append(l.lines[level], fmt.Sprintf(format, args...))
}

func (l *recordLogger) count(level, substr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines[level] {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func (l *recordLogger) DebugEnabled() bool                { return l.debug }
func (l *recordLogger) SetDebug(enabled bool)             { l.debug = enabled }
func (l *recordLogger) Debugf(format string, args ...any) { l.add("debug", format, args...) }
func (l *recordLogger) Infof(format string, args ...any)  { l.add("info", format, args...) }
func (l *recordLogger) Warnf(format string, args ...any)  { l.add("warn", format, args...) }
func (l *recordLogger) Errorf(format string, args ...any) { l.add("error", format, args...) }
