package sps

import "fmt"

type ScheduleMode int

const (
	FullPass ScheduleMode = iota
	Windowed
)

func (m ScheduleMode) String() string {
	switch m {
	case FullPass:
		return "full"
	case Windowed:
		return "windowed"
	}
	return fmt.Sprintf("ScheduleMode(%d)", int(m))
}

// Tick is the work selected for one frame.
type Tick struct {
	Range IndexRange
	// CycleCompleted is set on the tick that finished a pass over the whole pool.
	CycleCompleted bool
}

// Scheduler picks the contiguous index range updated each frame.
//
// In windowed mode a window of w covers the inclusive range [p0, p0+w], i.e.
// w+1 particles, and the cursor then advances by w+1. The last window of a
// cycle is clipped at the pool capacity and may be shorter.
type Scheduler struct {
	mode   ScheduleMode
	window int
	cursor int
	cycles uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{mode: FullPass}
}

func NewWindowedScheduler(window int) *Scheduler {
	if window < 0 {
		window = 0
	}
	return &Scheduler{mode: Windowed, window: window}
}

func (s *Scheduler) Mode() ScheduleMode { return s.mode }
func (s *Scheduler) Window() int        { return s.window }
func (s *Scheduler) Cursor() int        { return s.cursor }
func (s *Scheduler) Cycles() uint64     { return s.cycles }

// TicksPerCycle is the number of ticks needed to visit every index once.
func (s *Scheduler) TicksPerCycle(capacity int) int {
	if s.mode == FullPass || capacity <= 0 {
		return 1
	}
	step := s.window + 1
	return (capacity + step - 1) / step
}

func (s *Scheduler) Reset() {
	s.cursor = 0
	s.cycles = 0
}

// SetCursor moves the start of the next window.
func (s *Scheduler) SetCursor(index, capacity int) error {
	if index < 0 || index >= capacity {
		return invalidIndex("cursor %d outside pool of %d", index, capacity)
	}
	s.cursor = index
	return nil
}

func (s *Scheduler) Next(capacity int) Tick {
	if capacity <= 0 {
		s.cycles++
		return Tick{CycleCompleted: true}
	}
	if s.mode == FullPass {
		s.cycles++
		return Tick{Range: Range(0, capacity), CycleCompleted: true}
	}

	// Capacity may have shrunk since the last tick.
	if s.cursor >= capacity {
		s.cursor = 0
	}
	start := s.cursor
	step := s.window + 1
	end := min(start+step, capacity)

	s.cursor = start + step
	done := false
	if s.cursor >= capacity {
		s.cursor = 0
		s.cycles++
		done = true
	}
	return Tick{Range: Range(start, end), CycleCompleted: done}
}
