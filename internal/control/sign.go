package control

import "sync/atomic"

const (
	Attract = -1.0
	Repel   = 1.0
)

// Sign is the process-wide force direction. The zero value attracts.
// Writes may come from any goroutine; the latest write wins.
type Sign struct {
	repel atomic.Bool
	flips atomic.Uint64
}

func (s *Sign) Press() {
	if !s.repel.Swap(true) {
		s.flips.Add(1)
	}
}

func (s *Sign) Release() {
	if s.repel.Swap(false) {
		s.flips.Add(1)
	}
}

func (s *Sign) Set(v float64) {
	if v > 0 {
		s.Press()
	} else {
		s.Release()
	}
}

func (s *Sign) Value() float64 {
	if s.repel.Load() {
		return Repel
	}
	return Attract
}

// Flips counts how many times the value changed.
func (s *Sign) Flips() uint64 { return s.flips.Load() }
