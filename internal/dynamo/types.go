package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is a flat list of 3-vectors, x,y,z per body.
type State []float64

func NewState(vs []mgl64.Vec3) State {
	s := make(State, len(vs)*3)
	for i, v := range vs {
		s[i*3] = v[0]
		s[i*3+1] = v[1]
		s[i*3+2] = v[2]
	}
	return s
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) Bodies() int { return len(s) / 3 }

func (s State) Vec(i int) mgl64.Vec3 {
	return mgl64.Vec3{s[i*3], s[i*3+1], s[i*3+2]}
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Snapshot is the committed scene for one frame, taken after the render
// bridge has synced and before the frame is drawn.
type Snapshot struct {
	Frame      uint64
	Time       float64
	Sign       float64
	Centers    State
	Velocities State
	Radii      []float64
	Masses     []float64
	Contacts   int
}

func (s Snapshot) Clone() Snapshot {
	c := s
	c.Centers = s.Centers.Clone()
	c.Velocities = s.Velocities.Clone()
	c.Radii = append([]float64(nil), s.Radii...)
	c.Masses = append([]float64(nil), s.Masses...)
	return c
}

type Observer interface {
	OnFrame(s Snapshot)
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Result struct {
	Snapshots []Snapshot
	Metrics   map[string]float64
	Frames    int
	Errors    []error
}
