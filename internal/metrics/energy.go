package metrics

import "github.com/san-kum/spherelab/internal/dynamo"

// Kinetic returns the total translational kinetic energy of a snapshot.
func Kinetic(s dynamo.Snapshot) float64 {
	e := 0.0
	for i, m := range s.Masses {
		if i >= s.Velocities.Bodies() {
			break
		}
		v := s.Velocities.Vec(i)
		e += 0.5 * m * v.Dot(v)
	}
	return e
}

// Energy averages kinetic energy over the observed frames.
type Energy struct {
	name    string
	total   float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.Snapshot) {
	e.total += Kinetic(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// PeakEnergy tracks the highest kinetic energy seen.
type PeakEnergy struct {
	name string
	peak float64
}

func NewPeakEnergy() *PeakEnergy {
	return &PeakEnergy{name: "peak_energy"}
}

func (p *PeakEnergy) Name() string { return p.name }

func (p *PeakEnergy) Observe(s dynamo.Snapshot) {
	if e := Kinetic(s); e > p.peak {
		p.peak = e
	}
}

func (p *PeakEnergy) Value() float64 { return p.peak }
func (p *PeakEnergy) Reset()         { p.peak = 0 }
