package metrics

import "github.com/san-kum/spherelab/internal/dynamo"

// Spread returns the mean distance of the sphere centers from the origin.
func Spread(s dynamo.Snapshot) float64 {
	n := s.Centers.Bodies()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.Centers.Vec(i).Len()
	}
	return sum / float64(n)
}

type MeanDistance struct {
	name    string
	total   float64
	samples int
}

func NewMeanDistance() *MeanDistance {
	return &MeanDistance{name: "mean_distance"}
}

func (m *MeanDistance) Name() string { return m.name }

func (m *MeanDistance) Observe(s dynamo.Snapshot) {
	m.total += Spread(s)
	m.samples++
}

func (m *MeanDistance) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanDistance) Reset() {
	m.total = 0
	m.samples = 0
}

// Contacts averages the number of touching pairs per frame.
type Contacts struct {
	name    string
	total   int
	samples int
}

func NewContacts() *Contacts {
	return &Contacts{name: "contacts"}
}

func (c *Contacts) Name() string { return c.name }

func (c *Contacts) Observe(s dynamo.Snapshot) {
	c.total += s.Contacts
	c.samples++
}

func (c *Contacts) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total) / float64(c.samples)
}

func (c *Contacts) Reset() {
	c.total = 0
	c.samples = 0
}

// Default is the metric set attached to recorded and benchmarked runs.
func Default(impulseScale, escapeRadius float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(),
		NewPeakEnergy(),
		NewMeanDistance(),
		NewContacts(),
		NewImpulseEffort(impulseScale),
		NewStability(escapeRadius),
	}
}
