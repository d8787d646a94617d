package metrics

import "github.com/san-kum/spherelab/internal/dynamo"

// ImpulseEffort is the mean per-frame sum of applied impulse magnitudes,
// |sign·scale·p| over all bodies.
type ImpulseEffort struct {
	name    string
	scale   float64
	sum     float64
	samples int
}

func NewImpulseEffort(scale float64) *ImpulseEffort {
	return &ImpulseEffort{
		name:  "impulse_effort",
		scale: scale,
	}
}

func (c *ImpulseEffort) Name() string {
	return c.name
}

func (c *ImpulseEffort) Observe(s dynamo.Snapshot) {
	for i := 0; i < s.Centers.Bodies(); i++ {
		c.sum += s.Centers.Vec(i).Len() * c.scale
	}
	c.samples++
}

func (c *ImpulseEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ImpulseEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
