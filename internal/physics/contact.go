package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// contact between bodies a and b. normal points from a to b.
type contact struct {
	a, b     int
	normal   mgl64.Vec3
	depth    float64
	target   float64
	impulseN float64
}

var fallbackNormal = mgl64.Vec3{1, 0, 0}

// detect appends every overlapping pair. With a few dozen bodies the
// all-pairs test is cheaper than maintaining a broadphase.
func (w *World) detect(dst []contact) []contact {
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			c, ok := w.collide(i, j)
			if ok {
				dst = append(dst, c)
			}
		}
	}
	return dst
}

func (w *World) collide(i, j int) (contact, bool) {
	a, b := &w.bodies[i], &w.bodies[j]
	delta := b.position.Sub(a.position)
	dist := delta.Len()
	reach := a.collider.Radius + b.collider.Radius
	if dist >= reach {
		return contact{}, false
	}

	normal := fallbackNormal
	if dist > 1e-12 {
		normal = delta.Mul(1 / dist)
	}
	return contact{a: i, b: j, normal: normal, depth: reach - dist}, true
}

func (w *World) relativeVelocity(c *contact) mgl64.Vec3 {
	a, b := &w.bodies[c.a], &w.bodies[c.b]
	ra := c.normal.Mul(a.collider.Radius)
	rb := c.normal.Mul(-b.collider.Radius)
	va := a.velocity.Add(a.angular.Cross(ra))
	vb := b.velocity.Add(b.angular.Cross(rb))
	return vb.Sub(va)
}

func (w *World) applyPair(c *contact, p mgl64.Vec3) {
	a, b := &w.bodies[c.a], &w.bodies[c.b]
	ra := c.normal.Mul(a.collider.Radius)
	rb := c.normal.Mul(-b.collider.Radius)

	a.velocity = a.velocity.Sub(p.Mul(a.invMass))
	a.angular = a.angular.Sub(ra.Cross(p).Mul(a.invInertia))
	b.velocity = b.velocity.Add(p.Mul(b.invMass))
	b.angular = b.angular.Add(rb.Cross(p).Mul(b.invInertia))
}

func (w *World) solveVelocities() {
	if len(w.contacts) == 0 {
		return
	}

	for k := range w.contacts {
		c := &w.contacts[k]
		vn := w.relativeVelocity(c).Dot(c.normal)
		if vn < 0 {
			c.target = -w.params.Restitution * vn
		}
	}

	for it := 0; it < w.params.Iterations; it++ {
		for k := range w.contacts {
			c := &w.contacts[k]
			a, b := &w.bodies[c.a], &w.bodies[c.b]
			vn := w.relativeVelocity(c).Dot(c.normal)

			// angular terms vanish along the normal for ball contacts
			kn := a.invMass + b.invMass
			dj := (c.target - vn) / kn
			acc := math.Max(c.impulseN+dj, 0)
			dj = acc - c.impulseN
			c.impulseN = acc
			w.applyPair(c, c.normal.Mul(dj))
		}
	}

	if w.params.Friction == 0 {
		return
	}
	for k := range w.contacts {
		c := &w.contacts[k]
		a, b := &w.bodies[c.a], &w.bodies[c.b]
		rel := w.relativeVelocity(c)
		vt := rel.Sub(c.normal.Mul(rel.Dot(c.normal)))
		speed := vt.Len()
		if speed < 1e-12 {
			continue
		}
		tangent := vt.Mul(1 / speed)
		ra, rb := a.collider.Radius, b.collider.Radius
		kt := a.invMass + b.invMass + a.invInertia*ra*ra + b.invInertia*rb*rb
		jt := math.Min(speed/kt, w.params.Friction*c.impulseN)
		w.applyPair(c, tangent.Mul(-jt))
	}
}

func (w *World) correctPositions() {
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			c, ok := w.collide(i, j)
			if !ok || c.depth <= w.params.Slop {
				continue
			}
			a, b := &w.bodies[i], &w.bodies[j]
			push := (c.depth - w.params.Slop) * w.params.Correction / (a.invMass + b.invMass)
			a.position = a.position.Sub(c.normal.Mul(push * a.invMass))
			b.position = b.position.Add(c.normal.Mul(push * b.invMass))
		}
	}
}
