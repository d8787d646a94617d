package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherelab/internal/dynamo"
)

func snapshot(centers, velocities []mgl64.Vec3, masses []float64, contacts int) dynamo.Snapshot {
	return dynamo.Snapshot{
		Centers:    dynamo.NewState(centers),
		Velocities: dynamo.NewState(velocities),
		Masses:     masses,
		Contacts:   contacts,
	}
}

func TestKinetic(t *testing.T) {
	s := snapshot(
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}},
		[]mgl64.Vec3{{1, 0, 0}, {0, 2, 0}},
		[]float64{2, 0.5}, 0,
	)
	// 0.5*2*1 + 0.5*0.5*4
	if got := Kinetic(s); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected kinetic energy 2, got %f", got)
	}
}

func TestEnergyAverage(t *testing.T) {
	m := NewEnergy()
	m.Observe(snapshot([]mgl64.Vec3{{}}, []mgl64.Vec3{{1, 0, 0}}, []float64{2}, 0))
	m.Observe(snapshot([]mgl64.Vec3{{}}, []mgl64.Vec3{{0, 0, 0}}, []float64{2}, 0))

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected mean energy 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestPeakEnergy(t *testing.T) {
	m := NewPeakEnergy()
	for _, v := range []float64{1, 3, 2} {
		m.Observe(snapshot([]mgl64.Vec3{{}}, []mgl64.Vec3{{v, 0, 0}}, []float64{2}, 0))
	}
	if m.Value() != 9 {
		t.Errorf("expected peak 9, got %f", m.Value())
	}
}

func TestSpreadAndMeanDistance(t *testing.T) {
	s := snapshot([]mgl64.Vec3{{3, 0, 0}, {0, -1, 0}}, []mgl64.Vec3{{}, {}}, []float64{1, 1}, 0)
	if Spread(s) != 2 {
		t.Errorf("expected spread 2, got %f", Spread(s))
	}
	if Spread(dynamo.Snapshot{}) != 0 {
		t.Error("empty snapshot should have zero spread")
	}

	m := NewMeanDistance()
	m.Observe(s)
	if m.Value() != 2 {
		t.Errorf("expected mean distance 2, got %f", m.Value())
	}
}

func TestContacts(t *testing.T) {
	m := NewContacts()
	m.Observe(snapshot(nil, nil, nil, 3))
	m.Observe(snapshot(nil, nil, nil, 1))
	if m.Value() != 2 {
		t.Errorf("expected 2 contacts per frame, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(5)
	if m.Value() != 1 {
		t.Error("no samples should read as stable")
	}
	m.Observe(snapshot([]mgl64.Vec3{{1, 0, 0}}, []mgl64.Vec3{{}}, []float64{1}, 0))
	m.Observe(snapshot([]mgl64.Vec3{{6, 0, 0}}, []mgl64.Vec3{{}}, []float64{1}, 0))
	if m.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}
}

func TestImpulseEffort(t *testing.T) {
	m := NewImpulseEffort(0.1)
	m.Observe(snapshot([]mgl64.Vec3{{3, 4, 0}, {0, 0, 0}}, []mgl64.Vec3{{}, {}}, []float64{1, 1}, 0))
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected effort 0.5, got %f", m.Value())
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default(0.1, 10) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 metrics, got %d", len(seen))
	}
}
