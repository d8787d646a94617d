package sim

import (
	"context"
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/physics"
	"github.com/san-kum/spherelab/internal/scene"
)

type frameLog struct{ frames []uint64 }

func (f *frameLog) OnFrame(s dynamo.Snapshot) { f.frames = append(f.frames, s.Frame) }

type snapshotLog struct{ snaps []dynamo.Snapshot }

func (l *snapshotLog) OnFrame(s dynamo.Snapshot) { l.snaps = append(l.snaps, s.Clone()) }

var _ = Describe("Driver", func() {
	var (
		sign *control.Sign
		sc   *Scene
	)

	BeforeEach(func() {
		sign = &control.Sign{}
		store, err := scene.NewStore(
			[]mgl64.Vec3{{-3, 0, 0}, {3, 0, 0}, {0, 2, 0}},
			[]float64{1, 0.75, 0.5},
		)
		Expect(err).NotTo(HaveOccurred())
		sc, err = NewScene(store, physics.DefaultParams(), control.NewRadialImpulse(control.DefaultScale), sign)
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates one body per sphere in store order", func() {
		Expect(sc.Handles).To(HaveLen(3))
		for i, h := range sc.Handles {
			Expect(sc.World.Translation(h)).To(Equal(sc.Store.Sphere(i).Center()))
			Expect(sc.World.Mass(h)).To(BeNumerically("~", scene.Mass(sc.Store.Sphere(i).Radius()), 1e-12))
		}
	})

	It("hands every committed frame to observers", func() {
		d, err := NewHeadless(sc, 5)
		Expect(err).NotTo(HaveOccurred())
		log := &frameLog{}
		d.AddObserver(log)

		_, err = d.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(log.frames).To(Equal([]uint64{1, 2, 3, 4, 5}))
	})

	It("snapshots the centers the store committed", func() {
		d, err := NewHeadless(sc, 1)
		Expect(err).NotTo(HaveOccurred())

		_, snap, err := d.Frame(context.Background())
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < sc.Store.Len(); i++ {
			Expect(snap.Centers.Vec(i)).To(Equal(sc.Store.Sphere(i).Center()))
			Expect(snap.Centers.Vec(i)).To(Equal(sc.World.Translation(sc.Handles[i])))
		}
		Expect(snap.Sign).To(Equal(control.Attract))
	})

	Context("when the sign is pressed", func() {
		It("moves every off-origin body away from the origin on every frame", func() {
			store, err := scene.NewStore(
				[]mgl64.Vec3{{5, 0, 0}, {-5, 0, 0}, {0, 5, 0}, {0, 0, -5}, {0, 0, 0}},
				[]float64{0.5, 0.5, 0.5, 0.5, 0.5},
			)
			Expect(err).NotTo(HaveOccurred())
			sc, err = NewScene(store, physics.DefaultParams(), control.NewRadialImpulse(control.DefaultScale), sign)
			Expect(err).NotTo(HaveOccurred())

			sign.Press()
			d, err := NewHeadless(sc, 200)
			Expect(err).NotTo(HaveOccurred())
			frames := &snapshotLog{}
			d.AddObserver(frames)

			_, err = d.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(frames.snaps).To(HaveLen(200))

			prev := []float64{5, 5, 5, 5}
			for _, snap := range frames.snaps {
				Expect(snap.Sign).To(Equal(control.Repel))
				for i := range prev {
					dist := snap.Centers.Vec(i).Len()
					Expect(dist).To(BeNumerically(">", prev[i]), "body %d at frame %d", i, snap.Frame)
					prev[i] = dist
				}
				Expect(snap.Centers.Vec(4)).To(Equal(mgl64.Vec3{}))
			}
		})
	})

	Context("when a phase fails", func() {
		It("stops before rendering and names the phase", func() {
			rendered := 0
			d := NewDriver(sc, syncFunc(func(uint64) error { return nil }),
				RendererFunc(func(uint64) error { rendered++; return nil }), Frames(10))
			d.SetStepper(failingStepper{err: dynamo.ErrUnstable})

			_, err := d.Run(context.Background())
			Expect(errors.Is(err, dynamo.ErrUnstable)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Phase).To(Equal(Stepping.String()))
			Expect(rendered).To(BeZero())
		})
	})
})
