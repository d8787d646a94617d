package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Gm7 add9: G2, Bb2, D3, F3, A3.
var chord = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

// Synth is a filtered triangle pad. Kinetic energy opens the filter;
// repelling shifts the chord up a fifth.
type Synth struct {
	mu     sync.Mutex
	energy float64
	repel  bool

	Time         float64
	EnergySmooth float64
	shift        float64
	filter       [2]float64
	delay        [2][]float64
	head         int
	Volume       float64
}

func NewSynth() *Synth {
	// 0.6 second delay
	n := int(float64(SampleRate) * 0.6)
	return &Synth{
		delay:  [2][]float64{make([]float64, n), make([]float64, n)},
		shift:  1,
		Volume: 0.25,
	}
}

// SetPhysics may be called from the frame loop while the stream runs.
func (s *Synth) SetPhysics(energy, sign float64) {
	s.mu.Lock()
	s.energy = energy
	s.repel = sign > 0
	s.mu.Unlock()
}

// Cutoff is the current low-pass cutoff in Hz.
func (s *Synth) Cutoff() float64 {
	return 300.0 + math.Min(s.EnergySmooth*200.0, 900.0)
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one pole low pass.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills a stereo output buffer.
func (s *Synth) Process(out [][]float32) {
	s.mu.Lock()
	target, repel := s.energy, s.repel
	s.mu.Unlock()

	s.EnergySmooth = s.EnergySmooth*0.995 + target*0.005
	targetShift := 1.0
	if repel {
		targetShift = 1.5
	}

	dt := 1.0 / float64(SampleRate)
	cutoff := s.Cutoff()
	g := 1.0 / float64(len(chord))

	for i := range out[0] {
		s.shift += (targetShift - s.shift) * 0.0005

		l, r := 0.0, 0.0
		for j, f := range chord {
			f *= s.shift
			lfo := math.Sin(s.Time*0.2 + float64(j))
			l += triangle(s.Time*f*0.999) * g * (0.7 + 0.3*lfo)
			r += triangle(s.Time*f*1.001) * g * (0.7 + 0.3*lfo)
		}

		s.filter[0] = lpf(l, cutoff, dt, s.filter[0])
		s.filter[1] = lpf(r, cutoff, dt, s.filter[1])

		dl, dr := s.delay[0][s.head], s.delay[1][s.head]
		mixL := s.filter[0] + dl*0.3 + dr*0.1
		mixR := s.filter[1] + dr*0.3 + dl*0.1
		s.delay[0][s.head] = mixL * 0.7
		s.delay[1][s.head] = mixR * 0.7
		s.head = (s.head + 1) % len(s.delay[0])

		out[0][i] = float32(mixL * s.Volume)
		if len(out) > 1 {
			out[1][i] = float32(mixR * s.Volume)
		}

		s.Time += dt
	}
}

// Player streams a Synth to the default output device.
type Player struct {
	*Synth
	stream *portaudio.Stream
}

func Start(s *Synth) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audio open: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("audio start: %w", err)
	}
	return &Player{Synth: s, stream: stream}, nil
}

func (p *Player) Stop() {
	p.stream.Stop()
	p.stream.Close()
	portaudio.Terminate()
}
