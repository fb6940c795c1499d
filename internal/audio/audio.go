package audio

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	maxVoices = 16
	pairFreq  = 880.0
	wallFreq  = 330.0
	decay     = 0.04
	cutoff    = 2500.0
)

type voice struct {
	freq  float64
	amp   float64
	phase float64
	age   float64
}

// Processor turns collisions into short clicks. Triggers arrive from the
// simulation goroutine; samples are produced on the portaudio callback.
type Processor struct {
	Stream *portaudio.Stream

	mu      sync.Mutex
	pending []voice

	voices      []voice
	filterState [2]float64
	Volume      float64

	Active bool
}

func NewProcessor() *Processor {
	return &Processor{
		voices: make([]voice, 0, maxVoices),
		Volume: 0.25,
	}
}

func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.ProcessAudio)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}

	log.Debug("audio started", "rate", SampleRate, "buffer", BufferSize)
	a.Stream = stream
	a.Active = true
	return nil
}

func (a *Processor) Stop() {
	if a.Stream != nil {
		a.Stream.Stop()
		a.Stream.Close()
		a.Stream = nil
	}
	if a.Active {
		portaudio.Terminate()
	}
	a.Active = false
}

// Trigger queues one click for the frame's pair collisions and one for its
// wall hits, louder the more contacts there were.
func (a *Processor) Trigger(pairs, walls int) {
	if pairs == 0 && walls == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if pairs > 0 {
		a.pending = append(a.pending, voice{freq: pairFreq, amp: loudness(pairs)})
	}
	if walls > 0 {
		a.pending = append(a.pending, voice{freq: wallFreq, amp: loudness(walls)})
	}
}

func loudness(n int) float64 {
	return math.Min(1, 0.4+0.15*math.Log2(float64(n)))
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

// ProcessAudio is the portaudio callback: two output channels, no input.
func (a *Processor) ProcessAudio(out [][]float32) {
	a.mu.Lock()
	for _, v := range a.pending {
		if len(a.voices) == maxVoices {
			a.voices = a.voices[1:]
		}
		a.voices = append(a.voices, v)
	}
	a.pending = a.pending[:0]
	a.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	for i := range out[0] {
		sample := 0.0
		for j := range a.voices {
			v := &a.voices[j]
			sample += triangle(v.phase) * v.amp * math.Exp(-v.age/decay)
			v.phase += v.freq * dt
			v.age += dt
		}

		var l, r float64
		l, a.filterState[0] = lpf(sample, cutoff, dt, a.filterState[0])
		r, a.filterState[1] = lpf(sample, cutoff*0.8, dt, a.filterState[1])
		out[0][i] = float32(l * a.Volume)
		if len(out) > 1 {
			out[1][i] = float32(r * a.Volume)
		}
	}

	live := a.voices[:0]
	for _, v := range a.voices {
		if v.age < 8*decay {
			live = append(live, v)
		}
	}
	a.voices = live
}

type observer[V dynamo.Vector[V]] struct{ p *Processor }

func (o observer[V]) OnFrame(view sim.View[V]) {
	o.p.Trigger(view.Stats.PairCollisions, view.Stats.WallHits)
}

// Observer adapts the processor to a simulation of either dimension.
func Observer[V dynamo.Vector[V]](p *Processor) sim.Observer[V] {
	return observer[V]{p: p}
}
