package game

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
)

// chimeRatios spreads simultaneous voices over a major pentatonic scale.
var chimeRatios = []float64{1, 9.0 / 8, 5.0 / 4, 3.0 / 2, 5.0 / 3, 2}

type voice struct {
	freq float64
	pos  int
}

// chimeTap is an endless beep.Streamer that mixes short decaying sine
// pings. The game loop rings it when cells ignite; the speaker goroutine
// streams it, so voices sit behind a mutex.
type chimeTap struct {
	sampleRate beep.SampleRate
	freq       float64
	length     int
	maxVoices  int

	mu     sync.Mutex
	voices []voice
	next   int
}

func newChimeTap(sr beep.SampleRate, freq float64, d time.Duration, maxVoices int) *chimeTap {
	return &chimeTap{
		sampleRate: sr,
		freq:       freq,
		length:     max(sr.N(d), 1),
		maxVoices:  maxVoices,
		voices:     make([]voice, 0, maxVoices),
	}
}

// ring starts up to n new voices, bounded by the free voice slots.
func (t *chimeTap) ring(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < n && len(t.voices) < t.maxVoices; i++ {
		ratio := chimeRatios[t.next%len(chimeRatios)]
		t.next++
		t.voices = append(t.voices, voice{freq: t.freq * ratio})
	}
}

// active returns the number of voices still sounding.
func (t *chimeTap) active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.voices)
}

func (t *chimeTap) Stream(samples [][2]float64) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sr := float64(t.sampleRate)
	for i := range samples {
		var v float64
		for j := range t.voices {
			vc := &t.voices[j]
			if vc.pos >= t.length {
				continue
			}
			env := 1 - float64(vc.pos)/float64(t.length)
			v += math.Sin(2*math.Pi*vc.freq*float64(vc.pos)/sr) * env * env
			vc.pos++
		}
		if n := len(t.voices); n > 1 {
			v /= math.Sqrt(float64(n))
		}
		samples[i] = [2]float64{v, v}
	}

	// drop finished voices
	live := t.voices[:0]
	for _, vc := range t.voices {
		if vc.pos < t.length {
			live = append(live, vc)
		}
	}
	t.voices = live

	return len(samples), true
}

func (t *chimeTap) Err() error { return nil }
