package game

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/pixel-backdrop/internal/config"
)

// Chime plays a soft ping whenever cells light up.
type Chime struct {
	tap    *chimeTap
	volume *effects.Volume
}

// NewChime initialises the speaker and starts the chime stream.
func NewChime(cfg config.ChimeConfig) (*Chime, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return nil, err
	}

	tap := newChimeTap(sr, cfg.Frequency, time.Duration(cfg.DurationMs)*time.Millisecond, cfg.MaxVoices)
	vol := &effects.Volume{
		Streamer: tap,
		Base:     2,
		Volume:   math.Log2(math.Max(cfg.Volume, 1e-6)),
		Silent:   cfg.Volume <= 0,
	}
	speaker.Play(vol)

	return &Chime{tap: tap, volume: vol}, nil
}

// Ring sounds one voice per ignited cell, up to the voice limit.
func (c *Chime) Ring(ignited int) {
	if c == nil || ignited <= 0 {
		return
	}
	c.tap.ring(ignited)
}

// Close stops playback.
func (c *Chime) Close() {
	if c == nil {
		return
	}
	speaker.Clear()
}
