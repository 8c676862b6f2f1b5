// Package chime plays a short audible cue when the chat unlocks.
package chime

import (
	"encoding/binary"
	"math"
	"time"
)

// Audio parameters for generated tones.
const (
	SampleRate   = 24000
	ChannelCount = 1
)

// Note is one segment of a chime.
type Note struct {
	Freq     float64
	Duration time.Duration
}

// Unlock is the two-note rising cue played when liveness passes.
var Unlock = []Note{
	{Freq: 660, Duration: 90 * time.Millisecond},
	{Freq: 990, Duration: 140 * time.Millisecond},
}

// fade is the attack and release length applied to every note so
// segments start and stop without clicks.
const fade = 8 * time.Millisecond

// Render returns signed 16-bit little-endian mono PCM for notes at the
// given peak volume (0..1).
func Render(notes []Note, volume float64) []byte {
	volume = math.Max(0, math.Min(1, volume))

	var total int
	for _, n := range notes {
		total += samplesFor(n.Duration)
	}
	pcm := make([]byte, 0, total*2)

	ramp := samplesFor(fade)
	for _, n := range notes {
		count := samplesFor(n.Duration)
		for i := 0; i < count; i++ {
			env := 1.0
			if ramp > 0 {
				if i < ramp {
					env = float64(i) / float64(ramp)
				} else if tail := count - 1 - i; tail < ramp {
					env = float64(tail) / float64(ramp)
				}
			}
			v := math.Sin(2*math.Pi*n.Freq*float64(i)/SampleRate) * env * volume
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(v*math.MaxInt16)))
		}
	}
	return pcm
}

func samplesFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Seconds() * SampleRate)
}
