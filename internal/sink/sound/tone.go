package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const (
	// DefaultToneHz is the pitch of the alarm tone.
	DefaultToneHz = 880.0
	// SampleRate is the rendering rate.
	SampleRate = beep.SampleRate(44100)
	// beepLength is the duration of one beep.
	beepLength = 200 * time.Millisecond
	// gapLength is the silence between beeps.
	gapLength = 100 * time.Millisecond
	// beepCount is the number of beeps in the alarm.
	beepCount = 3
)

// Format is the WAV format the alarm is rendered in.
var Format = beep.Format{
	SampleRate:  SampleRate,
	NumChannels: 2,
	Precision:   2,
}

// sine generates an endless sine wave at freq.
func sine(freq float64) beep.Streamer {
	var phase float64

	step := freq / float64(SampleRate)

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := math.Sin(2 * math.Pi * phase)
			samples[i][0] = v
			samples[i][1] = v

			phase += step
			phase -= math.Floor(phase)
		}

		return len(samples), true
	})
}

// Tone returns the alarm streamer: a few short beeps at freq, attenuated
// by volume decibels. Zero dB is full scale.
func Tone(freq, volume float64) beep.Streamer {
	if freq <= 0 {
		freq = DefaultToneHz
	}

	parts := make([]beep.Streamer, 0, beepCount*2-1)

	for i := range beepCount {
		if i > 0 {
			parts = append(parts, beep.Silence(SampleRate.N(gapLength)))
		}

		parts = append(parts, beep.Take(SampleRate.N(beepLength), sine(freq)))
	}

	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     10,
		Volume:   volume / 20,
	}
}

// Length returns the number of samples Tone produces.
func Length() int {
	return beepCount*SampleRate.N(beepLength) + (beepCount-1)*SampleRate.N(gapLength)
}
