// Package audio plays the feedback cues and sequence notes on the local
// sound device.
package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"heroworld/internal/engine"
)

const (
	sampleRate = beep.SampleRate(44100)
	cueVolume  = 0.4
	noteLength = 350 * time.Millisecond
)

// Win arpeggio, C major
var winNotes = []float64{523.25, 659.25, 783.99, 1046.50}

// Speaker implements engine.SoundProvider and engine.NotePlayer with
// synthesised tones. When the device cannot be opened it stays silent.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewSpeaker creates a speaker; call Initialize before use
func NewSpeaker() *Speaker {
	return &Speaker{mixer: &beep.Mixer{}}
}

// Initialize opens the sound device. A failure is logged and leaves the
// speaker in silent mode.
func (s *Speaker) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		log.Printf("Warning: audio unavailable, sounds disabled: %v", err)
		return
	}
	speaker.Play(s.mixer)
	s.initialized = true
}

// SetMuted turns every cue off or back on
func (s *Speaker) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

// Cleanup stops whatever is still playing
func (s *Speaker) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

func (s *Speaker) PlaySound(cue engine.Sound) {
	s.play(cueStreamer(cue))
}

func (s *Speaker) PlayNote(_ int, freq float64) {
	s.play(newTone(sampleRate, freq, noteLength, cueVolume))
}

func (s *Speaker) play(st beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.muted || st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// cueStreamer builds the waveform for a feedback cue. Unknown cues are nil.
func cueStreamer(cue engine.Sound) beep.Streamer {
	switch cue {
	case engine.SoundCorrect:
		return newChirp(sampleRate, 660, 880, 150*time.Millisecond, cueVolume)
	case engine.SoundIncorrect:
		return newBuzz(sampleRate, 150, 250*time.Millisecond, cueVolume*0.6)
	case engine.SoundWin:
		notes := make([]beep.Streamer, len(winNotes))
		for i, f := range winNotes {
			d := 120 * time.Millisecond
			if i == len(winNotes)-1 {
				d = 400 * time.Millisecond
			}
			notes[i] = newTone(sampleRate, f, d, cueVolume)
		}
		return beep.Seq(notes...)
	default:
		return nil
	}
}
