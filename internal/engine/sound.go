package engine

import "sync"

// Sound is one of the short feedback cues
type Sound string

const (
	SoundCorrect   Sound = "correct"
	SoundIncorrect Sound = "incorrect"
	SoundWin       Sound = "win"
)

// SoundProvider plays feedback cues. Calls are fire-and-forget.
type SoundProvider interface {
	PlaySound(s Sound)
}

// NotePlayer is implemented by providers that can also play sequence notes
type NotePlayer interface {
	PlayNote(pad int, freq float64)
}

// NoSound discards every cue
type NoSound struct{}

func (NoSound) PlaySound(Sound)       {}
func (NoSound) PlayNote(int, float64) {}

// Note is a sequence note queued for a remote client
type Note struct {
	Pad  int     `json:"pad"`
	Freq float64 `json:"freq"`
}

// CueRecorder buffers cues so a remote shell can play them on the client
type CueRecorder struct {
	mu    sync.Mutex
	cues  []Sound
	notes []Note
}

// NewCueRecorder creates an empty recorder
func NewCueRecorder() *CueRecorder {
	return &CueRecorder{}
}

func (r *CueRecorder) PlaySound(s Sound) {
	r.mu.Lock()
	r.cues = append(r.cues, s)
	r.mu.Unlock()
}

func (r *CueRecorder) PlayNote(pad int, freq float64) {
	r.mu.Lock()
	r.notes = append(r.notes, Note{Pad: pad, Freq: freq})
	r.mu.Unlock()
}

// Drain returns and clears everything recorded so far
func (r *CueRecorder) Drain() ([]Sound, []Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cues, notes := r.cues, r.notes
	r.cues, r.notes = nil, nil
	return cues, notes
}
