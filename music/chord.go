package music

import (
	"errors"
	"sort"
)

var ErrEmptyChord = errors.New("chord has no notes")

// Chord is a set of notes sharing one duration, kept sorted from the highest
// key position down.
type Chord struct {
	notes    []Note
	duration Duration
}

func NewChord(notes []Note, duration Duration) (Chord, error) {
	if len(notes) == 0 {
		return Chord{}, ErrEmptyChord
	}
	sorted := make([]Note, len(notes))
	copy(sorted, notes)
	sortNotes(sorted)
	return Chord{notes: sorted, duration: duration}, nil
}

func sortNotes(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].KeyPosition() > notes[j].KeyPosition()
	})
}

// TopNote is the highest note of the chord.
func (c Chord) TopNote() Note {
	return c.notes[0]
}

func (c Chord) Notes() []Note {
	res := make([]Note, len(c.notes))
	copy(res, c.notes)
	return res
}

func (c Chord) Duration() Duration {
	return c.duration
}

// WithNotes rebuilds the chord around a new set of notes, keeping the duration.
func (c Chord) WithNotes(notes []Note) (Chord, error) {
	return NewChord(notes, c.duration)
}
