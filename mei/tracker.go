package mei

import (
	"github.com/jsphweid/intervaldex/music"
)

// AccidentalTracker remembers, for the measure being parsed, which accidental
// currently sounds on each pitch letter. Letters without an entry are unaltered.
type AccidentalTracker struct {
	current map[string]music.Accidental
}

func NewAccidentalTracker() *AccidentalTracker {
	return &AccidentalTracker{current: make(map[string]music.Accidental)}
}

func (t *AccidentalTracker) Record(letter string, accid music.Accidental) {
	t.current[letter] = accid
}

func (t *AccidentalTracker) Current(letter string) (music.Accidental, bool) {
	accid, ok := t.current[letter]
	return accid, ok
}

// Reset forgets every accidental. Called at each barline.
func (t *AccidentalTracker) Reset() {
	for k := range t.current {
		delete(t.current, k)
	}
}

// Resolve records an explicit accidental, or carries the letter's sounding
// accidental over to a note written without one.
func (t *AccidentalTracker) Resolve(n music.Note) (music.Note, error) {
	if n.Accidental() != music.NoAccidental {
		t.Record(n.Letter(), n.Accidental())
		return n, nil
	}
	accid, ok := t.Current(n.Letter())
	if !ok {
		return n, nil
	}
	return n.ApplyAccidental(accid)
}

// ResolveChord resolves each note in order and rebuilds the chord so the
// notes are sorted again.
func (t *AccidentalTracker) ResolveChord(c music.Chord) (music.Chord, error) {
	notes := c.Notes()
	resolved := make([]music.Note, 0, len(notes))
	for _, n := range notes {
		r, err := t.Resolve(n)
		if err != nil {
			return music.Chord{}, err
		}
		resolved = append(resolved, r)
	}
	return c.WithNotes(resolved)
}
