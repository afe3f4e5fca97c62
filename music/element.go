package music

import "fmt"

type ElementKind int

const (
	NoteKind ElementKind = iota
	ChordKind
)

// Element is one entry of a measure: either a single Note or a Chord.
// Only the field matching Kind is meaningful.
type Element struct {
	Kind  ElementKind
	Note  Note
	Chord Chord
}

func NoteElement(n Note) Element {
	return Element{Kind: NoteKind, Note: n}
}

func ChordElement(c Chord) Element {
	return Element{Kind: ChordKind, Chord: c}
}

// TopNote is the note itself, or the top note of a chord.
func (e Element) TopNote() Note {
	switch e.Kind {
	case NoteKind:
		return e.Note
	case ChordKind:
		return e.Chord.TopNote()
	}
	panic(fmt.Sprintf("unknown element kind %d", e.Kind))
}

// Notes returns every sounding note of the element.
func (e Element) Notes() []Note {
	switch e.Kind {
	case NoteKind:
		return []Note{e.Note}
	case ChordKind:
		return e.Chord.Notes()
	}
	panic(fmt.Sprintf("unknown element kind %d", e.Kind))
}

func (e Element) Duration() Duration {
	switch e.Kind {
	case NoteKind:
		return e.Note.Duration()
	case ChordKind:
		return e.Chord.Duration()
	}
	panic(fmt.Sprintf("unknown element kind %d", e.Kind))
}
