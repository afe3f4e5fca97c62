package music

import (
	"fmt"
	"strings"
)

// Duration is the length of a note as a fraction of a whole note. Zero means
// the notation gave no duration (grace notes, durations inherited from a chord).
type Duration float64

// NoDuration marks a note without a duration.
const NoDuration Duration = 0

func (d Duration) IsSet() bool {
	return d > 0
}

// Note is an immutable pitched note.
type Note struct {
	letter     string
	accidental Accidental
	octave     int
	duration   Duration
	pitchClass int
}

func NewNote(letter string, accid Accidental, octave int, duration Duration) (Note, error) {
	letter = strings.ToUpper(letter)
	pc, err := PitchClass(letter, accid)
	if err != nil {
		return Note{}, err
	}
	return Note{
		letter:     letter,
		accidental: accid,
		octave:     octave,
		duration:   duration,
		pitchClass: pc,
	}, nil
}

func (n Note) Letter() string {
	return n.letter
}

func (n Note) Accidental() Accidental {
	return n.accidental
}

func (n Note) Octave() int {
	return n.octave
}

func (n Note) Duration() Duration {
	return n.duration
}

func (n Note) PitchClass() int {
	return n.pitchClass
}

// KeyPosition is the absolute position on the keyboard, octave*12 + pitch class.
// It is not clamped to any instrument range.
func (n Note) KeyPosition() int {
	return n.octave*12 + n.pitchClass
}

// HalfStepDistance returns the signed number of half steps from n up to other.
func (n Note) HalfStepDistance(other Note) int {
	return other.KeyPosition() - n.KeyPosition()
}

// ApplyAccidental respells the note with accid while keeping it next to the
// written pitch: C respelled as Cf lands an octave lower than a plain
// recomputation would put it, B respelled as Bs an octave higher.
func (n Note) ApplyAccidental(accid Accidental) (Note, error) {
	respelled, err := NewNote(n.letter, accid, n.octave, n.duration)
	if err != nil {
		return Note{}, err
	}

	difference := respelled.pitchClass - n.pitchClass
	switch {
	case difference >= 6:
		respelled.octave--
	case difference <= -6:
		respelled.octave++
	}
	return respelled, nil
}

// Equal compares pitch class and duration only. Octave and spelling are ignored.
func (n Note) Equal(other Note) bool {
	return n.pitchClass == other.pitchClass && n.duration == other.duration
}

func (n Note) String() string {
	return fmt.Sprintf("%s%s%d", n.letter, n.accidental, n.octave)
}
