package music

import "errors"

var ErrEmptyMeasure = errors.New("measure has no notes")

// Measure holds the notes and chords of one bar, along with the key signature
// that was in effect when it was parsed.
type Measure struct {
	number   string
	keySig   *KeySignature
	elements []Element
}

func NewMeasure(keySig *KeySignature, number string, elements []Element) *Measure {
	els := make([]Element, len(elements))
	copy(els, elements)
	return &Measure{number: number, keySig: keySig, elements: els}
}

// Number is the measure label from the notation, which may be empty.
func (m *Measure) Number() string {
	return m.number
}

func (m *Measure) KeySignature() *KeySignature {
	return m.keySig
}

func (m *Measure) Elements() []Element {
	res := make([]Element, len(m.elements))
	copy(res, m.elements)
	return res
}

func (m *Measure) Len() int {
	return len(m.elements)
}

func (m *Measure) FirstNote() (Note, error) {
	if len(m.elements) == 0 {
		return Note{}, ErrEmptyMeasure
	}
	return m.elements[0].TopNote(), nil
}

func (m *Measure) LastNote() (Note, error) {
	if len(m.elements) == 0 {
		return Note{}, ErrEmptyMeasure
	}
	return m.elements[len(m.elements)-1].TopNote(), nil
}

// ResolveNote gives a note without any accidental the spelling implied by the
// measure's key signature. Notes with an accidental, naturals included, are
// returned as they are.
func (m *Measure) ResolveNote(n Note) (Note, error) {
	if n.Accidental() != NoAccidental || m.keySig == nil {
		return n, nil
	}
	accid := m.keySig.AccidentalFor(n.Letter())
	if accid == NoAccidental {
		return n, nil
	}
	return n.ApplyAccidental(accid)
}

func (m *Measure) resolvedTopNote(i int) (Note, error) {
	return m.ResolveNote(m.elements[i].TopNote())
}

// Intervals returns the half-step steps between consecutive top notes. When next
// is non-nil and has notes, the step from this measure's last note to next's
// first note is appended. That step is taken between the notes as stored,
// without applying either key signature.
func (m *Measure) Intervals(next *Measure) ([]int, error) {
	if len(m.elements) == 0 {
		return nil, ErrEmptyMeasure
	}

	intervals := make([]int, 0, len(m.elements))
	previous, err := m.resolvedTopNote(0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(m.elements); i++ {
		current, err := m.resolvedTopNote(i)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, previous.HalfStepDistance(current))
		previous = current
	}

	if next != nil && next.Len() > 0 {
		last, _ := m.LastNote()
		first, _ := next.FirstNote()
		intervals = append(intervals, last.HalfStepDistance(first))
	}

	return intervals, nil
}
