package music

import (
	"fmt"
	"strings"
)

// Accidental is an MEI accidental code ("s", "f", "x", "ss", "ff", "n").
// The empty value means the note carries no accidental at all.
type Accidental string

const (
	NoAccidental Accidental = ""
	Natural      Accidental = "n"
	Sharp        Accidental = "s"
	Flat         Accidental = "f"
	DoubleSharp  Accidental = "x"
	DoubleFlat   Accidental = "ff"
)

// Letters are the seven natural pitch letters in scale order.
var Letters = []string{"C", "D", "E", "F", "G", "A", "B"}

// pitchClasses maps letter+accidental spellings to a position inside the octave,
// 0 (C) through 11 (B). Enharmonic spellings share a position.
var pitchClasses = map[string]int{
	"C": 0, "Cn": 0, "Bs": 0, "Dff": 0,
	"Cs": 1, "Bx": 1, "Bss": 1, "Df": 1,
	"D": 2, "Dn": 2, "Cx": 2, "Css": 2, "Eff": 2,
	"Ds": 3, "Ef": 3, "Fff": 3,
	"E": 4, "En": 4, "Dx": 4, "Dss": 4, "Ff": 4,
	"F": 5, "Fn": 5, "Es": 5, "Gff": 5,
	"Fs": 6, "Gf": 6, "Ex": 6, "Ess": 6,
	"G": 7, "Gn": 7, "Fx": 7, "Fss": 7, "Aff": 7,
	"Gs": 8, "Af": 8,
	"A": 9, "An": 9, "Gx": 9, "Gss": 9, "Bff": 9,
	"As": 10, "Bf": 10, "Cff": 10,
	"B": 11, "Bn": 11, "Ax": 11, "Ass": 11, "Cf": 11,
}

// UnknownPitchError is returned when a letter/accidental pair is not in the pitch table.
type UnknownPitchError struct {
	Letter     string
	Accidental Accidental
}

func (e *UnknownPitchError) Error() string {
	return fmt.Sprintf("unknown pitch: %q with accidental %q", e.Letter, string(e.Accidental))
}

// PitchClass resolves a spelling to its 0-11 position. There is no fallback for
// spellings outside the table.
func PitchClass(letter string, accid Accidental) (int, error) {
	pc, ok := pitchClasses[strings.ToUpper(letter)+string(accid)]
	if !ok {
		return 0, &UnknownPitchError{Letter: letter, Accidental: accid}
	}
	return pc, nil
}

// Spelling joins a letter and an accidental the way the pitch table keys them.
func Spelling(letter string, accid Accidental) string {
	return strings.ToUpper(letter) + string(accid)
}
