package music

import (
	"fmt"
	"strings"
)

// Major is one of the fifteen major keys reachable with 0-7 sharps or flats.
type Major int

const (
	CMajor Major = iota
	GMajor
	DMajor
	AMajor
	EMajor
	BMajor
	FSharpMajor
	CSharpMajor
	FMajor
	BFlatMajor
	EFlatMajor
	AFlatMajor
	DFlatMajor
	GFlatMajor
	CFlatMajor
)

// Minor is a natural minor key.
type Minor int

const (
	AMinor Minor = iota
	EMinor
	BMinor
	FSharpMinor
	CSharpMinor
	GSharpMinor
	DSharpMinor
	ASharpMinor
	DMinor
	GMinor
	CMinor
	FMinor
	BFlatMinor
	EFlatMinor
	AFlatMinor
)

var majorNames = [...]string{"C", "G", "D", "A", "E", "B", "F#", "C#", "F", "Bb", "Eb", "Ab", "Db", "Gb", "Cb"}
var minorNames = [...]string{"a", "e", "b", "f#", "c#", "g#", "d#", "a#", "d", "g", "c", "f", "bb", "eb", "ab"}

func (m Major) String() string {
	return majorNames[m] + " major"
}

func (m Minor) String() string {
	return minorNames[m] + " minor"
}

var relativeMinors = map[Major]Minor{
	CMajor:      AMinor,
	GMajor:      EMinor,
	DMajor:      BMinor,
	AMajor:      FSharpMinor,
	EMajor:      CSharpMinor,
	BMajor:      GSharpMinor,
	FSharpMajor: DSharpMinor,
	CSharpMajor: ASharpMinor,
	FMajor:      DMinor,
	BFlatMajor:  GMinor,
	EFlatMajor:  CMinor,
	AFlatMajor:  FMinor,
	DFlatMajor:  BFlatMinor,
	GFlatMajor:  EFlatMinor,
	CFlatMajor:  AFlatMinor,
}

// RelativeMinor returns the natural minor sharing this key's signature.
func (m Major) RelativeMinor() Minor {
	return relativeMinors[m]
}

// signatureCodes maps MEI signature codes to the major key they notate.
var signatureCodes = map[string]Major{
	"0":  CMajor,
	"1s": GMajor, "2s": DMajor, "3s": AMajor, "4s": EMajor, "5s": BMajor, "6s": FSharpMajor, "7s": CSharpMajor,
	"1f": FMajor, "2f": BFlatMajor, "3f": EFlatMajor, "4f": AFlatMajor, "5f": DFlatMajor, "6f": GFlatMajor, "7f": CFlatMajor,
}

// Order in which sharps and flats are added around the circle of fifths.
var (
	sharpOrder = []string{"F", "C", "G", "D", "A", "E", "B"}
	flatOrder  = []string{"B", "E", "A", "D", "G", "C", "F"}
)

type UnknownKeySignatureError struct {
	Code string
}

func (e *UnknownKeySignatureError) Error() string {
	return fmt.Sprintf("unknown key signature: %q", e.Code)
}

// KeySignature maps each natural letter to its spelling under the key. It is
// never modified after construction, so measures share it by pointer.
type KeySignature struct {
	major     Major
	custom    bool
	spellings map[string]string
}

func naturalSpellings() map[string]string {
	res := make(map[string]string, len(Letters))
	for _, l := range Letters {
		res[l] = l
	}
	return res
}

// NewKeySignature builds a key from an MEI signature code such as "0", "3s" or "2f".
// Each additional sharp or flat is layered on top of the previous key.
func NewKeySignature(code string) (*KeySignature, error) {
	major, ok := signatureCodes[code]
	if !ok {
		return nil, &UnknownKeySignatureError{Code: code}
	}

	spellings := naturalSpellings()
	if code != "0" {
		count := int(code[0] - '0')
		order, accid := sharpOrder, Sharp
		if code[1] == 'f' {
			order, accid = flatOrder, Flat
		}
		for _, letter := range order[:count] {
			spellings[letter] = Spelling(letter, accid)
		}
	}

	return &KeySignature{major: major, spellings: spellings}, nil
}

// NewCustomKeySignature starts from C major and applies per-letter accidentals,
// e.g. {"e": "s"} for a lone E sharp. Naturals leave the letter unchanged and
// letters outside A-G are ignored.
func NewCustomKeySignature(accidentals map[string]string) (*KeySignature, error) {
	spellings := naturalSpellings()
	for pitch, accid := range accidentals {
		letter := strings.ToUpper(pitch)
		a := Accidental(strings.ToLower(accid))
		if _, ok := spellings[letter]; !ok || a == Natural || a == NoAccidental {
			continue
		}
		if _, err := PitchClass(letter, a); err != nil {
			return nil, err
		}
		spellings[letter] = Spelling(letter, a)
	}
	return &KeySignature{custom: true, spellings: spellings}, nil
}

// Major reports the key for signatures built from a code. Custom keys have none.
func (k *KeySignature) Major() (Major, bool) {
	if k.custom {
		return 0, false
	}
	return k.major, true
}

func (k *KeySignature) IsCustom() bool {
	return k.custom
}

// SpellingFor returns the key-adjusted spelling of a natural letter, e.g. "B" -> "Bf"
// in F major. Unknown letters are returned unchanged.
func (k *KeySignature) SpellingFor(letter string) string {
	letter = strings.ToUpper(letter)
	if s, ok := k.spellings[letter]; ok {
		return s
	}
	return letter
}

// AccidentalFor returns the accidental the key implies for a letter.
func (k *KeySignature) AccidentalFor(letter string) Accidental {
	spelling := k.SpellingFor(letter)
	if len(spelling) <= 1 {
		return NoAccidental
	}
	return Accidental(spelling[1:])
}

func (k *KeySignature) String() string {
	if k.custom {
		var altered []string
		for _, l := range Letters {
			if k.spellings[l] != l {
				altered = append(altered, k.spellings[l])
			}
		}
		return "custom{" + strings.Join(altered, " ") + "}"
	}
	return k.major.String()
}
