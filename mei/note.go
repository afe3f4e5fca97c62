package mei

import (
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/intervaldex/music"
)

func requiredAttr(el *Node, name string) (string, error) {
	v, ok := el.Attribute(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", &MissingAttributeError{Element: el.QualifiedName(), Attribute: name}
	}
	return strings.TrimSpace(v), nil
}

// parseDuration turns dur/dots into a fraction of a whole note. Missing or
// non-numeric durations (breve, long, grace notes) give NoDuration.
func parseDuration(el *Node) music.Duration {
	raw, ok := el.Attribute("dur")
	if !ok {
		return music.NoDuration
	}
	dur, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || dur <= 0 {
		return music.NoDuration
	}

	var dots int
	if rawDots, ok := el.Attribute("dots"); ok {
		if d, err := strconv.Atoi(strings.TrimSpace(rawDots)); err == nil && d > 0 {
			dots = d
		}
	}

	return music.Duration(1 / float64(dur) * (2 - 1/math.Pow(2, float64(dots))))
}

// parseAccidental reads the written accidental from the accid attribute or,
// failing that, from a child accid element.
func parseAccidental(el *Node) music.Accidental {
	if a, ok := el.Attribute("accid"); ok && a != "" {
		return music.Accidental(strings.ToLower(a))
	}
	if child := el.Find("accid"); child != nil {
		if a, ok := child.Attribute("accid"); ok && a != "" {
			return music.Accidental(strings.ToLower(a))
		}
	}
	return music.NoAccidental
}

// ParseNote builds a note from a note element as written, before any
// accidental carry-over.
func ParseNote(el *Node) (music.Note, error) {
	pname, err := requiredAttr(el, "pname")
	if err != nil {
		return music.Note{}, err
	}
	rawOct, err := requiredAttr(el, "oct")
	if err != nil {
		return music.Note{}, err
	}
	oct, err := strconv.Atoi(rawOct)
	if err != nil {
		return music.Note{}, &MissingAttributeError{Element: el.QualifiedName(), Attribute: "oct"}
	}

	return music.NewNote(pname[:1], parseAccidental(el), oct, parseDuration(el))
}

// ParseChord builds a chord from the note elements inside a chord element.
func ParseChord(el *Node) (music.Chord, error) {
	var notes []music.Note
	for _, noteEl := range el.FindAll("note") {
		n, err := ParseNote(noteEl)
		if err != nil {
			return music.Chord{}, err
		}
		notes = append(notes, n)
	}
	return music.NewChord(notes, parseDuration(el))
}
