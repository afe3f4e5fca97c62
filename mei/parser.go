package mei

import (
	"github.com/jsphweid/intervaldex/logger"
	"github.com/jsphweid/intervaldex/music"
	"github.com/pkg/errors"
)

func IsMeasureElement(el *Node) bool {
	return el.Is("measure")
}

// OrderedElements collects key signature and measure elements below root in
// document order, however deeply they are nested.
func OrderedElements(root *Node) []*Node {
	var res []*Node
	root.Walk(func(n *Node) {
		if IsKeySigElement(n) || IsMeasureElement(n) {
			res = append(res, n)
		}
	})
	return res
}

// FirstLayer finds the first layer of the first staff of a measure. Other
// staves and layers are not read.
func FirstLayer(measure *Node) (*Node, error) {
	staff := measure.Find("staff")
	if staff == nil {
		return nil, errors.Wrap(ErrMissingStaffOrLayer, "no <staff>")
	}
	layer := staff.Find("layer")
	if layer == nil {
		return nil, errors.Wrap(ErrMissingStaffOrLayer, "no <layer>")
	}
	return layer, nil
}

// Parser turns notation trees into documents. A Parser is not safe for
// concurrent use; create one per parse.
type Parser struct {
	// Source names the document in log output.
	Source string

	tracker *AccidentalTracker
}

func NewParser(source string) *Parser {
	return &Parser{Source: source, tracker: NewAccidentalTracker()}
}

// ParseDocument is shorthand for NewParser(source).ParseTree(tree).
func ParseDocument(tree *Tree, source string) (*music.Document, error) {
	return NewParser(source).ParseTree(tree)
}

// ParseTree walks key signatures and measures in document order. Each measure
// is parsed under the key signature most recently seen before it.
func (p *Parser) ParseTree(tree *Tree) (*music.Document, error) {
	current, err := music.NewKeySignature("0")
	if err != nil {
		return nil, err
	}

	var measures []*music.Measure
	for _, el := range OrderedElements(tree.Root) {
		switch {
		case IsKeySigElement(el):
			ks, err := ParseKeySignature(el)
			if err != nil {
				return nil, errors.Wrapf(err, "key signature before measure %d of %s", len(measures), p.Source)
			}
			current = ks
		case IsMeasureElement(el):
			m, err := p.ParseMeasure(el, current)
			if err != nil {
				return nil, err
			}
			measures = append(measures, m)
		}
	}

	return music.NewDocument(measures, ParseMetadata(tree))
}

// ParseMeasure reads the first layer of a measure. Notes and chords that cannot
// be transcribed are logged and skipped; a missing staff or layer gives an
// empty measure.
func (p *Parser) ParseMeasure(el *Node, ks *music.KeySignature) (*music.Measure, error) {
	if !IsMeasureElement(el) {
		return nil, errors.Errorf("<%s> is not a measure", el.QualifiedName())
	}
	if p.tracker == nil {
		p.tracker = NewAccidentalTracker()
	}
	number, _ := el.Attribute("n")

	layer, err := FirstLayer(el)
	if err != nil {
		logger.Warn("Treating measure as empty", logger.Fields{
			"file":    p.Source,
			"measure": number,
			"reason":  err.Error(),
		})
		return music.NewMeasure(ks, number, nil), nil
	}

	p.tracker.Reset()
	var elements []music.Element
	p.collect(layer, number, &elements)
	return music.NewMeasure(ks, number, elements), nil
}

// collect appends the notes and chords among el's children, flattening beams.
func (p *Parser) collect(el *Node, number string, elements *[]music.Element) {
	for _, child := range el.Elements() {
		switch {
		case child.Is("note"):
			n, err := ParseNote(child)
			if err == nil {
				n, err = p.tracker.Resolve(n)
			}
			if err != nil {
				p.skip(child, number, err)
				continue
			}
			*elements = append(*elements, music.NoteElement(n))
		case child.Is("chord"):
			c, err := ParseChord(child)
			if err == nil {
				c, err = p.tracker.ResolveChord(c)
			}
			if err != nil {
				p.skip(child, number, err)
				continue
			}
			*elements = append(*elements, music.ChordElement(c))
		case child.Is("beam"):
			p.collect(child, number, elements)
		}
	}
}

func (p *Parser) skip(el *Node, number string, err error) {
	logger.Warn("Skipping element", logger.Fields{
		"file":    p.Source,
		"measure": number,
		"element": el.QualifiedName(),
		"reason":  err.Error(),
	})
}
