package excerpt

import (
	"strings"

	"github.com/jsphweid/intervaldex/highlight"
	"github.com/jsphweid/intervaldex/logger"
	"github.com/jsphweid/intervaldex/mei"
	"github.com/pkg/errors"
)

var (
	ErrNoSection        = errors.New("document has no section")
	ErrAmbiguousSection = errors.New("document has more than one top-level section")
)

// Extractor cuts measure ranges out of a notation document.
type Extractor struct {
	// Strict refuses documents with several top-level sections instead of
	// keeping only the first.
	Strict bool
}

type Excerpt struct {
	// Segments holds one fragment per range: the governing key signature
	// followed by the measures of the range, one element per line.
	Segments []string
	// Skeleton is the document root with the section emptied, for the
	// segments to be put back into.
	Skeleton string
}

// Sections returns the section elements that are not nested in another
// section, in document order.
func Sections(root *mei.Node) []*mei.Node {
	var res []*mei.Node
	var visit func(n *mei.Node)
	visit = func(n *mei.Node) {
		for _, c := range n.Elements() {
			if c.Is("section") {
				res = append(res, c)
				continue
			}
			visit(c)
		}
	}
	if root.Is("section") {
		return []*mei.Node{root}
	}
	visit(root)
	return res
}

// Extract works on a copy of tree; the tree passed in is left untouched.
// Range positions count the measures of the section that is kept.
func (e Extractor) Extract(tree *mei.Tree, ranges []highlight.Range) (*Excerpt, error) {
	work := tree.Clone()

	sections := Sections(work.Root)
	switch {
	case len(sections) == 0:
		return nil, ErrNoSection
	case len(sections) > 1 && e.Strict:
		return nil, errors.Wrapf(ErrAmbiguousSection, "found %d", len(sections))
	case len(sections) > 1:
		logger.Warn("Keeping only the first section", logger.Fields{"sections": len(sections)})
		for _, s := range sections[1:] {
			s.Remove()
		}
	}
	section := sections[0]

	prior := keySigBefore(work.Root, section)
	ordered := mei.OrderedElements(section)

	segments := make([]string, 0, len(ranges))
	for _, r := range ranges {
		segments = append(segments, segment(ordered, prior, r))
	}

	section.RemoveChildren()
	return &Excerpt{Segments: segments, Skeleton: work.Root.String()}, nil
}

// keySigBefore finds the last key signature element that comes before the
// section in document order, e.g. the score's scoreDef.
func keySigBefore(root *mei.Node, section *mei.Node) *mei.Node {
	var last *mei.Node
	reached := false
	root.Walk(func(n *mei.Node) {
		if n == section {
			reached = true
		}
		if !reached && mei.IsKeySigElement(n) {
			last = n
		}
	})
	return last
}

func segment(ordered []*mei.Node, keySig *mei.Node, r highlight.Range) string {
	var measures []*mei.Node
	position := 0
	for _, el := range ordered {
		if mei.IsMeasureElement(el) {
			if position >= r.Start && position <= r.End {
				measures = append(measures, el)
			}
			position++
			if position > r.End {
				break
			}
			continue
		}
		if mei.IsKeySigElement(el) && position <= r.Start {
			keySig = el
		}
	}

	var b strings.Builder
	if keySig != nil {
		b.WriteString(keySig.String())
		b.WriteByte('\n')
	}
	for _, m := range measures {
		b.WriteString(m.String())
		b.WriteByte('\n')
	}
	return b.String()
}
