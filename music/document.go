package music

import "errors"

// Document is a parsed score: its measures in order plus header metadata.
// The interval sequence is derived once on construction.
type Document struct {
	measures  []*Measure
	metadata  map[string]string
	intervals []int
}

func NewDocument(measures []*Measure, metadata map[string]string) (*Document, error) {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	d := &Document{measures: measures, metadata: metadata}
	if err := d.Rederive(); err != nil {
		return nil, err
	}
	return d, nil
}

// Rederive recomputes the interval sequence. Empty measures contribute nothing,
// so the sequence can be shorter than the measure map minus one.
func (d *Document) Rederive() error {
	intervals := []int{}
	for i, m := range d.measures {
		var next *Measure
		if i < len(d.measures)-1 {
			next = d.measures[i+1]
		}
		measureIntervals, err := m.Intervals(next)
		if errors.Is(err, ErrEmptyMeasure) {
			continue
		}
		if err != nil {
			return err
		}
		intervals = append(intervals, measureIntervals...)
	}
	d.intervals = intervals
	return nil
}

func (d *Document) Intervals() []int {
	res := make([]int, len(d.intervals))
	copy(res, d.intervals)
	return res
}

// MeasureMap gives, for every note or chord in performance order, the 0-based
// index of the measure holding it.
func (d *Document) MeasureMap() []int {
	res := []int{}
	for i, m := range d.measures {
		for range m.elements {
			res = append(res, i)
		}
	}
	return res
}

func (d *Document) Measures() []*Measure {
	return d.measures
}

func (d *Document) MeasureAt(pos int) *Measure {
	return d.measures[pos]
}

func (d *Document) TotalMeasures() int {
	return len(d.measures)
}

// ElementCount is the number of notes and chords across all measures.
func (d *Document) ElementCount() int {
	var total int
	for _, m := range d.measures {
		total += m.Len()
	}
	return total
}

func (d *Document) Metadata() map[string]string {
	return d.metadata
}
