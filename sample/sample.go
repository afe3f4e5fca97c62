package sample

import (
	"math"

	"github.com/jsphweid/intervaldex/highlight"
	"github.com/jsphweid/intervaldex/music"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	TicksPerQuarter = 480
	channel         = 0
	velocity        = 100
)

// keyOffset moves keyboard positions so that C4 lands on MIDI key 60.
const keyOffset = 12

func ticks(d music.Duration) uint32 {
	if !d.IsSet() {
		return TicksPerQuarter / 2
	}
	t := math.Round(float64(d) * 4 * TicksPerQuarter)
	if t < 1 {
		return 1
	}
	return uint32(t)
}

func midiKeys(m *music.Measure, el music.Element) []uint8 {
	var keys []uint8
	for _, n := range el.Notes() {
		resolved, err := m.ResolveNote(n)
		if err != nil {
			resolved = n
		}
		key := resolved.KeyPosition() + keyOffset
		if key < 0 || key > 127 {
			continue
		}
		keys = append(keys, uint8(key))
	}
	return keys
}

// Create renders the measures of each range as one MIDI track at 120 BPM.
// Ranges are separated by a quarter note of silence.
func Create(doc *music.Document, ranges []highlight.Range) *smf.SMF {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	track := smf.Track{
		{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName("preview"))},
		{Delta: 0, Message: smf.Message(smf.MetaTempo(120))},
	}

	var delta uint32
	for i, r := range ranges {
		if i > 0 {
			delta += TicksPerQuarter
		}
		for pos := r.Start; pos <= r.End && pos < doc.TotalMeasures(); pos++ {
			if pos < 0 {
				continue
			}
			m := doc.MeasureAt(pos)
			for _, el := range m.Elements() {
				d := el.Duration()
				if !d.IsSet() {
					d = el.TopNote().Duration()
				}
				length := ticks(d)
				keys := midiKeys(m, el)
				if len(keys) == 0 {
					delta += length
					continue
				}
				for _, key := range keys {
					track = append(track, smf.Event{Delta: delta, Message: smf.Message(midi.NoteOn(channel, key, velocity))})
					delta = 0
				}
				delta = length
				for _, key := range keys {
					track = append(track, smf.Event{Delta: delta, Message: smf.Message(midi.NoteOff(channel, key))})
					delta = 0
				}
			}
		}
	}

	track = append(track, smf.Event{Delta: delta, Message: smf.EOT})
	s.Add(track)
	return s
}
