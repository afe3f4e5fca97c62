package sample

import (
	"testing"

	"github.com/jsphweid/intervaldex/highlight"
	"github.com/jsphweid/intervaldex/midi"
	"github.com/jsphweid/intervaldex/music"
	"github.com/stretchr/testify/assert"
)

func measure(t *testing.T, code string, notes ...string) *music.Measure {
	t.Helper()
	ks, err := music.NewKeySignature(code)
	assert.NoError(t, err)

	var els []music.Element
	for _, l := range notes {
		n, err := music.NewNote(l, music.NoAccidental, 4, 0.25)
		assert.NoError(t, err)
		els = append(els, music.NoteElement(n))
	}
	return music.NewMeasure(ks, "", els)
}

func TestCreate(t *testing.T) {
	assert := assert.New(t)

	doc, err := music.NewDocument([]*music.Measure{
		measure(t, "0", "C", "D"),
		measure(t, "0", "E"),
		measure(t, "1f", "B"),
	}, nil)
	assert.NoError(err)

	s := Create(doc, []highlight.Range{{Start: 0, End: 0}, {Start: 2, End: 5}})
	data, err := midi.Encode(s)
	assert.NoError(err)

	decoded, err := midi.Decode(data)
	assert.NoError(err)
	// B under one flat sounds as B flat
	assert.Equal([]uint8{60, 62, 70}, midi.NoteOnKeys(decoded))
}

func TestChordsSoundTogether(t *testing.T) {
	ks, _ := music.NewKeySignature("0")
	c4, _ := music.NewNote("C", music.NoAccidental, 4, music.NoDuration)
	e4, _ := music.NewNote("E", music.NoAccidental, 4, music.NoDuration)
	chord, err := music.NewChord([]music.Note{c4, e4}, 0.5)
	assert.NoError(t, err)

	doc, err := music.NewDocument([]*music.Measure{music.NewMeasure(ks, "", []music.Element{music.ChordElement(chord)})}, nil)
	assert.NoError(t, err)

	s := Create(doc, []highlight.Range{{Start: 0, End: 0}})
	track := s.Tracks[0]

	var onDeltas, offDeltas []uint32
	for _, ev := range track {
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteOn(&ch, &key, &vel):
			onDeltas = append(onDeltas, ev.Delta)
		case ev.Message.GetNoteOff(&ch, &key, &vel):
			offDeltas = append(offDeltas, ev.Delta)
		}
	}
	assert.Equal(t, []uint32{0, 0}, onDeltas)
	assert.Equal(t, []uint32{2 * TicksPerQuarter, 0}, offDeltas)
}

func TestTicks(t *testing.T) {
	assert.Equal(t, uint32(TicksPerQuarter), ticks(0.25))
	assert.Equal(t, uint32(TicksPerQuarter*3/2), ticks(0.375))
	assert.Equal(t, uint32(TicksPerQuarter/2), ticks(music.NoDuration))
}
