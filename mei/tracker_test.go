package mei

import (
	"testing"

	"github.com/jsphweid/intervaldex/music"
	"github.com/stretchr/testify/assert"
)

func note(t *testing.T, letter string, accid music.Accidental, octave int) music.Note {
	t.Helper()
	n, err := music.NewNote(letter, accid, octave, music.NoDuration)
	if err != nil {
		t.Fatalf("could not build note: %v", err)
	}
	return n
}

func TestTrackerCarriesAccidentalThroughMeasure(t *testing.T) {
	assert := assert.New(t)
	tracker := NewAccidentalTracker()

	first, err := tracker.Resolve(note(t, "F", music.Sharp, 4))
	assert.NoError(err)
	assert.Equal(music.Sharp, first.Accidental())

	second, err := tracker.Resolve(note(t, "F", music.NoAccidental, 5))
	assert.NoError(err)
	assert.Equal(music.Sharp, second.Accidental())
	assert.Equal(5*12+6, second.KeyPosition())

	other, err := tracker.Resolve(note(t, "G", music.NoAccidental, 4))
	assert.NoError(err)
	assert.Equal(music.NoAccidental, other.Accidental())
}

func TestTrackerReset(t *testing.T) {
	tracker := NewAccidentalTracker()
	tracker.Record("B", music.Flat)
	tracker.Reset()

	_, ok := tracker.Current("B")
	assert.False(t, ok)

	n, err := tracker.Resolve(note(t, "B", music.NoAccidental, 4))
	assert.NoError(t, err)
	assert.Equal(t, 4*12+11, n.KeyPosition())
}

func TestTrackerFlatOnCCrossesOctave(t *testing.T) {
	tracker := NewAccidentalTracker()
	tracker.Record("C", music.Flat)

	n, err := tracker.Resolve(note(t, "C", music.NoAccidental, 4))
	assert.NoError(t, err)
	assert.Equal(t, note(t, "B", music.NoAccidental, 3).KeyPosition(), n.KeyPosition())
}

func TestTrackerResolvesChordsAndResorts(t *testing.T) {
	assert := assert.New(t)
	tracker := NewAccidentalTracker()
	tracker.Record("C", music.DoubleFlat)

	chord, err := music.NewChord([]music.Note{
		note(t, "C", music.NoAccidental, 5),
		note(t, "B", music.NoAccidental, 4),
	}, music.NoDuration)
	assert.NoError(err)
	assert.Equal("C", chord.TopNote().Letter())

	resolved, err := tracker.ResolveChord(chord)
	assert.NoError(err)
	// C double flat sounds below B4
	assert.Equal("B", resolved.TopNote().Letter())
	assert.Equal(4*12+10, resolved.Notes()[1].KeyPosition())
}
