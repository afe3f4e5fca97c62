package midi

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Decode parses a Standard MIDI File. The reader can panic on malformed
// input (https://github.com/gomidi/midi/issues/20), which is turned into an
// error.
func Decode(data []byte) (s *smf.SMF, e error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Errorf("panic while parsing midi: %v", r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi")
	}
	return res, nil
}

func ReadMidiFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}
	return Decode(dat)
}

func Encode(s *smf.SMF) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "error writing midi")
	}
	return buf.Bytes(), nil
}

// NoteOnKeys lists the keys of every sounding note-on in track order.
func NoteOnKeys(s *smf.SMF) []uint8 {
	var res []uint8
	for _, track := range s.Tracks {
		for _, ev := range track {
			var ch, key, vel uint8
			if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
				res = append(res, key)
			}
		}
	}
	return res
}

// Intervals turns a melody of MIDI keys into half step steps.
func Intervals(keys []uint8) []int {
	if len(keys) < 2 {
		return []int{}
	}
	res := make([]int, 0, len(keys)-1)
	for i := 1; i < len(keys); i++ {
		res = append(res, int(keys[i])-int(keys[i-1]))
	}
	return res
}

func KeyName(key uint8) string {
	names := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	return fmt.Sprintf("%s%d", names[key%12], int(key)/12-1)
}
