package mei

import (
	"errors"
	"fmt"
)

// ErrMissingStaffOrLayer is reported for measures without a staff or a layer.
// Such measures are kept, empty.
var ErrMissingStaffOrLayer = errors.New("measure has no staff or layer")

type MissingAttributeError struct {
	Element   string
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("<%s> is missing required attribute %q", e.Element, e.Attribute)
}

// MalformedKeySignatureError means a key signature element carried neither a
// signature code nor any usable keyAccid children.
type MalformedKeySignatureError struct {
	Element string
}

func (e *MalformedKeySignatureError) Error() string {
	return fmt.Sprintf("<%s> has neither a signature nor key accidentals", e.Element)
}
