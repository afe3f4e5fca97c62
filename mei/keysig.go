package mei

import (
	"strings"

	"github.com/jsphweid/intervaldex/music"
	"github.com/pkg/errors"
)

// Attribute spellings a signature code has been written with across MEI versions.
var signatureAttrs = []string{"sig", "key.sig", "keysig"}

// IsKeySigElement matches anything named like a key signature (keySig, keysig)
// as well as elements such as scoreDef or staffDef carrying a key.sig/keysig attribute.
func IsKeySigElement(el *Node) bool {
	tag := strings.ToLower(el.Tag)
	if strings.Contains(tag, "key") && strings.Contains(tag, "sig") {
		return true
	}
	return el.HasAttribute("key.sig") || el.HasAttribute("keysig")
}

// ParseKeySignature reads a signature code when one is present, otherwise the
// keyAccid children of the element.
func ParseKeySignature(el *Node) (*music.KeySignature, error) {
	for _, name := range signatureAttrs {
		code, ok := el.Attribute(name)
		code = strings.TrimSpace(code)
		if !ok || code == "" {
			continue
		}
		ks, err := music.NewKeySignature(code)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read <%s %s=%q>", el.QualifiedName(), name, code)
		}
		return ks, nil
	}

	custom := make(map[string]string)
	for _, accidEl := range el.FindAll("keyAccid") {
		pname, okP := accidEl.Attribute("pname")
		accid, okA := accidEl.Attribute("accid")
		if !okP || !okA || pname == "" || accid == "" {
			continue
		}
		custom[pname] = accid
	}
	if len(custom) == 0 {
		return nil, &MalformedKeySignatureError{Element: el.QualifiedName()}
	}

	ks, err := music.NewCustomKeySignature(custom)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read key accidentals of <%s>", el.QualifiedName())
	}
	return ks, nil
}
