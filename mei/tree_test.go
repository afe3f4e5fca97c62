package mei

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTreeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	src := `<mei xmlns="http://www.music-encoding.org/ns/mei" meiversion="4.0.0"><!-- c --><music><body><mdiv><score><section><measure n="1" xml:id="m1"><staff n="1"><layer n="1"><note pname="c" oct="4"/></layer></staff></measure></section></score></mdiv></body></music></mei>`
	tree, err := ParseString(src)
	assert.NoError(err)
	assert.Equal(src, tree.Root.String())

	measure := tree.Root.Find("measure")
	id, ok := measure.Attribute("xml:id")
	assert.True(ok)
	assert.Equal("m1", id)
}

func TestTreeStringAddsDeclaration(t *testing.T) {
	tree, err := ParseString(`<?xml version="1.0" encoding="UTF-8"?><?xml-model href="mei-all.rng"?><mei/>`)
	assert.NoError(t, err)
	assert.Equal(t, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<?xml-model href=\"mei-all.rng\"?>\n<mei/>", tree.String())
}

func TestTreeEscapesOnWrite(t *testing.T) {
	tree, err := ParseString(`<title label="a &amp; &quot;b&quot;">Fish &amp; Chips &lt;3</title>`)
	assert.NoError(t, err)
	assert.Equal(t, "Fish & Chips <3", tree.Root.Text())
	assert.Equal(t, `<title label="a &amp; &quot;b&quot;">Fish &amp; Chips &lt;3</title>`, tree.Root.String())
}

func TestParseDecodesDeclaredCharset(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="ISO-8859-1"?><mei><composer>`)
	buf.WriteByte(0xe9)
	buf.WriteString(`tienne</composer></mei>`)

	tree, err := Parse(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "étienne", tree.Root.Find("composer").Text())
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	for name, src := range map[string]string{
		"unclosed":  "<mei><music>",
		"empty":     "",
		"mismatch":  "<mei></music>",
		"two roots": "<mei/><mei/>",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseString(src)
			assert.Error(t, err)
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	assert := assert.New(t)

	tree, err := ParseString(`<mei><section><measure n="1"/><measure n="2"/></section></mei>`)
	assert.NoError(err)

	clone := tree.Clone()
	clone.Root.Find("section").RemoveChildren()

	assert.Equal(`<mei><section/></mei>`, clone.Root.String())
	assert.Len(tree.Root.FindAll("measure"), 2)
}

func TestRemoveDetachesFromParent(t *testing.T) {
	tree, err := ParseString(`<a><b/><c/><d/></a>`)
	assert.NoError(t, err)

	tree.Root.Find("c").Remove()
	assert.Equal(t, `<a><b/><d/></a>`, tree.Root.String())
}

func TestNodesKeepIdentity(t *testing.T) {
	tree, err := ParseString(`<mei><section><measure n="1"/></section></mei>`)
	assert.NoError(t, err)

	section := tree.Root.Find("section")
	var walked *Node
	tree.Root.Walk(func(n *Node) {
		if n.Is("section") {
			walked = n
		}
	})
	assert.True(t, walked == section)
	assert.True(t, tree.Root.Elements()[0] == section)
}

func TestTextSpansNestedElements(t *testing.T) {
	tree, err := ParseString(`<title>Minuet <rend>in</rend> G<!-- no --></title>`)
	assert.NoError(t, err)
	assert.Equal(t, "Minuet in G", tree.Root.Text())
	assert.Equal(t, "title", tree.Root.QualifiedName())
}
