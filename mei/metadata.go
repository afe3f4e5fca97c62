package mei

import (
	"sort"
	"strings"
)

type metaTag struct {
	element string
	// value of the type attribute; empty means the element must have none
	kind  string
	field string
}

var metaTags = []metaTag{
	{"date", "encoding", "encoding"},
	{"idno", "RISM", "rism_id"},

	{"notes", "musical source", "musical_source"},
	{"media", "", "media"},
	{"library", "", "library"},
	{"classmark", "", "classmark"},

	{"composer", "", "composers"},
	{"arranger", "", "arrangers"},
	{"librettist", "", "librettists"},
	{"title", "main", "titles"},
	{"incipText", "", "incipits"},

	{"title", "collection", "collection_title"},
	{"collection", "number", "collection_number"},
	{"editor", "collection", "collection_editor"},

	{"title", "series", "series_title"},
	{"number", "series", "series_number"},
	{"editor", "series", "series_editor"},

	{"publisher", "", "publisher"},
	{"date", "", "date"},
	{"edition", "", "edition"},
	{"pubPlace", "", "published_place"},
	{"plateNum", "", "plate_number"},

	{"notes", "CdC tableau", "cdc_tableau"},
	{"notes", "CdC tableau division", "cdc_tableau_division"},
	{"notes", "CdC Number", "cdc_number"},
	{"notes", "Musette division", "musette_division"},
	{"notes", "poetic form associated title", "poetic_form_title"},
	{"notes", "poetic form", "poetic_form_notes"},
	{"notes", "specific rhyme pattern", "rhyme_pattern"},

	{"title", "musical form", "musical_form_title"},
	{"notes", "musical form", "musical_form_notes"},

	{"notes", "", "notes"},
}

func (m metaTag) matches(el *Node) bool {
	if !el.Is(m.element) {
		return false
	}
	kind, ok := el.Attribute("type")
	if m.kind == "" {
		return !ok
	}
	return ok && kind == m.kind
}

// ParseMetadata collects the lowercased header fields of a document. Repeated
// fields are joined with a space. Collection and series titles are folded into
// "titles" and every field is also gathered into "keywords".
func ParseMetadata(tree *Tree) map[string]string {
	metadata := make(map[string]string)
	head := tree.Root
	if !head.Is("meiHead") {
		head = head.Find("meiHead")
	}
	if head == nil {
		return metadata
	}

	found := make(map[string][]string)
	head.Walk(func(el *Node) {
		for _, tag := range metaTags {
			if !tag.matches(el) {
				continue
			}
			if text := normalizeText(el.Text()); text != "" {
				found[tag.field] = append(found[tag.field], strings.ToLower(text))
			}
		}
	})
	for field, values := range found {
		metadata[field] = strings.Join(values, " ")
	}

	var titles []string
	for _, field := range []string{"titles", "collection_title", "series_title"} {
		if v := metadata[field]; v != "" {
			titles = append(titles, v)
		}
	}
	if len(titles) > 0 {
		metadata["titles"] = strings.Join(titles, " ")
	}

	fields := make([]string, 0, len(metadata))
	for field := range metadata {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	var keywords []string
	for _, field := range fields {
		keywords = append(keywords, metadata[field])
	}
	if len(keywords) > 0 {
		metadata["keywords"] = strings.Join(keywords, " ")
	}

	return metadata
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
