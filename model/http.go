package model

type SearchRequestBody struct {
	// Mei is a notation fragment whose intervals become the query. When
	// empty, Intervals is used as is.
	Mei       string `json:"mei,omitempty"`
	Intervals []int  `json:"intervals,omitempty"`
}

type SearchResult struct {
	FileId      uint32            `json:"file_id"`
	Name        string            `json:"name"`
	Offsets     []uint32          `json:"offsets"`
	Highlight   string            `json:"highlight"`
	Source      PartialSource     `json:"source"`
	MeiMetadata map[string]string `json:"mei_metadata,omitempty"`
}

type SearchResponse struct {
	Query      []int          `json:"query"`
	NumMatches int            `json:"num_matches"`
	NumFiles   int            `json:"num_files"`
	Results    []SearchResult `json:"results"`
}

type PartialSource struct {
	Name          string `json:"name"`
	IntervalsText string `json:"intervals_text"`
	MeasureMap    string `json:"measure_map"`
}

type PartialRequestBody struct {
	Source    PartialSource `json:"source"`
	Highlight string        `json:"highlight"`
}

type PartialResponse struct {
	Segments []string `json:"segments"`
	Skeleton string   `json:"skeleton"`
	Ranges   [][2]int `json:"ranges"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
