package model

import (
	"strconv"
	"strings"

	"github.com/jsphweid/intervaldex/music"
	"golang.org/x/exp/constraints"
)

// Record is everything the index keeps about one notation file.
type Record struct {
	Name              string            `json:"name"`
	FileId            uint32            `json:"file_id"`
	IntervalsText     string            `json:"intervals_text"`
	MeasureMap        string            `json:"measure_map"`
	IntervalsAsArray  []int             `json:"intervals_as_array"`
	MeasureMapAsArray []int             `json:"measure_map_as_array"`
	MeiMetadata       map[string]string `json:"mei_metadata,omitempty"`
}

func NewRecord(name string, fileId uint32, doc *music.Document) Record {
	intervals := doc.Intervals()
	measureMap := doc.MeasureMap()
	return Record{
		Name:              name,
		FileId:            fileId,
		IntervalsText:     FormatInts(intervals),
		MeasureMap:        FormatInts(measureMap),
		IntervalsAsArray:  intervals,
		MeasureMapAsArray: measureMap,
		MeiMetadata:       doc.Metadata(),
	}
}

func (r Record) Source() PartialSource {
	return PartialSource{
		Name:          r.Name,
		IntervalsText: r.IntervalsText,
		MeasureMap:    r.MeasureMap,
	}
}

// FormatInts joins numbers with single spaces, e.g. "2 -1 0".
func FormatInts[A constraints.Integer](nums []A) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.FormatInt(int64(n), 10)
	}
	return strings.Join(parts, " ")
}

// ParseInts reads a whitespace separated list of integers. An empty string
// gives an empty list.
func ParseInts(s string) ([]int, error) {
	fields := strings.Fields(s)
	res := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}
