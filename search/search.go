package search

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/jsphweid/intervaldex/bucket"
	"github.com/jsphweid/intervaldex/chunk"
	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/highlight"
	"github.com/jsphweid/intervaldex/model"
	"github.com/jsphweid/intervaldex/util"
	"github.com/pkg/errors"
)

var ErrQueryTooShort = errors.Errorf("a query needs at least %d intervals", constants.NgramSize)

// Index answers interval queries from the chunk files of one index directory.
// It is read-only after loading and safe for concurrent use.
type Index struct {
	dir     string
	chunks  []model.ChunkOverview
	records model.Records
	byName  map[string]uint32
}

func New(dir string, chunks []model.ChunkOverview, records model.Records) *Index {
	byName := make(map[string]uint32, len(records))
	for num, r := range records {
		byName[r.Name] = num
	}
	return &Index{dir: dir, chunks: chunks, records: records, byName: byName}
}

// Load reads the chunk overview and records written by indexing.
func Load(dir string) (*Index, error) {
	chunks, err := util.ReadBinary[[]model.ChunkOverview](filepath.Join(dir, constants.AllChunksFile))
	if err != nil {
		return nil, err
	}
	records, err := util.ReadBinary[model.Records](filepath.Join(dir, constants.RecordsFile))
	if err != nil {
		return nil, err
	}
	return New(dir, chunks, records), nil
}

func (ix *Index) NumFiles() int {
	return len(ix.records)
}

func (ix *Index) Record(fileNum uint32) (model.Record, bool) {
	r, ok := ix.records[fileNum]
	return r, ok
}

func (ix *Index) RecordByName(name string) (model.Record, bool) {
	num, ok := ix.byName[name]
	if !ok {
		return model.Record{}, false
	}
	return ix.Record(num)
}

// candidates looks the first n-gram of the query up in every chunk whose key
// range holds it.
func (ix *Index) candidates(key string) ([]model.RawResult, error) {
	var res []model.RawResult
	for _, c := range ix.chunks {
		if key < c.Start || key > c.End {
			continue
		}
		found, err := chunk.FindInChunk(filepath.Join(ix.dir, c.Filename), key)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		res = append(res, found...)
	}
	return res, nil
}

func matchesAt(intervals []int, offset int, query []int) bool {
	if offset+len(query) > len(intervals) {
		return false
	}
	for i, v := range query {
		if intervals[offset+i] != v {
			return false
		}
	}
	return true
}

// Search finds every place the query occurs. Results are ordered by file
// number and carry an emphasized rendering of the file's intervals that
// highlight.ExtractPatterns understands.
func (ix *Index) Search(query []int) (model.SearchResponse, error) {
	res := model.SearchResponse{Query: query, Results: []model.SearchResult{}}
	if len(query) < constants.NgramSize {
		return res, ErrQueryTooShort
	}

	ngram, ok := bucket.ToNgram(query[:constants.NgramSize])
	if !ok {
		return res, nil
	}
	candidates, err := ix.candidates(bucket.NgramKey(ngram))
	if err != nil {
		return res, err
	}

	offsets := make(map[uint32][]uint32)
	for _, c := range candidates {
		r, ok := ix.records[c.FileNum]
		if !ok || !matchesAt(r.IntervalsAsArray, int(c.Offset), query) {
			continue
		}
		offsets[c.FileNum] = append(offsets[c.FileNum], c.Offset)
	}

	for _, num := range util.GetSortedKeys(offsets) {
		r := ix.records[num]
		found := offsets[num]
		sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })

		positions := make([]int, len(found))
		for i, o := range found {
			positions[i] = int(o)
		}

		res.Results = append(res.Results, model.SearchResult{
			FileId:      num,
			Name:        r.Name,
			Offsets:     found,
			Highlight:   highlight.Emphasize(r.IntervalsAsArray, positions, len(query)),
			Source:      r.Source(),
			MeiMetadata: r.MeiMetadata,
		})
		res.NumMatches += len(found)
	}
	res.NumFiles = len(res.Results)
	return res, nil
}
