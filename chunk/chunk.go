package chunk

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/intervaldex/bucket"
	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/model"
	"github.com/jsphweid/intervaldex/util"
	"github.com/pkg/errors"
)

type NgramKeyToResults = map[string][]model.RawResult

func makeChunkOverview(sortedKeys []string) model.ChunkOverview {
	var c model.ChunkOverview
	c.Filename = uuid.New().String() + ".dat"
	c.Start = sortedKeys[0]
	c.End = sortedKeys[len(sortedKeys)-1]
	return c
}

// Encode lays a chunk out as a little-endian uint32 index length, the gob
// encoded index and then the data section the index points into.
func Encode(m NgramKeyToResults, sortedKeys []string) ([]byte, error) {
	chunkIndex := make(model.ChunkIndex)
	dataBuf := new(bytes.Buffer)
	for _, key := range sortedKeys {
		var p model.Pair
		p.Start = uint32(dataBuf.Len())
		for _, rr := range m[key] {
			binary.Write(dataBuf, binary.LittleEndian, rr.Offset)
			binary.Write(dataBuf, binary.LittleEndian, rr.FileNum)
		}
		p.End = uint32(dataBuf.Len())
		chunkIndex[key] = p
	}

	indexBuf := new(bytes.Buffer)
	if err := gob.NewEncoder(indexBuf).Encode(chunkIndex); err != nil {
		return nil, errors.Wrap(err, "could not encode chunk index")
	}

	var finalBytes []byte
	finalBytes = binary.LittleEndian.AppendUint32(finalBytes, uint32(indexBuf.Len()))
	finalBytes = append(finalBytes, indexBuf.Bytes()...)
	finalBytes = append(finalBytes, dataBuf.Bytes()...)
	return finalBytes, nil
}

func makeChunk(dir string, m NgramKeyToResults, sortedKeys []string) (model.ChunkOverview, error) {
	c := makeChunkOverview(sortedKeys)
	data, err := Encode(m, sortedKeys)
	if err != nil {
		return c, err
	}
	if err := os.WriteFile(filepath.Join(dir, c.Filename), data, 0666); err != nil {
		return c, errors.Wrap(err, "write failed for chunk file")
	}
	return c, nil
}

// maybeMakeChunks writes out keys in sorted order once they add up to
// PreferredChunkSize, or all of them when force is set. Written keys are
// removed from m.
func maybeMakeChunks(dir string, m NgramKeyToResults, force bool) ([]model.ChunkOverview, error) {
	var size int
	var currKeys []string
	var createdChunks []model.ChunkOverview

	sortedKeys := util.GetSortedKeys(m)
	for i, key := range sortedKeys {
		currKeys = append(currKeys, key)
		size += len(m[key]) * constants.ChunkEntrySize
		// roughly what the key costs in the gob index
		size += len(key) + 8

		isLast := len(sortedKeys)-1 == i
		if size > constants.PreferredChunkSize || (isLast && force) {
			c, err := makeChunk(dir, m, currKeys)
			if err != nil {
				return nil, err
			}
			createdChunks = append(createdChunks, c)
			for _, k := range currKeys {
				delete(m, k)
			}
			size = 0
			currKeys = nil
		}
	}

	return createdChunks, nil
}

// CreateAll turns the bucket files of the index directory into chunks. Chunks
// are only cut on bucket boundaries, so their key ranges can overlap.
func CreateAll() ([]model.ChunkOverview, error) {
	dir := constants.GetIndexDir()
	m := make(NgramKeyToResults)
	res := []model.ChunkOverview{}

	buckets, err := bucket.Paths(dir)
	if err != nil {
		return nil, err
	}
	for i, bucketPath := range buckets {
		fmt.Printf("Processing %v of %v buckets\n", i+1, len(buckets))
		postings, err := bucket.ReadPostings(bucketPath)
		if err != nil {
			return nil, err
		}
		for _, p := range postings {
			key := bucket.NgramKey(p.Ngram)
			m[key] = append(m[key], model.RawResult{Offset: p.Offset, FileNum: p.FileNum})
		}

		isLastBucket := len(buckets)-1 == i
		chunks, err := maybeMakeChunks(dir, m, isLastBucket)
		if err != nil {
			return nil, err
		}
		res = append(res, chunks...)
	}

	return res, nil
}

// ReadIndex reads the index at the start of a chunk and returns it along with
// its encoded length. r is left at the start of the data section.
func ReadIndex(r io.Reader) (model.ChunkIndex, uint32, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, 0, errors.Wrap(err, "could not read index length")
	}
	indexLength := binary.LittleEndian.Uint32(buf)

	buf = make([]byte, indexLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, 0, errors.Wrap(err, "could not read index")
	}

	var index model.ChunkIndex
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&index); err != nil {
		return nil, 0, errors.Wrap(err, "could not decode index")
	}
	return index, indexLength, nil
}

func ReadIndexOrPanic(r io.Reader) (model.ChunkIndex, uint32) {
	index, length, err := ReadIndex(r)
	if err != nil {
		panic(err.Error())
	}
	return index, length
}

func parseResults(buf []byte) []model.RawResult {
	var res []model.RawResult
	for i := 0; i+constants.ChunkEntrySize <= len(buf); i += constants.ChunkEntrySize {
		var rr model.RawResult
		rr.Offset = binary.LittleEndian.Uint32(buf[i : i+4])
		rr.FileNum = binary.LittleEndian.Uint32(buf[i+4 : i+8])
		res = append(res, rr)
	}
	return res
}

// FindInChunk returns the postings stored under key in one chunk file.
func FindInChunk(path string, key string) ([]model.RawResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open chunk")
	}
	defer f.Close()

	index, _, err := ReadIndex(f)
	if err != nil {
		return nil, errors.Wrapf(err, "bad chunk %s", path)
	}
	val, ok := index[key]
	if !ok {
		return nil, nil
	}

	// advance from the start of the data section
	if _, err := f.Seek(int64(val.Start), io.SeekCurrent); err != nil {
		return nil, errors.Wrap(err, "could not seek in chunk")
	}
	buf := make([]byte, val.End-val.Start)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, errors.Wrap(err, "could not read from seeked position")
	}
	return parseResults(buf), nil
}
