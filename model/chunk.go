package model

import "github.com/jsphweid/intervaldex/constants"

type ChunkOverview struct {
	Start    string
	End      string
	Filename string
}

// Pair is a byte range inside the data section of a chunk.
type Pair struct {
	Start uint32
	End   uint32
}

type ChunkIndex = map[string]Pair

type Ngram = [constants.NgramSize]int8

// Posting records one occurrence of an n-gram: where it starts in the file's
// interval sequence and which file it belongs to.
type Posting struct {
	Ngram   Ngram
	Offset  uint32
	FileNum uint32
}

type RawResult struct {
	Offset  uint32
	FileNum uint32
}

type FileNumToMeiPath = map[uint32]string
type Records = map[uint32]Record
