package bucket

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/model"
)

func Serialize(p model.Posting) [constants.PostingSize]byte {
	var buf [constants.PostingSize]byte
	for i, v := range p.Ngram {
		buf[i] = byte(v)
	}
	binary.LittleEndian.PutUint32(buf[constants.NgramSize:], p.Offset)
	binary.LittleEndian.PutUint32(buf[constants.NgramSize+4:], p.FileNum)
	return buf
}

func Deserialize(buf []byte) model.Posting {
	var p model.Posting
	for i := range p.Ngram {
		p.Ngram[i] = int8(buf[i])
	}
	p.Offset = binary.LittleEndian.Uint32(buf[constants.NgramSize:])
	p.FileNum = binary.LittleEndian.Uint32(buf[constants.NgramSize+4:])
	return p
}

// NgramKey is the text form an n-gram is stored under in chunk indexes.
func NgramKey(n model.Ngram) string {
	return model.FormatInts(n[:])
}

// ToNgram converts intervals to an n-gram. It fails when there are not exactly
// NgramSize intervals or one of them does not fit in an int8.
func ToNgram(intervals []int) (model.Ngram, bool) {
	var n model.Ngram
	if len(intervals) != constants.NgramSize {
		return n, false
	}
	for i, v := range intervals {
		if v < -math.MaxInt8 || v > math.MaxInt8 {
			return n, false
		}
		n[i] = int8(v)
	}
	return n, true
}

// Postings lists every n-gram of a file's interval sequence.
func Postings(fileNum uint32, intervals []int) []model.Posting {
	var res []model.Posting
	for i := 0; i+constants.NgramSize <= len(intervals); i++ {
		n, ok := ToNgram(intervals[i : i+constants.NgramSize])
		if !ok {
			continue
		}
		res = append(res, model.Posting{Ngram: n, Offset: uint32(i), FileNum: fileNum})
	}
	return res
}

// bucketName groups postings by their first interval.
func bucketName(first int8) string {
	return fmt.Sprintf("%03d.dat", int(first)+128)
}
