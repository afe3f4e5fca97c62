package util

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/intervaldex/constants"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func RecreateOutputDir() {
	dir := constants.GetIndexDir()
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0777); err != nil {
		panic("Could not RecreateOutputDir: " + err.Error())
	}
}

func GetIndexPath(filename string) string {
	return filepath.Join(constants.GetIndexDir(), filename)
}

func GetAllChunksPath() string {
	return GetIndexPath(constants.AllChunksFile)
}

func GetFileNumToNamePath() string {
	return GetIndexPath(constants.FileNumToNameFile)
}

func GetRecordsPath() string {
	return GetIndexPath(constants.RecordsFile)
}

// GatherAllMeiPaths returns the .mei files under root, relative to root, in
// lexical order. A maxNum of 0 means no limit.
func GatherAllMeiPaths(root string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(s), ".mei") {
			return nil
		}
		if maxNum != 0 && len(res) >= maxNum {
			return filepath.SkipAll
		}
		rel, err := filepath.Rel(root, s)
		if err != nil {
			return err
		}
		res = append(res, rel)
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, errors.Wrapf(err, "error walking %s", root)
	}
	return res, nil
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func GetSortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func CreateBinary(filename string, data any) error {
	fmt.Printf("Creating binary for filename: %v\n", filename)
	buf := new(bytes.Buffer)
	encoder := gob.NewEncoder(buf)
	if err := encoder.Encode(data); err != nil {
		return errors.Wrapf(err, "could not encode %s", filename)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0666); err != nil {
		return errors.Wrapf(err, "could not write %s", filename)
	}
	return nil
}

func OpenFileOrPanic(path string) *os.File {
	f, err := os.Open(path)
	if err != nil {
		panic("Couldn't read file: " + err.Error())
	}
	return f
}

func ReadBinary[A any](path string) (A, error) {
	var data A
	f, err := os.Open(path)
	if err != nil {
		return data, errors.Wrap(err, "could not load binary file")
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return data, errors.Wrapf(err, "could not decode binary file %s", path)
	}
	return data, nil
}

func ReadBinaryOrPanic[A any](path string) A {
	data, err := ReadBinary[A](path)
	if err != nil {
		panic(err.Error())
	}
	return data
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}
