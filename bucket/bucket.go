package bucket

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/jsphweid/intervaldex/constants"
	"github.com/jsphweid/intervaldex/logger"
	"github.com/jsphweid/intervaldex/mei"
	"github.com/jsphweid/intervaldex/model"
	"github.com/jsphweid/intervaldex/util"
	"github.com/pkg/errors"
)

var bucketFilePattern = regexp.MustCompile(`^\d\d\d\.dat$`)

// MetadataWriter receives the header metadata of every indexed file.
type MetadataWriter interface {
	PutMeiMetadata(name string, metadata map[string]string) error
}

// WritePostings appends postings to the bucket files of dir.
func WritePostings(dir string, postings []model.Posting) error {
	byBucket := make(map[string][]byte)
	for _, p := range postings {
		bytes := Serialize(p)
		name := bucketName(p.Ngram[0])
		byBucket[name] = append(byBucket[name], bytes[:]...)
	}

	for name, data := range byBucket {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0666)
		if err != nil {
			return errors.Wrap(err, "could not open bucket")
		}
		_, err = f.Write(data)
		f.Close()
		if err != nil {
			return errors.Wrap(err, "could not write postings to bucket")
		}
	}
	return nil
}

// ProcessMeiFile parses one notation file into its index record.
func ProcessMeiFile(fileNum uint32, name string) (model.Record, error) {
	path := filepath.Join(constants.GetMediaDir(), name)
	tree, err := mei.ReadFile(path)
	if err != nil {
		return model.Record{}, err
	}
	doc, err := mei.ParseDocument(tree, name)
	if err != nil {
		return model.Record{}, err
	}
	return model.NewRecord(name, fileNum, doc), nil
}

// ProcessAllMeiFiles parses every file, writes the n-gram postings of each into
// the bucket files of the index directory and returns the records of the files
// that could be parsed. Files that fail are logged and skipped. store may be nil.
func ProcessAllMeiFiles(m model.FileNumToMeiPath, store MetadataWriter) (model.Records, error) {
	dir := constants.GetIndexDir()
	records := make(model.Records)

	keys := util.GetSortedKeys(m)
	for i, num := range keys {
		name := m[num]
		fmt.Printf("Processing %v of %v mei files\n", i+1, len(keys))

		record, err := ProcessMeiFile(num, name)
		if err != nil {
			logger.Warn("Skipping file", logger.Fields{"file": name, "reason": err.Error()})
			continue
		}
		records[num] = record

		if err := WritePostings(dir, Postings(num, record.IntervalsAsArray)); err != nil {
			return nil, err
		}

		if store != nil && len(record.MeiMetadata) > 0 {
			if err := store.PutMeiMetadata(name, record.MeiMetadata); err != nil {
				logger.Error("Could not store metadata", err, logger.Fields{"file": name})
			}
		}
	}

	return records, nil
}

// Paths lists the bucket files of dir in order.
func Paths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "could not read index dir")
	}

	var res []string
	for _, entry := range entries {
		if bucketFilePattern.MatchString(entry.Name()) {
			res = append(res, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(res)
	return res, nil
}

func DeleteAll() error {
	paths, err := Paths(constants.GetIndexDir())
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			return errors.Wrap(err, "could not delete bucket")
		}
	}
	return nil
}

func ReadPostings(path string) ([]model.Posting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open bucket")
	}
	defer f.Close()

	var res []model.Posting
	reader := bufio.NewReader(f)
	buf := make([]byte, constants.PostingSize)
	for {
		_, err := io.ReadFull(reader, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "could not read posting from %s", path)
		}
		res = append(res, Deserialize(buf))
	}
	return res, nil
}
