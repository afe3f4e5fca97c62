package file

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/intervaldex/model"
	"github.com/pkg/errors"
)

var ErrOutsideMediaDir = errors.New("path leaves the media directory")

func CreateFileNumMap(paths []string) model.FileNumToMeiPath {
	res := make(model.FileNumToMeiPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

// SourcePath resolves a stored file name against the media directory.
func SourcePath(mediaDir string, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", errors.Wrapf(ErrOutsideMediaDir, "%q", name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrOutsideMediaDir, "%q", name)
	}
	return filepath.Join(mediaDir, clean), nil
}

// ReadSource loads a notation file by its stored name.
func ReadSource(mediaDir string, name string) ([]byte, error) {
	path, err := SourcePath(mediaDir, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read source %s", name)
	}
	return data, nil
}
