// Package dataset turns files, directories and raw text into engine documents.
package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/limaJavier/cttfeatures/pkg/model"
	"github.com/samber/lo"
)

const Extension = ".ctt"

// InstanceName derives an instance name from a file path: its base name
// without the .ctt extension.
func InstanceName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Extension)
}

type failingReader struct {
	err error
}

func (reader failingReader) Read([]byte) (int, error) {
	return 0, reader.err
}

// FromFile loads a file into a document. A file that cannot be read still
// yields a document whose reader reports the failure, so the engine records
// it as unreadable input instead of aborting the batch.
func FromFile(path string) model.Document {
	content, err := os.ReadFile(path)
	if err != nil {
		return model.Document{Name: InstanceName(path), Reader: failingReader{err: err}}
	}
	return model.Document{Name: InstanceName(path), Reader: bytes.NewReader(content)}
}

func FromFiles(paths []string) []model.Document {
	return lo.Map(paths, func(path string, _ int) model.Document { return FromFile(path) })
}

// FromDir loads every .ctt file of dir, sorted by file name.
func FromDir(dir string) ([]model.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read dataset directory: %w", err)
	}

	paths := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		return filepath.Join(dir, entry.Name()), !entry.IsDir() && strings.HasSuffix(entry.Name(), Extension)
	})
	slices.Sort(paths)
	return FromFiles(paths), nil
}

func FromText(name, text string) model.Document {
	return model.Document{Name: name, Reader: strings.NewReader(text)}
}
