// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package inputs finds candidate delimited-text files on disk for the
// batch commands. It judges files by name only; the tolerant parser
// decides later what the contents actually are.
package inputs

import (
	"log"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/spf13/afero"
)

var (
	// delimited files are expected to end in .csv, .tsv, or .txt.
	rxDelimitedFile = regexp.MustCompile(`(?i)^(.+)\.(csv|tsv|txt)$`)
)

// InputFile_t represents one candidate input file.
type InputFile_t struct {
	Id        string // base name without the extension
	Path      string // full path to the file
	Name      string // base name with the extension
	Size      int64  // size in bytes
	Delimiter byte   // inferred from the extension: tab for .tsv, comma otherwise
}

// CollectInputs scans path for delimited files, returning them sorted by
// name. Files whose names do not match the expected extensions are
// skipped (logged when debug is set).
func CollectInputs(fs afero.Fs, path string, quiet, verbose, debug bool) ([]*InputFile_t, error) {
	entries, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, err
	}

	var found []*InputFile_t
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		in := CollectInput(path, entry.Name(), entry.Size(), debug)
		if in == nil {
			continue
		}
		found = append(found, in)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})

	if verbose {
		log.Printf("inputs: found %d delimited files in %s\n", len(found), path)
	}
	return found, nil
}

// CollectInput returns an *InputFile_t if it thinks the file is a
// delimited text file, nil otherwise.
func CollectInput(path, fileName string, size int64, debug bool) *InputFile_t {
	matches := rxDelimitedFile.FindStringSubmatch(fileName)
	// length of matches is 3 because it includes the whole string in the slice
	if len(matches) != 3 {
		if debug {
			log.Printf("inputs: input %q: does not match NAME.(csv|tsv|txt)", fileName)
		}
		return nil
	}

	in := &InputFile_t{
		Id:   matches[1],
		Path: filepath.Join(path, fileName),
		Name: fileName,
		Size: size,
	}
	switch filepath.Ext(fileName) {
	case ".tsv", ".TSV":
		in.Delimiter = '\t'
	default:
		in.Delimiter = ','
	}
	return in
}
