package scan

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qgrepcode/qgrepcode"
	"github.com/qgrepcode/qgrepcode/logging"
)

// IgnoreFileName is looked up in the ignore directory by LoadIgnoreFiles.
const IgnoreFileName = ".qgrepcodeignore"

// IgnoreList holds the records a run drops. Keys are a file path, which
// drops every record of that file, or path:line.
type IgnoreList map[string]struct{}

var separatorReplacer = strings.NewReplacer("\\", "/")

// LoadIgnoreFile loads an ignore file. The file format supports:
// - Comments starting with #
// - Blank lines (ignored)
// - Whole files: path
// - Single lines: path:line
// Backslashes in paths are read as forward slashes.
func LoadIgnoreFile(path string) (IgnoreList, error) {
	ignore := make(IgnoreList)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip blank lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := separatorReplacer.Replace(line)
		if i := strings.LastIndexByte(entry, ':'); i > 1 {
			if n, err := strconv.Atoi(entry[i+1:]); err == nil && n < 1 {
				logging.Warn().Str("entry", line).Msg("invalid ignore file entry")
				continue
			}
		}
		ignore[entry] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ignore, nil
}

// LoadIgnoreFiles loads ignorePath when it is a file, or the IgnoreFileName
// file inside it when it is a directory. Missing files give an empty list.
func LoadIgnoreFiles(ignorePath string) IgnoreList {
	path := ignorePath
	if info, err := os.Stat(ignorePath); err == nil && info.IsDir() {
		path = filepath.Join(ignorePath, IgnoreFileName)
	}
	if _, err := os.Stat(path); err != nil {
		return IgnoreList{}
	}

	logging.Debug().Str("path", path).Msg("loading ignore file")
	ignore, err := LoadIgnoreFile(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("failed to load ignore file")
		return IgnoreList{}
	}
	return ignore
}

// Match reports whether rec is ignored.
func (l IgnoreList) Match(rec qgrepcode.MatchRecord) bool {
	if len(l) == 0 {
		return false
	}
	path := separatorReplacer.Replace(rec.FilePath)
	if _, ok := l[path]; ok {
		return true
	}
	_, ok := l[path+":"+strconv.Itoa(rec.LineNumber)]
	return ok
}
