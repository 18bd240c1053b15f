package modules

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrModuleFileNotFound is returned when a module list file does not exist.
var ErrModuleFileNotFound = errors.New("module file not found")

// LoadModuleFile reads module ids from a file. Ids are separated by commas,
// whitespace or newlines; everything after '#' on a line is a comment.
func LoadModuleFile(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrModuleFileNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open module file: %w", err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\r'
		}) {
			ids = append(ids, tok)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read module file: %w", err)
	}
	return ids, nil
}
