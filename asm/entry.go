package asm

import (
	"bufio"
	"io"
	"strings"
)

// EntrySet is the set of labels that are program entry points.
type EntrySet map[string]struct{}

// NewEntrySet returns a set of the given labels.
func NewEntrySet(names ...string) EntrySet {
	set := make(EntrySet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether a label is an entry point. A nil set has none.
func (set EntrySet) Has(name string) bool {
	_, ok := set[name]
	return ok
}

// ReadEntryPoints reads one label name per line. Blank lines are ignored.
func ReadEntryPoints(input io.Reader) (set EntrySet, err error) {
	set = EntrySet{}

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if len(name) == 0 {
			continue
		}
		set[name] = struct{}{}
	}
	err = scanner.Err()
	return
}
