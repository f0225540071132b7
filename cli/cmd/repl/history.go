package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// Each line of the history file starts with the prefix of its mode.
const (
	evalPrefix = "E:"
	ctrlPrefix = "C:"
)

func (m inputMode) prefix() string {
	if m == modeCtrl {
		return ctrlPrefix
	}

	return evalPrefix
}

// parseHistoryLine splits a line of the history file into its entry. Lines
// without a mode prefix are eval input.
func parseHistoryLine(line string) HistoryEntry {
	if s, ok := strings.CutPrefix(line, ctrlPrefix); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, evalPrefix)

	return HistoryEntry{Line: s, Mode: modeEval}
}

// HistoryEntry is one submitted line and the mode it was submitted in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History is the list of submitted lines, oldest first, persisted to a file.
// A line submitted again in the same mode moves to the end.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory returns an empty History persisted to path. An empty path keeps
// history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those of the history file. A missing file
// is not an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, parseHistoryLine(line))
		}
	}

	return scanner.Err()
}

// Add appends line in the given mode and records it in the history file.
// It returns the number of bytes written to the file.
func (h *History) Add(line string, mode inputMode) (int, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{Line: line, Mode: mode}

	i := slices.Index(h.entries, entry)
	if i == len(h.entries)-1 && i >= 0 {
		return 0, nil
	}

	h.entries = append(h.entries, entry)

	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)

		return h.save(os.O_TRUNC, h.entries...)
	}

	return h.save(os.O_APPEND, entry)
}

// save writes entries to the history file opened with the given mode flag.
// Must be called with h.mu held.
func (h *History) save(flag int, entries ...HistoryEntry) (int, error) {
	if h.path == "" {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return 0, err
	}

	file, err := os.OpenFile(h.path, flag|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}

	w := bufio.NewWriter(file)

	total := 0

	for _, e := range entries {
		n, _ := w.WriteString(e.Mode.prefix() + e.Line + "\n")
		total += n
	}

	return total, errors.Join(w.Flush(), file.Close())
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Seek returns the nearest entry in the given mode found by moving step
// entries at a time from index from, which is excluded.
func (h *History) Seek(from, step int, mode inputMode) (int, HistoryEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := from + step; i >= 0 && i < len(h.entries); i += step {
		if h.entries[i].Mode == mode {
			return i, h.entries[i], true
		}
	}

	return 0, HistoryEntry{}, false
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}
