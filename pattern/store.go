package pattern

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/constraints"

	"go-comping/comping"
)

// Store persists named custom playback patterns as one JSON file.
type Store struct {
	mu       sync.Mutex
	path     string
	patterns map[string]*comping.CustomPattern
}

// DefaultPath returns ~/.config/go-comping/patterns.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-comping", "patterns.json"), nil
}

// Open loads the store at path, creating an empty one seeded with the
// built-in patterns when the file does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path:     path,
		patterns: make(map[string]*comping.CustomPattern),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			for _, p := range Seed() {
				s.patterns[p.ID] = p
			}
			return s, nil
		}
		return nil, err
	}

	var list []*comping.CustomPattern
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, p := range list {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		s.patterns[p.ID] = p
	}
	return s, nil
}

// List returns all patterns sorted by name, then id for stability.
func (s *Store) List() []*comping.CustomPattern {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*comping.CustomPattern, 0, len(s.patterns))
	for _, id := range sortedKeys(s.patterns) {
		out = append(out, s.patterns[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the pattern with the given id, or nil.
func (s *Store) Get(id string) *comping.CustomPattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patterns[id]
}

// Save adds or updates a pattern, assigning a fresh id when blank, and
// writes the store to disk.
func (s *Store) Save(p *comping.CustomPattern) error {
	s.mu.Lock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.patterns[p.ID] = p
	s.mu.Unlock()
	return s.flush()
}

// Delete removes a pattern by id and writes the store to disk. Deleting
// an unknown id is a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.patterns[id]
	delete(s.patterns, id)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.flush()
}

func (s *Store) flush() error {
	s.mu.Lock()
	list := make([]*comping.CustomPattern, 0, len(s.patterns))
	for _, id := range sortedKeys(s.patterns) {
		list = append(list, s.patterns[id])
	}
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Seed returns the built-in starter patterns: a push comp (root held,
// chord answering on the off-beats) and a root-fifth alternation.
func Seed() []*comping.CustomPattern {
	push := comping.NewCustomPattern("Push", 4, 8)
	push.ID = uuid.New().String()
	push.Grid[0][0] = true
	for _, col := range []int{2, 6} {
		push.Grid[1][col] = true
		push.Grid[2][col] = true
		push.Grid[3][col] = true
	}

	pump := comping.NewCustomPattern("Root-Five Pump", 4, 8)
	pump.ID = uuid.New().String()
	pump.Grid[0][0] = true
	pump.Grid[2][4] = true

	return []*comping.CustomPattern{push, pump}
}

func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
