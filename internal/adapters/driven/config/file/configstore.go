package file

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
)

// HomeEnv overrides the application home directory.
const HomeEnv = "OVERLAP_HOME"

// ConfigFile is the configuration file name inside the home directory.
const ConfigFile = "config.toml"

var _ driven.ConfigStore = (*ConfigStore)(nil)

// errNotTable is returned when a dotted key walks through a plain value.
var errNotTable = errors.New("not a table")

// ConfigStore keeps config.toml as a tree of TOML tables. Dotted keys such
// as "check.top_k" address leaves in that tree.
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	tree map[string]any
}

// HomeDir returns the application home directory: $OVERLAP_HOME if set,
// otherwise ~/.overlap.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving user home: %w", err)
	}
	return filepath.Join(home, ".overlap"), nil
}

// NewConfigStore opens config.toml in dir, or in HomeDir when dir is empty.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := HomeDir()
		if err != nil {
			return nil, err
		}
		dir = home
	}
	return NewConfigStoreAt(filepath.Join(dir, ConfigFile))
}

// NewConfigStoreAt opens the configuration file at path. A missing file is
// an empty configuration; the parent directory is created.
func NewConfigStoreAt(path string) (*ConfigStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	s := &ConfigStore{path: path, tree: map[string]any{}}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the leaf value at key. Tables are not values.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.tree, key)
}

// GetString returns the string at key, or "".
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt returns the number at key truncated to int, or 0.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	n, _ := number(v)
	return int(n)
}

// GetFloat returns the number at key, or 0.
func (s *ConfigStore) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	n, _ := number(v)
	return n
}

// GetBool returns the boolean at key, or false.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// Set writes value at key and saves the file. The in-memory tree only
// changes when the write succeeds.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneTree(s.tree)
	if err := assign(next, key, value); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.tree = next
	return nil
}

// Keys returns the dotted keys of all leaves in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	walkLeaves(s.tree, "", func(key string, _ any) {
		keys = append(keys, key)
	})
	slices.Sort(keys)
	return keys
}

// Save writes the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.write(s.tree)
}

// Load replaces the in-memory configuration with the file contents.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.tree = map[string]any{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}

	tree := map[string]any{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// write marshals tree and replaces the file through a temp file in the same
// directory. The file may hold an API key, so it is created 0600.
func (s *ConfigStore) write(tree map[string]any) error {
	data, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// lookup walks a dotted key through nested tables.
func lookup(tree map[string]any, key string) (any, bool) {
	node := tree
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	v, ok := node[parts[len(parts)-1]]
	if _, isTable := v.(map[string]any); isTable {
		return nil, false
	}
	return v, ok
}

// assign sets a dotted key, creating intermediate tables. A key may not
// pass through a value or replace a table.
func assign(tree map[string]any, key string, value any) error {
	node := tree
	parts := strings.Split(key, ".")
	for i, part := range parts[:len(parts)-1] {
		child, exists := node[part]
		if !exists {
			table := map[string]any{}
			node[part] = table
			node = table
			continue
		}
		table, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %q: %q is %w", key, strings.Join(parts[:i+1], "."), errNotTable)
		}
		node = table
	}

	last := parts[len(parts)-1]
	if _, isTable := node[last].(map[string]any); isTable {
		return fmt.Errorf("config key %q names a table", key)
	}
	node[last] = value
	return nil
}

func walkLeaves(tree map[string]any, prefix string, fn func(key string, value any)) {
	for name, v := range tree {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if table, ok := v.(map[string]any); ok {
			walkLeaves(table, key, fn)
			continue
		}
		fn(key, v)
	}
}

// cloneTree copies the table structure; leaf values are shared.
func cloneTree(tree map[string]any) map[string]any {
	out := maps.Clone(tree)
	for k, v := range out {
		if table, ok := v.(map[string]any); ok {
			out[k] = cloneTree(table)
		}
	}
	return out
}

// number converts the numeric types TOML decoding and callers produce.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
