// Package categories provides the ordered category table used by the
// expense breakdown.
package categories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"financecontroller/internal/core"
)

var defaults = []core.CategoryDescriptor{
	{Key: "purchases", Name: "Compras", Color: "#5636D3"},
	{Key: "food", Name: "Alimentação", Color: "#FF872C"},
	{Key: "salary", Name: "Salário", Color: "#12A454"},
	{Key: "car", Name: "Carro", Color: "#E83F5B"},
	{Key: "leisure", Name: "Lazer", Color: "#26195C"},
	{Key: "studies", Name: "Estudos", Color: "#9C001A"},
}

// Table is an ordered, key-unique list of categories.
type Table struct {
	items []core.CategoryDescriptor
	index map[string]int
}

// Default returns the built-in table.
func Default() *Table {
	t, _ := New(defaults)
	return t
}

// New validates and indexes items. Later duplicates of a key are dropped so
// the first occurrence keeps its position.
func New(items []core.CategoryDescriptor) (*Table, error) {
	t := &Table{index: make(map[string]int, len(items))}
	for i, c := range items {
		c.Key = strings.TrimSpace(c.Key)
		c.Name = strings.TrimSpace(c.Name)
		if c.Key == "" {
			return nil, fmt.Errorf("category %d: %w", i, core.ErrEmptyCategory)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("category %q: %w", c.Key, core.ErrEmptyName)
		}
		if _, dup := t.index[c.Key]; dup {
			continue
		}
		t.index[c.Key] = len(t.items)
		t.items = append(t.items, c)
	}
	if len(t.items) == 0 {
		return nil, fmt.Errorf("category table is empty")
	}
	return t, nil
}

// LoadFile reads a JSON array of {key, name, color} objects.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories %s: %w", path, err)
	}
	var items []core.CategoryDescriptor
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode categories %s: %w", path, err)
	}
	return New(items)
}

// Load returns the table from path, or the built-in one when path is empty.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// All returns a copy of the table in order.
func (t *Table) All() []core.CategoryDescriptor {
	out := make([]core.CategoryDescriptor, len(t.items))
	copy(out, t.items)
	return out
}

// Lookup finds a category by key.
func (t *Table) Lookup(key string) (core.CategoryDescriptor, bool) {
	i, ok := t.index[key]
	if !ok {
		return core.CategoryDescriptor{}, false
	}
	return t.items[i], true
}

func (t *Table) Contains(key string) bool {
	_, ok := t.index[key]
	return ok
}

func (t *Table) Len() int { return len(t.items) }
