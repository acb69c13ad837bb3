package intention

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"virtual-attendant-be/pkg/text"
)

// Catalog holds the intention table. Reads vastly outnumber writes, writes
// only happen through administrative calls.
type Catalog struct {
	mu         sync.RWMutex
	intentions map[string]Intention
}

func NewCatalog() *Catalog {
	return &Catalog{intentions: make(map[string]Intention)}
}

// NewCatalogFrom builds a catalog and rejects the whole list on the first bad entry.
func NewCatalogFrom(list []Intention) (*Catalog, error) {
	c := NewCatalog()
	for _, in := range list {
		if err := c.Add(in); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Validate checks the required fields of an intention.
func Validate(in Intention) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidIntention)
	}
	if len(nonEmpty(in.Keywords)) == 0 && len(nonEmpty(in.Phrases)) == 0 {
		return fmt.Errorf("%w: %s needs at least one keyword or phrase", ErrInvalidIntention, in.ID)
	}
	if in.Action == "" {
		return fmt.Errorf("%w: %s has no action", ErrInvalidIntention, in.ID)
	}
	if in.Priority < 0 {
		return fmt.Errorf("%w: %s has a negative priority", ErrInvalidIntention, in.ID)
	}
	return nil
}

// Add validates, normalizes and inserts in. Duplicate ids are rejected.
func (c *Catalog) Add(in Intention) error {
	if err := Validate(in); err != nil {
		return err
	}
	in = normalizeIntention(in)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.intentions[in.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateIntention, in.ID)
	}
	c.intentions[in.ID] = in
	return nil
}

// Remove deletes the intention with id.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.intentions[id]; !exists {
		return fmt.Errorf("%w: %s", ErrIntentionNotFound, id)
	}
	delete(c.intentions, id)
	return nil
}

func (c *Catalog) Get(id string) (Intention, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	in, ok := c.intentions[id]
	return in, ok
}

// All returns a snapshot ordered by id.
func (c *Catalog) All() []Intention {
	c.mu.RLock()
	out := make([]Intention, 0, len(c.intentions))
	for _, in := range c.intentions {
		out = append(out, in)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.intentions)
}

func normalizeIntention(in Intention) Intention {
	in.ID = strings.TrimSpace(in.ID)
	in.Keywords = normalizeAll(in.Keywords)
	in.Phrases = normalizeAll(in.Phrases)
	if in.Label == "" {
		in.Label = in.ID
	}
	if in.Args != nil {
		args := make(map[string]string, len(in.Args))
		for k, v := range in.Args {
			args[k] = v
		}
		in.Args = args
	}
	return in
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		n := text.Normalize(v)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
