package effect

import "sort"

// Partition holds the entries of one channel for one entity, keyed by name.
// A second Set with the same name overwrites the previous entry.
//
// Not thread-safe: callers guard a Partition with the owning entity's lock.
type Partition struct {
	entries map[string]Entry
}

// NewPartition creates an empty Partition.
func NewPartition() *Partition {
	return &Partition{entries: make(map[string]Entry, 4)}
}

// Set inserts or overwrites the entry under e.Name.
// Returns true if an entry with that name already existed.
func (p *Partition) Set(e Entry) bool {
	_, existed := p.entries[e.Name]
	p.entries[e.Name] = e
	return existed
}

// Get returns the entry stored under name.
func (p *Partition) Get(name string) (Entry, bool) {
	e, ok := p.entries[name]
	return e, ok
}

// Has reports whether an entry named name is present.
func (p *Partition) Has(name string) bool {
	_, ok := p.entries[name]
	return ok
}

// Delete removes the entry under name.
// Returns false if nothing was stored (no-op).
func (p *Partition) Delete(name string) bool {
	if _, ok := p.entries[name]; !ok {
		return false
	}
	delete(p.entries, name)
	return true
}

// Len returns the number of entries.
func (p *Partition) Len() int {
	return len(p.entries)
}

// Empty reports whether the partition holds no entries.
func (p *Partition) Empty() bool {
	return len(p.entries) == 0
}

// Names returns entry names in sorted order.
func (p *Partition) Names() []string {
	names := make([]string, 0, len(p.entries))
	for name := range p.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns a copy of all entries, sorted by name.
func (p *Partition) Entries() []Entry {
	result := make([]Entry, 0, len(p.entries))
	for _, name := range p.Names() {
		result = append(result, p.entries[name])
	}
	return result
}

// Resolve returns the winning entry of the partition.
// See Resolve for the policy.
func (p *Partition) Resolve() (Entry, bool) {
	return Resolve(p.Entries())
}

// ResolveOr returns the winning value, or fallback if the partition is empty.
func (p *Partition) ResolveOr(fallback float64) float64 {
	if w, ok := p.Resolve(); ok {
		return w.Value
	}
	return fallback
}
