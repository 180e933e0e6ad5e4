package effect

// Resolve picks the single authoritative entry among entries.
//
// Policy:
//   - the highest Priority always wins, whatever its Value
//   - among entries tied at the highest Priority, the lowest Value wins
//     (the most restrictive effect: slowest speed, weakest jump)
//   - remaining ties are broken by Name so the result is deterministic
//
// Returns false if entries is empty.
func Resolve(entries []Entry) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}

	best := entries[0]
	for _, e := range entries[1:] {
		if beats(e, best) {
			best = e
		}
	}
	return best, true
}

// beats reports whether a should replace b as the resolved entry.
func beats(a, b Entry) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Value != b.Value {
		return a.Value < b.Value
	}
	return a.Name < b.Name
}
