package persona

import "strings"

// Sanitize enforces the persona-set invariant on parser candidates: drop
// records with missing fields, deduplicate by case-insensitive name keeping
// the first occurrence, truncate past count, and pad any shortfall from the
// deterministic fallback catalog. The result always has exactly count valid,
// pairwise-name-distinct members; this function never fails. count is
// clamped to the supported range.
//
// Sanitizing an already-conforming set of the right size returns it
// unchanged (modulo whitespace trimming).
func Sanitize(candidates []Persona, count int) PersonaSet {
	count = clampCount(count)

	out := make(PersonaSet, 0, count)
	taken := make(map[string]bool, count)

	for _, c := range candidates {
		if len(out) == count {
			break
		}
		p := c.trim()
		if p.validate() != nil {
			continue
		}
		key := strings.ToLower(p.Name)
		if taken[key] {
			continue
		}
		taken[key] = true
		out = append(out, p)
	}

	// Pad the shortfall. Fallback names can collide with genuine candidates,
	// so suffix until the name is free.
	for i := 0; len(out) < count; i++ {
		p := fallbackCatalog[i%len(fallbackCatalog)]
		base := p.Name
		cycle := i / len(fallbackCatalog)
		p.Name = base + suffixFor(cycle)
		for taken[strings.ToLower(p.Name)] {
			cycle++
			p.Name = base + suffixFor(cycle)
		}
		taken[strings.ToLower(p.Name)] = true
		out = append(out, p)
	}

	return out
}
