package measure

import "sort"

// LimSup and LimInf compute the limit superior and inferior of an infinite
// set sequence given by one period: the input is repeated forever. A point
// is in the limsup iff it occurs in infinitely many sets, which under
// repetition means it occurs somewhere in the period; it is in the liminf
// iff it misses only finitely many sets, which means it occurs in every set
// of the period. LimInf is therefore always contained in LimSup.

// LimSup returns the union of the period's sets, sorted.
func LimSup(sets [][]string) []string {
	if len(sets) == 0 {
		return nil
	}
	out := map[string]struct{}{}
	for _, set := range sets {
		for _, p := range set {
			out[p] = struct{}{}
		}
	}
	return sorted(out)
}

// LimInf returns the intersection of the period's sets, sorted.
func LimInf(sets [][]string) []string {
	if len(sets) == 0 {
		return nil
	}
	out := toSet(sets[0])
	for _, set := range sets[1:] {
		out = intersect(out, toSet(set))
	}
	return sorted(out)
}

func toSet(set []string) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for _, p := range set {
		out[p] = struct{}{}
	}
	return out
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for p := range a {
		if _, ok := b[p]; ok {
			out[p] = struct{}{}
		}
	}
	return out
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
