package measure

// Hahn holds a Hahn decomposition of the space: a positive set on which
// every subset has nonnegative measure and its complementary negative set.
type Hahn struct {
	Positive []string
	Negative []string
}

// HahnDecomposition splits the space by the sign of the point masses.
// Points of mass zero land in the positive set, so the two sets partition
// the space. On a finite space this is the Hahn decomposition: a subset of
// the positive set is a sum of nonnegative masses.
func HahnDecomposition(s *Signed) Hahn {
	var h Hahn
	for _, p := range s.Points() {
		if s.Mass(p) >= 0 {
			h.Positive = append(h.Positive, p)
		} else {
			h.Negative = append(h.Negative, p)
		}
	}
	return h
}

// Jordan holds the Jordan decomposition of a signed measure: two
// nonnegative, mutually singular parts with s = Pos - Neg.
type Jordan struct {
	Pos *Signed
	Neg *Signed
}

// JordanDecomposition computes the Jordan decomposition from the Hahn
// split: the positive part carries the mass on the positive set, the
// negative part the negated mass on the negative set. Both parts live on
// the full space, vanishing off their half, which is what mutual
// singularity means here.
func JordanDecomposition(s *Signed) Jordan {
	pos := make(map[string]float64, len(s.mass))
	neg := make(map[string]float64, len(s.mass))
	for _, p := range s.Points() {
		m := s.Mass(p)
		if m >= 0 {
			pos[p] = m
			neg[p] = 0
		} else {
			pos[p] = 0
			neg[p] = -m
		}
	}
	return Jordan{Pos: &Signed{mass: pos}, Neg: &Signed{mass: neg}}
}

// MutuallySingular reports whether the two parts live on disjoint sets of
// points: no point carries positive mass under both.
func (j Jordan) MutuallySingular() bool {
	for p, m := range j.Pos.mass {
		if m > 0 && j.Neg.mass[p] > 0 {
			return false
		}
	}
	return true
}

// TotalVariation returns |s| = Pos + Neg of the Jordan decomposition.
func TotalVariation(s *Signed) *Signed {
	j := JordanDecomposition(s)
	return j.Pos.Add(j.Neg)
}
