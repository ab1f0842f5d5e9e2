package stats

// transitions are the purine<->purine and pyrimidine<->pyrimidine
// substitution pairs.
var transitions = [...][2]Base{
	{BaseA, BaseG},
	{BaseG, BaseA},
	{BaseC, BaseT},
	{BaseT, BaseC},
}

// TransitionRatio computes the transition/transversion ratio from a
// finalized substitution matrix. The N row and column carry evidence
// from unrecognized bases and are excluded from both sums. A sample
// with no transversions gets a ratio of exactly 0.0 rather than an
// infinity; downstream consumers treat 0.0 as "no signal".
func TransitionRatio(m *[NumBases][NumBases]uint64) float64 {
	isTransition := func(ref, alt Base) bool {
		for _, pair := range transitions {
			if pair[0] == ref && pair[1] == alt {
				return true
			}
		}
		return false
	}

	var ti, tv uint64
	for ref := BaseA; ref <= BaseT; ref++ {
		for alt := BaseA; alt <= BaseT; alt++ {
			if isTransition(ref, alt) {
				ti += m[ref][alt]
			} else {
				tv += m[ref][alt]
			}
		}
	}

	if tv == 0 {
		return 0.0
	}
	return float64(ti) / float64(tv)
}
