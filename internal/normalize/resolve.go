package normalize

import (
	"github.com/sells-group/factsync/internal/model"
)

// Resolve picks the fact for the first synonym, in priority order, that has
// any fact at all. Among that synonym's facts the latest period end wins,
// then the latest filing date, then the first seen.
func Resolve(facts []model.RawFact, synonyms []string) (model.RawFact, bool) {
	for _, syn := range synonyms {
		var best model.RawFact
		found := false
		for _, f := range facts {
			if f.Concept != syn {
				continue
			}
			if !found || later(f, best) {
				best = f
				found = true
			}
		}
		if found {
			return best, true
		}
	}
	return model.RawFact{}, false
}

func later(a, b model.RawFact) bool {
	if !a.PeriodEnd.Equal(b.PeriodEnd) {
		return a.PeriodEnd.After(b.PeriodEnd)
	}
	return a.Filed.After(b.Filed)
}
