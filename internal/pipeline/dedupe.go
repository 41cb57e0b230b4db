package pipeline

import "github.com/amishk599/internscout/internal/model"

// IDSet is a set of opportunity ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids []string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Dedupe returns the candidates whose id is not in alreadySent, in order.
// It never returns nil.
func Dedupe(candidates []model.Opportunity, alreadySent IDSet) []model.Opportunity {
	out := make([]model.Opportunity, 0, len(candidates))
	for _, c := range candidates {
		if !alreadySent.Has(c.ID) {
			out = append(out, c)
		}
	}
	return out
}
