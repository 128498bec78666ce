package models

// StatusPredicate selects partitions by their status-code key. Predicates are
// evaluated against partition keys before any record is touched, which is
// what makes partition pruning possible: implementations must therefore be
// pure functions of the status code alone.
type StatusPredicate interface {
	Matches(statusCode int) bool
}

// StatusSet is a finite-set predicate, e.g. {404, 500}.
type StatusSet map[int]struct{}

// NewStatusSet builds a StatusSet from the given codes.
func NewStatusSet(codes ...int) StatusSet {
	set := make(StatusSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

func (s StatusSet) Matches(statusCode int) bool {
	_, ok := s[statusCode]
	return ok
}

// StatusRange is an inclusive range predicate, e.g. [500, 599] for all
// server errors.
type StatusRange struct {
	Lo int
	Hi int
}

func (r StatusRange) Matches(statusCode int) bool {
	return statusCode >= r.Lo && statusCode <= r.Hi
}
