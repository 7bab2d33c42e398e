package table

// Predicate selects records.
type Predicate func(Record) bool

// Equals matches records whose named cell renders as value. NA never matches.
func Equals(name, value string) Predicate {
	return func(r Record) bool {
		s, ok := r.String(name)
		return ok && s == value
	}
}

// In matches records whose named cell renders as any of values.
func In(name string, values ...string) Predicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return func(r Record) bool {
		s, ok := r.String(name)
		if !ok {
			return false
		}
		_, exists := set[s]
		return exists
	}
}

// Between matches numeric cells within [lo, hi].
func Between(name string, lo, hi float64) Predicate {
	return func(r Record) bool {
		f, ok := r.Float(name)
		return ok && f >= lo && f <= hi
	}
}

// KeyIn matches records whose key is one of keys.
func KeyIn(keys ...string) Predicate {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	return func(r Record) bool {
		_, exists := set[r.Key()]
		return exists
	}
}

func Not(p Predicate) Predicate {
	return func(r Record) bool {
		return !p(r)
	}
}

// And matches records accepted by every predicate. With no predicates it
// matches everything.
func And(ps ...Predicate) Predicate {
	return func(r Record) bool {
		for _, p := range ps {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Or matches records accepted by any predicate.
func Or(ps ...Predicate) Predicate {
	return func(r Record) bool {
		for _, p := range ps {
			if p(r) {
				return true
			}
		}
		return false
	}
}
