package stops

import (
	"sort"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

// Set is a set of airport codes treated as leg boundaries.
type Set map[string]struct{}

func NewSet(codes ...string) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s Set) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

func (s Set) Add(code string) {
	s[code] = struct{}{}
}

// Sorted returns the codes in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Alternatives maps a city code to every airport serving it.
type Alternatives map[string]Set

func BuildAlternatives(locations map[string]models.Location) Alternatives {
	alts := make(Alternatives)
	for code, loc := range locations {
		set, ok := alts[loc.CityCode]
		if !ok {
			set = NewSet()
			alts[loc.CityCode] = set
		}
		set.Add(code)
	}
	return alts
}

func (a Alternatives) HasMultiple(cityCode string) bool {
	return len(a[cityCode]) > 1
}

// ExpandMajorStops replaces every requested airport whose city has more
// than one airport with all of that city's airports. Replaced codes are
// dropped from their position and the alternatives appended at the end.
// The result is not deduplicated.
func ExpandMajorStops(requested []string, alts Alternatives, locations map[string]models.Location) []string {
	kept := make([]string, 0, len(requested))
	var added []string

	for _, stop := range requested {
		loc, ok := locations[stop]
		if !ok || !alts.HasMultiple(loc.CityCode) {
			kept = append(kept, stop)
			continue
		}
		added = append(added, alts[loc.CityCode].Sorted()...)
	}

	return append(kept, added...)
}
