package view

import "fmt"

// Filter selects contacts by status
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCalled    Filter = "called"
	FilterNotCalled Filter = "not_called"
)

// Filters lists every filter in cycling order
var Filters = []Filter{FilterAll, FilterCalled, FilterNotCalled}

// SortKey orders the projection
type SortKey string

const (
	SortNameAsc     SortKey = "name_asc"
	SortNameDesc    SortKey = "name_desc"
	SortRelationAsc SortKey = "relation_asc"
	SortRecent      SortKey = "recent"
)

// SortKeys lists every sort key in cycling order
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortRelationAsc, SortRecent}

// Params are the user-controlled inputs to a projection
type Params struct {
	Search string
	Filter Filter
	Sort   SortKey
}

// DefaultParams shows everything sorted by name
func DefaultParams() Params {
	return Params{Filter: FilterAll, Sort: SortNameAsc}
}

// ParseFilter accepts the wire names of the filters
func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all, called or not_called)", s)
}

// ParseSortKey accepts the wire names of the sort keys
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q (want name_asc, name_desc, relation_asc or recent)", s)
}

// Next returns the filter after f, wrapping around
func (f Filter) Next() Filter {
	for i, x := range Filters {
		if x == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Next returns the sort key after k, wrapping around
func (k SortKey) Next() SortKey {
	for i, x := range SortKeys {
		if x == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortNameAsc
}
