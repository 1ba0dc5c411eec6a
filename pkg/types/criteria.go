package types

// All is the sentinel selector value meaning "no restriction".
const All = "All"

// CapacityRange is an inclusive [Min, Max] capacity interval in ttpa.
type CapacityRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the interval, bounds included.
func (r CapacityRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Covers reports whether r fully contains other.
func (r CapacityRange) Covers(other CapacityRange) bool {
	return r.Min <= other.Min && r.Max >= other.Max
}

// FilterCriteria is one user interaction's filter state. Country and Owner
// are either the All sentinel or an exact, case-sensitive value. Capacity
// is nil when the capacity predicate is inactive (selection spans the full
// observed range), so that a full-range selection leaves the base table
// untouched, null capacities included.
type FilterCriteria struct {
	Country  string         `json:"country"`
	Owner    string         `json:"owner"`
	Capacity *CapacityRange `json:"capacity,omitempty"`
}

// AllCriteria returns criteria that match every row.
func AllCriteria() FilterCriteria {
	return FilterCriteria{Country: All, Owner: All}
}

// CountryActive reports whether the country predicate restricts rows.
func (c FilterCriteria) CountryActive() bool {
	return c.Country != "" && c.Country != All
}

// OwnerActive reports whether the owner predicate restricts rows.
func (c FilterCriteria) OwnerActive() bool {
	return c.Owner != "" && c.Owner != All
}

// NormalizeCapacity drops the capacity predicate when the selected range
// covers the observed bounds. Derived from the data at load time, never
// hardcoded.
func (c FilterCriteria) NormalizeCapacity(bounds CapacityRange) FilterCriteria {
	if c.Capacity != nil && c.Capacity.Covers(bounds) {
		c.Capacity = nil
	}
	return c
}
