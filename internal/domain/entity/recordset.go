package entity

import "sort"

// RecordSet is a set of unique records for one zone, keyed by
// (name, type, rdata). Iteration order is irrelevant for comparison;
// Records() returns the deterministic sort order used for display and
// plan ordering.
type RecordSet struct {
	byKey map[string]Record
}

func NewRecordSet(records ...Record) *RecordSet {
	s := &RecordSet{byKey: make(map[string]Record, len(records))}
	for _, r := range records {
		s.Add(r)
	}
	return s
}

func (s *RecordSet) Add(r Record) {
	s.byKey[r.Key()] = r
}

func (s *RecordSet) Get(key string) (Record, bool) {
	r, ok := s.byKey[key]
	return r, ok
}

func (s *RecordSet) Contains(r Record) bool {
	_, ok := s.byKey[r.Key()]
	return ok
}

func (s *RecordSet) Remove(r Record) {
	delete(s.byKey, r.Key())
}

func (s *RecordSet) Len() int {
	return len(s.byKey)
}

// Records returns all records sorted by (name, type, rdata).
func (s *RecordSet) Records() []Record {
	out := make([]Record, 0, len(s.byKey))
	for _, r := range s.byKey {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// SOA returns the zone's SOA record when present.
func (s *RecordSet) SOA() (Record, bool) {
	for _, r := range s.byKey {
		if r.Type == RecordTypeSOA {
			return r, true
		}
	}
	return Record{}, false
}

// Filter returns a new set with only the records accepted by keep.
func (s *RecordSet) Filter(keep func(Record) bool) *RecordSet {
	out := NewRecordSet()
	for _, r := range s.byKey {
		if keep(r) {
			out.Add(r)
		}
	}
	return out
}

func (s *RecordSet) Clone() *RecordSet {
	out := NewRecordSet()
	for _, r := range s.byKey {
		out.Add(r)
	}
	return out
}

// Equals compares set membership and per-record TTLs.
func (s *RecordSet) Equals(other *RecordSet) bool {
	if other == nil || len(s.byKey) != len(other.byKey) {
		return false
	}
	for key, r := range s.byKey {
		o, ok := other.byKey[key]
		if !ok || o.TTL != r.TTL {
			return false
		}
	}
	return true
}
