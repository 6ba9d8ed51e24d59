package i18ntext

import (
	"strings"
)

// Entry pairs a locale tag with the text stored for it.
type Entry struct {
	Locale string `json:"locale" yaml:"locale"`
	Value  string `json:"value" yaml:"value"`
}

// Set is an ordered collection of per-locale strings describing one logical
// multi-language value. Locales are unique; the first insertion of a locale
// fixes its position and later writes replace the value in place.
//
// A nil *Set is valid for every read method and behaves as an empty set. Set
// is not safe for concurrent mutation; it is meant to live for a single
// request.
type Set struct {
	entries []Entry
	index   map[string]int
}

// NewSet builds a set from the supplied entries. Duplicate locales keep the
// position of their first occurrence and the value of their last.
func NewSet(entries ...Entry) *Set {
	set := &Set{}
	for _, entry := range entries {
		set.SetValue(entry.Locale, entry.Value)
	}
	return set
}

// FromMap builds a set from a plain map. Map iteration order is not stable so
// locales are inserted in sorted order.
func FromMap(values map[string]string) *Set {
	set := &Set{}
	for _, locale := range sortedKeys(values) {
		set.SetValue(locale, values[locale])
	}
	return set
}

// SetValue stores value under locale.
func (s *Set) SetValue(locale, value string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if idx, ok := s.index[locale]; ok {
		s.entries[idx].Value = value
		return
	}
	s.index[locale] = len(s.entries)
	s.entries = append(s.entries, Entry{Locale: locale, Value: value})
}

// Value returns the text stored for locale and whether the locale is present.
func (s *Set) Value(locale string) (string, bool) {
	if s == nil || s.index == nil {
		return "", false
	}
	idx, ok := s.index[locale]
	if !ok {
		return "", false
	}
	return s.entries[idx].Value, true
}

// Get returns the text stored for locale or an empty string.
func (s *Set) Get(locale string) string {
	value, _ := s.Value(locale)
	return value
}

// Has reports whether locale is present.
func (s *Set) Has(locale string) bool {
	_, ok := s.Value(locale)
	return ok
}

// Delete removes locale from the set, preserving the order of the remaining
// entries.
func (s *Set) Delete(locale string) {
	if s == nil || s.index == nil {
		return
	}
	idx, ok := s.index[locale]
	if !ok {
		return
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	delete(s.index, locale)
	for i := idx; i < len(s.entries); i++ {
		s.index[s.entries[i].Locale] = i
	}
}

// Len returns the number of locales in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// IsEmpty reports whether the set holds no entries. Entries with blank values
// still count; see Blank.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Blank reports whether every entry holds an empty string. An empty set is
// blank.
func (s *Set) Blank() bool {
	if s == nil {
		return true
	}
	for _, entry := range s.entries {
		if entry.Value != "" {
			return false
		}
	}
	return true
}

// Entries returns a copy of the entries in insertion order.
func (s *Set) Entries() []Entry {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Locales returns the locale tags in insertion order.
func (s *Set) Locales() []string {
	if s.Len() == 0 {
		return nil
	}
	out := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.Locale)
	}
	return out
}

// Map flattens the set into a plain map, dropping order.
func (s *Set) Map() map[string]string {
	out := make(map[string]string, s.Len())
	if s == nil {
		return out
	}
	for _, entry := range s.entries {
		out[entry.Locale] = entry.Value
	}
	return out
}

// Clone returns a deep copy. Cloning a nil set returns nil.
func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	return NewSet(s.entries...)
}

// Equal reports whether both sets hold the same entries in the same order.
// Nil and empty sets are equal.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// String renders the set as "en=hi, fr=" for logs and error messages.
func (s *Set) String() string {
	if s.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		parts = append(parts, entry.Locale+"="+entry.Value)
	}
	return strings.Join(parts, ", ")
}
