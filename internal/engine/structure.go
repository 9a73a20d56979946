package engine

import "strings"

// Fraction is a GstFraction value.
type Fraction struct {
	Num, Den int
}

func (f Fraction) Float() float64 {
	if f.Den == 0 {
		return 0
	}
	return float64(f.Num) / float64(f.Den)
}

// Structure is one alternative of a caps description: a media type name and
// its typed fields (int, Fraction, string or bool).
type Structure struct {
	Name   string
	Fields map[string]interface{}
}

// HasPrefix reports whether the media type name starts with prefix.
func (s Structure) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.Name, prefix)
}

func (s Structure) Int(field string) (int, bool) {
	v, ok := s.Fields[field].(int)
	return v, ok
}

func (s Structure) Fraction(field string) (Fraction, bool) {
	v, ok := s.Fields[field].(Fraction)
	return v, ok
}

func (s Structure) String(field string) (string, bool) {
	v, ok := s.Fields[field].(string)
	return v, ok
}
