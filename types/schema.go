package types

// Schema is the ordered field layout inferred from the first record of a
// stream. Order follows the probe record's document order and drives the
// default projection and CSV column order.
type Schema struct {
	fields []string
	index  map[string]struct{}
}

// NewSchema builds a schema from field names, preserving first-seen order
// and dropping duplicates.
func NewSchema(fields []string) *Schema {
	s := &Schema{index: make(map[string]struct{}, len(fields))}
	for _, field := range fields {
		if _, found := s.index[field]; found {
			continue
		}
		s.index[field] = struct{}{}
		s.fields = append(s.fields, field)
	}
	return s
}

// Fields returns the field names in document order.
func (s *Schema) Fields() []string {
	return append([]string(nil), s.fields...)
}

// Has reports whether field is part of the schema.
func (s *Schema) Has(field string) bool {
	_, found := s.index[field]
	return found
}

func (s *Schema) Len() int {
	return len(s.fields)
}
