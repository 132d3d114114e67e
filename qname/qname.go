// Package qname generates and parses structured DNS query names. A Scheme
// is a dotted label string such as "$ip.$ts.$uniq" where $-prefixed keys
// select components and bare labels are fixed keywords; generated names
// carry measurement metadata that the receiving resolver side parses back
// out of query logs.
package qname

import (
	"errors"
	"fmt"
	"strings"
)

const keyIndicator = "$"

var (
	// ErrUnknownComponent marks a $-key with no registered component.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrMissingArgument marks a required generation argument not supplied.
	ErrMissingArgument = errors.New("missing argument")
	// ErrLabelMismatch marks a query name that does not fit the scheme.
	ErrLabelMismatch = errors.New("label mismatch")
)

// Component encodes one label of a query name and decodes it back.
type Component interface {
	// ID is the $-prefixed key selecting this component in a scheme.
	ID() string
	// RequiredArgs names the generation arguments that must be present.
	RequiredArgs() []string
	// OptionalArgs names the generation arguments with defaults.
	OptionalArgs() []string
	// Generate renders the label from the given arguments.
	Generate(args map[string]any) (string, error)
	// Parse decodes a label produced by Generate.
	Parse(label string) (any, error)
}

// ParsedLabel is one decoded label, in scheme order.
type ParsedLabel struct {
	Key   string
	Value any
}

// Scheme binds a label string to its component set.
type Scheme struct {
	labelStr   string
	components map[string]Component
}

// NewScheme builds a scheme from a dotted label string. The built-in
// components are always available; extra ones extend or override them.
// Every $-key in the label string must resolve to a component.
func NewScheme(labelStr string, extra ...Component) (*Scheme, error) {
	s := &Scheme{labelStr: labelStr, components: make(map[string]Component)}
	for _, component := range append(Defaults(), extra...) {
		s.components[component.ID()] = component
	}
	for _, key := range s.labelKeys() {
		if !strings.HasPrefix(key, keyIndicator) {
			continue
		}
		if _, ok := s.components[key]; !ok {
			return nil, fmt.Errorf("%w: %q has no registered component", ErrUnknownComponent, key)
		}
	}
	return s, nil
}

func (s *Scheme) labelKeys() []string {
	if s.labelStr == "" {
		return nil
	}
	return strings.Split(s.labelStr, ".")
}

// Generate renders the scheme's labels from args and joins them with the
// domain into a full query name.
func (s *Scheme) Generate(domain string, args map[string]any) (string, error) {
	labels := make([]string, 0, len(s.labelKeys())+1)
	for _, key := range s.labelKeys() {
		if !strings.HasPrefix(key, keyIndicator) {
			labels = append(labels, key)
			continue
		}
		component := s.components[key]
		for _, required := range component.RequiredArgs() {
			if _, ok := args[required]; !ok {
				return "", fmt.Errorf("%w: %q for component %q", ErrMissingArgument, required, key)
			}
		}
		label, err := component.Generate(args)
		if err != nil {
			return "", fmt.Errorf("failed to generate %q label: %s", key, err)
		}
		labels = append(labels, label)
	}
	labels = append(labels, domain)
	return strings.Join(labels, "."), nil
}

// Parse decodes a query name against the scheme, returning one value per
// scheme label in order. Labels past the scheme (the domain) are ignored;
// a keyword label that differs from the scheme fails.
func (s *Scheme) Parse(name string) ([]ParsedLabel, error) {
	keys := s.labelKeys()
	labels := strings.Split(name, ".")
	if len(labels) < len(keys) {
		return nil, fmt.Errorf("%w: %q has %d labels, scheme %q needs %d",
			ErrLabelMismatch, name, len(labels), s.labelStr, len(keys))
	}

	parsed := make([]ParsedLabel, 0, len(keys))
	for idx, key := range keys {
		label := labels[idx]
		if !strings.HasPrefix(key, keyIndicator) {
			if label != key {
				return nil, fmt.Errorf("%w: expected %q, got %q", ErrLabelMismatch, key, label)
			}
			parsed = append(parsed, ParsedLabel{Key: key, Value: label})
			continue
		}
		value, err := s.components[key].Parse(label)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %q label %q: %s", key, label, err)
		}
		parsed = append(parsed, ParsedLabel{Key: key, Value: value})
	}
	return parsed, nil
}

// ExpectedArgs renders the argument list of every component the scheme
// uses, one line per $-key.
func (s *Scheme) ExpectedArgs() string {
	var sb strings.Builder
	for _, key := range s.labelKeys() {
		if !strings.HasPrefix(key, keyIndicator) {
			continue
		}
		component := s.components[key]
		args := append(append([]string{}, component.RequiredArgs()...), component.OptionalArgs()...)
		fmt.Fprintf(&sb, "%-10s%v\n", key, args)
	}
	return sb.String()
}
