package expr

import (
	"fmt"
	"strings"

	"github.com/byu-imaal/dns-cookies-pam21/types"
)

// FieldSet answers which names resolve to record fields at compile time.
// *types.Schema satisfies it.
type FieldSet interface {
	Has(field string) bool
}

// Filter is a filter expression compiled against a stream schema. Matching
// walks the expression tree directly; the source text is never handed to
// any evaluator beyond this package.
type Filter struct {
	root   node
	fields []string
}

// Compile parses source into a filter over the given field set. Bare and
// quoted tokens that exactly equal a field name become field references,
// other quoted tokens stay string literals and unknown bare names parse
// fine but fail at first evaluation. With nullGuard set the filter
// additionally requires every referenced field to be non-null. An empty
// source compiles to a filter matching every record.
func Compile(source string, fields FieldSet, nullGuard bool) (*Filter, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return &Filter{root: &literalNode{value: true}}, nil
	}

	tokens, err := lex(trimmed)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, fields: fields}
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, fmt.Errorf("unexpected %s after expression at position %d", tok, tok.pos)
	}

	var referenced []string
	collectFields(root, map[string]struct{}{}, &referenced)
	if nullGuard {
		if guard := nullGuardNode(referenced); guard != nil {
			root = &logicalNode{op: "and", left: guard, right: root}
		}
	}
	return &Filter{root: root, fields: referenced}, nil
}

// nullGuardNode builds the conjunction requiring each referenced field to
// be non-null.
func nullGuardNode(fields []string) node {
	var guard node
	for _, field := range fields {
		check := &compareNode{
			op:    "!=",
			left:  &fieldNode{name: field},
			right: &literalNode{value: nil},
		}
		if guard == nil {
			guard = check
			continue
		}
		guard = &logicalNode{op: "and", left: guard, right: check}
	}
	return guard
}

// Match applies the filter to a record. Failures carry an *EvalError.
func (f *Filter) Match(rec types.Record) (bool, error) {
	value, err := f.root.eval(rec)
	if err != nil {
		return false, err
	}
	result, ok := value.(bool)
	if !ok {
		if value == nil {
			return false, nullErrorf("filter produced null instead of a boolean")
		}
		return false, evalErrorf("filter produced %T instead of a boolean", value)
	}
	return result, nil
}

// String renders the canonical form of the compiled filter, including any
// null-guard conjunction, with field references shown as rec["name"].
func (f *Filter) String() string {
	var sb strings.Builder
	f.root.render(&sb)
	return sb.String()
}

// Fields lists the schema fields referenced by the source expression, in
// first-reference order.
func (f *Filter) Fields() []string {
	return append([]string(nil), f.fields...)
}
