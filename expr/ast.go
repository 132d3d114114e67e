package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/goccy/go-json"
)

// EvalError is a runtime failure raised while applying a compiled filter to
// a record. NullRelated marks failures caused by a null operand, which
// enabling null-guards would mask.
type EvalError struct {
	Reason      string
	NullRelated bool
}

func (e *EvalError) Error() string {
	return e.Reason
}

func evalErrorf(format string, v ...any) *EvalError {
	return &EvalError{Reason: fmt.Sprintf(format, v...)}
}

func nullErrorf(format string, v ...any) *EvalError {
	return &EvalError{Reason: fmt.Sprintf(format, v...), NullRelated: true}
}

// node is a compiled filter fragment. eval applies it to a record, render
// writes its canonical form.
type node interface {
	eval(rec types.Record) (any, error)
	render(sb *strings.Builder)
}

type literalNode struct {
	value any
}

type fieldNode struct {
	name string
}

// unresolvedNode is a bare name that matched no schema field at compile
// time. It parses fine and fails at first evaluation.
type unresolvedNode struct {
	name string
}

type notNode struct {
	operand node
}

type negNode struct {
	operand node
}

type logicalNode struct {
	op          string // "and" or "or"
	left, right node
}

type compareNode struct {
	op          string // "==", "!=", "<", "<=", ">", ">="
	left, right node
}

type arithmeticNode struct {
	op          string // "+", "-", "*", "/", "%"
	left, right node
}

func (l *literalNode) render(sb *strings.Builder) {
	sb.WriteString(renderValue(l.value))
}

func (f *fieldNode) render(sb *strings.Builder) {
	fmt.Fprintf(sb, "rec[%q]", f.name)
}

func (u *unresolvedNode) render(sb *strings.Builder) {
	sb.WriteString(u.name)
}

func (n *notNode) render(sb *strings.Builder) {
	sb.WriteString("not ")
	renderChild(sb, n.operand)
}

func (n *negNode) render(sb *strings.Builder) {
	sb.WriteByte('-')
	renderChild(sb, n.operand)
}

func (l *logicalNode) render(sb *strings.Builder) {
	renderChild(sb, l.left)
	sb.WriteString(" " + l.op + " ")
	renderChild(sb, l.right)
}

func (c *compareNode) render(sb *strings.Builder) {
	renderChild(sb, c.left)
	sb.WriteString(" " + c.op + " ")
	renderChild(sb, c.right)
}

func (a *arithmeticNode) render(sb *strings.Builder) {
	renderChild(sb, a.left)
	sb.WriteString(" " + a.op + " ")
	renderChild(sb, a.right)
}

// renderChild parenthesizes composite children so the canonical form never
// depends on operator precedence.
func renderChild(sb *strings.Builder, n node) {
	switch n.(type) {
	case *literalNode, *fieldNode, *unresolvedNode:
		n.render(sb)
	default:
		sb.WriteByte('(')
		n.render(sb)
		sb.WriteByte(')')
	}
}

func renderValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

// collectFields lists referenced schema fields in first-reference order.
func collectFields(n node, seen map[string]struct{}, out *[]string) {
	switch n := n.(type) {
	case *fieldNode:
		if _, found := seen[n.name]; !found {
			seen[n.name] = struct{}{}
			*out = append(*out, n.name)
		}
	case *notNode:
		collectFields(n.operand, seen, out)
	case *negNode:
		collectFields(n.operand, seen, out)
	case *logicalNode:
		collectFields(n.left, seen, out)
		collectFields(n.right, seen, out)
	case *compareNode:
		collectFields(n.left, seen, out)
		collectFields(n.right, seen, out)
	case *arithmeticNode:
		collectFields(n.left, seen, out)
		collectFields(n.right, seen, out)
	}
}
