package expr

import (
	"math"

	"github.com/byu-imaal/dns-cookies-pam21/types"
	"github.com/byu-imaal/dns-cookies-pam21/utils/typeutils"
)

func (l *literalNode) eval(types.Record) (any, error) {
	return l.value, nil
}

func (f *fieldNode) eval(rec types.Record) (any, error) {
	value, found := rec[f.name]
	if !found {
		return nil, evalErrorf("record has no field %q", f.name)
	}
	return value, nil
}

func (u *unresolvedNode) eval(types.Record) (any, error) {
	return nil, evalErrorf("unknown name %q: not a field of the schema", u.name)
}

func (n *notNode) eval(rec types.Record) (any, error) {
	value, err := n.operand.eval(rec)
	if err != nil {
		return nil, err
	}
	b, ok := value.(bool)
	if !ok {
		return nil, boolOperandError("not", value)
	}
	return !b, nil
}

func (n *negNode) eval(rec types.Record) (any, error) {
	value, err := n.operand.eval(rec)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nullErrorf("cannot negate a null value")
	}
	f, ok := typeutils.AsFloat64(value)
	if !ok {
		return nil, evalErrorf("cannot negate %T", value)
	}
	return -f, nil
}

func (l *logicalNode) eval(rec types.Record) (any, error) {
	left, err := l.left.eval(rec)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(bool)
	if !ok {
		return nil, boolOperandError(l.op, left)
	}
	// short circuit
	if l.op == "and" && !lb {
		return false, nil
	}
	if l.op == "or" && lb {
		return true, nil
	}

	right, err := l.right.eval(rec)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(bool)
	if !ok {
		return nil, boolOperandError(l.op, right)
	}
	return rb, nil
}

func boolOperandError(op string, value any) *EvalError {
	if value == nil {
		return nullErrorf("operand of %q is null", op)
	}
	return evalErrorf("operand of %q is %T, not a boolean", op, value)
}

func (c *compareNode) eval(rec types.Record) (any, error) {
	left, err := c.left.eval(rec)
	if err != nil {
		return nil, err
	}
	right, err := c.right.eval(rec)
	if err != nil {
		return nil, err
	}

	// equality tolerates null and mismatched types, ordering does not
	switch c.op {
	case "==":
		return typeutils.Equal(left, right), nil
	case "!=":
		return !typeutils.Equal(left, right), nil
	}

	if left == nil || right == nil {
		return nil, nullErrorf("cannot apply %q to a null value", c.op)
	}
	ord, err := typeutils.Compare(left, right)
	if err != nil {
		return nil, evalErrorf("%s", err)
	}
	switch c.op {
	case "<":
		return ord < 0, nil
	case "<=":
		return ord <= 0, nil
	case ">":
		return ord > 0, nil
	default: // ">="
		return ord >= 0, nil
	}
}

func (a *arithmeticNode) eval(rec types.Record) (any, error) {
	left, err := a.left.eval(rec)
	if err != nil {
		return nil, err
	}
	right, err := a.right.eval(rec)
	if err != nil {
		return nil, err
	}
	if left == nil || right == nil {
		return nil, nullErrorf("cannot apply %q to a null value", a.op)
	}

	if a.op == "+" {
		ls, lok := left.(string)
		rs, rok := right.(string)
		if lok && rok {
			return ls + rs, nil
		}
	}

	lf, lok := typeutils.AsFloat64(left)
	rf, rok := typeutils.AsFloat64(right)
	if !lok || !rok {
		return nil, evalErrorf("cannot apply %q to %T and %T", a.op, left, right)
	}
	switch a.op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		if rf == 0 {
			return nil, evalErrorf("division by zero")
		}
		return lf / rf, nil
	default: // "%"
		if rf == 0 {
			return nil, evalErrorf("division by zero")
		}
		return math.Mod(lf, rf), nil
	}
}
