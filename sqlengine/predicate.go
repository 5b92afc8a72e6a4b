package sqlengine

import (
	"fmt"

	"github.com/Alp4ka/pagedscope"
	sq "github.com/n-r-w/squirrel"
)

// Sqlizer converts a predicate into squirrel conditions. Returns nil for a nil
// predicate.
//
// Example:
//
//	(a < 1) OR (a = 1 AND b > 2)
//
// becomes
//
//	sq.Or{sq.Lt{"a": 1}, sq.And{sq.Eq{"a": 1}, sq.Gt{"b": 2}}}
func Sqlizer(p pagedscope.Predicate) (sq.Sqlizer, error) {
	switch pt := p.(type) {
	case nil:
		return nil, nil
	case pagedscope.Comparison:
		switch pt.Operator {
		case pagedscope.OperatorLT:
			return sq.Lt{pt.Column: pt.Value}, nil
		case pagedscope.OperatorGT:
			return sq.Gt{pt.Column: pt.Value}, nil
		case pagedscope.OperatorEQ:
			return sq.Eq{pt.Column: pt.Value}, nil
		default:
			return nil, fmt.Errorf("unsupported operator '%s'", pt.Operator)
		}
	case pagedscope.Conjunction:
		ret := make(sq.And, 0, len(pt))
		for _, operand := range pt {
			s, err := Sqlizer(operand)
			if err != nil {
				return nil, err
			}
			if s != nil {
				ret = append(ret, s)
			}
		}
		return ret, nil
	case pagedscope.Disjunction:
		ret := make(sq.Or, 0, len(pt))
		for _, operand := range pt {
			s, err := Sqlizer(operand)
			if err != nil {
				return nil, err
			}
			if s != nil {
				ret = append(ret, s)
			}
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("unsupported predicate %T", p)
	}
}
