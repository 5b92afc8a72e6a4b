package pagedscope

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

// Predicate is a boolean condition over row attributes built only from
// per-column comparisons, AND and OR. Engines render it into their own query
// language.
type Predicate interface {
	// ToSQL renders the predicate with "?" placeholders.
	ToSQL() (string, []driver.Value)

	predicate()
}

type (
	// Comparison is "Column Operator Value".
	Comparison struct {
		Column   string
		Operator Operator
		Value    any
	}

	// Conjunction joins its operands with AND.
	Conjunction []Predicate

	// Disjunction joins its operands with OR.
	Disjunction []Predicate
)

func (Comparison) predicate()  {}
func (Conjunction) predicate() {}
func (Disjunction) predicate() {}

// RankPredicate builds the condition selecting every row that sorts strictly
// before the row whose ordering values are values. It is the lexicographic
// tuple comparison (a1,...,an) < (v1,...,vn) relative to the direction of
// each term, folded from the last term to the first:
//
//	p(n) = (an OPn vn)
//	p(i) = (ai OPi vi) OR (ai = vi AND p(i+1))
//
// OPi is "<" for ascending and ">" for descending terms. Folding from the
// left instead yields a predicate that is not lexicographic.
func RankPredicate(order Orderings, values []any) (Predicate, error) {
	if err := order.validate(); err != nil {
		return nil, fmt.Errorf("cannot build rank predicate: %w", err)
	}

	if len(order) != len(values) {
		return nil, fmt.Errorf(
			"cannot build rank predicate: %d ordering terms, %d values: %w",
			len(order), len(values), ErrInvalidArgument,
		)
	}

	last := len(order) - 1
	var ret Predicate = Comparison{
		Column:   order[last].Column,
		Operator: order[last].Direction.BeforeOperator(),
		Value:    values[last],
	}

	for i := last - 1; i >= 0; i-- {
		ret = Disjunction{
			Comparison{Column: order[i].Column, Operator: order[i].Direction.BeforeOperator(), Value: values[i]},
			Conjunction{
				Comparison{Column: order[i].Column, Operator: OperatorEQ, Value: values[i]},
				ret,
			},
		}
	}

	return ret, nil
}

// ToSQL converts a comparison to an SQL condition of the form
// "Column Operator ?" with a corresponding value.
//
// Example:
//
//	Comparison{Column: "id", Operator: "<", Value: 123}
//
// Result:
//
//	("id < ?", [123])
func (c Comparison) ToSQL() (string, []driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), []driver.Value{c.Value}
}

// ToSQL renders "(K1 AND K2 ...)".
func (c Conjunction) ToSQL() (string, []driver.Value) {
	return joinSQL(c, " AND ")
}

// ToSQL renders "(K1 OR K2 ...)".
func (d Disjunction) ToSQL() (string, []driver.Value) {
	return joinSQL(d, " OR ")
}

func joinSQL(operands []Predicate, sep string) (string, []driver.Value) {
	clauses := make([]string, 0, len(operands))
	values := make([]driver.Value, 0, len(operands))

	for _, operand := range operands {
		if operand == nil {
			continue
		}

		operandClause, operandValues := operand.ToSQL()
		if operandClause == "" {
			continue
		}

		clauses = append(clauses, operandClause)
		values = append(values, operandValues...)
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return fmt.Sprintf("(%s)", strings.Join(clauses, sep)), values
}

// GORMExpression converts a predicate into a gorm clause expression.
// Returns nil for a nil or empty predicate.
func GORMExpression(p Predicate) clause.Expression {
	switch pt := p.(type) {
	case Comparison:
		sqlClause, args := pt.ToSQL()
		return clause.Expr{
			SQL:  sqlClause,
			Vars: lo.Map(args, func(item driver.Value, _ int) any { return item }),
		}
	case Conjunction:
		exprs := gormExpressions(pt)
		if len(exprs) == 1 {
			return exprs[0]
		} else if len(exprs) > 1 {
			return clause.And(exprs...)
		}
	case Disjunction:
		exprs := gormExpressions(pt)
		if len(exprs) == 1 {
			return exprs[0]
		} else if len(exprs) > 1 {
			return clause.Or(exprs...)
		}
	}

	return nil
}

func gormExpressions(operands []Predicate) []clause.Expression {
	ret := make([]clause.Expression, 0, len(operands))
	for _, operand := range operands {
		if expr := GORMExpression(operand); expr != nil {
			ret = append(ret, expr)
		}
	}

	return ret
}
