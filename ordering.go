package pagedscope

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// Direction defines the sort direction of an ordering term.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

// BeforeOperator returns the operator selecting rows that sort strictly
// before a value in this direction.
func (o Direction) BeforeOperator() Operator {
	switch o {
	case DirectionASC:
		return OperatorLT
	case DirectionDESC:
		return OperatorGT
	default:
		panic(fmt.Errorf("cannot map direction '%s' to operator", o))
	}
}

type (
	Orderings []OrderBy
	OrderBy   struct {
		Column    string
		Direction Direction
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("invalid ordering direction '%s'", o.Direction)
	}

	if o.Column == "" {
		return fmt.Errorf("empty ordering column")
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("ordering column name contains forbidden symbols '%s'", o.Column)
	}

	return nil
}

// Columns returns the ordering columns in order.
func (o Orderings) Columns() []string {
	return lo.Map(o, func(item OrderBy, _ int) string {
		return item.Column
	})
}

// Contains reports whether the column already takes part in the ordering.
func (o Orderings) Contains(column string) bool {
	return lo.ContainsBy(o, func(item OrderBy) bool {
		return item.Column == column
	})
}

// WithTieBreak returns a copy of the orderings terminated by (key ASC) unless
// the key already takes part in them. The result is a total order as long as
// key is unique.
func (o Orderings) WithTieBreak(key string) Orderings {
	ret := make(Orderings, len(o), len(o)+1)
	copy(ret, o)

	if o.Contains(key) {
		return ret
	}

	return append(ret, OrderBy{Column: key, Direction: DirectionASC})
}

// ToSQLSlice converts Orderings to a slice of strings in the form
// "<order_column> <order_direction>" suitable for SQL query builders.
//
// Example: for Orderings: [{"a", "ASC"}, {"b", "DESC"}] returns ["a ASC", "b DESC"].
func (o Orderings) ToSQLSlice() []string {
	ret := make([]string, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, fmt.Sprintf("%s %s", ordering.Column, ordering.Direction))
	}

	return ret
}

// ToSQL converts Orderings to a single string
// "<order_column_1> <order_direction_1>, <order_column_2> <order_direction_2>".
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", orderings.ToSQL())
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

func (o Orderings) validate() error {
	if len(o) == 0 {
		return fmt.Errorf("empty ordering list")
	}

	var err error
	for _, ordering := range o {
		err = ordering.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// ParseOrder parses an SQL-like ordering clause "a, b DESC, c asc" into
// Orderings. A term without direction is ascending.
func ParseOrder(clause string) (Orderings, error) {
	if strings.TrimSpace(clause) == "" {
		return Orderings{}, nil
	}

	terms := strings.Split(clause, ",")
	ret := make(Orderings, 0, len(terms))

	for _, term := range terms {
		fields := strings.Fields(term)

		var orderBy OrderBy
		switch len(fields) {
		case 1:
			orderBy = OrderBy{Column: fields[0], Direction: DirectionASC}
		case 2:
			orderBy = OrderBy{Column: fields[0], Direction: Direction(strings.ToUpper(fields[1]))}
		default:
			return nil, fmt.Errorf("invalid ordering term '%s': %w", strings.TrimSpace(term), ErrInvalidArgument)
		}

		if err := orderBy.validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		ret = append(ret, orderBy)
	}

	return ret, nil
}

// ParseSort builds Orderings from a list of strings in the format
// "column asc|desc". Column aliases are resolved via ColumnMapping.
// Returns an error if an alias is not found in the mapping.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (Orderings, error) {
	ret := make([]OrderBy, 0, len(stringsOrderings))
	aliases := lo.Keys(columnMapping)

	for _, stringOrdering := range stringsOrderings {
		cutStringOrdering := strings.Fields(stringOrdering)
		if len(cutStringOrdering) != 2 {
			return nil, fmt.Errorf("invalid ordering string format '%s': %w", stringOrdering, ErrInvalidArgument)
		}

		columnAlias := cutStringOrdering[0]
		direction := Direction(strings.ToUpper(cutStringOrdering[1]))
		columnName := columnMapping[columnAlias]
		if columnName == "" {
			return nil, fmt.Errorf(
				"invalid column alias. closest: '%s': %w",
				closestAlias(columnAlias, aliases),
				ErrInvalidArgument,
			)
		}

		orderBy := OrderBy{
			Column:    columnName,
			Direction: direction,
		}
		if err := orderBy.validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}

		ret = append(ret, orderBy)
	}

	return ret, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
