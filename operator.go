package pagedscope

import "fmt"

// Operator defines a comparison operator used in rank predicates.
type Operator string

func (o Operator) Valid() bool {
	return o == OperatorLT || o == OperatorGT || o == OperatorEQ
}

// ForOrdering returns the direction whose "sorts before" operator is o.
func (o Operator) ForOrdering() Direction {
	switch o {
	case OperatorLT:
		return DirectionASC
	case OperatorGT:
		return DirectionDESC
	default:
		panic(fmt.Errorf("cannot map operator '%s' to ordering", o))
	}
}

const (
	OperatorGT Operator = ">"
	OperatorLT Operator = "<"
	OperatorEQ Operator = "="
)
