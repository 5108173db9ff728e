package ast

type BinaryOperator int

const (
	// Arithmetic
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	Mod

	// Boolean
	And
	Or

	// Comparative
	Lt
	Lte
	Gt
	Gte
	Eq
)

var binaryOperatorSymbols = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "%",
	And: "&&",
	Or:  "||",
	Lt:  "<",
	Lte: "<=",
	Gt:  ">",
	Gte: ">=",
	Eq:  "==",
}

// Binding strength used by the parser and by String to decide where parentheses are needed.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // ==
	COMPARISON  // > or <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X or !X
	CALL        // myFunction(X)
)

func (op BinaryOperator) Valid() bool {
	return op >= Add && op <= Eq
}

func (op BinaryOperator) String() string {
	if !op.Valid() {
		return "?"
	}
	return binaryOperatorSymbols[op]
}

func (op BinaryOperator) IsArithmetic() bool { return op >= Add && op <= Mod }
func (op BinaryOperator) IsLogical() bool    { return op == And || op == Or }
func (op BinaryOperator) IsOrdering() bool   { return op >= Lt && op <= Gte }

func (op BinaryOperator) Precedence() int {
	switch op {
	case Or:
		return LOGICAL_OR
	case And:
		return LOGICAL_AND
	case Eq:
		return EQUALS
	case Lt, Lte, Gt, Gte:
		return COMPARISON
	case Add, Sub:
		return SUM
	case Mul, Div, Mod:
		return PRODUCT
	default:
		return LOWEST
	}
}

type UnaryOperator int

const (
	Neg UnaryOperator = iota
	Not
)

func (op UnaryOperator) Valid() bool {
	return op == Neg || op == Not
}

func (op UnaryOperator) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	default:
		return "?"
	}
}
