package object

import (
	"cmp"
	"math"
	"small/internal/ast"
)

// Arithmetic applies +, -, *, / or % with the left operand deciding the rules.
// Int with Int stays Int, any pairing with Float promotes both sides to Float.
func Arithmetic(op ast.BinaryOperator, left, right Object) (Object, error) {
	if !op.IsArithmetic() {
		return nil, NewError(ErrUnknownOperator, "`%s` is not an arithmetic operator", op)
	}

	switch l := left.(type) {
	case *Integer:
		switch r := right.(type) {
		case *Integer:
			return integerArithmetic(op, l.Value, r.Value)
		case *Float:
			return floatArithmetic(op, float32(l.Value), r.Value), nil
		}
	case *Float:
		switch r := right.(type) {
		case *Float:
			return floatArithmetic(op, l.Value, r.Value), nil
		case *Integer:
			return floatArithmetic(op, l.Value, float32(r.Value)), nil
		}
	default:
		return nil, NewError(ErrArithUnsupported, "`%s` is not defined for %s", op, left.Type())
	}

	return nil, NewError(ErrArithArgMismatch, "`%s` expects numeric operands, got %s and %s", op, left.Type(), right.Type())
}

func Add(left, right Object) (Object, error) { return Arithmetic(ast.Add, left, right) }
func Sub(left, right Object) (Object, error) { return Arithmetic(ast.Sub, left, right) }
func Mul(left, right Object) (Object, error) { return Arithmetic(ast.Mul, left, right) }
func Div(left, right Object) (Object, error) { return Arithmetic(ast.Div, left, right) }
func Mod(left, right Object) (Object, error) { return Arithmetic(ast.Mod, left, right) }

// integer division and remainder truncate toward zero, overflow wraps
func integerArithmetic(op ast.BinaryOperator, l, r int32) (Object, error) {
	switch op {
	case ast.Add:
		return &Integer{Value: l + r}, nil
	case ast.Sub:
		return &Integer{Value: l - r}, nil
	case ast.Mul:
		return &Integer{Value: l * r}, nil
	case ast.Div:
		if r == 0 {
			return nil, NewError(ErrDivisionByZero, "%d / 0", l)
		}
		return &Integer{Value: l / r}, nil
	default:
		if r == 0 {
			return nil, NewError(ErrDivisionByZero, "%d %% 0", l)
		}
		return &Integer{Value: l % r}, nil
	}
}

func floatArithmetic(op ast.BinaryOperator, l, r float32) Object {
	switch op {
	case ast.Add:
		return &Float{Value: l + r}
	case ast.Sub:
		return &Float{Value: l - r}
	case ast.Mul:
		return &Float{Value: l * r}
	case ast.Div:
		return &Float{Value: l / r}
	default:
		return &Float{Value: float32(math.Mod(float64(l), float64(r)))}
	}
}

// Ordering applies <, <=, > or >= and returns a Boolean.
func Ordering(op ast.BinaryOperator, left, right Object) (Object, error) {
	holds, err := orderingHolds(op, left, right)
	if err != nil {
		return nil, err
	}
	return NativeBoolToBooleanObject(holds), nil
}

func Lt(left, right Object) (Object, error)  { return Ordering(ast.Lt, left, right) }
func Lte(left, right Object) (Object, error) { return Ordering(ast.Lte, left, right) }
func Gt(left, right Object) (Object, error)  { return Ordering(ast.Gt, left, right) }
func Gte(left, right Object) (Object, error) { return Ordering(ast.Gte, left, right) }

// Eq returns a Boolean for structural equality.
func Eq(left, right Object) (Object, error) {
	equal, err := Equal(left, right)
	if err != nil {
		return nil, err
	}
	return NativeBoolToBooleanObject(equal), nil
}

func orderingHolds(op ast.BinaryOperator, left, right Object) (bool, error) {
	if !op.IsOrdering() {
		return false, NewError(ErrUnknownOperator, "`%s` is not an ordering operator", op)
	}

	switch l := left.(type) {
	case *Integer:
		switch r := right.(type) {
		case *Integer:
			return holds(op, cmp.Compare(l.Value, r.Value)), nil
		case *Float:
			return floatHolds(op, float32(l.Value), r.Value), nil
		}
	case *Float:
		switch r := right.(type) {
		case *Float:
			return floatHolds(op, l.Value, r.Value), nil
		case *Integer:
			return floatHolds(op, l.Value, float32(r.Value)), nil
		}
	case *Char:
		if r, ok := right.(*Char); ok {
			return holds(op, cmp.Compare(l.Value, r.Value)), nil
		}
	case *String:
		if r, ok := right.(*String); ok {
			return holds(op, cmp.Compare(l.Value, r.Value)), nil
		}
	case *List:
		if r, ok := right.(*List); ok {
			return sequenceHolds(op, l.Elements, r.Elements)
		}
	case *Tuple:
		if r, ok := right.(*Tuple); ok {
			if len(l.Elements) != len(r.Elements) {
				return false, NewError(ErrArityMismatch, "cannot compare tuples of size %d and %d", len(l.Elements), len(r.Elements))
			}
			return sequenceHolds(op, l.Elements, r.Elements)
		}
	default:
		return false, NewError(ErrCompUnsupported, "`%s` is not defined for %s", op, left.Type())
	}

	return false, NewError(ErrCompArgMismatch, "cannot compare %s with %s", left.Type(), right.Type())
}

// sequenceHolds orders element by element, the first unequal pair decides and a strict prefix is smaller.
func sequenceHolds(op ast.BinaryOperator, l, r []Object) (bool, error) {
	for i := 0; i < len(l) && i < len(r); i++ {
		equal, err := Equal(l[i], r[i])
		if err != nil {
			return false, err
		}
		if !equal {
			return orderingHolds(op, l[i], r[i])
		}
	}
	return holds(op, cmp.Compare(len(l), len(r))), nil
}

func holds(op ast.BinaryOperator, c int) bool {
	switch op {
	case ast.Lt:
		return c < 0
	case ast.Lte:
		return c <= 0
	case ast.Gt:
		return c > 0
	default:
		return c >= 0
	}
}

// floats are compared directly so NaN orders false against everything
func floatHolds(op ast.BinaryOperator, l, r float32) bool {
	switch op {
	case ast.Lt:
		return l < r
	case ast.Lte:
		return l <= r
	case ast.Gt:
		return l > r
	default:
		return l >= r
	}
}

// Equal is deep structural equality under the same type rules as ordering, so booleans
// and closures are never comparable.
func Equal(left, right Object) (bool, error) {
	switch l := left.(type) {
	case *Integer:
		switch r := right.(type) {
		case *Integer:
			return l.Value == r.Value, nil
		case *Float:
			return float32(l.Value) == r.Value, nil
		}
	case *Float:
		switch r := right.(type) {
		case *Float:
			return l.Value == r.Value, nil
		case *Integer:
			return l.Value == float32(r.Value), nil
		}
	case *Char:
		if r, ok := right.(*Char); ok {
			return l.Value == r.Value, nil
		}
	case *String:
		if r, ok := right.(*String); ok {
			return l.Value == r.Value, nil
		}
	case *List:
		if r, ok := right.(*List); ok {
			if len(l.Elements) != len(r.Elements) {
				return false, nil
			}
			return elementsEqual(l.Elements, r.Elements)
		}
	case *Tuple:
		if r, ok := right.(*Tuple); ok {
			if len(l.Elements) != len(r.Elements) {
				return false, NewError(ErrArityMismatch, "cannot compare tuples of size %d and %d", len(l.Elements), len(r.Elements))
			}
			return elementsEqual(l.Elements, r.Elements)
		}
	default:
		return false, NewError(ErrCompUnsupported, "`==` is not defined for %s", left.Type())
	}

	return false, NewError(ErrCompArgMismatch, "cannot compare %s with %s", left.Type(), right.Type())
}

func elementsEqual(l, r []Object) (bool, error) {
	for i := range l {
		equal, err := Equal(l[i], r[i])
		if err != nil || !equal {
			return false, err
		}
	}
	return true, nil
}

// Logical applies && or ||, both operands must already be Booleans.
func Logical(op ast.BinaryOperator, left, right Object) (Object, error) {
	if !op.IsLogical() {
		return nil, NewError(ErrUnknownOperator, "`%s` is not a logical operator", op)
	}
	l, lok := left.(*Boolean)
	r, rok := right.(*Boolean)
	if !lok || !rok {
		return nil, NewError(ErrExpectedBoolean, "`%s` expects boolean operands, got %s and %s", op, left.Type(), right.Type())
	}
	if op == ast.And {
		return NativeBoolToBooleanObject(l.Value && r.Value), nil
	}
	return NativeBoolToBooleanObject(l.Value || r.Value), nil
}

func Negate(operand Object) (Object, error) {
	switch v := operand.(type) {
	case *Integer:
		return &Integer{Value: -v.Value}, nil
	case *Float:
		return &Float{Value: -v.Value}, nil
	default:
		return nil, NewError(ErrExpectedNumeric, "`-` expects a numeric operand, got %s", operand.Type())
	}
}

func LogicalNot(operand Object) (Object, error) {
	b, ok := operand.(*Boolean)
	if !ok {
		return nil, NewError(ErrExpectedBoolean, "`!` expects a boolean operand, got %s", operand.Type())
	}
	return NativeBoolToBooleanObject(!b.Value), nil
}
