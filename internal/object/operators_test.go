package object

import (
	"errors"
	"math"
	"small/internal/ast"
	"testing"
)

func i32(v int32) *Integer   { return &Integer{Value: v} }
func f32(v float32) *Float   { return &Float{Value: v} }
func list(e ...Object) *List { return &List{Elements: e} }
func tuple(e ...Object) *Tuple {
	if e == nil {
		e = []Object{}
	}
	return &Tuple{Elements: e}
}

func closure() *Closure {
	return NewClosure(&ast.LambdaExpression{Body: &ast.NoOp{}}, NewEnvironment())
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		op       ast.BinaryOperator
		left     Object
		right    Object
		expected Object
	}{
		{ast.Add, i32(2), i32(3), i32(5)},
		{ast.Sub, i32(2), i32(3), i32(-1)},
		{ast.Mul, i32(4), i32(3), i32(12)},
		{ast.Div, i32(7), i32(2), i32(3)},
		{ast.Div, i32(-7), i32(2), i32(-3)},
		{ast.Mod, i32(-7), i32(2), i32(-1)},
		{ast.Add, i32(math.MaxInt32), i32(1), i32(math.MinInt32)},
		{ast.Add, i32(1), f32(0.5), f32(1.5)},
		{ast.Add, f32(0.5), i32(1), f32(1.5)},
		{ast.Mul, f32(1.5), f32(2), f32(3)},
		{ast.Div, i32(1), f32(2), f32(0.5)},
		{ast.Mod, f32(5.5), i32(2), f32(1.5)},
	}

	for i, tt := range tests {
		got, err := Arithmetic(tt.op, tt.left, tt.right)
		if err != nil {
			t.Errorf("tests[%d] %s %s %s: unexpected error %v", i, tt.left.Inspect(), tt.op, tt.right.Inspect(), err)
			continue
		}
		if got.Type() != tt.expected.Type() || got.Inspect() != tt.expected.Inspect() {
			t.Errorf("tests[%d] %s %s %s: expected %s %s, got %s %s", i,
				tt.left.Inspect(), tt.op, tt.right.Inspect(),
				tt.expected.Type(), tt.expected.Inspect(), got.Type(), got.Inspect())
		}
	}
}

func TestIntegerAddMatchesNativeAddition(t *testing.T) {
	pairs := [][2]int32{{0, 0}, {1, -1}, {123, 456}, {-1000, 33}, {math.MaxInt32, math.MaxInt32}}
	for _, p := range pairs {
		got, err := Add(i32(p[0]), i32(p[1]))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.(*Integer).Value != p[0]+p[1] {
			t.Errorf("%d + %d: got %s", p[0], p[1], got.Inspect())
		}

		promoted, err := Add(i32(p[0]), f32(0.25))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if promoted.(*Float).Value != float32(p[0])+0.25 {
			t.Errorf("%d + 0.25: got %s", p[0], promoted.Inspect())
		}
	}
}

func TestArithmeticErrors(t *testing.T) {
	tests := []struct {
		op    ast.BinaryOperator
		left  Object
		right Object
		kind  error
	}{
		{ast.Add, TRUE, i32(1), ErrArithUnsupported},
		{ast.Add, &Char{Value: 'a'}, &Char{Value: 'b'}, ErrArithUnsupported},
		{ast.Add, &String{Value: "a"}, &String{Value: "b"}, ErrArithUnsupported},
		{ast.Add, list(), list(), ErrArithUnsupported},
		{ast.Mul, tuple(i32(1)), i32(2), ErrArithUnsupported},
		{ast.Sub, closure(), i32(1), ErrArithUnsupported},
		{ast.Add, i32(1), TRUE, ErrArithArgMismatch},
		{ast.Add, f32(1), &String{Value: "x"}, ErrArithArgMismatch},
		{ast.Div, i32(1), i32(0), ErrDivisionByZero},
		{ast.Mod, i32(1), i32(0), ErrDivisionByZero},
		{ast.Lt, i32(1), i32(0), ErrUnknownOperator},
	}

	for i, tt := range tests {
		_, err := Arithmetic(tt.op, tt.left, tt.right)
		if !errors.Is(err, tt.kind) {
			t.Errorf("tests[%d] %s %s %s: expected %v, got %v", i, tt.left.Inspect(), tt.op, tt.right.Inspect(), tt.kind, err)
		}
	}
}

func TestFloatDivisionByZeroIsIEEE(t *testing.T) {
	got, err := Div(f32(1), i32(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(float64(got.(*Float).Value), 1) {
		t.Fatalf("expected +Inf, got %s", got.Inspect())
	}
}

func TestOrdering(t *testing.T) {
	tests := []struct {
		op       ast.BinaryOperator
		left     Object
		right    Object
		expected bool
	}{
		{ast.Lt, i32(1), i32(2), true},
		{ast.Gte, i32(1), i32(2), false},
		{ast.Lt, i32(1), f32(1.5), true},
		{ast.Gt, f32(2.5), i32(2), true},
		{ast.Lte, f32(2), i32(2), true},
		{ast.Lt, &Char{Value: 'a'}, &Char{Value: 'b'}, true},
		{ast.Gt, &String{Value: "abc"}, &String{Value: "abd"}, false},
		{ast.Lte, &String{Value: "ab"}, &String{Value: "abc"}, true},
		{ast.Lt, list(), list(i32(1)), true},
		{ast.Lt, list(), list(), false},
		{ast.Lte, list(), list(), true},
		{ast.Gte, list(), list(), true},
		{ast.Gt, list(i32(1)), list(), true},
		{ast.Lt, list(i32(1), i32(2)), list(i32(1), i32(3)), true},
		{ast.Lt, list(i32(1)), list(i32(1), i32(0)), true},
		{ast.Gt, list(i32(2)), list(i32(1), i32(9)), true},
		{ast.Lt, list(TRUE, i32(1)), list(TRUE, i32(2)), true},
		{ast.Lt, list(list(i32(1))), list(list(i32(2))), true},
		{ast.Lt, tuple(i32(1), i32(2)), tuple(i32(1), i32(3)), true},
		{ast.Gte, tuple(i32(1), i32(2)), tuple(i32(1), i32(2)), true},
		{ast.Lt, tuple(), tuple(), false},
		{ast.Lt, f32(float32(math.NaN())), i32(1), false},
		{ast.Gte, f32(float32(math.NaN())), i32(1), false},
	}

	for i, tt := range tests {
		got, err := Ordering(tt.op, tt.left, tt.right)
		if err != nil {
			t.Errorf("tests[%d] %s %s %s: unexpected error %v", i, tt.left.Inspect(), tt.op, tt.right.Inspect(), err)
			continue
		}
		if got.(*Boolean).Value != tt.expected {
			t.Errorf("tests[%d] %s %s %s: expected %t, got %s", i, tt.left.Inspect(), tt.op, tt.right.Inspect(), tt.expected, got.Inspect())
		}
	}
}

func TestOrderingErrors(t *testing.T) {
	tests := []struct {
		op    ast.BinaryOperator
		left  Object
		right Object
		kind  error
	}{
		{ast.Lt, tuple(i32(1)), tuple(i32(1), i32(2)), ErrArityMismatch},
		{ast.Lt, tuple(i32(0)), tuple(i32(1), i32(2)), ErrArityMismatch},
		{ast.Lt, TRUE, FALSE, ErrCompUnsupported},
		{ast.Lt, closure(), closure(), ErrCompUnsupported},
		{ast.Lt, i32(1), &Char{Value: 'a'}, ErrCompArgMismatch},
		{ast.Lt, &Char{Value: 'a'}, i32(1), ErrCompArgMismatch},
		{ast.Lt, list(i32(1)), tuple(i32(1)), ErrCompArgMismatch},
		{ast.Lt, list(TRUE), list(FALSE), ErrCompUnsupported},
		{ast.Lt, list(i32(1)), list(&String{Value: "a"}), ErrCompArgMismatch},
		{ast.Add, i32(1), i32(2), ErrUnknownOperator},
	}

	for i, tt := range tests {
		_, err := Ordering(tt.op, tt.left, tt.right)
		if !errors.Is(err, tt.kind) {
			t.Errorf("tests[%d] %s %s %s: expected %v, got %v", i, tt.left.Inspect(), tt.op, tt.right.Inspect(), tt.kind, err)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		left     Object
		right    Object
		expected bool
	}{
		{i32(1), i32(1), true},
		{i32(1), f32(1), true},
		{f32(1.5), i32(1), false},
		{&Char{Value: 'x'}, &Char{Value: 'x'}, true},
		{&String{Value: "a"}, &String{Value: "a"}, true},
		{list(), list(), true},
		{list(i32(1)), list(i32(1), i32(2)), false},
		{list(i32(1), list(i32(2))), list(i32(1), list(i32(2))), true},
		{tuple(i32(1), i32(2)), tuple(i32(1), i32(2)), true},
		{tuple(i32(1), i32(2)), tuple(i32(1), i32(3)), false},
		{f32(float32(math.NaN())), f32(float32(math.NaN())), false},
	}

	for i, tt := range tests {
		got, err := Eq(tt.left, tt.right)
		if err != nil {
			t.Errorf("tests[%d] %s == %s: unexpected error %v", i, tt.left.Inspect(), tt.right.Inspect(), err)
			continue
		}
		if got.(*Boolean).Value != tt.expected {
			t.Errorf("tests[%d] %s == %s: expected %t, got %s", i, tt.left.Inspect(), tt.right.Inspect(), tt.expected, got.Inspect())
		}
	}
}

func TestEqualErrors(t *testing.T) {
	tests := []struct {
		left  Object
		right Object
		kind  error
	}{
		{tuple(i32(1)), tuple(i32(1), i32(2)), ErrArityMismatch},
		{closure(), closure(), ErrCompUnsupported},
		{TRUE, TRUE, ErrCompUnsupported},
		{FALSE, TRUE, ErrCompUnsupported},
		{i32(1), closure(), ErrCompArgMismatch},
		{TRUE, i32(1), ErrCompUnsupported},
		{i32(1), TRUE, ErrCompArgMismatch},
		{&String{Value: "1"}, i32(1), ErrCompArgMismatch},
		{list(i32(1)), list(&Char{Value: 'a'}), ErrCompArgMismatch},
	}

	for i, tt := range tests {
		_, err := Equal(tt.left, tt.right)
		if !errors.Is(err, tt.kind) {
			t.Errorf("tests[%d] %s == %s: expected %v, got %v", i, tt.left.Inspect(), tt.right.Inspect(), tt.kind, err)
		}
	}
}

func TestLogicalAndUnary(t *testing.T) {
	if got, _ := Logical(ast.And, TRUE, FALSE); got != FALSE {
		t.Errorf("true && false: got %s", got.Inspect())
	}
	if got, _ := Logical(ast.Or, TRUE, FALSE); got != TRUE {
		t.Errorf("true || false: got %s", got.Inspect())
	}
	if _, err := Logical(ast.And, TRUE, i32(1)); !errors.Is(err, ErrExpectedBoolean) {
		t.Errorf("expected ErrExpectedBoolean, got %v", err)
	}

	if got, _ := Negate(i32(5)); got.(*Integer).Value != -5 {
		t.Errorf("-5: got %s", got.Inspect())
	}
	if got, _ := Negate(f32(2.5)); got.(*Float).Value != -2.5 {
		t.Errorf("-2.5: got %s", got.Inspect())
	}
	if _, err := Negate(TRUE); !errors.Is(err, ErrExpectedNumeric) {
		t.Errorf("expected ErrExpectedNumeric, got %v", err)
	}
	if got, _ := LogicalNot(FALSE); got != TRUE {
		t.Errorf("!false: got %s", got.Inspect())
	}
	if _, err := LogicalNot(i32(0)); !errors.Is(err, ErrExpectedBoolean) {
		t.Errorf("expected ErrExpectedBoolean, got %v", err)
	}
}

func TestRuntimeError(t *testing.T) {
	err := NewError(ErrNotAFunction, "got %s", INTEGER_OBJ)
	annotated := WithNode(err, "1(2)")

	if !errors.Is(annotated, ErrNotAFunction) {
		t.Fatalf("annotated error lost its kind")
	}
	if annotated.Error() != "left-hand side of application is not a function: got INTEGER in `1(2)`" {
		t.Errorf("unexpected message %q", annotated.Error())
	}
	if err.Node != "" {
		t.Errorf("WithNode modified the original error")
	}
	if again := WithNode(annotated, "outer"); again.Error() != annotated.Error() {
		t.Errorf("WithNode should keep the innermost node, got %q", again.Error())
	}
	if KindName(annotated) != "NotAFunction" {
		t.Errorf("unexpected kind name %q", KindName(annotated))
	}
	if KindName(errors.New("other")) != "" {
		t.Errorf("non-runtime error should have no kind name")
	}
}
