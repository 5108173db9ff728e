package ast

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// The base Node interface
type Node interface {
	String() string
}

// Expression nodes are immutable once built, Clone returns a fully independent copy.
type Expression interface {
	Node
	expressionNode()
	Clone() Expression
}

type Statement interface {
	Node
	statementNode()
	Clone() Statement
}

type Identifier struct {
	Value string
}

func (i *Identifier) expressionNode()   {}
func (i *Identifier) String() string    { return i.Value }
func (i *Identifier) Clone() Expression { return &Identifier{Value: i.Value} }

type IntegerLiteral struct {
	Value int32
}

func (il *IntegerLiteral) expressionNode()   {}
func (il *IntegerLiteral) String() string    { return strconv.FormatInt(int64(il.Value), 10) }
func (il *IntegerLiteral) Clone() Expression { return &IntegerLiteral{Value: il.Value} }

type FloatLiteral struct {
	Value float32
}

func (fl *FloatLiteral) expressionNode()   {}
func (fl *FloatLiteral) String() string    { return renderFloat(fl.Value) }
func (fl *FloatLiteral) Clone() Expression { return &FloatLiteral{Value: fl.Value} }

type BooleanLiteral struct {
	Value bool
}

func (b *BooleanLiteral) expressionNode()   {}
func (b *BooleanLiteral) String() string    { return strconv.FormatBool(b.Value) }
func (b *BooleanLiteral) Clone() Expression { return &BooleanLiteral{Value: b.Value} }

type CharLiteral struct {
	Value rune
}

func (c *CharLiteral) expressionNode()   {}
func (c *CharLiteral) String() string    { return Quote(string(c.Value), '\'') }
func (c *CharLiteral) Clone() Expression { return &CharLiteral{Value: c.Value} }

type StringLiteral struct {
	Value string
}

func (s *StringLiteral) expressionNode()   {}
func (s *StringLiteral) String() string    { return Quote(s.Value, '"') }
func (s *StringLiteral) Clone() Expression { return &StringLiteral{Value: s.Value} }

type ListLiteral struct {
	Elements []Expression
}

func (ll *ListLiteral) expressionNode() {}
func (ll *ListLiteral) String() string {
	var out bytes.Buffer

	out.WriteString("[")
	out.WriteString(joinExpressions(ll.Elements))
	out.WriteString("]")

	return out.String()
}
func (ll *ListLiteral) Clone() Expression {
	return &ListLiteral{Elements: cloneExpressions(ll.Elements)}
}

type TupleLiteral struct {
	Elements []Expression
}

func (tl *TupleLiteral) expressionNode() {}
func (tl *TupleLiteral) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(joinExpressions(tl.Elements))
	if len(tl.Elements) == 1 {
		// keeps a 1-tuple distinct from a grouped expression
		out.WriteString(",")
	}
	out.WriteString(")")

	return out.String()
}
func (tl *TupleLiteral) Clone() Expression {
	return &TupleLiteral{Elements: cloneExpressions(tl.Elements)}
}

type BinaryExpression struct {
	Operator BinaryOperator
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode() {}
func (be *BinaryExpression) String() string {
	prec := be.Operator.Precedence()

	var out bytes.Buffer
	out.WriteString(operand(be.Left, prec, false))
	out.WriteString(" " + be.Operator.String() + " ")
	out.WriteString(operand(be.Right, prec, true))
	return out.String()
}
func (be *BinaryExpression) Clone() Expression {
	return &BinaryExpression{
		Operator: be.Operator,
		Left:     be.Left.Clone(),
		Right:    be.Right.Clone(),
	}
}

type UnaryExpression struct {
	Operator UnaryOperator
	Operand  Expression
}

func (ue *UnaryExpression) expressionNode() {}
func (ue *UnaryExpression) String() string {
	s := operand(ue.Operand, PREFIX, false)
	// -5 would read back as a negative literal
	if ue.Operator == Neg && s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "(" + s + ")"
	}
	return ue.Operator.String() + s
}
func (ue *UnaryExpression) Clone() Expression {
	return &UnaryExpression{Operator: ue.Operator, Operand: ue.Operand.Clone()}
}

type LambdaExpression struct {
	Parameters []string
	Body       Statement
}

func (le *LambdaExpression) expressionNode() {}
func (le *LambdaExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(\\ ")
	for _, p := range le.Parameters {
		out.WriteString(p + " ")
	}
	out.WriteString("-> { ")
	out.WriteString(le.Body.String())
	out.WriteString(" })")

	return out.String()
}

// Clone is also used by the evaluator so a closure owns its own copy of the lambda.
func (le *LambdaExpression) Clone() Expression {
	return le.CloneLambda()
}

func (le *LambdaExpression) CloneLambda() *LambdaExpression {
	var params []string
	if le.Parameters != nil {
		params = make([]string, len(le.Parameters))
		copy(params, le.Parameters)
	}
	return &LambdaExpression{Parameters: params, Body: le.Body.Clone()}
}

type ApplyExpression struct {
	Function  Expression
	Arguments []Expression
}

func (ae *ApplyExpression) expressionNode() {}
func (ae *ApplyExpression) String() string {
	var out bytes.Buffer

	out.WriteString(operand(ae.Function, CALL, false))
	out.WriteString("(")
	out.WriteString(joinExpressions(ae.Arguments))
	out.WriteString(")")

	return out.String()
}
func (ae *ApplyExpression) Clone() Expression {
	return &ApplyExpression{
		Function:  ae.Function.Clone(),
		Arguments: cloneExpressions(ae.Arguments),
	}
}

type IfExpression struct {
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ie *IfExpression) expressionNode() {}
func (ie *IfExpression) String() string {
	return "if " + ie.Condition.String() +
		" then " + ie.Consequence.String() +
		" else " + ie.Alternative.String()
}
func (ie *IfExpression) Clone() Expression {
	return &IfExpression{
		Condition:   ie.Condition.Clone(),
		Consequence: ie.Consequence.Clone(),
		Alternative: ie.Alternative.Clone(),
	}
}

// Statements

type NoOp struct{}

func (n *NoOp) statementNode()   {}
func (n *NoOp) String() string   { return ";" }
func (n *NoOp) Clone() Statement { return &NoOp{} }

// Sequence associates left-to-right: a b c is Sequence(Sequence(a, b), c).
type Sequence struct {
	First  Statement
	Second Statement
}

func (s *Sequence) statementNode() {}
func (s *Sequence) String() string {
	second := s.Second.String()
	if _, ok := s.Second.(*Sequence); ok {
		// a right-nested sequence only comes from a block
		second = "{ " + second + " }"
	}
	return s.First.String() + "\n" + second
}
func (s *Sequence) Clone() Statement {
	return &Sequence{First: s.First.Clone(), Second: s.Second.Clone()}
}

type Assignment struct {
	Name  string
	Value Expression
}

func (a *Assignment) statementNode() {}
func (a *Assignment) String() string {
	return a.Name + " = " + a.Value.String() + ";"
}
func (a *Assignment) Clone() Statement {
	return &Assignment{Name: a.Name, Value: a.Value.Clone()}
}

type ReturnStatement struct {
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode() {}
func (rs *ReturnStatement) String() string {
	return "return " + rs.ReturnValue.String() + ";"
}
func (rs *ReturnStatement) Clone() Statement {
	return &ReturnStatement{ReturnValue: rs.ReturnValue.Clone()}
}

// Seq folds statements left-to-right into nested Sequence nodes, an empty list is a NoOp.
func Seq(stmts ...Statement) Statement {
	if len(stmts) == 0 {
		return &NoOp{}
	}
	result := stmts[0]
	for _, s := range stmts[1:] {
		result = &Sequence{First: result, Second: s}
	}
	return result
}

// renderFloat writes infinities and NaN as the division that produces them, there is no
// literal for them.
func renderFloat(f float32) string {
	switch {
	case math.IsInf(float64(f), 1):
		return "(1.0 / 0.0)"
	case math.IsInf(float64(f), -1):
		return "(-1.0 / 0.0)"
	case math.IsNaN(float64(f)):
		return "(0.0 / 0.0)"
	}
	return FormatFloat(f)
}

// FormatFloat renders a float with a decimal point, finite values read back as a float literal.
func FormatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// Quote renders s between quote runes using the escapes the lexer understands.
func Quote(s string, quote rune) string {
	var out strings.Builder
	out.WriteRune(quote)
	for _, r := range s {
		switch r {
		case '\n':
			out.WriteString(`\n`)
		case '\t':
			out.WriteString(`\t`)
		case '\r':
			out.WriteString(`\r`)
		case 0:
			out.WriteString(`\0`)
		case '\\':
			out.WriteString(`\\`)
		case quote:
			out.WriteRune('\\')
			out.WriteRune(r)
		default:
			out.WriteRune(r)
		}
	}
	out.WriteRune(quote)
	return out.String()
}

// operand renders a child expression, parenthesised when it binds looser than its parent.
func operand(e Expression, parent int, right bool) string {
	switch e := e.(type) {
	case *BinaryExpression:
		prec := e.Operator.Precedence()
		if prec < parent || (right && prec == parent) {
			return "(" + e.String() + ")"
		}
	case *UnaryExpression:
		if parent >= CALL {
			return "(" + e.String() + ")"
		}
	case *IfExpression:
		return "(" + e.String() + ")"
	case *IntegerLiteral, *FloatLiteral:
		s := e.String()
		if parent >= CALL && strings.HasPrefix(s, "-") {
			return "(" + s + ")"
		}
		return s
	}
	return e.String()
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

func cloneExpressions(exprs []Expression) []Expression {
	if exprs == nil {
		return nil
	}
	out := make([]Expression, len(exprs))
	for i, e := range exprs {
		out[i] = e.Clone()
	}
	return out
}
