package object

import (
	"bytes"
	"small/internal/ast"
	"strconv"
	"strings"
)

const (
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	BOOLEAN_OBJ = "BOOLEAN"
	CHAR_OBJ    = "CHAR"
	STRING_OBJ  = "STRING"
	LIST_OBJ    = "LIST"
	TUPLE_OBJ   = "TUPLE"
	CLOSURE_OBJ = "CLOSURE"
)

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	// UNIT is the value of a program or call that never computed one.
	UNIT = &Tuple{Elements: []Object{}}
)

type ObjectType string

// Object is a runtime value. Values are never mutated after they are produced.
type Object interface {
	Type() ObjectType
	Inspect() string
	Clone() Object
}

type Integer struct {
	Value int32
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(int64(i.Value), 10) }
func (i *Integer) Clone() Object    { return &Integer{Value: i.Value} }

type Float struct {
	Value float32
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return ast.FormatFloat(f.Value) }
func (f *Float) Clone() Object    { return &Float{Value: f.Value} }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) Clone() Object    { return &Boolean{Value: b.Value} }

type Char struct {
	Value rune
}

func (c *Char) Type() ObjectType { return CHAR_OBJ }
func (c *Char) Inspect() string  { return string(c.Value) }
func (c *Char) Clone() Object    { return &Char{Value: c.Value} }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) Clone() Object    { return &String{Value: s.Value} }

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	var out bytes.Buffer

	out.WriteString("[")
	out.WriteString(inspectAll(l.Elements))
	out.WriteString("]")

	return out.String()
}
func (l *List) Clone() Object { return &List{Elements: cloneAll(l.Elements)} }

type Tuple struct {
	Elements []Object
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(inspectAll(t.Elements))
	out.WriteString(")")

	return out.String()
}
func (t *Tuple) Clone() Object { return &Tuple{Elements: cloneAll(t.Elements)} }

// Closure pairs a private copy of a lambda with the environment it was created in.
type Closure struct {
	Lambda *ast.LambdaExpression
	Env    *Environment
}

func NewClosure(lambda *ast.LambdaExpression, env *Environment) *Closure {
	return &Closure{Lambda: lambda.CloneLambda(), Env: env}
}

func (c *Closure) Type() ObjectType { return CLOSURE_OBJ }
func (c *Closure) Inspect() string  { return c.Lambda.String() }

// Clone copies the lambda, environments are persistent so the snapshot is shared as is.
func (c *Closure) Clone() Object {
	return &Closure{Lambda: c.Lambda.CloneLambda(), Env: c.Env}
}

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func inspectAll(objs []Object) string {
	parts := make([]string, 0, len(objs))
	for _, o := range objs {
		parts = append(parts, o.Inspect())
	}
	return strings.Join(parts, ", ")
}

func cloneAll(objs []Object) []Object {
	if objs == nil {
		return nil
	}
	out := make([]Object, len(objs))
	for i, o := range objs {
		out[i] = o.Clone()
	}
	return out
}
