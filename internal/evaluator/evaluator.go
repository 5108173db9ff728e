package evaluator

import (
	"context"
	"log/slog"
	"small/internal/ast"
	"small/internal/object"
	"small/internal/util"
)

// Evaluator walks an AST. It is single threaded and keeps no state between runs apart from the
// current call depth.
type Evaluator struct {
	Config util.Configuration
	depth  int
}

func New(config util.Configuration) *Evaluator {
	if config.MaxCallDepth <= 0 {
		config.MaxCallDepth = util.DefaultMaxCallDepth
	}
	return &Evaluator{Config: config}
}

// Run evaluates a whole program in a fresh environment and returns its final value.
func (e *Evaluator) Run(program ast.Statement) (object.Object, error) {
	_, val, err := e.RunIn(program, object.NewEnvironment())
	return val, err
}

// RunIn evaluates a program on top of env. The returned environment holds every binding the
// program made and is nil on failure.
func (e *Evaluator) RunIn(program ast.Statement, env *object.Environment) (*object.Environment, object.Object, error) {
	e.depth = 0
	env, val, err := e.Exec(program, env)
	if err != nil {
		return nil, nil, err
	}
	if val == nil {
		val = object.UNIT
	}
	return env, val, nil
}

// Exec runs a statement and returns the environment it leaves behind and its final value.
// A nil value means the statement computed nothing.
func (e *Evaluator) Exec(stmt ast.Statement, env *object.Environment) (*object.Environment, object.Object, error) {
	switch stmt := stmt.(type) {

	case *ast.NoOp:
		return env, nil, nil

	case *ast.Sequence:
		env, first, err := e.Exec(stmt.First, env)
		if err != nil {
			return nil, nil, err
		}
		env, second, err := e.Exec(stmt.Second, env)
		if err != nil {
			return nil, nil, err
		}
		// a return in First does not stop Second, it only set the final value
		if second == nil {
			second = first
		}
		return env, second, nil

	case *ast.Assignment:
		val, err := e.Eval(stmt.Value, env)
		if err != nil {
			return nil, nil, err
		}
		next, err := env.Bind(stmt.Name, val)
		if err != nil {
			return nil, nil, object.WithNode(err, stmt.String())
		}
		return next, val, nil

	case *ast.ReturnStatement:
		val, err := e.Eval(stmt.ReturnValue, env)
		if err != nil {
			return nil, nil, err
		}
		return env, val, nil
	}

	return nil, nil, object.NewError(object.ErrUnknownOperator, "unknown statement %T", stmt)
}

// Eval computes the value of an expression. Failures carry the text of the innermost
// expression that raised them.
func (e *Evaluator) Eval(node ast.Expression, env *object.Environment) (object.Object, error) {
	val, err := e.eval(node, env)
	if err != nil {
		return nil, object.WithNode(err, node.String())
	}
	return val, nil
}

func (e *Evaluator) eval(node ast.Expression, env *object.Environment) (object.Object, error) {
	switch node := node.(type) {

	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}, nil

	case *ast.FloatLiteral:
		return &object.Float{Value: node.Value}, nil

	case *ast.BooleanLiteral:
		return object.NativeBoolToBooleanObject(node.Value), nil

	case *ast.CharLiteral:
		return &object.Char{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil

	case *ast.Identifier:
		return env.Lookup(node.Value)

	case *ast.ListLiteral:
		elements, err := e.evalExpressions(node.Elements, env)
		if err != nil {
			return nil, err
		}
		return &object.List{Elements: elements}, nil

	case *ast.TupleLiteral:
		elements, err := e.evalExpressions(node.Elements, env)
		if err != nil {
			return nil, err
		}
		return &object.Tuple{Elements: elements}, nil

	case *ast.UnaryExpression:
		operand, err := e.Eval(node.Operand, env)
		if err != nil {
			return nil, err
		}
		return evalUnaryExpression(node.Operator, operand)

	case *ast.BinaryExpression:
		left, err := e.Eval(node.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := e.Eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		return evalBinaryExpression(node.Operator, left, right)

	case *ast.LambdaExpression:
		return object.NewClosure(node, env), nil

	case *ast.ApplyExpression:
		return e.evalApply(node, env)

	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	}

	return nil, object.NewError(object.ErrUnknownOperator, "unknown expression %T", node)
}

func (e *Evaluator) evalExpressions(exps []ast.Expression, env *object.Environment) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exps))
	for _, exp := range exps {
		evaluated, err := e.Eval(exp, env)
		if err != nil {
			return nil, err
		}
		result = append(result, evaluated)
	}
	return result, nil
}

func evalUnaryExpression(operator ast.UnaryOperator, operand object.Object) (object.Object, error) {
	switch operator {
	case ast.Neg:
		return object.Negate(operand)
	case ast.Not:
		return object.LogicalNot(operand)
	default:
		return nil, object.NewError(object.ErrUnknownOperator, "unary operator tag %d", int(operator))
	}
}

func evalBinaryExpression(operator ast.BinaryOperator, left, right object.Object) (object.Object, error) {
	switch {
	case operator.IsArithmetic():
		return object.Arithmetic(operator, left, right)
	case operator.IsOrdering():
		return object.Ordering(operator, left, right)
	case operator.IsLogical():
		return object.Logical(operator, left, right)
	case operator == ast.Eq:
		return object.Eq(left, right)
	default:
		return nil, object.NewError(object.ErrUnknownOperator, "binary operator tag %d", int(operator))
	}
}

func (e *Evaluator) evalIfExpression(ie *ast.IfExpression, env *object.Environment) (object.Object, error) {
	condition, err := e.Eval(ie.Condition, env)
	if err != nil {
		return nil, err
	}

	cond, ok := condition.(*object.Boolean)
	if !ok {
		return nil, object.NewError(object.ErrNonBooleanCondition, "got %s", condition.Type())
	}

	if cond.Value {
		return e.Eval(ie.Consequence, env)
	}
	return e.Eval(ie.Alternative, env)
}

func (e *Evaluator) evalApply(node *ast.ApplyExpression, env *object.Environment) (object.Object, error) {
	function, err := e.Eval(node.Function, env)
	if err != nil {
		return nil, err
	}

	closure, ok := function.(*object.Closure)
	if !ok {
		return nil, object.NewError(object.ErrNotAFunction, "got %s", function.Type())
	}

	// arguments are evaluated in the caller's scope
	args, err := e.evalExpressions(node.Arguments, env)
	if err != nil {
		return nil, err
	}

	return e.applyFunction(closure, args)
}

func (e *Evaluator) applyFunction(closure *object.Closure, args []object.Object) (object.Object, error) {
	params := closure.Lambda.Parameters
	if len(params) != len(args) {
		return nil, object.NewError(object.ErrArityMismatch,
			"parameter/argument count mismatch: expected %d, got %d", len(params), len(args))
	}

	if e.depth >= e.Config.MaxCallDepth {
		return nil, object.NewError(object.ErrCallDepthExceeded, "more than %d nested calls", e.Config.MaxCallDepth)
	}

	// the frame grows from the captured snapshot, never from the caller's environment
	frame, err := closure.Env.Extend(params, args)
	if err != nil {
		return nil, err
	}

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("apply",
			slog.String("function", closure.Inspect()),
			slog.Int("arguments", len(args)),
			slog.Int("depth", e.depth+1))
	}

	e.depth++
	_, result, err := e.Exec(closure.Lambda.Body, frame)
	e.depth--
	if err != nil {
		return nil, err
	}

	if result == nil {
		return object.UNIT, nil
	}
	return result, nil
}
