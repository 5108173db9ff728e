package parser

import (
	"fmt"
	"small/internal/ast"
	"strings"
)

// RenderASTAsText produces an indented tree with one node per line.
// It is meant for debugging precedence and how statements were folded into sequences.
func RenderASTAsText(node ast.Node, indent int) string {
	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.NoOp:
		return sp + "NoOp"

	case *ast.Sequence:
		return sp + "Sequence\n" +
			RenderASTAsText(n.First, indent+1) + "\n" +
			RenderASTAsText(n.Second, indent+1)

	case *ast.Assignment:
		return fmt.Sprintf("%sAssignment %s\n%s", sp, n.Name, RenderASTAsText(n.Value, indent+1))

	case *ast.ReturnStatement:
		return sp + "Return\n" + RenderASTAsText(n.ReturnValue, indent+1)

	case *ast.Identifier:
		return sp + "Identifier " + n.Value

	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.BooleanLiteral, *ast.CharLiteral, *ast.StringLiteral:
		return fmt.Sprintf("%s%s %s", sp, strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast."), n.String())

	case *ast.ListLiteral:
		return renderChildren(sp+"List", n.Elements, indent)

	case *ast.TupleLiteral:
		return renderChildren(sp+"Tuple", n.Elements, indent)

	case *ast.BinaryExpression:
		return fmt.Sprintf("%sBinary %s\n%s\n%s", sp, n.Operator,
			RenderASTAsText(n.Left, indent+1),
			RenderASTAsText(n.Right, indent+1))

	case *ast.UnaryExpression:
		return fmt.Sprintf("%sUnary %s\n%s", sp, n.Operator, RenderASTAsText(n.Operand, indent+1))

	case *ast.LambdaExpression:
		return fmt.Sprintf("%sLambda \\ %s ->\n%s", sp, strings.Join(n.Parameters, " "), RenderASTAsText(n.Body, indent+1))

	case *ast.ApplyExpression:
		return renderChildren(sp+"Apply\n"+RenderASTAsText(n.Function, indent+1), n.Arguments, indent)

	case *ast.IfExpression:
		return sp + "If\n" +
			RenderASTAsText(n.Condition, indent+1) + "\n" +
			RenderASTAsText(n.Consequence, indent+1) + "\n" +
			RenderASTAsText(n.Alternative, indent+1)

	default:
		return fmt.Sprintf("%s<unknown %T>", sp, node)
	}
}

func renderChildren(head string, children []ast.Expression, indent int) string {
	var sb strings.Builder
	sb.WriteString(head)
	for _, c := range children {
		sb.WriteString("\n")
		sb.WriteString(RenderASTAsText(c, indent+1))
	}
	return sb.String()
}
