package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"small/internal/ast"

	"gopkg.in/yaml.v3"
)

// WalkAST recursively traverses an AST and serializes it into a map structure for JSON and YAML output.
// Keys carry a numeric prefix so both encoders, which sort map keys, keep the field order.
func WalkAST(node ast.Node) interface{} {
	switch n := node.(type) {
	case *ast.NoOp:
		return map[string]interface{}{
			"0.type": "NoOp",
		}

	case *ast.Sequence:
		return map[string]interface{}{
			"0.type":   "Sequence",
			"1.first":  WalkAST(n.First),
			"2.second": WalkAST(n.Second),
		}

	case *ast.Assignment:
		return map[string]interface{}{
			"0.type":  "Assignment",
			"1.name":  n.Name,
			"2.value": WalkAST(n.Value),
		}

	case *ast.ReturnStatement:
		return map[string]interface{}{
			"0.type":        "ReturnStatement",
			"1.returnValue": WalkAST(n.ReturnValue),
		}

	case *ast.Identifier:
		return map[string]interface{}{
			"0.type":  "Identifier",
			"1.value": n.Value,
		}

	case *ast.IntegerLiteral:
		return map[string]interface{}{
			"0.type":  "IntegerLiteral",
			"1.value": n.Value,
		}

	case *ast.FloatLiteral:
		var value interface{} = n.Value
		if math.IsInf(float64(n.Value), 0) || math.IsNaN(float64(n.Value)) {
			// JSON has no numbers for these
			value = ast.FormatFloat(n.Value)
		}
		return map[string]interface{}{
			"0.type":  "FloatLiteral",
			"1.value": value,
		}

	case *ast.BooleanLiteral:
		return map[string]interface{}{
			"0.type":  "BooleanLiteral",
			"1.value": n.Value,
		}

	case *ast.CharLiteral:
		return map[string]interface{}{
			"0.type":  "CharLiteral",
			"1.value": string(n.Value),
		}

	case *ast.StringLiteral:
		return map[string]interface{}{
			"0.type":  "StringLiteral",
			"1.value": n.Value,
		}

	case *ast.ListLiteral:
		return map[string]interface{}{
			"0.type":     "ListLiteral",
			"1.elements": walkAll(n.Elements),
		}

	case *ast.TupleLiteral:
		return map[string]interface{}{
			"0.type":     "TupleLiteral",
			"1.elements": walkAll(n.Elements),
		}

	case *ast.BinaryExpression:
		return map[string]interface{}{
			"0.type":     "BinaryExpression",
			"1.left":     WalkAST(n.Left),
			"2.operator": n.Operator.String(),
			"3.right":    WalkAST(n.Right),
		}

	case *ast.UnaryExpression:
		return map[string]interface{}{
			"0.type":     "UnaryExpression",
			"1.operator": n.Operator.String(),
			"2.operand":  WalkAST(n.Operand),
		}

	case *ast.LambdaExpression:
		parameters := make([]interface{}, len(n.Parameters))
		for i, param := range n.Parameters {
			parameters[i] = param
		}
		return map[string]interface{}{
			"0.type":       "LambdaExpression",
			"1.parameters": parameters,
			"2.body":       WalkAST(n.Body),
		}

	case *ast.ApplyExpression:
		return map[string]interface{}{
			"0.type":      "ApplyExpression",
			"1.function":  WalkAST(n.Function),
			"2.arguments": walkAll(n.Arguments),
		}

	case *ast.IfExpression:
		return map[string]interface{}{
			"0.type":      "IfExpression",
			"1.condition": WalkAST(n.Condition),
			"2.then":      WalkAST(n.Consequence),
			"3.else":      WalkAST(n.Alternative),
		}

	default:
		return map[string]interface{}{
			"0.type": fmt.Sprintf("Unknown: %T", node),
		}
	}
}

func walkAll(exprs []ast.Expression) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		out[i] = WalkAST(e)
	}
	return out
}

// EncodeAST renders node in one of the dump formats: text, json or yaml.
func EncodeAST(node ast.Node, format string) ([]byte, error) {
	switch format {
	case "text":
		return []byte(RenderASTAsText(node, 0) + "\n"), nil

	case "json":
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "  ") // Pretty-print the JSON
		encoder.SetEscapeHTML(false) // Disable escaping of characters like <, >, &
		if err := encoder.Encode(WalkAST(node)); err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %v", err)
		}
		return buf.Bytes(), nil

	case "yaml":
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(WalkAST(node)); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %v", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %v", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unknown AST dump format '%s'", format)
	}
}

// WriteAST writes the dump of node to filename.
func WriteAST(node ast.Node, filename, format string) error {
	data, err := EncodeAST(node, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write AST dump: %v", err)
	}
	return nil
}
