package repl

import (
	"errors"
	"small/internal/object"
	"small/internal/util"
	"strings"
	"testing"
)

func TestSessionKeepsBindings(t *testing.T) {
	s := NewSession(util.DefaultConfiguration())

	if _, err := s.Eval("x = 40;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, err := s.Eval("x + 2;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val.Inspect() != "42" {
		t.Errorf("expected 42, got %s", val.Inspect())
	}

	_, err = s.Eval("x = 1;")
	if !errors.Is(err, object.ErrDuplicateBinding) {
		t.Errorf("expected a duplicate binding, got %v", err)
	}
}

func TestFailedInputLeavesEnvironment(t *testing.T) {
	s := NewSession(util.DefaultConfiguration())

	if _, err := s.Eval("a = 1; b = missing;"); !errors.Is(err, object.ErrUnboundIdentifier) {
		t.Fatalf("expected an unbound identifier, got %v", err)
	}
	if s.Env().Len() != 0 {
		t.Errorf("failed input leaked bindings: %s", s.Env().Inspect())
	}

	var perr *ParseError
	if _, err := s.Eval("a = ;"); !errors.As(err, &perr) || len(perr.Errors) != 1 {
		t.Errorf("expected a parse error, got %v", err)
	}
}

func TestRun(t *testing.T) {
	s := NewSession(util.DefaultConfiguration())
	input := strings.Join([]string{
		`f = \ a b -> {`,
		`  return a * b;`,
		`};`,
		`f(6, 7);`,
		`oops = ;`,
		`f(1);`,
		`:env`,
		`:nope`,
		`:quit`,
		`never = 1;`,
	}, "\n")

	var out strings.Builder
	if err := Run(s, strings.NewReader(input), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"(\\ a b -> { return a * b; })\n",
		".. .. ",
		"42\n",
		"Parsing failed.\n\t[  1: 8] unexpected ;, expected an expression\n",
		"Evaluation failed: arity mismatch: parameter/argument count mismatch: expected 2, got 1 in `f(1)`\n",
		"f = (\\ a b -> { return a * b; })\n",
		"unknown command, try :env or :quit\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output is missing %q:\n%s", want, got)
		}
	}
	if _, ok := s.Env().Get("never"); ok {
		t.Errorf("input after :quit was evaluated")
	}
}

func TestRunReportsUnfinishedInput(t *testing.T) {
	s := NewSession(util.DefaultConfiguration())

	var out strings.Builder
	if err := Run(s, strings.NewReader("y = 2;\nx = (1,"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Parsing failed.\n\t[  1: 8] unexpected end of input, expected an expression\n"
	if !strings.HasSuffix(out.String(), want) {
		t.Errorf("expected output to end with %q, got:\n%s", want, out.String())
	}
	if _, ok := s.Env().Get("y"); !ok {
		t.Errorf("complete input before the unfinished one was not evaluated")
	}
}
