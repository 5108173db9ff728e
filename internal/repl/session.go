package repl

import (
	"small/internal/evaluator"
	"small/internal/lexer"
	"small/internal/object"
	"small/internal/parser"
	"small/internal/util"
	"strings"
)

// ParseError carries every parser message for one input.
type ParseError struct {
	Errors []string
}

func (e *ParseError) Error() string {
	return "parse failed: " + strings.Join(e.Errors, "; ")
}

// Session keeps one environment across inputs. Names stay write-once for the whole session.
type Session struct {
	evaluator *evaluator.Evaluator
	env       *object.Environment
}

func NewSession(config util.Configuration) *Session {
	return &Session{
		evaluator: evaluator.New(config),
		env:       object.NewEnvironment(),
	}
}

// Eval parses and evaluates one input. On failure the session environment is left as it was.
func (s *Session) Eval(source string) (object.Object, error) {
	p := parser.New(lexer.New(source), source)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		return nil, &ParseError{Errors: p.Errors()}
	}

	env, val, err := s.evaluator.RunIn(program, s.env)
	if err != nil {
		return nil, err
	}
	s.env = env
	return val, nil
}

// Incomplete reports whether source only failed to parse because it ended too early.
func (s *Session) Incomplete(source string) bool {
	p := parser.New(lexer.New(source), source)
	p.ParseProgram()
	return p.Incomplete()
}

func (s *Session) Env() *object.Environment {
	return s.env
}
