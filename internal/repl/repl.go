package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const (
	PROMPT       = ">> "
	CONTINUATION = ".. "
	HistoryFile  = ".small_history"
)

// Start runs an interactive session on the terminal with line editing and history.
func Start(session *Session, out io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, HistoryFile)
	}
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		input, ok := readByParseProbe(ln, session)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		if quit := handle(session, input, out); quit {
			return nil
		}
	}
}

// readByParseProbe keeps prompting for lines while the input so far is an unfinished program.
func readByParseProbe(ln *liner.State, session *Session) (string, bool) {
	var b strings.Builder

	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONTINUATION
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			slog.Warn("failed to read input", slog.Any("error", err))
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if isCommand(src) || !session.Incomplete(src) {
			return src, true
		}
	}
}

// Run is the non-interactive loop used when input is not a terminal. It reads the same way
// the interactive loop does, one program per complete input.
func Run(session *Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	var b strings.Builder

	for {
		if b.Len() == 0 {
			fmt.Fprint(out, PROMPT)
		} else {
			fmt.Fprint(out, CONTINUATION)
		}
		if !scanner.Scan() {
			// input ended mid program, report what the parser makes of it
			if strings.TrimSpace(b.String()) != "" {
				fmt.Fprintln(out)
				handle(session, b.String(), out)
			}
			return scanner.Err()
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(scanner.Text())

		src := b.String()
		if !isCommand(src) && session.Incomplete(src) {
			continue
		}
		b.Reset()

		if strings.TrimSpace(src) == "" {
			continue
		}
		if quit := handle(session, src, out); quit {
			return nil
		}
	}
}

func isCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), ":")
}

// handle evaluates one input or runs a command and reports whether the session should end.
func handle(session *Session, input string, out io.Writer) bool {
	if isCommand(input) {
		switch strings.ToLower(strings.TrimSpace(input)) {
		case ":quit", ":q":
			return true
		case ":env":
			env := session.Env()
			for _, name := range env.Names() {
				val, _ := env.Get(name)
				fmt.Fprintf(out, "%s = %s\n", name, val.Inspect())
			}
		default:
			fmt.Fprintln(out, "unknown command, try :env or :quit")
		}
		return false
	}

	val, err := session.Eval(input)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			printParserErrors(out, perr.Errors)
		} else {
			fmt.Fprintf(out, "Evaluation failed: %v\n", err)
		}
		return false
	}

	io.WriteString(out, val.Inspect())
	io.WriteString(out, "\n")
	return false
}

func printParserErrors(out io.Writer, errors []string) {
	io.WriteString(out, "Parsing failed.\n")
	for _, msg := range errors {
		io.WriteString(out, "\t"+msg+"\n")
	}
}
