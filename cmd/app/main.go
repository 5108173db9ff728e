package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"small/internal/evaluator"
	"small/internal/journal"
	"small/internal/lexer"
	"small/internal/log"
	"small/internal/object"
	"small/internal/parser"
	"small/internal/repl"
	"small/internal/util"
	"time"
)

const (
	exitOK          = 0
	exitOpenFailed  = 1
	exitParseFailed = 2
	exitEvalFailed  = 3
)

var (
	// Version is the current version of the small binary, set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configFile    string
	debugAST      string
	maxDepth      int
	journalDriver string
	journalDSN    string
	history       int
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configFile, "config", util.DefaultConfigFile, "TOML configuration file")
	// parser config
	flag.StringVar(&debugAST, "debug-ast", "", "Write the AST beside the source file: text, json or yaml")
	// evaluator config
	flag.IntVar(&maxDepth, "max-depth", util.DefaultMaxCallDepth, "Maximum number of nested function calls")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	// journal config
	flag.StringVar(&journalDriver, "journal-driver", "", "Record runs in a database: sqlite3, mysql or postgres")
	flag.StringVar(&journalDSN, "journal-dsn", "", "Data source name of the journal database")
	flag.IntVar(&history, "history", 0, "Print the last N journal entries and exit")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if version {
		printVersion()
		return exitOK
	}

	if help {
		printHelp()
		return exitOK
	}

	config, err := loadConfiguration()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitOpenFailed
	}

	logOutput, err := log.Init(config.Log.Level, config.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitOpenFailed
	}
	defer logOutput.Close()

	ctx := context.Background()

	var runs *journal.Journal
	if config.Journal.Driver != "" {
		runs, err = journal.Open(ctx, config.Journal.Driver, config.Journal.DSN)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitOpenFailed
		}
		defer runs.Close()
	}

	if history > 0 {
		return printHistory(ctx, os.Stdout, runs, history)
	}

	if flag.NArg() == 0 {
		return startRepl(config)
	}

	return runFile(ctx, config, runs, flag.Arg(0))
}

// loadConfiguration reads the TOML file and lets flags given on the command line override it.
func loadConfiguration() (util.Configuration, error) {
	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	config, err := util.LoadConfigFile(configFile, !explicit["config"])
	if err != nil {
		return config, err
	}

	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	if explicit["debug-ast"] {
		config.DebugAST = debugAST
	}
	if explicit["max-depth"] {
		config.MaxCallDepth = maxDepth
	}
	if explicit["log-level"] {
		config.Log.Level = logLevel
	}
	if explicit["log-file"] {
		config.Log.File = logFile
	}
	if explicit["journal-driver"] {
		config.Journal.Driver = journalDriver
	}
	if explicit["journal-dsn"] {
		config.Journal.DSN = journalDSN
	}

	switch config.DebugAST {
	case "", "text", "json", "yaml":
	default:
		return config, fmt.Errorf("invalid -debug-ast '%s', expected text, json or yaml", config.DebugAST)
	}
	if config.MaxCallDepth <= 0 {
		return config, fmt.Errorf("invalid -max-depth %d, must be positive", config.MaxCallDepth)
	}
	return config, nil
}

func runFile(ctx context.Context, config util.Configuration, runs *journal.Journal, filename string) int {
	src, err := os.ReadFile(filename)
	if err != nil {
		slog.Error("failed to open source", slog.String("file", filename), slog.Any("error", err))
		fmt.Printf("Failed to open %s\n", filename)
		return exitOpenFailed
	}
	source := string(src)

	p := parser.New(lexer.New(source), source)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		fmt.Println("Parsing failed.")
		for _, msg := range p.Errors() {
			fmt.Println("\t" + msg)
		}
		fmt.Println(p.ErrorContext())
		return exitParseFailed
	}

	fmt.Println("Parsing completed.")
	fmt.Println("The program:")
	fmt.Println(program.String())

	if config.DebugAST != "" {
		dump := filename + ".ast." + config.DebugAST
		if err := parser.WriteAST(program, dump, config.DebugAST); err != nil {
			slog.Warn("failed to write AST dump", slog.String("file", dump), slog.Any("error", err))
		}
	}

	started := time.Now()
	val, err := evaluator.New(config).Run(program)
	entry := journal.Run{
		Source:    filename,
		Program:   program.String(),
		Duration:  time.Since(started),
		StartedAt: started,
	}

	code := exitOK
	if err != nil {
		entry.ErrorKind = object.KindName(err)
		entry.ErrorMessage = err.Error()
		slog.Info("evaluation failed", slog.String("file", filename), slog.String("kind", entry.ErrorKind))
		fmt.Fprintf(os.Stderr, "Evaluation failed: %v\n", err)
		code = exitEvalFailed
	} else {
		entry.Value = val.Inspect()
		slog.Info("evaluation completed", slog.String("file", filename), slog.Duration("duration", entry.Duration))
		fmt.Printf("Final value: %s\n", entry.Value)
	}

	if runs != nil {
		if _, err := runs.Record(ctx, entry); err != nil {
			slog.Warn("failed to record run", slog.Any("error", err))
		}
	}
	return code
}

func startRepl(config util.Configuration) int {
	session := repl.NewSession(config)

	var err error
	if isTerminal(os.Stdin) {
		fmt.Printf("small %s, :env lists bindings, :quit exits\n", Version)
		err = repl.Start(session, os.Stdout)
	} else {
		err = repl.Run(session, os.Stdin, os.Stdout)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitOpenFailed
	}
	return exitOK
}

func printHistory(ctx context.Context, out io.Writer, runs *journal.Journal, limit int) int {
	if runs == nil {
		fmt.Fprintln(os.Stderr, "-history needs a journal, set -journal-driver and -journal-dsn")
		return exitOpenFailed
	}

	entries, err := runs.Recent(ctx, limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitOpenFailed
	}

	fmt.Fprintf(out, "last %d runs in the %s journal\n", len(entries), runs.Driver())
	for _, e := range entries {
		outcome := e.Value
		if e.Failed() {
			outcome = "failed: " + e.ErrorMessage
		}
		fmt.Fprintf(out, "%4d  %s  %-20s %8s  %s\n",
			e.ID, e.StartedAt.Format(time.RFC3339), e.Source, e.Duration.Round(time.Microsecond), outcome)
	}
	return exitOK
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func printVersion() {
	fmt.Printf("small version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: small [options] [filename]

Options:
  -config <path>          TOML configuration file. Default is 'small.toml' if present.
  -debug-ast <format>     Write the AST beside the source as text, json or yaml.
  -max-depth <n>          Maximum number of nested function calls. Default is %d.
  -journal-driver <name>  Record runs in a database: sqlite3, mysql or postgres.
  -journal-dsn <dsn>      Data source name of the journal database.
  -history <n>            Print the last n journal entries and exit.
  -help                   Display this help information and exit.
  -version                Display version information and exit.
  -log-level <level>      Set the log level: trace, debug, info, warn, error, none. Default is 'none'.
  -log-file <path>        Specify a log file to write logs. Default is stderr.

Details:
Without a filename an interactive session is started.

Exit codes:
  0  evaluation succeeded
  1  the file could not be opened
  2  parsing failed
  3  evaluation failed

Examples:
  small program.sm                                  Evaluate the provided file
  small -debug-ast=yaml program.sm                  Also write program.sm.ast.yaml
  small -journal-driver=sqlite3 -journal-dsn=runs.db program.sm
  small -journal-driver=sqlite3 -journal-dsn=runs.db -history=10

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, util.DefaultMaxCallDepth, Version, BuildDate, Commit)
}
