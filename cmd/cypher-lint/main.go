package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	cypher "github.com/RedisGraph/libcypher-parser"
	"github.com/RedisGraph/libcypher-parser/pkg/printer"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/teris-io/cli"
	"golang.org/x/term"
)

var Description = strings.ReplaceAll(`
cypher-lint reads a Cypher script from standard input, reports every
syntax error it finds on stderr and, optionally, dumps the parsed AST
to stdout.
`, "\n", " ")

var log = logrus.New()

var CypherLint = cli.New(Description).
	WithOption(cli.NewOption("ast", "Dump the parsed AST to stdout").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("colorize", "Colorize output using ANSI escape sequences").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("output-width", "Wrap AST/error output at the given column width").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("verbose", "Enable diagnostic logging on stderr").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("version", "Print the library version and exit").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	log.SetFormatter(&logrus.TextFormatter{})
	if _, enabled := options["verbose"]; enabled {
		log.SetLevel(logrus.DebugLevel)
	}

	if _, enabled := options["version"]; enabled {
		fmt.Printf("cypher-lint: %s\n", cypher.Version)
		fmt.Printf("libcypher-parser: %s\n", cypher.Version)
		return 0
	}

	stdoutIsTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	stderrIsTTY := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	_, colorizeRequested := options["colorize"]

	width := 0
	if stdoutIsTTY {
		if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 {
			width = cols
		}
	}
	if raw, set := options["output-width"]; set {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			width = n
		} else {
			log.Warnf("ignoring malformed --output-width %q", raw)
		}
	}

	cfg := cypher.NewConfig()
	cfg.SetDefaultWidth(width)
	if colorizeRequested || stderrIsTTY {
		cfg.SetErrorColorization(printer.DefaultColorization())
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.WithError(err).Error("unable to read standard input")
		return 2
	}

	result, err := cypher.Parse(src, nil, cfg, 0)
	if err != nil {
		log.WithError(err).Error("internal parser failure")
		return 2
	}

	for _, parseErr := range result.Errors() {
		err := printer.FormatError(os.Stderr, parseErr.Position, parseErr.Message,
			parseErr.Snippet, parseErr.SnippetOffset, cfg.ErrorColorization())
		if err != nil {
			log.WithError(err).Error("unable to write error output")
			return 2
		}
	}

	if _, dumpAST := options["ast"]; dumpAST {
		var color *printer.Colorization
		if colorizeRequested || stdoutIsTTY {
			color = printer.DefaultColorization()
		}
		if err := result.Fprint(os.Stdout, width, color, 0); err != nil {
			log.WithError(err).Error("unable to write AST output")
			return 2
		}
	}

	if result.NDirectives() > 0 {
		return 0
	}
	return 1
}

func main() { os.Exit(CypherLint.Run(os.Args, os.Stdout)) }
