// Command erltok is a demo driver for the lexer package: it reads an
// Erlang source file, tokenizes it, and prints each token's position and
// debug form. It is an external collaborator of the core library, not
// part of the importable module.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/oarkflow/erltok/internal/config"
	"github.com/oarkflow/erltok/lexer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("erltok", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to .erltokrc.yaml (optional)")
	whitespaceFlag := fs.String("whitespace", "", "override whitespace mode: per-run or per-char")
	outputFlag := fs.String("output", "", "override output format: text or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: erltok [-config path] [-whitespace mode] [-output format] <file|->")
		return 2
	}
	path := fs.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "load config: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if *whitespaceFlag != "" {
		cfg.Whitespace = config.WhitespaceMode(*whitespaceFlag)
	}
	if *outputFlag != "" {
		cfg.Output = config.OutputFormat(*outputFlag)
	}

	src, err := readSource(path)
	if err != nil {
		fmt.Fprintf(stderr, "read %s: %v\n", path, err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	tz := lexer.New(src)
	if path != "-" {
		tz.WithFilepath(path)
	}
	logger.Info("tokenizing", "run_id", tz.ID(), "path", path, "bytes", len(src))

	code := tokenizeAndReport(tz, cfg, stdout, stderr, logger)
	logger.Info("done", "run_id", tz.ID(), "exit_code", code)
	return code
}

func readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func tokenizeAndReport(tz *lexer.Tokenizer, cfg config.Config, stdout, stderr io.Writer, logger *slog.Logger) int {
	enc := json.NewEncoder(stdout)
	for {
		tok, ok, err := tz.Next()
		if err != nil {
			var lexErr *lexer.LexError
			if asLexError(err, &lexErr) {
				fmt.Fprintf(stderr, "lex error at line %d, column %d: %s\n", lexErr.Pos.Line, lexErr.Pos.Column, lexErr.Kind)
			} else {
				fmt.Fprintf(stderr, "lex error: %v\n", err)
			}
			logger.Error("lex failure", "run_id", tz.ID(), "error", err)
			return 1
		}
		if !ok {
			return 0
		}
		for _, out := range expandForDisplay(tok, cfg.Whitespace) {
			reportToken(out, cfg.Output, stdout, enc)
		}
	}
}

func asLexError(err error, target **lexer.LexError) bool {
	le, ok := err.(*lexer.LexError)
	if ok {
		*target = le
	}
	return ok
}

// expandForDisplay returns tok unchanged under per-run mode, or splits a
// Whitespace token into one token per character under per-char mode. This
// is purely a CLI presentation choice (the core lexer's own output is
// always per-run).
func expandForDisplay(tok lexer.Token, mode config.WhitespaceMode) []lexer.Token {
	if mode != config.WhitespacePerChar || tok.Kind != lexer.KindWhitespace {
		return []lexer.Token{tok}
	}
	out := make([]lexer.Token, 0, len(tok.Text))
	pos := tok.Pos
	for i, b := range tok.Text {
		out = append(out, lexer.Token{Kind: tok.Kind, Text: tok.Text[i : i+1], Pos: pos})
		if b == '\n' || b == '\r' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
		pos.Offset++
	}
	return out
}

func reportToken(tok lexer.Token, format config.OutputFormat, stdout io.Writer, enc *json.Encoder) {
	switch format {
	case config.OutputJSON:
		enc.Encode(map[string]any{
			"kind":   tok.Kind.String(),
			"text":   string(tok.Text),
			"offset": tok.Pos.Offset,
			"line":   tok.Pos.Line,
			"column": tok.Pos.Column,
		})
	default:
		fmt.Fprintf(stdout, "%d:%d\t%s\n", tok.Pos.Line, tok.Pos.Column, tok.String())
	}
}
