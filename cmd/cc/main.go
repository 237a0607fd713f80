// Command cc is the compiler driver: it wires source input to the
// tokenizer, parser and codegen stages and writes the resulting assembly to
// stdout or a named file.
//
// A cobra root command replaces the four-external-binary pipeline driver
// this design descends from (ylex | yparse | ysem | ygen, piped together by
// a flag-based main) with three in-process calls, since the whole pipeline
// now lives in one binary.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kobakobashu/c-compiler/internal/clog"
	"github.com/kobakobashu/c-compiler/internal/codegen"
	"github.com/kobakobashu/c-compiler/internal/diag"
	"github.com/kobakobashu/c-compiler/internal/lexer"
	"github.com/kobakobashu/c-compiler/internal/parser"
)

var (
	outputPath string
	verbose    bool
	debugLoc   bool
)

func main() {
	root := &cobra.Command{
		Use:   "cc [file]",
		Short: "Compile a C-subset source file to x86-64 assembly",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	root.Flags().StringVarP(&outputPath, "output", "o", "", "write assembly here instead of stdout")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stage progress to stderr")
	root.Flags().BoolVar(&debugLoc, "debug-loc", false, "emit a source-line comment ahead of every statement")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cc: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	clog.Init(verbose)

	name, src, err := readSource(args)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	diag.SetSource(name, src)

	out, err := openOutput()
	if err != nil {
		return err
	}
	defer out.Close()

	head := lexer.Tokenize(name, src)
	result := parser.Parse(head)
	prog := &codegen.Program{Globals: result.Globals}

	if err := codegen.Generate(prog, out, debugLoc); err != nil {
		return fmt.Errorf("writing assembly: %w", err)
	}
	return nil
}

// readSource slurps the named file, or stdin when given "-" or no
// positional argument, per SPEC_FULL.md §2.1.
func readSource(args []string) (name, text string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func openOutput() (io.WriteCloser, error) {
	if outputPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", outputPath, err)
	}
	return f, nil
}
