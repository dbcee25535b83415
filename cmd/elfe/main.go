// Command elfe runs ELFE/XL source files: scan, parse, process
// declarations, and evaluate whatever instructions are left, per spec.md
// §6's CLI contract. Rebuilt on spf13/cobra (grounded on
// pulumi-pulumi/pkg/cmd/pulumi's single-root-command-plus-flags shape)
// rather than the teacher's hand-rolled os.Args switch in
// cmd/typthon/main.go, since cobra is already in the dependency pack and
// gives usage text, flag parsing, and exit-code plumbing for free.
package main

import (
	"fmt"
	"os"

	"github.com/c3d/elfe/pkg/logger"
	"github.com/c3d/elfe/pkg/serialize"
	"github.com/c3d/elfe/pkg/session"
	"github.com/c3d/elfe/pkg/syntax"
	"github.com/c3d/elfe/pkg/tree"
	"github.com/spf13/cobra"
)

// exitUsage matches spec.md §6's "2 on invocation error"; exitErrors is "1
// when errors were reported"; success falls through to cobra's default 0.
const (
	exitErrors = 1
	exitUsage  = 2
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(exitUsage)
	}
}

type flags struct {
	searchPath      []string
	styleFile       string
	debug           bool
	readSerialized  bool
	writeSerialized bool
	interpret       bool
}

func newRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "elfe [options] file...",
		Short:         "Evaluate ELFE/XL source files by tree rewriting",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}

	cmd.Flags().StringArrayVarP(&f.searchPath, "I", "I", nil, "add a directory to the module search path")
	cmd.Flags().StringVar(&f.styleFile, "style", "", "load an alternate syntax file instead of the default")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVarP(&f.readSerialized, "r", "r", false, "read input as a serialized tree instead of source text")
	cmd.Flags().BoolVarP(&f.writeSerialized, "w", "w", false, "write the result as a serialized tree instead of printing it")
	cmd.Flags().BoolVar(&f.interpret, "interpret", false, "force the pure interpreter, never delegate to a backend")

	return cmd
}

func run(cmd *cobra.Command, args []string, f flags) error {
	if f.debug {
		logger.InitDev()
	} else {
		logger.InitProd(os.TempDir())
	}

	table, err := loadSyntax(f.styleFile)
	if err != nil {
		return err
	}

	opt := session.DefaultOptions()
	opt.SearchPath = f.searchPath
	opt.StyleFile = f.styleFile
	opt.Debug = f.debug
	opt.ForceInterpret = f.interpret
	opt.ReadSerialized = f.readSerialized
	opt.WriteSerialized = f.writeSerialized

	hadErrors := false
	codec := serialize.NewCodec()

	for _, path := range args {
		s := session.New(table, opt)
		logger.LogFileProcessing(path)

		result, err := runFile(s, path, f.readSerialized, codec)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "elfe: %s: %v\n", path, err)
			hadErrors = true
			continue
		}

		for _, rec := range s.Sink.Records() {
			fmt.Fprintln(cmd.ErrOrStderr(), rec.String())
		}
		if s.Sink.HadErrors() {
			hadErrors = true
		}

		if err := emit(cmd, result, f.writeSerialized, codec); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "elfe: %s: %v\n", path, err)
			hadErrors = true
		}
	}

	if hadErrors {
		os.Exit(exitErrors)
	}
	return nil
}

func loadSyntax(styleFile string) (*syntax.Table, error) {
	if styleFile == "" {
		return syntax.Default(), nil
	}
	f, err := os.Open(styleFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open style file: %w", err)
	}
	defer f.Close()

	table := syntax.New(styleFile)
	if err := table.ReadFile(f); err != nil {
		return nil, fmt.Errorf("cannot read style file: %w", err)
	}
	return table, nil
}

// runFile reads path (as a serialized tree if readSerialized, otherwise as
// ELFE/XL source text), declares and evaluates it against a fresh session.
func runFile(s *session.Session, path string, readSerialized bool, codec serialize.Codec) (tree.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if readSerialized {
		parsed, err := codec.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		s.Declare(parsed)
		return s.Evaluate(parsed), nil
	}

	return s.Run(path, f), nil
}

// emit writes result to stdout, either as the tagged binary format (-w) or
// as its diagnostic text rendering.
func emit(cmd *cobra.Command, result tree.Node, writeSerialized bool, codec serialize.Codec) error {
	if result == nil {
		return nil
	}
	if writeSerialized {
		return codec.Encode(cmd.OutOrStdout(), result)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tree.Sprint(result))
	return nil
}
