package main

import (
	"fmt"
	"os"

	"github.com/marc-dantas/pile/pkg"
	"github.com/spf13/cobra"
)

var (
	outputFlag   string
	compileFlag  bool
	tokenizeFlag bool
	emitLLVMFlag bool
	debugFlag    bool
)

func main() {
	root := &cobra.Command{
		Use:     "pile [OPTIONS] filename",
		Short:   "Pile Programming Language",
		Version: "0.0.0",
		Args:    cobra.ExactArgs(1),
		RunE:    run,
	}

	root.Flags().StringVarP(&outputFlag, "output", "o", "", "sets the output file to be written on")
	root.Flags().BoolVarP(&compileFlag, "compile", "c", false, "compiles to an executable (using clang) instead of running by the JIT compiler")
	root.Flags().BoolVarP(&tokenizeFlag, "tokenize", "t", false, "prints the tokens of the given source file")
	root.Flags().BoolVarP(&emitLLVMFlag, "emit-llvm", "e", false, "prints the compiled LLVM representation of the given file")
	root.Flags().BoolVarP(&debugFlag, "debug", "v", false, "enables debug-level stage tracing")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	pile.SetDebug(debugFlag)

	filename := args[0]
	c := pile.NewCompiler(filename)

	switch {
	case tokenizeFlag:
		return dumpTokens(c)
	case emitLLVMFlag:
		return emitLLVM(c, cmd)
	case compileFlag:
		return compileExecutable(c)
	default:
		return jit(c)
	}
}

func dumpTokens(c *pile.Compiler) error {
	toks, err := c.Tokenize()
	if err != nil {
		return report(err)
	}

	for _, t := range toks {
		fmt.Printf("%s `%s` at file %q, row %d col %d\n",
			t.Kind, t.Lexeme, t.Pos.File, t.Pos.Row, t.Pos.Column)
	}

	return nil
}

func emitLLVM(c *pile.Compiler, cmd *cobra.Command) error {
	mod, err := c.EmitLLVM()
	if err != nil {
		return report(err)
	}

	if outputFlag != "" {
		return os.WriteFile(outputFlag, []byte(mod.String()), 0o644)
	}

	cmd.Println(mod.String())
	return nil
}

func compileExecutable(c *pile.Compiler) error {
	out := outputFlag
	if out == "" {
		out = "main"
	}

	if err := c.BuildExecutable(out); err != nil {
		return report(err)
	}

	return nil
}

func jit(c *pile.Compiler) error {
	if err := c.Run(); err != nil {
		return report(err)
	}

	return nil
}

func report(err *pile.CompileError) error {
	err.WriteTo(os.Stderr)
	return fmt.Errorf("compilation failed")
}
