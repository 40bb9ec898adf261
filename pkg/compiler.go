package pile

import (
	"github.com/llir/llvm/ir"
)

// Compiler drives the full Lexer -> Parser -> Emitter pipeline over a
// single source file, exposing the four operations the CLI offers:
// tokenize-only, emit-LLVM, JIT, and compile-to-executable.
type Compiler struct {
	filename string
}

// NewCompiler builds a Compiler for filename.
func NewCompiler(filename string) *Compiler {
	return &Compiler{filename: filename}
}

// Tokenize runs the lexer alone, returning every token or the first
// lexing error.
func (c *Compiler) Tokenize() ([]Token, *CompileError) {
	Log.Debug().Str("file", c.filename).Msg("tokenizing")

	l, err := NewLexer(c.filename)
	if err != nil {
		return nil, &CompileError{Kind: KindSyntaxError, Message: err.Error()}
	}

	toks, lexErr := l.Run()
	if lexErr != nil {
		return nil, asCompileError(lexErr)
	}

	return toks, nil
}

// EmitLLVM runs the full pipeline through IR emission and returns the
// resulting module without executing or linking it.
func (c *Compiler) EmitLLVM() (*ir.Module, *CompileError) {
	Log.Debug().Str("file", c.filename).Msg("lexing")
	lexer, err := NewLexer(c.filename)
	if err != nil {
		return nil, &CompileError{Kind: KindSyntaxError, Message: err.Error()}
	}

	Log.Debug().Msg("parsing")
	parser := NewParser(lexer)

	Log.Debug().Msg("emitting IR")
	emitter := NewEmitter()

	return emitter.Emit(parser)
}

// Run JIT-executes the program.
func (c *Compiler) Run() *CompileError {
	mod, err := c.EmitLLVM()
	if err != nil {
		return err
	}

	Log.Debug().Msg("handing module to lli")
	if runErr := Run(mod); runErr != nil {
		return &CompileError{Kind: KindSyntaxError, Message: runErr.Error()}
	}

	return nil
}

// BuildExecutable compiles the program to a native executable at
// outPath.
func (c *Compiler) BuildExecutable(outPath string) *CompileError {
	mod, err := c.EmitLLVM()
	if err != nil {
		return err
	}

	Log.Debug().Str("out", outPath).Msg("handing module to clang")
	if buildErr := BuildExecutable(mod, outPath); buildErr != nil {
		return &CompileError{Kind: KindSyntaxError, Message: buildErr.Error()}
	}

	return nil
}
