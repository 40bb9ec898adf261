package pile

import "fmt"

// NodeSource is consumed by the IR emitter. Decouples the emitter
// from the Parser's concrete type, the same role Tokenizer plays for
// the Parser.
type NodeSource interface {
	// Do produces the node stream for Get to fetch. It runs until the
	// stream ends, so callers start it on its own goroutine.
	Do()

	// Get fetches the next Node. It blocks until one is ready, and
	// reports a fatal compile error or end-of-stream via its return
	// values instead of via the Node itself.
	Get() (Node, *CompileError, bool)

	// Filename returns the name of the file being compiled.
	Filename() string
}

// nodeItem is what travels over the Parser's output channel.
type nodeItem struct {
	node Node
	err  *CompileError
	eof  bool
}

// boolGate is the shared arity/type rule for `if` and `do`, both of
// which require and consume a single bool.
var boolGate = opSpec{arity: 1, accepted: []Type{TBool}, discard: true}

// Parser implements NodeSource. It drives a type stack and a block
// stack over a token stream, emitting well-typed Nodes one at a time;
// the first arity, type, or syntax violation ends the stream with a
// *CompileError — there is no error recovery.
type Parser struct {
	filename string
	tok      Tokenizer
	output   chan nodeItem

	types  TypeStack
	blocks BlockStack
}

// NewParser builds a Parser reading tokens from tok.
func NewParser(tok Tokenizer) *Parser {
	return &Parser{
		tok:      tok,
		filename: tok.Filename(),
		output:   make(chan nodeItem, 2),
	}
}

// Filename returns the name of the file being compiled.
func (p *Parser) Filename() string {
	return p.filename
}

// Get fetches the next Node. It blocks until one is ready.
func (p *Parser) Get() (Node, *CompileError, bool) {
	item := <-p.output
	return item.node, item.err, item.eof
}

// Do starts the tokenizer on a goroutine and parses its tokens,
// sending items to Get as they are produced. Callers run Do itself on
// its own goroutine.
func (p *Parser) Do() {
	go p.tok.Do()

	var lastPos Position
	for {
		tok, lexErr, eof := p.tok.Get()
		if lexErr != nil {
			p.fail(asCompileError(lexErr))
			return
		}

		if eof {
			break
		}

		lastPos = tok.Pos

		node, err := p.process(tok)
		if err != nil {
			p.fail(err)
			return
		}

		p.output <- nodeItem{node: node}
	}

	if err := p.checkEOF(lastPos); err != nil {
		p.fail(err)
		return
	}

	p.output <- nodeItem{eof: true}
	close(p.output)
}

// fail sends a terminal error and closes the stream. Propagation is
// immediate, with no partial output beyond what was already sent.
func (p *Parser) fail(err *CompileError) {
	p.output <- nodeItem{err: err}
	close(p.output)
}

// checkEOF applies end-of-stream consistency rules: an open block is
// a syntax error, leftover type-stack values are a stack overflow.
func (p *Parser) checkEOF(lastPos Position) *CompileError {
	if k, ok := p.blocks.Pop(); ok {
		return &CompileError{
			Kind:    KindSyntaxError,
			Pos:     lastPos,
			Message: fmt.Sprintf("unterminated `%s` block", k),
			Note:    "use `end` to finish a block",
		}
	}

	if n := p.types.Len(); n > 0 {
		return &CompileError{
			Kind: KindStackOverflow,
			Pos:  lastPos,
			Message: fmt.Sprintf(
				"the program ended with %d remaining value%s on top of the stack with no handling",
				n, plural(n)),
			Note: "use `drop` to ignore values",
		}
	}

	return nil
}

// process type-checks a single token against the type/block stacks and
// returns the Node it becomes.
func (p *Parser) process(tok Token) (Node, *CompileError) {
	switch tok.Kind {
	case Int:
		p.types.Push(TInteger)
	case Float:
		p.types.Push(TFloat)
	case String:
		p.types.Push(TString)
	case Word:
		if err := p.word(tok); err != nil {
			return Node{}, err
		}
	}

	return Node{Token: tok, Kind: nodeKindOf(tok)}, nil
}

// word type-checks a Word token: either an operator (looked up in
// operatorTable), a control word (if/else/while/do/end), or an error.
func (p *Parser) word(tok Token) *CompileError {
	if spec, ok := operatorTable[tok.Lexeme]; ok {
		_, err := spec.apply(&p.types, tok)
		return err
	}

	switch tok.Lexeme {
	case "if":
		if _, err := boolGate.apply(&p.types, tok); err != nil {
			return err
		}
		p.blocks.Push(BlockIf)

	case "while":
		p.blocks.Push(BlockWhile)

	case "do":
		if _, err := boolGate.apply(&p.types, tok); err != nil {
			return err
		}

		top, ok := p.blocks.Top()
		if !ok {
			return &CompileError{
				Kind:    KindSyntaxError,
				Pos:     tok.Pos,
				Message: "started `do` block without `while` first",
			}
		}
		if top != BlockWhile {
			return &CompileError{
				Kind:    KindSyntaxError,
				Pos:     tok.Pos,
				Message: fmt.Sprintf("started `do` block using `%s` instead of `while`", top),
			}
		}
		p.blocks.Replace(BlockDo)

	case "else":
		top, ok := p.blocks.Top()
		if !ok {
			return &CompileError{
				Kind:    KindSyntaxError,
				Pos:     tok.Pos,
				Message: "started `else` block without a proper beginning.",
			}
		}
		if top != BlockIf {
			return &CompileError{
				Kind:    KindSyntaxError,
				Pos:     tok.Pos,
				Message: fmt.Sprintf("`%s` block does not support else", top),
			}
		}
		// The frame stays `if`; else-seen is recorded by the emitter's
		// own parallel control-flow frame, not here.

	case "end":
		if _, ok := p.blocks.Pop(); !ok {
			return &CompileError{
				Kind:    KindSyntaxError,
				Pos:     tok.Pos,
				Message: "block ended without a beginning",
			}
		}

	default:
		return &CompileError{
			Kind:    KindWordError,
			Pos:     tok.Pos,
			Message: fmt.Sprintf("unknown operation or defined identifier `%s`", tok.Lexeme),
		}
	}

	return nil
}

// asCompileError normalizes a Tokenizer-reported error into a
// *CompileError, in case a Tokenizer implementation returns a bare
// error instead of one already carrying kind/location info.
func asCompileError(err error) *CompileError {
	if ce, ok := err.(*CompileError); ok {
		return ce
	}

	return &CompileError{
		Kind:    KindSyntaxError,
		Message: err.Error(),
	}
}
