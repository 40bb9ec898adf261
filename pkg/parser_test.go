package pile

import (
	"strings"
	"testing"

	"github.com/marc-dantas/pile/internal/corpus"
	"github.com/stretchr/testify/assert"
)

// bufferedTokenizer implements Tokenizer over a fixed slice, letting
// parser tests run without a live lexer goroutine.
type bufferedTokenizer struct {
	buf []Token
	pos int
}

func newBufferedTokenizer(toks []Token) *bufferedTokenizer {
	return &bufferedTokenizer{buf: toks}
}

func (b *bufferedTokenizer) Do() {}

func (b *bufferedTokenizer) Get() (Token, error, bool) {
	if b.pos >= len(b.buf) {
		return Token{}, nil, true
	}

	tok := b.buf[b.pos]
	b.pos++

	return tok, nil, false
}

func (b *bufferedTokenizer) Filename() string {
	return "testing"
}

func tok(kind TokenKind, lexeme string) Token {
	return Token{Lexeme: lexeme, Kind: kind, Pos: Position{File: "testing"}}
}

func parseAll(t *testing.T, toks []Token) ([]Node, *CompileError) {
	t.Helper()

	p := NewParser(newBufferedTokenizer(toks))
	go p.Do()

	var nodes []Node
	for {
		n, err, eof := p.Get()
		if err != nil {
			return nodes, err
		}
		if eof {
			return nodes, nil
		}
		nodes = append(nodes, n)
	}
}

func TestParserArithmetic(t *testing.T) {
	nodes, err := parseAll(t, []Token{
		tok(Int, "1"), tok(Int, "2"), tok(Word, "+"), tok(Word, "dump"),
	})

	assert.Nil(t, err)
	assert.Len(t, nodes, 4)
	assert.Equal(t, NSymbol, nodes[2].Kind)
}

func TestParserStackUnderflow(t *testing.T) {
	_, err := parseAll(t, []Token{tok(Word, "+")})

	assert.NotNil(t, err)
	assert.Equal(t, KindStackUnderflow, err.Kind)
}

func TestParserTypeMismatch(t *testing.T) {
	_, err := parseAll(t, []Token{tok(Int, "1"), tok(String, "a"), tok(Word, "+")})

	assert.NotNil(t, err)
	assert.Equal(t, KindTypeMismatch, err.Kind)
}

func TestParserUnterminatedBlock(t *testing.T) {
	_, err := parseAll(t, []Token{
		tok(Int, "1"), tok(Int, "1"), tok(Word, "="), tok(Word, "if"),
	})

	assert.NotNil(t, err)
	assert.Equal(t, KindSyntaxError, err.Kind)
}

func TestParserEndWithoutBeginning(t *testing.T) {
	_, err := parseAll(t, []Token{tok(Word, "end")})

	assert.NotNil(t, err)
	assert.Equal(t, KindSyntaxError, err.Kind)
}

func TestParserDoWithoutWhile(t *testing.T) {
	_, err := parseAll(t, []Token{
		tok(Int, "1"), tok(Int, "1"), tok(Word, "="), tok(Word, "do"),
	})

	assert.NotNil(t, err)
	assert.Equal(t, KindSyntaxError, err.Kind)
}

func TestParserElseOnWrongBlock(t *testing.T) {
	_, err := parseAll(t, []Token{
		tok(Word, "while"), tok(Int, "1"), tok(Int, "1"), tok(Word, "="),
		tok(Word, "do"), tok(Word, "else"),
	})

	assert.NotNil(t, err)
	assert.Equal(t, KindSyntaxError, err.Kind)
}

func TestParserBalancedIfLeavesNoResidue(t *testing.T) {
	nodes, err := parseAll(t, []Token{
		tok(Int, "1"), tok(Int, "1"), tok(Word, "="),
		tok(Word, "if"), tok(Word, "end"),
	})

	assert.Nil(t, err)
	assert.Len(t, nodes, 5)
}

func TestParserStackOverflowAtEOF(t *testing.T) {
	_, err := parseAll(t, []Token{tok(Int, "1"), tok(Int, "2")})

	assert.NotNil(t, err)
	assert.Equal(t, KindStackOverflow, err.Kind)
}

func TestParserUnknownWord(t *testing.T) {
	_, err := parseAll(t, []Token{tok(Word, "frobnicate")})

	assert.NotNil(t, err)
	assert.Equal(t, KindWordError, err.Kind)
}

func TestParserAcceptsDeeplyNestedBalancedProgram(t *testing.T) {
	src := corpus.BalancedProgram(25)

	l := NewLexerFromReader(strings.NewReader(src))
	l.filename = "corpus"

	p := NewParser(l)
	go p.Do()

	var count int
	for {
		_, err, eof := p.Get()
		assert.Nil(t, err)
		if eof {
			break
		}
		count++
	}

	assert.Greater(t, count, 0)
}
