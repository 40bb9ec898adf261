package pile

import (
	"strings"
	"testing"

	"github.com/marc-dantas/pile/internal/corpus"
	"github.com/stretchr/testify/assert"
)

func lexAll(t *testing.T, src string) ([]Token, error) {
	t.Helper()

	l := NewLexerFromReader(strings.NewReader(src))
	l.filename = "testing"

	return l.Run()
}

func TestLexer(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		fail   bool
		expect []Token
	}{
		{
			name: "arithmetic and literals",
			data: "1 2 + dump",
			expect: []Token{
				{Lexeme: "1", Kind: Int, Pos: Position{"testing", 1, 0}},
				{Lexeme: "2", Kind: Int, Pos: Position{"testing", 1, 2}},
				{Lexeme: "+", Kind: Word, Pos: Position{"testing", 1, 4}},
				{Lexeme: "dump", Kind: Word, Pos: Position{"testing", 1, 6}},
			},
		},
		{
			name: "float classification",
			data: "3.14 -2.5",
			expect: []Token{
				{Lexeme: "3.14", Kind: Float, Pos: Position{"testing", 1, 0}},
				{Lexeme: "-2.5", Kind: Float, Pos: Position{"testing", 1, 5}},
			},
		},
		{
			name: "negative integer",
			data: "-7",
			expect: []Token{
				{Lexeme: "-7", Kind: Int, Pos: Position{"testing", 1, 0}},
			},
		},
		{
			name: "string literal",
			data: `"hello world"`,
			expect: []Token{
				{Lexeme: "hello world", Kind: String, Pos: Position{"testing", 1, 0}},
			},
		},
		{
			name: "empty string literal",
			data: `""`,
			expect: []Token{
				{Lexeme: "", Kind: String, Pos: Position{"testing", 1, 0}},
			},
		},
		{
			name: "line comment stripped",
			data: "1 // trailing comment\n2",
			expect: []Token{
				{Lexeme: "1", Kind: Int, Pos: Position{"testing", 1, 0}},
				{Lexeme: "2", Kind: Int, Pos: Position{"testing", 2, 0}},
			},
		},
		{
			name: "unterminated string is a fatal error",
			data: `"unterminated`,
			fail: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := lexAll(t, c.data)

			if c.fail {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, c.expect, toks)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Int, classify("42"))
	assert.Equal(t, Int, classify("-3"))
	assert.Equal(t, Float, classify("3.5"))
	assert.Equal(t, Float, classify("-0.5"))
	assert.Equal(t, Word, classify("dup"))
	assert.Equal(t, Word, classify("+"))
}

// benchResult is a package-level sink so the compiler can't optimize
// the lexing call away.
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		data := corpus.GetRandomTokens(size)
		l := NewLexerFromReader(strings.NewReader(data))
		l.filename = "bench"

		var err error
		b.StartTimer()

		benchResult, err = l.Run()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}
