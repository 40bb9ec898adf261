// Package corpus generates random-but-valid Pile token streams for
// fuzz-style lexer/parser tests.
package corpus

import (
	"math/rand"
	"strings"
)

const validTokens = "1;2;42;-7;3.14;0.5;\"hi\";\"a longer string literal\";" +
	"+;-;*;/;%;>;<;>=;<=;!=;=;|;&;>>;<<;!;dup;drop;swap;over;rot;dump;" +
	"if;else;while;do;end;//a trailing comment\n"

// GetRandomTokens returns size whitespace-separated tokens drawn from
// Pile's valid vocabulary, joined with a single space.
func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

// GetRandomTokensWithSep is GetRandomTokens with a caller-chosen
// separator, useful for exercising the lexer's whitespace handling.
func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	toks := make([]string, 0, size)
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// BalancedProgram returns a syntactically and type-wise well-formed
// program with depth nested if blocks, each condition computed and fully
// consumed before the block opens, so the type stack is empty both
// going in and coming out of every block. Useful for exercising the
// parser's block stack without triggering a stack-overflow or
// type-mismatch error.
func BalancedProgram(depth int) string {
	var b strings.Builder

	for i := 0; i < depth; i++ {
		b.WriteString("1 1 = if ")
	}
	for i := 0; i < depth; i++ {
		b.WriteString("end ")
	}

	return strings.TrimSpace(b.String())
}
