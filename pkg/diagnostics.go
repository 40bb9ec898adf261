package pile

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorKind enumerates the five fatal error categories a Pile program
// can fail with. All are terminal: Pile does no error recovery, so
// the pipeline stops at the first one.
type ErrorKind string

const (
	KindStackUnderflow ErrorKind = "stack underflow"
	KindTypeMismatch   ErrorKind = "type mismatch"
	KindStackOverflow  ErrorKind = "stack overflow"
	KindSyntaxError    ErrorKind = "syntax error"
	KindWordError      ErrorKind = "word error"
)

// CompileError is a located, kinded compile-time diagnostic. It
// implements error so it can travel through ordinary Go error-handling
// paths, but its canonical rendering is WriteTo.
type CompileError struct {
	Kind    ErrorKind
	Pos     Position
	Message string
	Note    string
}

func (e *CompileError) Error() string {
	var b strings.Builder
	e.write(&b, false)
	return b.String()
}

// wrapWidth is the column diagnostic bodies wrap at.
const wrapWidth = 50

// WriteTo renders the diagnostic to w:
//
//	pile: error at <file>:<row>:<col>:
//	  | <kind>:
//	  |    <wrapped message, ~50 cols>
//	  + <optional note, wrapped>
//
// The kind line and position are colorized unless color.NoColor is
// set (fatih/color sets it when stdout is not a terminal); w itself is
// not inspected. The wrapped text is untouched, so the layout still
// holds after stripping ANSI escapes.
func (e *CompileError) WriteTo(w io.Writer) {
	var b strings.Builder
	e.write(&b, true)
	fmt.Fprint(w, b.String())
}

func (e *CompileError) write(b *strings.Builder, colorize bool) {
	pos := fmt.Sprintf("%s:%d:%d", e.Pos.File, e.Pos.Row, e.Pos.Column)
	if colorize {
		pos = color.New(color.Bold).Sprint(pos)
	}
	fmt.Fprintf(b, "pile: error at %s:\n", pos)

	kindLine := fmt.Sprintf("%s:", e.Kind)
	if colorize {
		kindLine = color.New(color.FgRed, color.Bold).Sprint(kindLine)
	}
	indentLine(b, "| "+kindLine)

	for _, line := range wrapAt(wrapWidth, e.Message) {
		indentLine(b, "|    "+line)
	}

	if e.Note != "" {
		for _, line := range wrapAt(wrapWidth, e.Note) {
			indentLine(b, "+ "+line)
		}
	}
}

// indentLine prefixes text with two spaces and a trailing newline.
func indentLine(b *strings.Builder, text string) {
	b.WriteString("  ")
	b.WriteString(text)
	b.WriteString("\n")
}

// wrapAt greedily packs whitespace-separated words into lines no
// longer than width.
func wrapAt(width int, value string) []string {
	words := strings.Fields(value)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) <= width {
			current += " " + w
			continue
		}

		lines = append(lines, current)
		current = w
	}
	lines = append(lines, current)

	return lines
}
