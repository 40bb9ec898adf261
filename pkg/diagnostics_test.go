package pile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileErrorRendering(t *testing.T) {
	err := &CompileError{
		Kind:    KindStackUnderflow,
		Pos:     Position{File: "main.pile", Row: 3, Column: 5},
		Message: "`+` operation needs 2 stack values to be performed but got 1 values",
		Note:    "push another value before this operator",
	}

	var buf bytes.Buffer
	err.WriteTo(&buf)

	out := buf.String()
	assert.Contains(t, out, "pile: error at main.pile:3:5:")
	assert.Contains(t, out, "stack underflow")
	assert.Contains(t, out, "2 stack values")
}

func TestWrapAtBreaksOnWordBoundaries(t *testing.T) {
	lines := wrapAt(10, "one two three four")

	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 10)
	}
	assert.Equal(t, "one two three four", joinSpace(lines))
}

func joinSpace(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += " "
		}
		out += l
	}
	return out
}

func TestWrapAtEmptyInput(t *testing.T) {
	assert.Nil(t, wrapAt(10, ""))
}
