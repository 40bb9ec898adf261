package pile

import (
	"fmt"
	"strings"
)

// opSpec describes one operator's arity/type rule. accepted lists the
// homogeneous operand types it is legal to call the operator with —
// "homogeneous" because each accepted alternative requires *all*
// popped operands be the same type; there is no heterogeneous tuple in
// Pile's operator set.
type opSpec struct {
	// arity is how many operands the operator consumes.
	arity int

	// accepted is the set of single types any of which all `arity`
	// popped operands may uniformly be.
	accepted []Type

	// result is the type pushed back, when the operator does not
	// simply reuse the matched operand type (e.g. comparisons always
	// produce bool regardless of whether the operands were integer or
	// float). Empty means "same as the matched operand type".
	result Type

	// count is how many copies of the result type are pushed.
	// Defaults to 1 when zero and !discard.
	count int

	// discard is true for operators that consume but push nothing
	// (drop, dump).
	discard bool
}

var anyType = []Type{TInteger, TFloat, TString, TBool}
var numericType = []Type{TInteger, TFloat}

// operatorTable is the arity/type rule for every operator word.
// Control words (if/else/while/do/end) are handled separately by the
// parser, not through this table.
var operatorTable = map[string]opSpec{
	"+": {arity: 2, accepted: numericType},
	"-": {arity: 2, accepted: numericType},
	"*": {arity: 2, accepted: numericType},
	"/": {arity: 2, accepted: numericType},
	"%": {arity: 2, accepted: numericType},

	">":  {arity: 2, accepted: numericType, result: TBool},
	"<":  {arity: 2, accepted: numericType, result: TBool},
	">=": {arity: 2, accepted: numericType, result: TBool},
	"<=": {arity: 2, accepted: numericType, result: TBool},
	"!=": {arity: 2, accepted: numericType, result: TBool},
	"=":  {arity: 2, accepted: numericType, result: TBool},

	"|": {arity: 2, accepted: []Type{TInteger, TBool}},
	"&": {arity: 2, accepted: []Type{TInteger, TBool}},

	">>": {arity: 2, accepted: []Type{TInteger}, result: TInteger},
	"<<": {arity: 2, accepted: []Type{TInteger}, result: TInteger},

	"!": {arity: 1, accepted: anyType},

	"drop": {arity: 1, accepted: anyType, discard: true},
	"dump": {arity: 1, accepted: anyType, discard: true},
	"dup":  {arity: 1, accepted: anyType, count: 2},

	"swap": {arity: 2, accepted: numericType, count: 2},
	"over": {arity: 2, accepted: numericType, count: 3},
	"rot":  {arity: 3, accepted: numericType, count: 3},
}

// apply pops spec.arity types from stack, validates them against the
// accepted alternatives, and pushes the result per spec.result/count.
// On success it returns the operand type the call matched (useful to
// the emitter's same-lowering decisions); on failure it returns a
// *CompileError of kind stack underflow or type mismatch.
func (spec opSpec) apply(stack *TypeStack, tok Token) (Type, *CompileError) {
	if stack.Len() < spec.arity {
		return "", &CompileError{
			Kind: KindStackUnderflow,
			Pos:  tok.Pos,
			Message: fmt.Sprintf(
				"`%s` operation needs %d stack value%s to be performed but got %s values",
				tok.Lexeme, spec.arity, plural(spec.arity), countWord(stack.Len())),
		}
	}

	popped := make([]Type, spec.arity)
	for i := 0; i < spec.arity; i++ {
		t, _ := stack.Pop()
		popped[i] = t
	}

	var matched Type
	ok := false
	for _, cand := range spec.accepted {
		uniform := true
		for _, t := range popped {
			if t != cand {
				uniform = false
				break
			}
		}
		if uniform {
			matched = cand
			ok = true
			break
		}
	}

	if !ok {
		values := make([]string, len(popped))
		for i, t := range popped {
			values[i] = string(t)
		}

		alts := make([]string, len(spec.accepted))
		for i, cand := range spec.accepted {
			tuple := make([]string, spec.arity)
			for j := range tuple {
				tuple[j] = string(cand)
			}
			alts[i] = "(" + strings.Join(tuple, ", ") + ")"
		}

		return "", &CompileError{
			Kind: KindTypeMismatch,
			Pos:  tok.Pos,
			Message: fmt.Sprintf(
				"`%s` operation got mismatched type%s (%s) but operation expects %s",
				tok.Lexeme, plural(spec.arity), strings.Join(values, ", "), strings.Join(alts, " or ")),
		}
	}

	if spec.discard {
		return matched, nil
	}

	result := spec.result
	if result == "" {
		result = matched
	}

	count := spec.count
	if count == 0 {
		count = 1
	}

	for i := 0; i < count; i++ {
		stack.Push(result)
	}

	return matched, nil
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func countWord(n int) string {
	if n == 0 {
		return "no"
	}
	return fmt.Sprintf("%d", n)
}
