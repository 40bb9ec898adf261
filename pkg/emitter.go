package pile

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// controlFrame tracks one open if or while construct during emission,
// mirroring the parser's block stack. Exactly one of the If fields or
// the While fields is meaningful, selected by isWhile.
type controlFrame struct {
	isWhile bool

	// If
	trueBB, falseBB, mergeBB *ir.Block
	hasElse                  bool

	// While
	headBB, bodyBB *ir.Block
}

// Emitter drives an LLVM IR builder over a node stream, producing one
// module with a single `main` function. It owns the runtime operand
// stack (pointers to scratch cells) and a stack of control-flow
// frames parallel to the parser's block stack.
type Emitter struct {
	mod   *ir.Module
	fn    *ir.Func
	block *ir.Block

	stack   []value.Value
	frames  []*controlFrame
	printf  *ir.Func
	strings []*ir.Global
}

// NewEmitter creates an Emitter with a fresh module containing an
// empty `main` function ready to receive instructions.
func NewEmitter() *Emitter {
	mod := ir.NewModule()
	fn := mod.NewFunc("main", types.I32)
	entry := fn.NewBlock("entry")

	return &Emitter{
		mod:   mod,
		fn:    fn,
		block: entry,
	}
}

// Emit drains src's node stream, lowering every node into mod, and
// terminates `main` with `ret i32 0`. It returns the first compile
// error reported by an earlier stage — the emitter never type-checks
// on its own, it trusts the node stream is already well-typed.
func (e *Emitter) Emit(src NodeSource) (*ir.Module, *CompileError) {
	go src.Do()

	for {
		node, err, eof := src.Get()
		if err != nil {
			return nil, err
		}

		if eof {
			break
		}

		e.visit(node)
	}

	e.block.NewRet(constant.NewInt(types.I32, 0))

	return e.mod, nil
}

func (e *Emitter) visit(n Node) {
	switch n.Kind {
	case NInt:
		e.pushInt(n.Token.Lexeme)
	case NFloat:
		e.pushFloat(n.Token.Lexeme)
	case NString:
		e.pushString(n.Token.Lexeme)
	case NSymbol:
		e.symbol(n.Token.Lexeme)
	}
}

func (e *Emitter) symbol(word string) {
	switch word {
	case "+", "-", "*", "/", "%", "|", "&", ">>", "<<":
		e.binaryInPlace(word)
	case ">", "<", ">=", "<=", "!=", "=":
		e.comparison(word)
	case "!":
		e.not()
	case "dup":
		e.dup()
	case "drop":
		e.pop()
	case "swap":
		e.swap()
	case "over":
		e.over()
	case "rot":
		e.rot()
	case "dump":
		e.dump()
	case "if":
		e.startIf()
	case "else":
		e.startElse()
	case "while":
		e.startWhile()
	case "do":
		e.startDo()
	case "end":
		e.endBlock()
	}
}

// --- runtime operand stack -------------------------------------------------

// pushValue allocates a scratch cell of v's type in the current basic
// block, stores v into it, and pushes the cell's pointer onto the
// operand stack.
func (e *Emitter) pushValue(t types.Type, v value.Value) value.Value {
	cell := e.block.NewAlloca(t)
	e.block.NewStore(v, cell)
	e.stack = append(e.stack, cell)

	return cell
}

// pop removes and returns the top cell pointer. The cell itself is
// never reclaimed; it lives until main's stack frame unwinds.
func (e *Emitter) pop() value.Value {
	n := len(e.stack) - 1
	v := e.stack[n]
	e.stack = e.stack[:n]

	return v
}

// peek returns the top cell pointer without removing it.
func (e *Emitter) peek() value.Value {
	return e.stack[len(e.stack)-1]
}

// load dereferences a cell pointer, reading the pointee type straight
// off the pointer's own IR type.
func (e *Emitter) load(ptr value.Value) value.Value {
	elem := ptr.Type().(*types.PointerType).ElemType
	return e.block.NewLoad(elem, ptr)
}

// --- literal lowering -------------------------------------------------------

func (e *Emitter) pushInt(lexeme string) {
	n, _ := strconv.ParseInt(lexeme, 10, 32)
	e.pushValue(types.I32, constant.NewInt(types.I32, n))
}

func (e *Emitter) pushFloat(lexeme string) {
	f, _ := strconv.ParseFloat(lexeme, 32)
	e.pushValue(types.Float, constant.NewFloat(types.Float, f))
}

// pushString interns the literal as a NUL-terminated global byte
// array, keyed by insertion order, and pushes a cell holding an i8*
// view of it, addressed via a GEP off the array global with two zero
// indices.
func (e *Emitter) pushString(lexeme string) {
	data := append([]byte(lexeme), 0)
	arrType := types.NewArray(uint64(len(data)), types.I8)

	name := fmt.Sprintf(".str.%d", len(e.strings))
	g := e.mod.NewGlobalDef(name, constant.NewCharArrayFromString(string(data)))
	e.strings = append(e.strings, g)

	zero := constant.NewInt(types.I32, 0)
	ptr := constant.NewGetElementPtr(arrType, g, zero, zero)
	e.pushValue(types.NewPointer(types.I8), ptr)
}

// --- arithmetic / bitwise / comparison --------------------------------------

// binaryInPlace lowers the same-type-out operators: pop the right
// operand, peek (not pop) the left, and store the result back into
// the left operand's existing cell — no new alloca.
func (e *Emitter) binaryInPlace(op string) {
	bPtr := e.pop()
	aPtr := e.peek()

	a := e.load(aPtr)
	b := e.load(bPtr)

	isFloat := a.Type().Equal(types.Float)

	var result value.Value
	switch op {
	case "+":
		if isFloat {
			result = e.block.NewFAdd(a, b)
		} else {
			result = e.block.NewAdd(a, b)
		}
	case "-":
		if isFloat {
			result = e.block.NewFSub(a, b)
		} else {
			result = e.block.NewSub(a, b)
		}
	case "*":
		if isFloat {
			result = e.block.NewFMul(a, b)
		} else {
			result = e.block.NewMul(a, b)
		}
	case "/":
		if isFloat {
			result = e.block.NewFDiv(a, b)
		} else {
			result = e.block.NewSDiv(a, b)
		}
	case "%":
		if isFloat {
			result = e.block.NewFRem(a, b)
		} else {
			result = e.block.NewSRem(a, b)
		}
	case "|":
		result = e.block.NewOr(a, b)
	case "&":
		result = e.block.NewAnd(a, b)
	case ">>":
		result = e.block.NewLShr(a, b)
	case "<<":
		result = e.block.NewShl(a, b)
	}

	e.block.NewStore(result, aPtr)
}

var ipreds = map[string]enum.IPred{
	">":  enum.IPredSGT,
	"<":  enum.IPredSLT,
	">=": enum.IPredSGE,
	"<=": enum.IPredSLE,
	"!=": enum.IPredNE,
	"=":  enum.IPredEQ,
}

var fpreds = map[string]enum.FPred{
	">":  enum.FPredOGT,
	"<":  enum.FPredOLT,
	">=": enum.FPredOGE,
	"<=": enum.FPredOLE,
	"!=": enum.FPredONE,
	"=":  enum.FPredOEQ,
}

// comparison lowers the six comparison operators: both operands are
// fully popped, and the i1 result gets a brand-new cell.
func (e *Emitter) comparison(op string) {
	bPtr := e.pop()
	aPtr := e.pop()

	a := e.load(aPtr)
	b := e.load(bPtr)

	var result value.Value
	if a.Type().Equal(types.Float) {
		result = e.block.NewFCmp(fpreds[op], a, b)
	} else {
		result = e.block.NewICmp(ipreds[op], a, b)
	}

	e.pushValue(types.I1, result)
}

// not lowers `!` as a bitwise complement in place, on whichever of the
// four scalar types occupies the top cell. Integers and bools xor
// directly against an all-ones constant of their own type; floats and
// strings round-trip through an integer of matching width so the xor
// stays well-typed.
func (e *Emitter) not() {
	ptr := e.peek()
	v := e.load(ptr)

	var result value.Value
	switch {
	case v.Type().Equal(types.I32):
		result = e.block.NewXor(v, constant.NewInt(types.I32, -1))
	case v.Type().Equal(types.I1):
		result = e.block.NewXor(v, constant.NewInt(types.I1, 1))
	case v.Type().Equal(types.Float):
		asInt := e.block.NewBitCast(v, types.I32)
		flipped := e.block.NewXor(asInt, constant.NewInt(types.I32, -1))
		result = e.block.NewBitCast(flipped, types.Float)
	default:
		asInt := e.block.NewPtrToInt(v, types.I64)
		flipped := e.block.NewXor(asInt, constant.NewInt(types.I64, -1))
		result = e.block.NewIntToPtr(flipped, types.NewPointer(types.I8))
	}

	e.block.NewStore(result, ptr)
}

// --- stack manipulators ------------------------------------------------------

// dup loads the top cell and pushes a fresh cell holding the same
// value: net effect +1.
func (e *Emitter) dup() {
	ptr := e.peek()
	v := e.load(ptr)
	e.pushValue(v.Type(), v)
}

// over loads the second-from-top cell and pushes a fresh cell holding
// its value: net effect +1, leaving `a b a`.
func (e *Emitter) over() {
	ptr := e.stack[len(e.stack)-2]
	v := e.load(ptr)
	e.pushValue(v.Type(), v)
}

// swap removes the second-from-top pointer outright and re-pushes a
// fresh cell holding its loaded value, leaving the previous top's own
// cell in place underneath: net effect 0.
func (e *Emitter) swap() {
	n := len(e.stack)
	secondPtr := e.stack[n-2]

	e.stack = append(e.stack[:n-2], e.stack[n-1])

	v := e.load(secondPtr)
	e.pushValue(v.Type(), v)
}

// rot removes the third-from-top pointer outright and re-pushes a
// fresh cell holding its loaded value, rotating (a b c) to (b c a):
// net effect 0.
func (e *Emitter) rot() {
	n := len(e.stack)
	thirdPtr := e.stack[n-3]

	e.stack = append(e.stack[:n-3], e.stack[n-2:]...)

	v := e.load(thirdPtr)
	e.pushValue(v.Type(), v)
}

// --- debug print -------------------------------------------------------------

// dump pops and loads the top cell and prints it with printf, picking
// the format string by IR type.
func (e *Emitter) dump() {
	ptr := e.pop()
	v := e.load(ptr)

	var format string
	switch {
	case v.Type().Equal(types.I32):
		format = "%d\n\x00"
	case v.Type().Equal(types.I1):
		format = "%d\n\x00"
		v = e.block.NewZExt(v, types.I32)
	case v.Type().Equal(types.Float):
		format = "%f\n\x00"
		v = e.block.NewFPExt(v, types.Double)
	default:
		format = "%s\n\x00"
	}

	fmtPtr := e.localCString(format)
	e.ensurePrintf()
	e.block.NewCall(e.printf, fmtPtr, v)
}

// localCString allocates a stack-local NUL-terminated byte array
// holding s and returns an i8* view of it. Unlike pushString's global
// interning, dump's format strings are local and stack-allocated,
// re-created on every call.
func (e *Emitter) localCString(s string) value.Value {
	arrType := types.NewArray(uint64(len(s)), types.I8)
	cell := e.block.NewAlloca(arrType)
	e.block.NewStore(constant.NewCharArrayFromString(s), cell)

	zero := constant.NewInt(types.I32, 0)
	return e.block.NewGetElementPtr(arrType, cell, zero, zero)
}

// ensurePrintf declares printf the first time a program calls dump,
// caching it for subsequent calls.
func (e *Emitter) ensurePrintf() {
	if e.printf != nil {
		return
	}

	e.printf = declarePrintf(e.mod)
}

// --- structured control flow -------------------------------------------------

// startIf lowers `if`: pop and load the condition, build the three
// basic blocks, branch, and position at the true branch.
func (e *Emitter) startIf() {
	ptr := e.pop()
	cond := e.load(ptr)

	trueBB := e.fn.NewBlock("")
	falseBB := e.fn.NewBlock("")
	mergeBB := e.fn.NewBlock("")

	e.block.NewCondBr(cond, trueBB, falseBB)
	e.frames = append(e.frames, &controlFrame{trueBB: trueBB, falseBB: falseBB, mergeBB: mergeBB})
	e.block = trueBB
}

// startElse lowers `else`: branch the true-arm to merge, flag the
// frame, and continue in the false block.
func (e *Emitter) startElse() {
	f := e.frames[len(e.frames)-1]

	e.block.NewBr(f.mergeBB)
	f.hasElse = true
	e.block = f.falseBB
}

// startWhile lowers `while`: branch into the head (condition) block
// and position there; the loop's condition operators emit here until
// `do`.
func (e *Emitter) startWhile() {
	headBB := e.fn.NewBlock("")
	bodyBB := e.fn.NewBlock("")
	mergeBB := e.fn.NewBlock("")

	e.block.NewBr(headBB)
	e.frames = append(e.frames, &controlFrame{isWhile: true, headBB: headBB, bodyBB: bodyBB, mergeBB: mergeBB})
	e.block = headBB
}

// startDo lowers `do`: pop and load the loop condition, branch into
// the body or out to merge.
func (e *Emitter) startDo() {
	ptr := e.pop()
	cond := e.load(ptr)

	f := e.frames[len(e.frames)-1]
	e.block.NewCondBr(cond, f.bodyBB, f.mergeBB)
	e.block = f.bodyBB
}

// endBlock closes the innermost control-flow frame, whether it opened
// with `if` or `while`.
func (e *Emitter) endBlock() {
	n := len(e.frames) - 1
	f := e.frames[n]
	e.frames = e.frames[:n]

	if f.isWhile {
		e.block.NewBr(f.headBB)
		e.block = f.mergeBB
		return
	}

	e.block.NewBr(f.mergeBB)
	if !f.hasElse {
		e.block = f.falseBB
		e.block.NewBr(f.mergeBB)
	}
	e.block = f.mergeBB
}
