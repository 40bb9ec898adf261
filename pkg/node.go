package pile

// NodeKind classifies a parsed Node. Symbol covers every Word token:
// operator words and control words alike.
type NodeKind uint8

const (
	NInt NodeKind = iota
	NFloat
	NString
	NSymbol
)

func (k NodeKind) String() string {
	switch k {
	case NInt:
		return "int"
	case NFloat:
		return "float"
	case NString:
		return "string"
	case NSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Node pairs a Token with the classification the parser assigned it.
type Node struct {
	Token Token
	Kind  NodeKind
}

// nodeKindOf maps a Token's lexical kind onto its Node kind.
func nodeKindOf(tok Token) NodeKind {
	switch tok.Kind {
	case Int:
		return NInt
	case Float:
		return NFloat
	case String:
		return NString
	default:
		return NSymbol
	}
}
