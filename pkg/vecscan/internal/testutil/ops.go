package testutil

import (
	"fmt"
	"strings"
)

// OpKind identifies a scan operation.
type OpKind uint8

// Operations understood by the harness.
const (
	OpNext OpKind = iota
	OpKeep
	OpRemove
	OpSet
	OpReplace
	OpInsert
	OpClose

	opKindCount
)

// String returns the operation name.
func (k OpKind) String() string {
	switch k {
	case OpNext:
		return "Next"
	case OpKeep:
		return "Keep"
	case OpRemove:
		return "Remove"
	case OpSet:
		return "Set"
	case OpReplace:
		return "Replace"
	case OpInsert:
		return "Insert"
	case OpClose:
		return "Close"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Operation is a single step applied to both the model and the real scan.
type Operation struct {
	Kind OpKind

	// Value is used by Set and Replace.
	Value int

	// Values is used by Insert.
	Values []int
}

// String renders the operation for failure messages.
func (op Operation) String() string {
	switch op.Kind {
	case OpSet, OpReplace:
		return fmt.Sprintf("%s(%d)", op.Kind, op.Value)
	case OpInsert:
		parts := make([]string, len(op.Values))
		for i, v := range op.Values {
			parts[i] = fmt.Sprint(v)
		}

		return fmt.Sprintf("Insert(%s)", strings.Join(parts, ","))
	default:
		return op.Kind.String()
	}
}

// Limits for generated inputs.
const (
	MaxInputLen  = 48
	MaxInsertLen = 6
)

// OpGenConfig controls which operations the generator emits.
type OpGenConfig struct {
	// AllowInsert enables Insert operations (GrowScan only).
	AllowInsert bool

	// AllowClose enables Close operations mid-stream. The harness always
	// closes at the end regardless.
	AllowClose bool
}

// OpGenerator turns fuzz bytes into an input slice and a stream of
// operations.
type OpGenerator struct {
	stream *ByteStream
	cfg    OpGenConfig
	next   int
}

// NewOpGenerator creates a generator over fuzzBytes.
func NewOpGenerator(fuzzBytes []byte, cfg OpGenConfig) *OpGenerator {
	return &OpGenerator{
		stream: NewByteStream(fuzzBytes),
		cfg:    cfg,
		next:   1000,
	}
}

// Input derives the slice to scan. Must be called before NextOp.
func (g *OpGenerator) Input() []int {
	n := g.stream.NextIntn(MaxInputLen + 1)

	input := make([]int, n)
	for i := range input {
		input[i] = int(g.stream.NextByte())
	}

	return input
}

// HasMore reports whether fuzz bytes remain.
func (g *OpGenerator) HasMore() bool {
	return g.stream.HasMore()
}

// NextOp derives the next operation.
//
// The generator does not track scan state; the harness skips operations that
// are not valid in the current state (e.g. Remove with no live slot).
func (g *OpGenerator) NextOp() Operation {
	kind := OpKind(g.stream.NextIntn(int(opKindCount)))

	switch kind {
	case OpInsert:
		if !g.cfg.AllowInsert {
			return Operation{Kind: OpNext}
		}

		n := g.stream.NextIntn(MaxInsertLen + 1)

		values := make([]int, n)
		for i := range values {
			values[i] = g.fresh()
		}

		return Operation{Kind: OpInsert, Values: values}
	case OpClose:
		if !g.cfg.AllowClose {
			return Operation{Kind: OpNext}
		}

		return Operation{Kind: OpClose}
	case OpSet, OpReplace:
		return Operation{Kind: kind, Value: g.fresh()}
	default:
		return Operation{Kind: kind}
	}
}

// fresh returns values distinct from any input byte so misplaced elements
// show up in diffs.
func (g *OpGenerator) fresh() int {
	g.next++

	return g.next
}
