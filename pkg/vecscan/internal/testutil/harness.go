package testutil

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/calvinalkan/vecscan/pkg/vecscan"
	"github.com/calvinalkan/vecscan/pkg/vecscan/model"
)

// DefaultMaxFuzzOperations is the maximum number of operations applied in a
// single fuzz iteration.
const DefaultMaxFuzzOperations = 200

// scanner is the surface shared by vecscan.Scan and vecscan.GrowScan.
type scanner interface {
	Next() (vecscan.Slot[int], bool)
	Remaining() int
	Stats() vecscan.Stats
	Close()
}

// Harness drives a real scan and the model with the same operations.
type Harness struct {
	tb testing.TB

	// Seq is the slice under scan. Its address is handed to vecscan.
	Seq []int

	Model *model.ScanModel[int]

	grow     *vecscan.GrowScan[int]
	scan     scanner
	slot     vecscan.Slot[int]
	live     bool
	closed   bool
	inputLen int
	applied  []string
}

// NewHarness starts a Scan (or a GrowScan if grow is set) over a copy of
// input, alongside a model over the same input.
func NewHarness(tb testing.TB, input []int, grow bool) *Harness {
	tb.Helper()

	h := &Harness{
		tb:       tb,
		Seq:      slices.Clone(input),
		Model:    model.New(input),
		inputLen: len(input),
	}

	if grow {
		h.grow = vecscan.NewGrow(&h.Seq)
		h.scan = h.grow
	} else {
		h.scan = vecscan.New(&h.Seq)
	}

	return h
}

// Apply applies op to both sides and compares observable results.
// Operations that are not valid in the current state are skipped.
// Returns whether op was applied.
func (h *Harness) Apply(op Operation) bool {
	h.tb.Helper()

	switch op.Kind {
	case OpNext:
		h.applyNext()
	case OpKeep:
		if !h.live {
			return false
		}

		h.Model.Keep()
		h.slot.Keep()
		h.live = false
	case OpRemove:
		if !h.live {
			return false
		}

		want := h.Model.Remove()
		got := h.slot.Remove()
		h.live = false

		if got != want {
			h.failf(op, "Remove returned %d, model %d", got, want)
		}
	case OpSet:
		if !h.live {
			return false
		}

		h.Model.Set(op.Value)
		h.slot.Set(op.Value)

		if got := h.slot.Value(); got != op.Value {
			h.failf(op, "Value after Set = %d", got)
		}
	case OpReplace:
		if !h.live {
			return false
		}

		want := h.Model.Current
		h.Model.Set(op.Value)
		h.Model.Keep()

		got := h.slot.Replace(op.Value)
		h.live = false

		if got != want {
			h.failf(op, "Replace returned %d, model %d", got, want)
		}
	case OpInsert:
		if h.grow == nil || h.closed {
			return false
		}

		h.Model.Insert(op.Values...)
		h.grow.Insert(op.Values...)
	case OpClose:
		h.applyClose(op)
	default:
		return false
	}

	h.applied = append(h.applied, op.String())

	if got, want := h.scan.Remaining(), h.Model.Remaining(); got != want {
		h.failf(op, "Remaining = %d, model %d", got, want)
	}

	return true
}

func (h *Harness) applyNext() {
	want, wantOK := h.Model.Next()
	slot, ok := h.scan.Next()

	h.slot = slot
	h.live = ok

	if ok != wantOK {
		h.failf(Operation{Kind: OpNext}, "Next ok = %v, model %v", ok, wantOK)
	}

	if !ok {
		return
	}

	if got := slot.Value(); got != want {
		h.failf(Operation{Kind: OpNext}, "Next value = %d, model %d", got, want)
	}

	if got := slot.Index(); got != h.Model.CurrentIndex {
		h.failf(Operation{Kind: OpNext}, "Index = %d, model %d", got, h.Model.CurrentIndex)
	}
}

func (h *Harness) applyClose(op Operation) {
	want := h.Model.Close()
	h.scan.Close()
	h.live = false
	h.closed = true

	if diff := cmp.Diff(want, h.Seq, cmpopts.EquateEmpty()); diff != "" {
		h.failf(op, "result mismatch (-model +real):\n%s", diff)
	}
}

// Finish closes both sides if still open, compares the final sequences and
// checks the relocation bound. Returns the final sequence.
func (h *Harness) Finish() []int {
	h.tb.Helper()

	if !h.closed {
		h.applyClose(Operation{Kind: OpClose})
	}

	stats := h.scan.Stats()

	bound := h.inputLen
	if h.grow != nil {
		bound = 2 * (h.inputLen + stats.Inserted)
	}

	if moved := stats.Moves + stats.Shifted; moved > bound {
		h.failf(Operation{Kind: OpClose}, "relocated %d elements, bound %d (stats %+v)", moved, bound, stats)
	}

	if stats.Reconciliations > 1 {
		h.failf(Operation{Kind: OpClose}, "%d reconciliations, want at most 1", stats.Reconciliations)
	}

	return h.Seq
}

func (h *Harness) failf(op Operation, format string, args ...any) {
	h.tb.Helper()

	args = append([]any{op, strings.Join(h.applied, " ")}, args...)
	h.tb.Fatalf("after %s (ops: %s): "+format, args...)
}

// Run executes a full generated scenario: derive the input, apply up to
// maxOps operations, then finish.
func Run(tb testing.TB, fuzzBytes []byte, cfg OpGenConfig, maxOps int) []int {
	tb.Helper()

	gen := NewOpGenerator(fuzzBytes, cfg)
	h := NewHarness(tb, gen.Input(), cfg.AllowInsert)

	for range maxOps {
		if !gen.HasMore() {
			break
		}

		h.Apply(gen.NextOp())
	}

	return h.Finish()
}
