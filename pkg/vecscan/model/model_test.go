package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/vecscan/pkg/vecscan/model"
)

func Test_ScanModel_Does_Not_Alias_Input_When_Created(t *testing.T) {
	t.Parallel()

	input := []int{1, 2, 3}
	m := model.New(input)

	_, ok := m.Next()
	require.True(t, ok, "Next should return the first element")

	m.Set(100)
	m.Close()

	diff := cmp.Diff([]int{1, 2, 3}, input)
	assert.Empty(t, diff, "input must not be modified by the model")
}

func Test_ScanModel_Removes_Elements_When_Remove_Called(t *testing.T) {
	t.Parallel()

	m := model.New([]int{1, 2, 3, 4, 5})

	for {
		v, ok := m.Next()
		if !ok {
			break
		}

		if v%2 == 0 {
			assert.Equal(t, v, m.Remove(), "Remove should return the current element")
		}
	}

	diff := cmp.Diff([]int{1, 3, 5}, m.Close())
	assert.Empty(t, diff, "result mismatch")
}

func Test_ScanModel_Keeps_Unvisited_Suffix_When_Closed_Early(t *testing.T) {
	t.Parallel()

	m := model.New([]int{1, 2, 3, 4, 5})

	_, _ = m.Next()
	_, _ = m.Next()
	m.Remove()

	diff := cmp.Diff([]int{1, 3, 4, 5}, m.Close())
	assert.Empty(t, diff, "result mismatch")
}

func Test_ScanModel_Places_Insertions_After_Live_Element_When_Slot_Live(t *testing.T) {
	t.Parallel()

	m := model.New([]int{1, 2, 3})

	_, _ = m.Next()
	m.Insert(7, 8)

	diff := cmp.Diff([]int{1, 7, 8, 2, 3}, m.Snapshot())
	assert.Empty(t, diff, "snapshot with live slot mismatch")

	m.Remove()

	diff = cmp.Diff([]int{7, 8, 2, 3}, m.Close())
	assert.Empty(t, diff, "staged insertions should survive removal of the live element")
}

func Test_ScanModel_Places_Insertions_At_Write_Position_When_No_Slot_Live(t *testing.T) {
	t.Parallel()

	m := model.New([]int{1, 2, 3})

	m.Insert(0)

	_, _ = m.Next()
	_, _ = m.Next()
	m.Remove()
	m.Insert(9, 9)

	diff := cmp.Diff([]int{0, 1, 9, 9, 3}, m.Close())
	assert.Empty(t, diff, "result mismatch")
}

func Test_ScanModel_Close_Is_Idempotent_When_Called_Twice(t *testing.T) {
	t.Parallel()

	m := model.New([]int{1, 2})

	_, _ = m.Next()

	first := m.Close()
	second := m.Close()

	diff := cmp.Diff(first, second)
	assert.Empty(t, diff, "second Close should return the same result")

	_, ok := m.Next()
	assert.False(t, ok, "Next after Close should return false")
}

func Test_ScanModel_Panics_When_Remove_Without_Live_Slot(t *testing.T) {
	t.Parallel()

	m := model.New([]int{1})

	assert.Panics(t, func() { m.Remove() }, "Remove without a live slot should panic")
}
