package brain

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evomata/evonomics/sim/moore"
)

func lit(v float64) Codon { return Codon{Op: OpLiteral, Val: v} }

func exec(t *testing.T, d *DNA, inputs, memory []float64) action {
	t.Helper()
	require.NotEmpty(t, d.Sequence)
	return d.execute(inputs, memory, 0, nil)
}

func TestExecuteArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		want float64
	}{
		{name: "Add", op: OpAdd, want: 9},
		{name: "Sub", op: OpSub, want: 3},
		{name: "Mul", op: OpMul, want: 18},
		{name: "Div", op: OpDiv, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &DNA{Sequence: []Codon{
				lit(6), lit(3), {Op: tt.op}, {Op: OpWrite, Arg: 0},
			}}
			act := exec(t, d, nil, make([]float64, NumState))
			assert.Equal(t, actWrite, act.kind)
			assert.Equal(t, tt.want, act.value)
		})
	}
}

func TestExecuteStackUnderflowStops(t *testing.T) {
	d := &DNA{Sequence: []Codon{lit(1), {Op: OpAdd}, {Op: OpMove, Dir: moore.Up}}}
	act := exec(t, d, nil, make([]float64, NumState))
	assert.Equal(t, actNothing, act.kind)
}

func TestExecuteLessSkipsWhenFalse(t *testing.T) {
	// 3 < 2 is false, so the Move is skipped and Divide runs.
	d := &DNA{Sequence: []Codon{
		lit(3), lit(2), {Op: OpLess},
		{Op: OpMove, Dir: moore.Left},
		{Op: OpDivide, Dir: moore.Right},
	}}
	act := exec(t, d, nil, make([]float64, NumState))
	assert.Equal(t, actDivide, act.kind)
	assert.Equal(t, moore.Right, act.dir)

	// 1 < 2 holds, so the Move runs.
	d = &DNA{Sequence: []Codon{
		lit(1), lit(2), {Op: OpLess},
		{Op: OpMove, Dir: moore.Left},
		{Op: OpDivide, Dir: moore.Right},
	}}
	act = exec(t, d, nil, make([]float64, NumState))
	assert.Equal(t, actMove, act.kind)
	assert.Equal(t, moore.Left, act.dir)
}

func TestExecuteInputWraps(t *testing.T) {
	d := &DNA{Sequence: []Codon{
		{Op: OpInput, Arg: 7}, {Op: OpWrite, Arg: 1},
	}}
	act := exec(t, d, []float64{10, 20, 30}, make([]float64, NumState))
	assert.Equal(t, actWrite, act.kind)
	// 7 mod 3 == 1
	assert.Equal(t, 20.0, act.value)
	assert.Equal(t, uint32(1), act.reg)
}

func TestExecuteReadMemory(t *testing.T) {
	memory := []float64{0, 0, 42, 0}
	d := &DNA{Sequence: []Codon{
		{Op: OpRead, Arg: 2}, {Op: OpWrite, Arg: 0},
	}}
	act := exec(t, d, nil, memory)
	assert.Equal(t, 42.0, act.value)
}

func TestExecuteCopy(t *testing.T) {
	d := &DNA{Sequence: []Codon{
		lit(1), lit(2), {Op: OpCopy, Arg: 1}, {Op: OpWrite, Arg: 0},
	}}
	act := exec(t, d, nil, make([]float64, NumState))
	assert.Equal(t, 1.0, act.value)

	// Copy beyond the stack stops execution.
	d = &DNA{Sequence: []Codon{
		lit(1), {Op: OpCopy, Arg: 5}, {Op: OpMove, Dir: moore.Up},
	}}
	act = exec(t, d, nil, make([]float64, NumState))
	assert.Equal(t, actNothing, act.kind)
}

func TestExecuteBudget(t *testing.T) {
	// An infinite literal loop must be cut off by the execution budget.
	d := &DNA{Sequence: []Codon{lit(1)}}
	act := exec(t, d, nil, make([]float64, NumState))
	assert.Equal(t, actNothing, act.kind)
}

func entriesValid(t *testing.T, d *DNA) {
	t.Helper()
	assert.True(t, sort.IntsAreSorted(d.Entries))
	seen := map[int]struct{}{}
	for _, e := range d.Entries {
		assert.GreaterOrEqual(t, e, 0)
		assert.Less(t, e, len(d.Sequence))
		_, dup := seen[e]
		assert.False(t, dup, "duplicate entry %d", e)
		seen[e] = struct{}{}
	}
}

func TestNewDNAEntriesInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		d := NewDNA(rng)
		entriesValid(t, d)
	}
}

func TestMutateKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	d := NewDNA(rng)
	for i := 0; i < 1000; i++ {
		d.Mutate(rng)
		entriesValid(t, d)
	}
}

func TestMutateDoesNotTouchClones(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var parent *DNA
	for parent == nil || len(parent.Sequence) == 0 {
		parent = NewDNA(rng)
	}
	child := parent.Clone()
	before := make([]Codon, len(parent.Sequence))
	copy(before, parent.Sequence)

	for i := 0; i < 50; i++ {
		child.Mutate(rng)
	}
	assert.Equal(t, before, parent.Sequence)
}

func BenchmarkExecute(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	var d *DNA
	for d == nil || len(d.Sequence) < 32 || len(d.Entries) == 0 {
		d = NewDNA(rng)
	}
	inputs := make([]float64, 17)
	memory := make([]float64, NumState)
	stack := make([]float64, 0, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.execute(inputs, memory, d.Entries[0], stack)
	}
}
