package brain

import (
	"math/rand"
	"sort"

	"github.com/evomata/evonomics/sim/moore"
)

const (
	// NumState is the number of memory registers a brain carries.
	NumState = 4
	// maxExecute bounds how many codons a single entry point may run.
	maxExecute = 128

	initialGenomeScale  = 256.0
	initialEntriesScale = 64.0
)

// Op is the opcode of a single codon.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpLiteral
	OpLess
	OpCopy
	OpRead
	OpInput
	OpWrite
	OpMove
	OpDivide
	OpNothing

	numOps
)

// Codon is one instruction of a genome. Which of the payload fields is
// meaningful depends on Op.
type Codon struct {
	Op  Op
	Val float64         // OpLiteral
	Arg uint32          // OpCopy, OpRead, OpInput, OpWrite
	Dir moore.Direction // OpMove, OpDivide
}

// DNA is an executable genome: a codon sequence plus the sorted, unique
// entry points execution may start from.
type DNA struct {
	Sequence []Codon
	Entries  []int
}

// NewDNA generates a random genome. Sequence and entry counts follow an
// exponential distribution so most genomes are short and a few are long.
func NewDNA(rng *rand.Rand) *DNA {
	seqLen := int(rng.ExpFloat64() * initialGenomeScale)
	sequence := make([]Codon, seqLen)
	for i := range sequence {
		sequence[i] = randomCodon(rng)
	}

	var entries []int
	if seqLen > 0 {
		entryLen := int(rng.ExpFloat64() * initialEntriesScale)
		seen := make(map[int]struct{}, entryLen)
		for i := 0; i < entryLen; i++ {
			e := rng.Intn(seqLen)
			if _, ok := seen[e]; !ok {
				seen[e] = struct{}{}
				entries = append(entries, e)
			}
		}
		sort.Ints(entries)
	}

	return &DNA{Sequence: sequence, Entries: entries}
}

func randomCodon(rng *rand.Rand) Codon {
	switch Op(rng.Intn(int(numOps))) {
	case OpAdd:
		return Codon{Op: OpAdd}
	case OpSub:
		return Codon{Op: OpSub}
	case OpMul:
		return Codon{Op: OpMul}
	case OpDiv:
		return Codon{Op: OpDiv}
	case OpLiteral:
		return Codon{Op: OpLiteral, Val: rng.Float64()}
	case OpLess:
		return Codon{Op: OpLess}
	case OpCopy:
		return Codon{Op: OpCopy, Arg: rng.Uint32()}
	case OpRead:
		return Codon{Op: OpRead, Arg: rng.Uint32() % NumState}
	case OpInput:
		return Codon{Op: OpInput, Arg: rng.Uint32()}
	case OpWrite:
		return Codon{Op: OpWrite, Arg: rng.Uint32() % NumState}
	case OpMove:
		return Codon{Op: OpMove, Dir: randomCardinal(rng)}
	case OpDivide:
		return Codon{Op: OpDivide, Dir: randomCardinal(rng)}
	default:
		return Codon{Op: OpNothing}
	}
}

func randomCardinal(rng *rand.Rand) moore.Direction {
	cardinals := moore.Cardinals()
	return cardinals[rng.Intn(len(cardinals))]
}

// Clone deep-copies the genome so a mutation never reaches back into a
// parent that shared it.
func (d *DNA) Clone() *DNA {
	c := &DNA{
		Sequence: make([]Codon, len(d.Sequence)),
		Entries:  make([]int, len(d.Entries)),
	}
	copy(c.Sequence, d.Sequence)
	copy(c.Entries, d.Entries)
	return c
}

// Mutate applies one round of structural mutation: insert or remove a
// codon, then add or drop an entry point. Entry points stay sorted,
// unique and in bounds.
func (d *DNA) Mutate(rng *rand.Rand) {
	if rng.Intn(2) == 0 {
		// Add a codon and shift entry points past it.
		position := rng.Intn(len(d.Sequence) + 1)
		d.Sequence = append(d.Sequence, Codon{})
		copy(d.Sequence[position+1:], d.Sequence[position:])
		d.Sequence[position] = randomCodon(rng)
		for i, e := range d.Entries {
			if e >= position {
				d.Entries[i] = e + 1
			}
		}
	} else if len(d.Sequence) > 0 {
		// Remove a codon along with any entry point that targeted it.
		position := rng.Intn(len(d.Sequence))
		d.Sequence = append(d.Sequence[:position], d.Sequence[position+1:]...)
		kept := d.Entries[:0]
		for _, e := range d.Entries {
			if e == position {
				continue
			}
			if e > position {
				e--
			}
			kept = append(kept, e)
		}
		d.Entries = kept
	}

	if len(d.Sequence) > 0 && rng.Intn(2) == 0 {
		// Add an entry point if the drawn target is not already one.
		e := rng.Intn(len(d.Sequence))
		if !containsInt(d.Entries, e) {
			d.Entries = append(d.Entries, e)
			sort.Ints(d.Entries)
		}
	} else if len(d.Entries) > 0 {
		position := rng.Intn(len(d.Entries))
		d.Entries = append(d.Entries[:position], d.Entries[position+1:]...)
	}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

type actionKind uint8

const (
	actNothing actionKind = iota
	actWrite
	actMove
	actDivide
)

type action struct {
	kind  actionKind
	reg   uint32
	value float64
	dir   moore.Direction
}

// execute runs the stack machine from one entry point. The scratch stack
// is reused across entry points to keep the hot path allocation-free.
func (d *DNA) execute(inputs []float64, memory []float64, at int, stack []float64) action {
	stack = stack[:0]
	seqLen := len(d.Sequence)
	for step := 0; step < maxExecute; step++ {
		switch c := d.Sequence[at]; c.Op {
		case OpAdd, OpSub, OpMul, OpDiv:
			if len(stack) < 2 {
				return action{}
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-1]
			switch c.Op {
			case OpAdd:
				stack[len(stack)-1] = a + b
			case OpSub:
				stack[len(stack)-1] = a - b
			case OpMul:
				stack[len(stack)-1] = a * b
			default:
				stack[len(stack)-1] = a / b
			}
		case OpLiteral:
			stack = append(stack, c.Val)
		case OpLess:
			if len(stack) < 2 {
				return action{}
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			// The codon after a comparison runs only when it holds.
			if !(a < b) {
				at = (at + 1) % seqLen
			}
		case OpCopy:
			if len(stack) == 0 || int(c.Arg) >= len(stack) {
				return action{}
			}
			stack = append(stack, stack[len(stack)-1-int(c.Arg)])
		case OpRead:
			stack = append(stack, memory[int(c.Arg)%len(memory)])
		case OpInput:
			stack = append(stack, inputs[int(c.Arg)%len(inputs)])
		case OpWrite:
			if len(stack) == 0 {
				return action{}
			}
			return action{kind: actWrite, reg: c.Arg, value: stack[len(stack)-1]}
		case OpMove:
			return action{kind: actMove, dir: c.Dir}
		case OpDivide:
			return action{kind: actDivide, dir: c.Dir}
		default:
			return action{}
		}
		at = (at + 1) % seqLen
	}
	return action{}
}
