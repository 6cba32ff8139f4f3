// Package brain implements the evolvable stack-machine genomes that steer
// cells on the grid. A brain is a small register file plus a shared,
// copy-on-write genome; genomes mutate structurally and recombine by
// gene-level crossover when two brains collide.
package brain

import (
	"math/rand"

	"github.com/evomata/evonomics/sim/moore"
)

// DecisionKind is what a brain elected to do this tick.
type DecisionKind uint8

const (
	Nothing DecisionKind = iota
	MoveOut
	Divide
)

// Decision is the outcome of one Decide call.
type Decision struct {
	Kind DecisionKind
	Dir  moore.Direction
}

// Brain couples a genome with its working memory. Brains are copied by
// value; the genome pointer is shared until a mutation forces a clone.
type Brain struct {
	memory [NumState]float64
	code   *DNA

	// scratch for execute, lazily grown, never shared between cells
	stack []float64
}

// New creates a random brain.
func New(rng *rand.Rand) *Brain {
	return &Brain{code: NewDNA(rng)}
}

// FromDNA builds a brain with zeroed memory around an existing genome.
func FromDNA(code *DNA) *Brain {
	return &Brain{code: code}
}

// Clone produces a child sharing the genome. Memory is carried over so a
// divided cell keeps its learned registers.
func (b *Brain) Clone() *Brain {
	return &Brain{memory: b.memory, code: b.code}
}

// GenomeLen reports the codon count, used for telemetry and tests.
func (b *Brain) GenomeLen() int { return len(b.code.Sequence) }

// EntryCount reports the number of entry points.
func (b *Brain) EntryCount() int { return len(b.code.Entries) }

// Decide executes every entry point in shuffled order. Writes land in the
// register file as they happen; every other outcome, idle included,
// overwrites the running decision, so the last entry to finish decides.
func (b *Brain) Decide(rng *rand.Rand, inputs []float64) Decision {
	decision := Decision{Kind: Nothing}
	if len(b.code.Sequence) == 0 || len(b.code.Entries) == 0 {
		return decision
	}

	entries := make([]int, len(b.code.Entries))
	copy(entries, b.code.Entries)
	rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})

	if b.stack == nil {
		b.stack = make([]float64, 0, 16)
	}
	for _, entry := range entries {
		act := b.code.execute(inputs, b.memory[:], entry, b.stack)
		switch act.kind {
		case actWrite:
			b.memory[int(act.reg)%NumState] = act.value
		case actMove:
			decision = Decision{Kind: MoveOut, Dir: act.dir}
		case actDivide:
			decision = Decision{Kind: Divide, Dir: act.dir}
		default:
			decision = Decision{Kind: Nothing}
		}
	}
	return decision
}

// Mutate clones the genome before touching it so siblings that still
// share it are unaffected.
func (b *Brain) Mutate(rng *rand.Rand) {
	b.code = b.code.Clone()
	b.code.Mutate(rng)
}

// Combine merges colliding brains into one by genome crossover. Memory
// starts fresh.
func Combine(rng *rand.Rand, brains []*Brain) *Brain {
	dnas := make([]*DNA, len(brains))
	for i, b := range brains {
		dnas[i] = b.code
	}
	return FromDNA(crossover(rng, dnas))
}

// splitGenes cuts a sequence into genes at the entry points. A genome
// without entry points yields no genes at all, so it passes nothing on.
func splitGenes(entries []int, sequence []Codon) [][]Codon {
	if len(entries) == 0 {
		return nil
	}
	points := entries
	if points[0] != 0 {
		points = append([]int{0}, points...)
	}
	points = append(points, len(sequence))

	genes := make([][]Codon, 0, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		gene := make([]Codon, points[i+1]-points[i])
		copy(gene, sequence[points[i]:points[i+1]])
		genes = append(genes, gene)
	}
	return genes
}

// crossover interleaves genes from each parent in round-robin order.
// Shorter parents are padded with empty genes at random positions so no
// parent systematically contributes the head of the child.
func crossover(rng *rand.Rand, dnas []*DNA) *DNA {
	rng.Shuffle(len(dnas), func(i, j int) {
		dnas[i], dnas[j] = dnas[j], dnas[i]
	})

	genes := make([][][]Codon, len(dnas))
	highest := 0
	for i, dna := range dnas {
		genes[i] = splitGenes(dna.Entries, dna.Sequence)
		if len(genes[i]) > highest {
			highest = len(genes[i])
		}
	}

	for i := range genes {
		for pad := highest - len(genes[i]); pad > 0; pad-- {
			position := rng.Intn(len(genes[i]) + 1)
			genes[i] = append(genes[i], nil)
			copy(genes[i][position+1:], genes[i][position:])
			genes[i][position] = nil
		}
	}

	child := &DNA{}
	for i := 0; i < highest; i++ {
		gene := genes[i%len(genes)][i]
		if len(gene) > 0 {
			child.Entries = append(child.Entries, len(child.Sequence))
			child.Sequence = append(child.Sequence, gene...)
		}
	}
	return child
}
