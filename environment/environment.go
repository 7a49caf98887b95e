// Package environment provides per-gene target environments: the binary
// gradient targets used for optimal-fitness analysis and the real-valued NK
// tables consumed by the simulation, plus their bracketed file formats.
package environment

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrMalformedEnvironment is returned when an environment file cannot be parsed.
	ErrMalformedEnvironment = errors.New("malformed environment")

	// ErrUnequalLengthOperands is returned when comparing sequences of different lengths.
	ErrUnequalLengthOperands = errors.New("unequal length operands")
)

// Binary is the target alphabet used in every gradient experiment.
var Binary = []int{0, 1}

// Gradient assigns a target vector to every gene. Gradient[g][i] is the value
// gene g wants at its i-th offset.
type Gradient [][]int

// NK assigns a fitness table to every gene, indexed by the integer value of
// the gene's bits. Each table has 2^gene_length entries.
type NK [][]float64

// Shape returns the gene count and gene length of a gradient, or an error if
// the targets are ragged.
func (g Gradient) Shape() (geneCount, geneLength int, err error) {
	if len(g) == 0 {
		return 0, 0, nil
	}
	geneLength = len(g[0])
	for i, t := range g {
		if len(t) != geneLength {
			return 0, 0, fmt.Errorf("%w: gene %d has %d targets, gene 0 has %d", ErrMalformedEnvironment, i, len(t), geneLength)
		}
	}
	return len(g), geneLength, nil
}

// Alphabet returns the sorted distinct target values.
func (g Gradient) Alphabet() []int {
	var vals []int
	for _, t := range g {
		vals = append(vals, t...)
	}
	slices.Sort(vals)
	return slices.Compact(vals)
}

// RandomGradient draws every target uniformly from alphabet, which must not be empty.
func RandomGradient(rng *rand.Rand, geneCount, geneLength int, alphabet []int) Gradient {
	g := make(Gradient, geneCount)
	for i := range g {
		g[i] = make([]int, geneLength)
		for j := range g[i] {
			g[i][j] = alphabet[rng.Intn(len(alphabet))]
		}
	}
	return g
}

// RandomNK draws every table entry uniformly from [0, 1).
func RandomNK(rng *rand.Rand, geneCount, geneLength int) NK {
	size := 1 << geneLength
	nk := make(NK, geneCount)
	for i := range nk {
		nk[i] = make([]float64, size)
		for j := range nk[i] {
			nk[i][j] = rng.Float64()
		}
	}
	return nk
}

// UniqueGradients draws count distinct gradients. It fails if the alphabet
// cannot produce that many distinct environments.
func UniqueGradients(rng *rand.Rand, count, geneCount, geneLength int, alphabet []int) ([]Gradient, error) {
	if len(alphabet) == 0 {
		return nil, errors.New("empty target alphabet")
	}
	// Number of distinct environments is |alphabet|^(geneCount*geneLength).
	limit := 1
	for i := 0; i < geneCount*geneLength && limit < count; i++ {
		limit *= len(alphabet)
	}
	if limit < count {
		return nil, fmt.Errorf("only %d distinct environments exist, %d requested", limit, count)
	}

	seen := make(map[string]struct{}, count)
	out := make([]Gradient, 0, count)
	for len(out) < count {
		g := RandomGradient(rng, geneCount, geneLength, alphabet)
		key := g.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, g)
	}
	return out, nil
}

// UniqueNK draws count distinct NK environments.
func UniqueNK(rng *rand.Rand, count, geneCount, geneLength int) []NK {
	seen := make(map[string]struct{}, count)
	out := make([]NK, 0, count)
	for len(out) < count {
		nk := RandomNK(rng, geneCount, geneLength)
		key := nk.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, nk)
	}
	return out
}

// String renders the gradient in environment-file form, e.g. "[ 0101 1100 ]".
// Values are written as decimal digits with no separator, so only alphabets
// of single-digit values round-trip.
func (g Gradient) String() string {
	var sb strings.Builder
	sb.WriteString("[ ")
	for _, t := range g {
		for _, v := range t {
			sb.WriteString(strconv.Itoa(v))
		}
		sb.WriteByte(' ')
	}
	sb.WriteByte(']')
	return sb.String()
}

// Bits returns gene g's target as a string of digits.
func (g Gradient) Bits(gene int) string {
	var sb strings.Builder
	for _, v := range g[gene] {
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// ParseGradient reads the "[ 0101 1100 ]" form.
func ParseGradient(s string) (Gradient, error) {
	body, err := unwrap(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(body)
	g := make(Gradient, len(fields))
	for i, f := range fields {
		g[i] = make([]int, len(f))
		for j, c := range f {
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("%w: gene %d target %q has non-digit %q", ErrMalformedEnvironment, i, f, c)
			}
			g[i][j] = int(c - '0')
		}
	}
	if _, _, err := g.Shape(); err != nil {
		return nil, err
	}
	return g, nil
}

// String renders the NK tables as "[ [ v v ... ] [ v v ... ] ]".
func (nk NK) String() string {
	var sb strings.Builder
	sb.WriteString("[ ")
	for _, table := range nk {
		sb.WriteString("[ ")
		for _, v := range table {
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			sb.WriteByte(' ')
		}
		sb.WriteString("] ")
	}
	sb.WriteByte(']')
	return sb.String()
}

// ParseNK reads the nested bracket form written by NK.String.
func ParseNK(s string) (NK, error) {
	body, err := unwrap(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	var (
		nk    NK
		table []float64
		open  bool
	)
	for _, tok := range strings.Fields(body) {
		switch tok {
		case "[":
			if open {
				return nil, fmt.Errorf("%w: nested table", ErrMalformedEnvironment)
			}
			open, table = true, nil
		case "]":
			if !open {
				return nil, fmt.Errorf("%w: unbalanced ']'", ErrMalformedEnvironment)
			}
			nk = append(nk, table)
			open = false
		default:
			if !open {
				return nil, fmt.Errorf("%w: value %q outside a table", ErrMalformedEnvironment, tok)
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: parsing %q: %v", ErrMalformedEnvironment, tok, err)
			}
			table = append(table, v)
		}
	}
	if open {
		return nil, fmt.Errorf("%w: unterminated table", ErrMalformedEnvironment)
	}
	for i, t := range nk {
		if len(t) == 0 || len(t)&(len(t)-1) != 0 {
			return nil, fmt.Errorf("%w: table %d has %d entries, want a power of two", ErrMalformedEnvironment, i, len(t))
		}
	}
	return nk, nil
}

func unwrap(s string) (string, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") || len(s) < 2 {
		return "", fmt.Errorf("%w: expected outer brackets in %q", ErrMalformedEnvironment, s)
	}
	return s[1 : len(s)-1], nil
}
