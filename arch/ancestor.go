package arch

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAncestor renders a layout as one ancestor-file line:
// "start_1,...,start_N,bitstring". An empty bits string yields an all-zero
// genome of the given length.
func FormatAncestor(starts []int, genomeLength int, bits string) string {
	if bits == "" {
		bits = strings.Repeat("0", genomeLength)
	}
	var sb strings.Builder
	for _, s := range starts {
		sb.WriteString(strconv.Itoa(s))
		sb.WriteByte(',')
	}
	sb.WriteString(bits)
	return sb.String()
}

// ParseAncestor reads an ancestor-file line back into gene starts and a genome
// bitstring. The genome length is taken from the bitstring.
func ParseAncestor(line string) (starts []int, bits string, err error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) < 2 {
		return nil, "", fmt.Errorf("%w: ancestor line %q needs at least one start and a bitstring", ErrInvalidArchitecture, line)
	}
	bits = strings.TrimSpace(fields[len(fields)-1])
	if strings.Trim(bits, "01") != "" || bits == "" {
		return nil, "", fmt.Errorf("%w: ancestor bitstring %q is not binary", ErrInvalidArchitecture, bits)
	}
	starts = make([]int, 0, len(fields)-1)
	for _, f := range fields[:len(fields)-1] {
		s, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, "", fmt.Errorf("%w: parsing gene start %q: %v", ErrInvalidArchitecture, f, err)
		}
		if s < 0 || s >= len(bits) {
			return nil, "", fmt.Errorf("%w: gene start %d outside [0, %d)", ErrInvalidArchitecture, s, len(bits))
		}
		starts = append(starts, s)
	}
	return starts, bits, nil
}
