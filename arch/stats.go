package arch

import "log/slog"

// Stats summarizes how genes share sites in an architecture.
type Stats struct {
	CodingSites     int
	NeutralSites    int // occupancy 0
	SingleGeneSites int // occupancy 1
	MultiGeneSites  int // occupancy >= 2

	// OccupancyHistogram[k] is the number of sites covered by exactly k genes.
	// It has GeneCount+1 bins.
	OccupancyHistogram []int
	MeanOccupancy      float64

	// GeneNeighbors[g] is the number of other genes sharing at least one site with g.
	GeneNeighbors []int
	MeanNeighbors float64
}

// Stats computes occupancy and neighbor statistics.
func (a *Architecture) Stats() Stats {
	p := a.params
	st := Stats{
		OccupancyHistogram: make([]int, p.GeneCount+1),
		GeneNeighbors:      make([]int, p.GeneCount),
	}

	var occupancyTotal int
	for _, occ := range a.siteOccupancy {
		k := len(occ)
		st.OccupancyHistogram[k]++
		occupancyTotal += k
		switch {
		case k == 0:
			st.NeutralSites++
		case k == 1:
			st.SingleGeneSites++
		default:
			st.MultiGeneSites++
		}
	}
	st.CodingSites = p.GenomeLength - st.NeutralSites
	st.MeanOccupancy = float64(occupancyTotal) / float64(p.GenomeLength)

	neighbors := make([][]bool, p.GeneCount)
	for g := range neighbors {
		neighbors[g] = make([]bool, p.GeneCount)
	}
	for _, occ := range a.siteOccupancy {
		for i := range occ {
			for j := i + 1; j < len(occ); j++ {
				neighbors[occ[i]][occ[j]] = true
				neighbors[occ[j]][occ[i]] = true
			}
		}
	}
	var neighborTotal int
	for g, row := range neighbors {
		for _, ok := range row {
			if ok {
				st.GeneNeighbors[g]++
			}
		}
		neighborTotal += st.GeneNeighbors[g]
	}
	st.MeanNeighbors = float64(neighborTotal) / float64(p.GeneCount)

	return st
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("coding_sites", s.CodingSites),
		slog.Int("neutral_sites", s.NeutralSites),
		slog.Int("single_gene_sites", s.SingleGeneSites),
		slog.Int("multi_gene_sites", s.MultiGeneSites),
		slog.Float64("mean_occupancy", s.MeanOccupancy),
		slog.Float64("mean_neighbors", s.MeanNeighbors),
	)
}
