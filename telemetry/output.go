package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
)

// RepresentativeRecord is one row of representatives.csv.
type RepresentativeRecord struct {
	Index            int     `csv:"architecture"`
	Starts           string  `csv:"gene_starts"` // space separated
	Edges            string  `csv:"edges"`       // "{u-v:w ...}"
	ClassSize        int     `csv:"class_size"`
	ExpectedOptimal  float64 `csv:"expected_optimal_fitness"`
	CodingSites      int     `csv:"coding_sites"`
	NeutralSites     int     `csv:"neutral_sites"`
	SingleGeneSites  int     `csv:"single_gene_sites"`
	MultiGeneSites   int     `csv:"multi_gene_sites"`
	MeanOccupancy    float64 `csv:"mean_occupancy"`
	MeanNeighbors    float64 `csv:"mean_neighbors"`
	OverlapEdgeCount int     `csv:"overlap_edges"`
}

// YAMLWriter is satisfied by configuration types that can snapshot themselves.
type YAMLWriter interface {
	WriteYAML(path string) error
}

// OutputManager writes run artifacts into one directory.
// A nil *OutputManager discards everything, so callers need no guards.
type OutputManager struct {
	dir string

	// Track if headers have been written
	headerWritten map[string]bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &OutputManager{dir: dir, headerWritten: make(map[string]bool)}, nil
}

// WriteConfig saves the effective configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg YAMLWriter) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteArchitectures writes ancestor lines, either all to architectures.csv
// or one per architecture-<i>.csv.
func (om *OutputManager) WriteArchitectures(lines []string, singleFile bool) error {
	if om == nil {
		return nil
	}
	if singleFile {
		return om.writeFile("architectures.csv", strings.Join(lines, "\n"))
	}
	for i, line := range lines {
		if err := om.writeFile(fmt.Sprintf("architecture-%d.csv", i), line); err != nil {
			return err
		}
	}
	return nil
}

// WriteEnvironment writes one environment file under a subdirectory, e.g.
// gradient/gradient_env_0.env.
func (om *OutputManager) WriteEnvironment(kind string, index int, content string) error {
	if om == nil {
		return nil
	}
	sub := filepath.Join(om.dir, kind)
	if err := os.MkdirAll(sub, 0755); err != nil {
		return fmt.Errorf("creating %s directory: %w", kind, err)
	}
	return om.writeFile(filepath.Join(kind, fmt.Sprintf("%s_env_%d.env", kind, index)), content)
}

// WriteRepresentatives writes representatives.csv.
func (om *OutputManager) WriteRepresentatives(records []RepresentativeRecord) error {
	return appendCSV(om, "representatives.csv", records)
}

// WriteStats appends an enumeration summary row to enumeration.csv.
func (om *OutputManager) WriteStats(stats EnumerationStats) error {
	return appendCSV(om, "enumeration.csv", []EnumerationStats{stats})
}

// WritePerf appends a performance stats row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats) error {
	return appendCSV(om, "perf.csv", []PerfStatsCSV{stats.ToCSV()})
}

// WriteRows appends arbitrary gocsv-tagged rows to name. The header is
// written on the first call for each file.
func WriteRows[T any](om *OutputManager, name string, rows []T) error {
	return appendCSV(om, name, rows)
}

func appendCSV[T any](om *OutputManager, name string, records []T) error {
	if om == nil || len(records) == 0 {
		return nil
	}

	path := filepath.Join(om.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	if !om.headerWritten[name] {
		// First write includes headers
		if err := f.Truncate(0); err != nil {
			return fmt.Errorf("truncating %s: %w", name, err)
		}
		if err := gocsv.Marshal(records, f); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		om.headerWritten[name] = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, f); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return f.Close()
}

func (om *OutputManager) writeFile(name, content string) error {
	if err := os.WriteFile(filepath.Join(om.dir, name), []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}
