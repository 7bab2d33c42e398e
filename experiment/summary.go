package experiment

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoSamples is returned by library-size statistics on a container without
// columns.
var ErrNoSamples = errors.New("experiment: no samples")

// SampleSummary describes one assay column. Missing cells are skipped.
type SampleSummary struct {
	Key         string
	LibrarySize float64 // sum of present values
	Detected    int     // features with a value above zero
	Missing     int
}

// FeatureSummary describes one assay row. Mean and Variance are NaN when
// fewer than one (Mean) or two (Variance) values are present.
type FeatureSummary struct {
	Key      string
	Mean     float64
	Variance float64
	Missing  int
}

func (c *Container) SampleSummaries() []SampleSummary {
	r, cols := c.Dims()
	out := make([]SampleSummary, cols)

	present := make([]float64, 0, r)
	for j := 0; j < cols; j++ {
		present = present[:0]
		s := SampleSummary{Key: c.assay.colKeys[j]}
		for i := 0; i < r; i++ {
			if c.assay.IsNA(i, j) {
				s.Missing++
				continue
			}
			v := c.assay.At(i, j)
			if v > 0 {
				s.Detected++
			}
			present = append(present, v)
		}
		s.LibrarySize = floats.Sum(present)
		out[j] = s
	}

	return out
}

func (c *Container) FeatureSummaries() []FeatureSummary {
	r, cols := c.Dims()
	out := make([]FeatureSummary, r)

	present := make([]float64, 0, cols)
	for i := 0; i < r; i++ {
		present = present[:0]
		f := FeatureSummary{Key: c.assay.rowKeys[i]}
		for j := 0; j < cols; j++ {
			if c.assay.IsNA(i, j) {
				f.Missing++
				continue
			}
			present = append(present, c.assay.At(i, j))
		}

		switch len(present) {
		case 0:
			f.Mean, f.Variance = math.NaN(), math.NaN()
		case 1:
			f.Mean, f.Variance = present[0], math.NaN()
		default:
			f.Mean, f.Variance = stat.MeanVariance(present, nil)
		}
		out[i] = f
	}

	return out
}

func (c *Container) librarySizes() (stats.Float64Data, error) {
	summaries := c.SampleSummaries()
	if len(summaries) == 0 {
		return nil, ErrNoSamples
	}

	sizes := make(stats.Float64Data, len(summaries))
	for j, s := range summaries {
		sizes[j] = s.LibrarySize
	}
	return sizes, nil
}

// LibrarySizeMedian is the median of the per-sample library sizes.
func (c *Container) LibrarySizeMedian() (float64, error) {
	sizes, err := c.librarySizes()
	if err != nil {
		return 0, err
	}

	m, err := stats.Median(sizes)
	if err != nil {
		return 0, fmt.Errorf("library size median: %w", err)
	}
	return m, nil
}

// LibrarySizeQuartiles returns the first, second and third quartile of the
// per-sample library sizes.
func (c *Container) LibrarySizeQuartiles() ([3]float64, error) {
	sizes, err := c.librarySizes()
	if err != nil {
		return [3]float64{}, err
	}

	q, err := stats.Quartile(sizes)
	if err != nil {
		return [3]float64{}, fmt.Errorf("library size quartiles: %w", err)
	}
	return [3]float64{q.Q1, q.Q2, q.Q3}, nil
}
