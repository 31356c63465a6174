package metrics

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"cvepi/internal/dataset"
	apperrors "cvepi/internal/errors"
)

// Deriver exposes the derived-metric computations. Every method is a pure
// single-pass reduction over the consolidated table; nothing is cached or
// mutated.
type Deriver struct {
	table  *dataset.Table
	logger *slog.Logger
}

// NewDeriver creates a deriver over a consolidated table.
func NewDeriver(table *dataset.Table, logger *slog.Logger) *Deriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{table: table, logger: logger}
}

// YearValue is one point of an annual series
type YearValue struct {
	Year  int
	Value float64
}

// DepartmentValue is one department's value for some aggregate
type DepartmentValue struct {
	Department string
	Value      float64
}

// Disparity is the territorial max/min gap for one indicator and year
type Disparity struct {
	Percent       float64
	MaxDepartment string
	MaxValue      float64
	MinDepartment string
	MinValue      float64
}

// CorrelationResult is a Pearson coefficient with its paired sample size
// and two-sided t-test p-value.
type CorrelationResult struct {
	R      float64
	PValue float64
	N      int
}

// CommunityValue returns the region-wide value for one indicator, year and
// sex: the unweighted mean of the department values that have data.
func (d *Deriver) CommunityValue(ind dataset.Indicator, year int, sex dataset.Sex) (float64, bool) {
	var sum float64
	var n int
	for _, code := range dataset.DepartmentCodes() {
		if v, ok := d.table.Value(dataset.Key{Year: year, Department: code, Sex: sex}, ind); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// CommunitySeries returns the annual community values for an indicator and
// sex, sorted by year. Years without data are omitted.
func (d *Deriver) CommunitySeries(ind dataset.Indicator, sex dataset.Sex) []YearValue {
	var series []YearValue
	for year := dataset.MinYear; year <= dataset.MaxYear; year++ {
		if v, ok := d.CommunityValue(ind, year, sex); ok {
			series = append(series, YearValue{Year: year, Value: v})
		}
	}
	return series
}

// CommunityMean returns the mean of the community series over the whole
// observation period.
func (d *Deriver) CommunityMean(ind dataset.Indicator, sex dataset.Sex) (float64, bool) {
	series := d.CommunitySeries(ind, sex)
	if len(series) == 0 {
		return 0, false
	}
	var sum float64
	for _, point := range series {
		sum += point.Value
	}
	return sum / float64(len(series)), true
}

// PercentChange computes the relative change of the community value of an
// indicator (sex: both) between two years, in percent. A missing endpoint
// is a MissingData failure.
func (d *Deriver) PercentChange(ind dataset.Indicator, yearStart, yearEnd int) (float64, error) {
	start, ok := d.CommunityValue(ind, yearStart, dataset.SexBoth)
	if !ok {
		return 0, apperrors.NewMissingDataError(
			fmt.Sprintf("no %s data for %d", ind, yearStart))
	}
	end, ok := d.CommunityValue(ind, yearEnd, dataset.SexBoth)
	if !ok {
		return 0, apperrors.NewMissingDataError(
			fmt.Sprintf("no %s data for %d", ind, yearEnd))
	}
	if start == 0 {
		return 0, apperrors.NewMissingDataError(
			fmt.Sprintf("%s value for %d is zero, percent change undefined", ind, yearStart))
	}
	return (end - start) / start * 100, nil
}

// SexRatio computes male/female for one indicator and year at community
// level. Fails if either sex is absent or the female value is zero.
func (d *Deriver) SexRatio(ind dataset.Indicator, year int) (float64, error) {
	male, ok := d.CommunityValue(ind, year, dataset.SexMale)
	if !ok {
		return 0, apperrors.NewMissingDataError(
			fmt.Sprintf("no male %s data for %d", ind, year))
	}
	female, ok := d.CommunityValue(ind, year, dataset.SexFemale)
	if !ok {
		return 0, apperrors.NewMissingDataError(
			fmt.Sprintf("no female %s data for %d", ind, year))
	}
	if female == 0 {
		return 0, apperrors.NewMissingDataError(
			fmt.Sprintf("female %s value for %d is zero, ratio undefined", ind, year))
	}
	return male / female, nil
}

// SexRatioMean computes the male/female ratio of the full-period means,
// the convention the headline figures use.
func (d *Deriver) SexRatioMean(ind dataset.Indicator) (float64, error) {
	male, ok := d.CommunityMean(ind, dataset.SexMale)
	if !ok {
		return 0, apperrors.NewMissingDataError(
			fmt.Sprintf("no male %s data in the observation period", ind))
	}
	female, ok := d.CommunityMean(ind, dataset.SexFemale)
	if !ok {
		return 0, apperrors.NewMissingDataError(
			fmt.Sprintf("no female %s data in the observation period", ind))
	}
	if female == 0 {
		return 0, apperrors.NewMissingDataError(
			fmt.Sprintf("female %s period mean is zero, ratio undefined", ind))
	}
	return male / female, nil
}

// TerritorialDisparity computes the relative gap between the highest- and
// lowest-rate department for one indicator and year (sex: both), reporting
// the extreme departments.
func (d *Deriver) TerritorialDisparity(ind dataset.Indicator, year int) (Disparity, error) {
	var disp Disparity
	found := false

	for _, code := range dataset.DepartmentCodes() {
		v, ok := d.table.Value(dataset.Key{Year: year, Department: code, Sex: dataset.SexBoth}, ind)
		if !ok {
			continue
		}
		if !found {
			disp.MaxDepartment, disp.MaxValue = code, v
			disp.MinDepartment, disp.MinValue = code, v
			found = true
			continue
		}
		if v > disp.MaxValue {
			disp.MaxDepartment, disp.MaxValue = code, v
		}
		if v < disp.MinValue {
			disp.MinDepartment, disp.MinValue = code, v
		}
	}

	if !found {
		return Disparity{}, apperrors.NewMissingDataError(
			fmt.Sprintf("no department %s data for %d", ind, year))
	}
	if disp.MinValue == 0 {
		return Disparity{}, apperrors.NewMissingDataError(
			fmt.Sprintf("minimum %s value for %d is zero, disparity undefined", ind, year))
	}

	disp.Percent = (disp.MaxValue - disp.MinValue) / disp.MinValue * 100
	return disp, nil
}

// Correlation computes the Pearson coefficient between two indicators over
// all (year, department, sex) tuples where both have values, with a
// two-sided t-test p-value over the paired sample size. Fewer than 3 pairs
// is an InsufficientData failure.
func (d *Deriver) Correlation(indA, indB dataset.Indicator) (CorrelationResult, error) {
	var xs, ys []float64
	for _, row := range d.table.Rows() {
		a, okA := row.Value(indA)
		b, okB := row.Value(indB)
		if okA && okB {
			xs = append(xs, a)
			ys = append(ys, b)
		}
	}

	n := len(xs)
	if n < 3 {
		return CorrelationResult{}, apperrors.NewInsufficientDataError(
			fmt.Sprintf("only %d paired %s/%s points, need at least 3", n, indA, indB))
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return CorrelationResult{}, apperrors.NewInsufficientDataError(
			fmt.Sprintf("%s/%s correlation undefined: a series has zero variance", indA, indB))
	}

	return CorrelationResult{R: r, PValue: correlationPValue(r, n), N: n}, nil
}

// correlationPValue computes the two-sided p-value of r under the t
// distribution with n-2 degrees of freedom.
func correlationPValue(r float64, n int) float64 {
	if 1-r*r < 1e-12 {
		return 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * dist.CDF(-math.Abs(t))
}

// DepartmentMeans returns each department's full-period mean for one
// indicator and sex, sorted ascending by value. Departments without any
// data are omitted.
func (d *Deriver) DepartmentMeans(ind dataset.Indicator, sex dataset.Sex) []DepartmentValue {
	var means []DepartmentValue
	for _, code := range dataset.DepartmentCodes() {
		var sum float64
		var n int
		for year := dataset.MinYear; year <= dataset.MaxYear; year++ {
			if v, ok := d.table.Value(dataset.Key{Year: year, Department: code, Sex: sex}, ind); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			means = append(means, DepartmentValue{Department: code, Value: sum / float64(n)})
		}
	}
	sort.Slice(means, func(i, j int) bool { return means[i].Value < means[j].Value })
	return means
}

// ProvinceSeries returns the annual mean over one province's departments
// for an indicator and sex, sorted by year.
func (d *Deriver) ProvinceSeries(ind dataset.Indicator, sex dataset.Sex, province string) []YearValue {
	var series []YearValue
	for year := dataset.MinYear; year <= dataset.MaxYear; year++ {
		var sum float64
		var n int
		for _, code := range dataset.DepartmentCodes() {
			p, _ := dataset.ProvinceFor(code)
			if p != province {
				continue
			}
			if v, ok := d.table.Value(dataset.Key{Year: year, Department: code, Sex: sex}, ind); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			series = append(series, YearValue{Year: year, Value: sum / float64(n)})
		}
	}
	return series
}

// PeriodMean averages the community values (sex: both) of an indicator
// over an inclusive year range, skipping years without data.
func (d *Deriver) PeriodMean(ind dataset.Indicator, yearStart, yearEnd int) (float64, bool) {
	var sum float64
	var n int
	for year := yearStart; year <= yearEnd; year++ {
		if v, ok := d.CommunityValue(ind, year, dataset.SexBoth); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
