package dataset

import "sort"

// Sex identifies the sex breakdown of an observation
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexBoth   Sex = "both"
)

// Indicator identifies one of the six source series
type Indicator string

const (
	IndicatorGeneral         Indicator = "general"
	IndicatorCancer          Indicator = "cancer"
	IndicatorIschemic        Indicator = "ischemic"
	IndicatorCerebrovascular Indicator = "cerebrovascular"
	IndicatorSuicide         Indicator = "suicide"
	IndicatorLifeExpectancy  Indicator = "life_expectancy"
)

// Indicators lists all indicators in their canonical column order.
var Indicators = []Indicator{
	IndicatorGeneral,
	IndicatorCancer,
	IndicatorIschemic,
	IndicatorCerebrovascular,
	IndicatorSuicide,
	IndicatorLifeExpectancy,
}

// MortalityCauses lists the cause-specific mortality indicators, excluding
// general mortality and life expectancy.
var MortalityCauses = []Indicator{
	IndicatorCancer,
	IndicatorIschemic,
	IndicatorCerebrovascular,
	IndicatorSuicide,
}

// IndicatorLabel returns the Spanish display label the figures and the
// summary workbook use.
func IndicatorLabel(ind Indicator) string {
	switch ind {
	case IndicatorGeneral:
		return "Mortalidad General"
	case IndicatorCancer:
		return "Cáncer"
	case IndicatorIschemic:
		return "Cardiopatía Isquémica"
	case IndicatorCerebrovascular:
		return "Enf. Cerebrovascular"
	case IndicatorSuicide:
		return "Suicidio"
	case IndicatorLifeExpectancy:
		return "Esperanza de Vida"
	default:
		return string(ind)
	}
}

// The observation period. Mortality series cover the full range; life
// expectancy ends one year earlier, which is an expected absence.
const (
	MinYear = 2010
	MaxYear = 2023
)

// Observation is one validated input row
type Observation struct {
	Year       int
	Department string
	Sex        Sex
	Indicator  Indicator
	Value      float64
}

// Key identifies one consolidated row
type Key struct {
	Year       int
	Department string
	Sex        Sex
}

// Row is one consolidated record: a key plus an optional value per
// indicator. Absence in the Values map means "no data", never zero.
type Row struct {
	Year       int
	Department string
	Province   string
	Sex        Sex
	Values     map[Indicator]float64
}

// Value returns the row's value for an indicator and whether it is present
func (r *Row) Value(ind Indicator) (float64, bool) {
	v, ok := r.Values[ind]
	return v, ok
}

// Table is the consolidated read-only artifact shared by the metric
// deriver and the renderer. Neither mutates it.
type Table struct {
	rows    map[Key]*Row
	Dropped int // input rows dropped for an invalid or out-of-range year
}

// NewTable creates an empty consolidated table
func NewTable() *Table {
	return &Table{rows: make(map[Key]*Row)}
}

// Len returns the number of consolidated rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the consolidated row for a key, or nil
func (t *Table) Row(key Key) *Row {
	return t.rows[key]
}

// Value returns the value for (key, indicator) and whether it is present
func (t *Table) Value(key Key, ind Indicator) (float64, bool) {
	row, ok := t.rows[key]
	if !ok {
		return 0, false
	}
	return row.Value(ind)
}

// Rows returns all consolidated rows in deterministic order:
// year, then department code, then sex (both, female, male).
func (t *Table) Rows() []*Row {
	rows := make([]*Row, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		if rows[i].Department != rows[j].Department {
			return rows[i].Department < rows[j].Department
		}
		return rows[i].Sex < rows[j].Sex
	})
	return rows
}

// Years returns the sorted list of years present in the table
func (t *Table) Years() []int {
	seen := make(map[int]bool)
	for key := range t.rows {
		seen[key.Year] = true
	}
	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
