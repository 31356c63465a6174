package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cvepi/internal/errors"
)

func obs(year int, dept string, sex Sex, ind Indicator, value float64) Observation {
	return Observation{Year: year, Department: dept, Sex: sex, Indicator: ind, Value: value}
}

func TestConsolidate_OuterJoin(t *testing.T) {
	results := []LoadResult{
		{
			Indicator: IndicatorGeneral,
			Observations: []Observation{
				obs(2010, "D01", SexBoth, IndicatorGeneral, 905.1),
				obs(2011, "D01", SexBoth, IndicatorGeneral, 890.3),
				obs(2010, "D02", SexBoth, IndicatorGeneral, 930.8),
			},
		},
		{
			Indicator: IndicatorLifeExpectancy,
			Observations: []Observation{
				// Only one key overlaps with general mortality.
				obs(2010, "D01", SexBoth, IndicatorLifeExpectancy, 19.4),
				obs(2010, "D13", SexFemale, IndicatorLifeExpectancy, 22.7),
			},
		},
	}

	table, err := Consolidate(context.Background(), nil, results)
	require.NoError(t, err)

	// One row per distinct (year, department, sex) in any input.
	assert.Equal(t, 4, table.Len())

	joined := table.Row(Key{2010, "D01", SexBoth})
	require.NotNil(t, joined)
	v, ok := joined.Value(IndicatorGeneral)
	require.True(t, ok)
	assert.Equal(t, 905.1, v)
	v, ok = joined.Value(IndicatorLifeExpectancy)
	require.True(t, ok)
	assert.Equal(t, 19.4, v)

	// Absent cell is "no data", not zero.
	only := table.Row(Key{2011, "D01", SexBoth})
	require.NotNil(t, only)
	_, ok = only.Value(IndicatorLifeExpectancy)
	assert.False(t, ok)

	assert.Equal(t, ProvinceCastellon, joined.Province)
	assert.Equal(t, ProvinceAlicante, table.Row(Key{2010, "D13", SexFemale}).Province)
}

func TestConsolidate_NoLossNoDuplication(t *testing.T) {
	var observations []Observation
	for year := 2010; year <= 2013; year++ {
		for _, code := range DepartmentCodes() {
			for _, sex := range []Sex{SexBoth, SexMale, SexFemale} {
				observations = append(observations, obs(year, code, sex, IndicatorGeneral, float64(year)))
			}
		}
	}

	table, err := Consolidate(context.Background(), nil, []LoadResult{
		{Indicator: IndicatorGeneral, Observations: observations},
	})
	require.NoError(t, err)

	// Row count equals the count of unique key tuples.
	assert.Equal(t, 4*24*3, table.Len())

	// Every input row appears in exactly one consolidated row.
	total := 0
	for _, row := range table.Rows() {
		if _, ok := row.Value(IndicatorGeneral); ok {
			total++
		}
	}
	assert.Equal(t, len(observations), total)
}

func TestConsolidate_DuplicateObservation(t *testing.T) {
	_, err := Consolidate(context.Background(), nil, []LoadResult{
		{
			Indicator: IndicatorGeneral,
			Observations: []Observation{
				obs(2010, "D01", SexBoth, IndicatorGeneral, 905.1),
				obs(2010, "D01", SexBoth, IndicatorGeneral, 906.0),
			},
		},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaViolation))
}

func TestConsolidate_AccumulatesDropped(t *testing.T) {
	table, err := Consolidate(context.Background(), nil, []LoadResult{
		{Indicator: IndicatorGeneral, Dropped: 2},
		{Indicator: IndicatorSuicide, Dropped: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, table.Dropped)
}

func TestTable_RowsDeterministicOrder(t *testing.T) {
	results := []LoadResult{
		{
			Indicator: IndicatorGeneral,
			Observations: []Observation{
				obs(2011, "D02", SexMale, IndicatorGeneral, 1),
				obs(2010, "D02", SexBoth, IndicatorGeneral, 2),
				obs(2010, "D01", SexFemale, IndicatorGeneral, 3),
				obs(2010, "D01", SexBoth, IndicatorGeneral, 4),
			},
		},
	}

	table, err := Consolidate(context.Background(), nil, results)
	require.NoError(t, err)

	rows := table.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, Key{2010, "D01", SexBoth}, Key{rows[0].Year, rows[0].Department, rows[0].Sex})
	assert.Equal(t, Key{2010, "D01", SexFemale}, Key{rows[1].Year, rows[1].Department, rows[1].Sex})
	assert.Equal(t, Key{2010, "D02", SexBoth}, Key{rows[2].Year, rows[2].Department, rows[2].Sex})
	assert.Equal(t, Key{2011, "D02", SexMale}, Key{rows[3].Year, rows[3].Department, rows[3].Sex})

	assert.Equal(t, []int{2010, 2011}, table.Years())
}
