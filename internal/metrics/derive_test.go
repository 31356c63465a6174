package metrics

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvepi/internal/dataset"
	apperrors "cvepi/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// buildTable consolidates synthetic observations grouped by indicator.
func buildTable(t *testing.T, obs []dataset.Observation) *dataset.Table {
	t.Helper()

	byIndicator := make(map[dataset.Indicator][]dataset.Observation)
	for _, o := range obs {
		byIndicator[o.Indicator] = append(byIndicator[o.Indicator], o)
	}
	var results []dataset.LoadResult
	for ind, group := range byIndicator {
		results = append(results, dataset.LoadResult{Indicator: ind, Observations: group})
	}

	table, err := dataset.Consolidate(context.Background(), discardLogger(), results)
	require.NoError(t, err)
	return table
}

func ob(year int, dept string, sex dataset.Sex, ind dataset.Indicator, value float64) dataset.Observation {
	return dataset.Observation{Year: year, Department: dept, Sex: sex, Indicator: ind, Value: value}
}

func TestCommunityValue(t *testing.T) {
	table := buildTable(t, []dataset.Observation{
		ob(2020, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 800),
		ob(2020, "D02", dataset.SexBoth, dataset.IndicatorGeneral, 900),
		ob(2020, "D03", dataset.SexBoth, dataset.IndicatorGeneral, 1000),
	})
	d := NewDeriver(table, discardLogger())

	v, ok := d.CommunityValue(dataset.IndicatorGeneral, 2020, dataset.SexBoth)
	require.True(t, ok)
	assert.InDelta(t, 900, v, 1e-9)

	_, ok = d.CommunityValue(dataset.IndicatorGeneral, 2021, dataset.SexBoth)
	assert.False(t, ok, "year without data must report absence")

	_, ok = d.CommunityValue(dataset.IndicatorCancer, 2020, dataset.SexBoth)
	assert.False(t, ok, "indicator without data must report absence")
}

func TestCommunitySeriesSkipsEmptyYears(t *testing.T) {
	table := buildTable(t, []dataset.Observation{
		ob(2010, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 100),
		ob(2012, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 120),
	})
	d := NewDeriver(table, discardLogger())

	series := d.CommunitySeries(dataset.IndicatorGeneral, dataset.SexBoth)
	require.Len(t, series, 2)
	assert.Equal(t, YearValue{Year: 2010, Value: 100}, series[0])
	assert.Equal(t, YearValue{Year: 2012, Value: 120}, series[1])
}

func TestPercentChange(t *testing.T) {
	table := buildTable(t, []dataset.Observation{
		ob(2010, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 800),
		ob(2023, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 700),
	})
	d := NewDeriver(table, discardLogger())

	change, err := d.PercentChange(dataset.IndicatorGeneral, 2010, 2023)
	require.NoError(t, err)
	assert.InDelta(t, -12.5, change, 1e-9)

	_, err = d.PercentChange(dataset.IndicatorGeneral, 2010, 2015)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingData))
}

func TestSexRatio(t *testing.T) {
	tests := []struct {
		name    string
		obs     []dataset.Observation
		want    float64
		wantErr bool
	}{
		{
			name: "male over female",
			obs: []dataset.Observation{
				ob(2020, "D01", dataset.SexMale, dataset.IndicatorSuicide, 12),
				ob(2020, "D01", dataset.SexFemale, dataset.IndicatorSuicide, 4),
			},
			want: 3,
		},
		{
			name: "missing female",
			obs: []dataset.Observation{
				ob(2020, "D01", dataset.SexMale, dataset.IndicatorSuicide, 12),
			},
			wantErr: true,
		},
		{
			name: "female zero",
			obs: []dataset.Observation{
				ob(2020, "D01", dataset.SexMale, dataset.IndicatorSuicide, 12),
				ob(2020, "D01", dataset.SexFemale, dataset.IndicatorSuicide, 0),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeriver(buildTable(t, tt.obs), discardLogger())
			ratio, err := d.SexRatio(dataset.IndicatorSuicide, 2020)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingData))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, ratio, 1e-9)
		})
	}
}

func TestSexRatioMean(t *testing.T) {
	table := buildTable(t, []dataset.Observation{
		ob(2020, "D01", dataset.SexMale, dataset.IndicatorCancer, 300),
		ob(2021, "D01", dataset.SexMale, dataset.IndicatorCancer, 340),
		ob(2020, "D01", dataset.SexFemale, dataset.IndicatorCancer, 160),
		ob(2021, "D01", dataset.SexFemale, dataset.IndicatorCancer, 160),
	})
	d := NewDeriver(table, discardLogger())

	ratio, err := d.SexRatioMean(dataset.IndicatorCancer)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, ratio, 1e-9) // mean(300,340) / mean(160,160)
}

func TestTerritorialDisparity(t *testing.T) {
	table := buildTable(t, []dataset.Observation{
		ob(2023, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 700),
		ob(2023, "D05", dataset.SexBoth, dataset.IndicatorGeneral, 1050),
		ob(2023, "D09", dataset.SexBoth, dataset.IndicatorGeneral, 900),
	})
	d := NewDeriver(table, discardLogger())

	disp, err := d.TerritorialDisparity(dataset.IndicatorGeneral, 2023)
	require.NoError(t, err)
	assert.Equal(t, "D05", disp.MaxDepartment)
	assert.Equal(t, "D01", disp.MinDepartment)
	assert.InDelta(t, 1050, disp.MaxValue, 1e-9)
	assert.InDelta(t, 700, disp.MinValue, 1e-9)
	assert.InDelta(t, 50, disp.Percent, 1e-9)

	_, err = d.TerritorialDisparity(dataset.IndicatorGeneral, 2011)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingData))
}

func TestCorrelation(t *testing.T) {
	t.Run("perfect negative", func(t *testing.T) {
		var obs []dataset.Observation
		for i, year := range []int{2019, 2020, 2021, 2022} {
			obs = append(obs,
				ob(year, "D01", dataset.SexBoth, dataset.IndicatorGeneral, float64(800+10*i)),
				ob(year, "D01", dataset.SexBoth, dataset.IndicatorLifeExpectancy, float64(84-i)))
		}
		d := NewDeriver(buildTable(t, obs), discardLogger())

		res, err := d.Correlation(dataset.IndicatorGeneral, dataset.IndicatorLifeExpectancy)
		require.NoError(t, err)
		assert.Equal(t, 4, res.N)
		assert.InDelta(t, -1.0, res.R, 1e-9)
		assert.Less(t, res.PValue, 0.001)
	})

	t.Run("moderate positive", func(t *testing.T) {
		xs := []float64{1, 2, 3, 4, 5}
		ys := []float64{2, 1, 4, 3, 6}
		var obs []dataset.Observation
		for i := range xs {
			obs = append(obs,
				ob(2010+i, "D01", dataset.SexBoth, dataset.IndicatorGeneral, xs[i]),
				ob(2010+i, "D01", dataset.SexBoth, dataset.IndicatorCancer, ys[i]))
		}
		d := NewDeriver(buildTable(t, obs), discardLogger())

		res, err := d.Correlation(dataset.IndicatorGeneral, dataset.IndicatorCancer)
		require.NoError(t, err)
		assert.Equal(t, 5, res.N)
		assert.InDelta(t, 0.8220, res.R, 1e-3)
		assert.Greater(t, res.PValue, 0.01)
		assert.Less(t, res.PValue, 0.2)
	})

	t.Run("insufficient pairs", func(t *testing.T) {
		obs := []dataset.Observation{
			ob(2020, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 800),
			ob(2020, "D01", dataset.SexBoth, dataset.IndicatorLifeExpectancy, 83),
			ob(2021, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 850),
			ob(2021, "D01", dataset.SexBoth, dataset.IndicatorLifeExpectancy, 82),
			ob(2022, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 820),
		}
		d := NewDeriver(buildTable(t, obs), discardLogger())

		_, err := d.Correlation(dataset.IndicatorGeneral, dataset.IndicatorLifeExpectancy)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInsufficientData))
	})

	t.Run("zero variance", func(t *testing.T) {
		var obs []dataset.Observation
		for _, year := range []int{2019, 2020, 2021} {
			obs = append(obs,
				ob(year, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 800),
				ob(year, "D01", dataset.SexBoth, dataset.IndicatorLifeExpectancy, float64(year-1937)))
		}
		d := NewDeriver(buildTable(t, obs), discardLogger())

		_, err := d.Correlation(dataset.IndicatorGeneral, dataset.IndicatorLifeExpectancy)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInsufficientData))
	})
}

func TestDepartmentMeansSorted(t *testing.T) {
	table := buildTable(t, []dataset.Observation{
		ob(2020, "D03", dataset.SexBoth, dataset.IndicatorGeneral, 900),
		ob(2021, "D03", dataset.SexBoth, dataset.IndicatorGeneral, 1100),
		ob(2020, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 700),
		ob(2020, "D02", dataset.SexBoth, dataset.IndicatorGeneral, 1200),
	})
	d := NewDeriver(table, discardLogger())

	means := d.DepartmentMeans(dataset.IndicatorGeneral, dataset.SexBoth)
	require.Len(t, means, 3)
	assert.Equal(t, DepartmentValue{Department: "D01", Value: 700}, means[0])
	assert.Equal(t, DepartmentValue{Department: "D03", Value: 1000}, means[1])
	assert.Equal(t, DepartmentValue{Department: "D02", Value: 1200}, means[2])
}

func TestProvinceSeries(t *testing.T) {
	// D01-D03 are Castellón, D04 onwards are not
	table := buildTable(t, []dataset.Observation{
		ob(2020, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 800),
		ob(2020, "D02", dataset.SexBoth, dataset.IndicatorGeneral, 900),
		ob(2020, "D04", dataset.SexBoth, dataset.IndicatorGeneral, 2000),
	})
	d := NewDeriver(table, discardLogger())

	series := d.ProvinceSeries(dataset.IndicatorGeneral, dataset.SexBoth, dataset.ProvinceCastellon)
	require.Len(t, series, 1)
	assert.Equal(t, 2020, series[0].Year)
	assert.InDelta(t, 850, series[0].Value, 1e-9)
}

func TestPeriodMean(t *testing.T) {
	table := buildTable(t, []dataset.Observation{
		ob(2018, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 800),
		ob(2019, "D01", dataset.SexBoth, dataset.IndicatorGeneral, 820),
	})
	d := NewDeriver(table, discardLogger())

	mean, ok := d.PeriodMean(dataset.IndicatorGeneral, 2018, 2019)
	require.True(t, ok)
	assert.InDelta(t, 810, mean, 1e-9)

	_, ok = d.PeriodMean(dataset.IndicatorGeneral, 2020, 2021)
	assert.False(t, ok)
}
