package exporter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cvepi/internal/dataset"
	"cvepi/internal/metrics"
)

func TestWriteSummary(t *testing.T) {
	summary := &metrics.Summary{
		Mortality2023:      812.4,
		MortalityChangePct: -9.3,
		LifeExpectancy:     83.1,
		LifeExpectancyYear: 2022,
		GenderGapYears:     5.4,
		PreCOVIDMortality:  845.0,
		COVID2020Mortality: 960.2,
		COVID2021Mortality: 915.7,
		PostCOVIDMortality: 830.1,
		COVIDExcessPct:     7.9,
		SuicideChangePct:   4.2,
		SexRatios: []metrics.SexRatioEntry{
			{Indicator: dataset.IndicatorSuicide, Ratio: 3.1},
			{Indicator: dataset.IndicatorCancer, Ratio: 1.9},
		},
		Disparity: metrics.Disparity{
			Percent:       38.2,
			MaxDepartment: "D21",
			MaxValue:      980,
			MinDepartment: "D10",
			MinValue:      709,
		},
		Correlation: metrics.CorrelationResult{R: -0.62, PValue: 0.0004, N: 1008},
	}
	means := []metrics.DepartmentValue{
		{Department: "D10", Value: 720},
		{Department: "D05", Value: 810},
		{Department: "D21", Value: 955},
	}

	writer := NewWorkbookWriter(testPaths(t), discardLogger())
	path, err := writer.WriteSummary(context.Background(), summary, means)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Indicadores")
	assert.Contains(t, sheets, "Departamentos")

	v, err := f.GetCellValue("Indicadores", "B2")
	require.NoError(t, err)
	assert.Equal(t, "812.4", v)

	// Ranking starts with the highest-rate department
	code, err := f.GetCellValue("Departamentos", "B2")
	require.NoError(t, err)
	assert.Equal(t, "D21", code)

	name, err := f.GetCellValue("Departamentos", "C2")
	require.NoError(t, err)
	assert.Equal(t, dataset.DepartmentName("D21"), name)

	last, err := f.GetCellValue("Departamentos", "B4")
	require.NoError(t, err)
	assert.Equal(t, "D10", last)
}
