package metrics

import (
	"context"
	"fmt"
	"sort"

	"cvepi/internal/dataset"
	apperrors "cvepi/internal/errors"
)

// SexRatioEntry pairs a mortality cause with its male/female period ratio.
type SexRatioEntry struct {
	Indicator dataset.Indicator
	Ratio     float64
}

// Summary holds the headline figures the dashboard and the summary
// workbook report.
type Summary struct {
	// Mortality headline
	Mortality2023      float64
	MortalityChangePct float64 // 2010 -> 2023

	// Life expectancy headline, taken from the latest year with data
	LifeExpectancy     float64
	LifeExpectancyYear int
	GenderGapYears     float64 // female minus male, same year

	// Pandemic period
	PreCOVIDMortality  float64 // mean 2018-2019
	COVID2020Mortality float64
	COVID2021Mortality float64
	PostCOVIDMortality float64 // mean 2022-2023
	COVIDExcessPct     float64 // 2021 vs 2010-2019 mean

	SuicideChangePct float64 // 2010 -> 2023

	// Male/female period ratios for general mortality and each cause,
	// highest first
	SexRatios []SexRatioEntry

	// Department ranking over the full-period general mortality means
	TopDepartments    []DepartmentValue // highest rates, descending
	BottomDepartments []DepartmentValue // lowest rates, ascending

	Disparity   Disparity // general mortality, 2023
	Correlation CorrelationResult
}

// BuildSummary derives every headline figure from the consolidated table.
// It fails on the first metric that cannot be computed.
func (d *Deriver) BuildSummary(ctx context.Context) (*Summary, error) {
	logger := d.logger
	s := &Summary{}

	v, ok := d.CommunityValue(dataset.IndicatorGeneral, 2023, dataset.SexBoth)
	if !ok {
		return nil, apperrors.NewMissingDataError("no general mortality data for 2023")
	}
	s.Mortality2023 = v

	change, err := d.PercentChange(dataset.IndicatorGeneral, dataset.MinYear, dataset.MaxYear)
	if err != nil {
		return nil, err
	}
	s.MortalityChangePct = change

	if err := d.lifeExpectancyHeadline(s); err != nil {
		return nil, err
	}

	if err := d.pandemicHeadline(s); err != nil {
		return nil, err
	}

	s.SuicideChangePct, err = d.PercentChange(dataset.IndicatorSuicide, dataset.MinYear, dataset.MaxYear)
	if err != nil {
		return nil, err
	}

	ratioCauses := append([]dataset.Indicator{dataset.IndicatorGeneral}, dataset.MortalityCauses...)
	for _, cause := range ratioCauses {
		ratio, err := d.SexRatioMean(cause)
		if err != nil {
			return nil, err
		}
		s.SexRatios = append(s.SexRatios, SexRatioEntry{Indicator: cause, Ratio: ratio})
	}
	sort.Slice(s.SexRatios, func(i, j int) bool { return s.SexRatios[i].Ratio > s.SexRatios[j].Ratio })

	means := d.DepartmentMeans(dataset.IndicatorGeneral, dataset.SexBoth)
	if len(means) < 6 {
		return nil, apperrors.NewInsufficientDataError(
			fmt.Sprintf("only %d departments with general mortality data, need 6 for the ranking", len(means)))
	}
	for i := 0; i < 3; i++ {
		s.TopDepartments = append(s.TopDepartments, means[len(means)-1-i])
		s.BottomDepartments = append(s.BottomDepartments, means[i])
	}

	s.Disparity, err = d.TerritorialDisparity(dataset.IndicatorGeneral, 2023)
	if err != nil {
		return nil, err
	}

	s.Correlation, err = d.Correlation(dataset.IndicatorGeneral, dataset.IndicatorLifeExpectancy)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "summary derived",
		"mortality_2023", s.Mortality2023,
		"life_expectancy", s.LifeExpectancy,
		"covid_excess_pct", s.COVIDExcessPct,
		"correlation_r", s.Correlation.R)

	return s, nil
}

// lifeExpectancyHeadline fills the life expectancy level and gender gap
// from the most recent year carrying both sexes.
func (d *Deriver) lifeExpectancyHeadline(s *Summary) error {
	for year := dataset.MaxYear; year >= dataset.MinYear; year-- {
		both, okBoth := d.CommunityValue(dataset.IndicatorLifeExpectancy, year, dataset.SexBoth)
		male, okMale := d.CommunityValue(dataset.IndicatorLifeExpectancy, year, dataset.SexMale)
		female, okFemale := d.CommunityValue(dataset.IndicatorLifeExpectancy, year, dataset.SexFemale)
		if okBoth && okMale && okFemale {
			s.LifeExpectancy = both
			s.LifeExpectancyYear = year
			s.GenderGapYears = female - male
			return nil
		}
	}
	return apperrors.NewMissingDataError("no year with complete life expectancy data")
}

// pandemicHeadline fills the pre/during/post pandemic means and the 2021
// excess over the 2010-2019 baseline.
func (d *Deriver) pandemicHeadline(s *Summary) error {
	pre, ok := d.PeriodMean(dataset.IndicatorGeneral, 2018, 2019)
	if !ok {
		return apperrors.NewMissingDataError("no general mortality data for 2018-2019")
	}
	s.PreCOVIDMortality = pre

	y2020, ok := d.CommunityValue(dataset.IndicatorGeneral, 2020, dataset.SexBoth)
	if !ok {
		return apperrors.NewMissingDataError("no general mortality data for 2020")
	}
	s.COVID2020Mortality = y2020

	y2021, ok := d.CommunityValue(dataset.IndicatorGeneral, 2021, dataset.SexBoth)
	if !ok {
		return apperrors.NewMissingDataError("no general mortality data for 2021")
	}
	s.COVID2021Mortality = y2021

	post, ok := d.PeriodMean(dataset.IndicatorGeneral, 2022, 2023)
	if !ok {
		return apperrors.NewMissingDataError("no general mortality data for 2022-2023")
	}
	s.PostCOVIDMortality = post

	baseline, ok := d.PeriodMean(dataset.IndicatorGeneral, 2010, 2019)
	if !ok || baseline == 0 {
		return apperrors.NewMissingDataError("no pre-pandemic general mortality baseline")
	}
	s.COVIDExcessPct = (y2021 - baseline) / baseline * 100

	return nil
}
