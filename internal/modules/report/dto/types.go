package dto

import "time"

type RenderOutput struct {
	ReportPath string
	// ChartPath is empty when the chart could not be written.
	ChartPath string
	Skipped   int
}

type PublishOutput struct {
	Committed bool
	Message   string
}

type RefreshOutput struct {
	Rendered  bool
	Committed bool
	Warnings  []string
}

type TotalsOutput struct {
	Train  int64
	Battle int64
	Total  int64
}

type WindowOutput struct {
	Days   int
	Totals TotalsOutput
}

type DayOutput struct {
	Date   string
	Totals TotalsOutput
}

type PointOutput struct {
	X float64
	Y float64
}

type SummaryOutput struct {
	GeneratedAt   time.Time
	Today         string
	AllTime       TotalsOutput
	Windows       []WindowOutput
	StreakAny     int
	StreakTrain   int
	StreakBattle  int
	Last7         []DayOutput
	Last30Minutes []int64
	Sparkline     string
	Daily         []float64
	Trend         []PointOutput
	Skipped       int
}
