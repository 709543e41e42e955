package dto

import "time"

type StartInput struct {
	Tag string
}

type StartOutput struct {
	Activity       string
	StartedAt      time.Time
	AlreadyRunning bool
	// OtherRunning names the other activity when it is still running.
	OtherRunning string
}

type StopInput struct {
	Tag string
}

type StopOutput struct {
	Activity    string
	Stopped     bool
	Start       time.Time
	End         time.Time
	Duration    time.Duration
	DurationISO string
}

type StatusOutput struct {
	Active    bool
	Activity  string
	StartedAt time.Time
	Elapsed   time.Duration
}

type RecordOutput struct {
	Activity string
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

type ReindexOutput struct {
	Indexed int
	Skipped int
}
