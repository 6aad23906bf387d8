package driver

import "time"

// StageStatus reports whether a stage started or finished.
type StageStatus int

const (
	StageStart StageStatus = iota
	StageEnd
)

// StageEvent describes a stage boundary.
type StageEvent struct {
	Name    string
	Status  StageStatus
	Elapsed time.Duration
	Note    string
}

// StageObserver receives stage events emitted during Elaborate.
type StageObserver func(StageEvent)
