package runner

import "time"

// Mode identifies the argument shape of an invocation.
type Mode string

const (
	ModeScript       Mode = "script"
	ModeScriptOnFile Mode = "script_on_file"
	ModeCLI          Mode = "cli"
)

// Outcome classifies how an invocation ended.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeFailure    Outcome = "failure" // non-zero exit or wait error
	OutcomeTimeout    Outcome = "timeout"
	OutcomeCanceled   Outcome = "canceled"
	OutcomeSpawnError Outcome = "spawn_error"
	OutcomeWriteError Outcome = "write_error"
)

// Observer receives per-invocation measurements. Implemented by
// metrics.Collector.
type Observer interface {
	ObserveInvocation(mode Mode, outcome Outcome, d time.Duration)
	ObserveCleanupFailure()
}
