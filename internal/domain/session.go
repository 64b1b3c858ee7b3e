package domain

// Cause is the reason the termination protocol runs
type Cause string

const (
	CauseNormal    Cause = "NORMAL"
	CauseError     Cause = "ERROR"
	CauseInterrupt Cause = "INTERRUPT"
)

// ExitCode maps a termination cause to the process exit status.
func (c Cause) ExitCode() int {
	if c == CauseNormal {
		return 0
	}
	return 1
}

// ClientState is the state of the client's request loop
type ClientState string

const (
	ClientStateIdle          ClientState = "IDLE"
	ClientStateAwaitingBurst ClientState = "AWAITING_BURST"
	ClientStateDraining      ClientState = "DRAINING"
	ClientStateTerminated    ClientState = "TERMINATED"
)
