package txsign

import "fmt"

type Stage string

const (
	StageIntro    Stage = "intro"
	StageWaiting  Stage = "waiting"
	StageSuccess  Stage = "success"
	StageRejected Stage = "rejected"
)

type Event string

const (
	StartWebWallet Event = "start_web_wallet"
	StartCLI       Event = "start_cli"
	EventReady     Event = "ready"
	EventError     Event = "error"
	EventFailed    Event = "failed"
	EventSuccess   Event = "success"
	Retry          Event = "retry"
)

// transitionTable maps current stage → event → next stage.
var transitionTable = map[Stage]map[Event]Stage{
	StageIntro: {
		StartWebWallet: StageWaiting,
		StartCLI:       StageWaiting,
	},
	StageWaiting: {
		EventReady:   StageWaiting,
		EventSuccess: StageSuccess,
		EventError:   StageRejected,
		EventFailed:  StageRejected,
	},
	StageRejected: {
		Retry: StageIntro,
	},
	StageSuccess: {},
}

func ApplyTransition(current Stage, event Event) (Stage, error) {
	events, ok := transitionTable[current]
	if !ok {
		return "", fmt.Errorf("no transitions defined for stage %q", current)
	}
	next, ok := events[event]
	if !ok {
		return "", fmt.Errorf("invalid transition: %q + %q", current, event)
	}
	return next, nil
}

func (s Stage) Terminal() bool {
	return s == StageSuccess || s == StageRejected
}
