package txsign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeError   Outcome = "error"
	OutcomeSilent  Outcome = "silent"
)

var (
	ErrDemoFailed   = errors.New("transaction failed on chain")
	ErrDemoRejected = errors.New("signer rejected transaction")
)

func ParseOutcome(raw string) (Outcome, error) {
	switch Outcome(strings.ToLower(strings.TrimSpace(raw))) {
	case OutcomeSuccess, "":
		return OutcomeSuccess, nil
	case OutcomeFailed:
		return OutcomeFailed, nil
	case OutcomeError:
		return OutcomeError, nil
	case OutcomeSilent:
		return OutcomeSilent, nil
	}
	return "", fmt.Errorf("unknown outcome %q", raw)
}

// DemoChain is a stand-in chain adapter that emits Ready and then the
// scripted outcome after Delay.
type DemoChain struct {
	Outcome Outcome
	Delay   time.Duration

	height atomic.Uint64
}

func NewDemoChain(outcome Outcome, delay time.Duration) *DemoChain {
	c := &DemoChain{Outcome: outcome, Delay: delay}
	c.height.Store(1_000_000)
	return c
}

func (c *DemoChain) Transact(ctx context.Context, emitter *Emitter) error {
	if c.Outcome == OutcomeSilent {
		return nil
	}
	go func() {
		timer := time.NewTimer(c.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		emitter.Emit(SignalReady, Payload{})
		switch c.Outcome {
		case OutcomeFailed:
			emitter.Emit(SignalFailed, Payload{Err: ErrDemoFailed})
		case OutcomeError:
			emitter.Emit(SignalError, Payload{Err: ErrDemoRejected})
		default:
			emitter.Emit(SignalSuccess, Payload{
				BlockHash:   "0x" + strings.ReplaceAll(uuid.NewString(), "-", ""),
				BlockNumber: c.height.Add(1),
				Timestamp:   time.Now().UTC(),
			})
		}
	}()
	return nil
}
