package txsign

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"commonwealth/internal/logging"
)

const (
	LegacyTimeoutChainID = "edgeware"
	DefaultLegacyTimeout = 10 * time.Second
)

type Mode string

const (
	ModeWebWallet Mode = "web"
	ModeCLI       Mode = "cli"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeWebWallet, "":
		return ModeWebWallet, nil
	case ModeCLI:
		return ModeCLI, nil
	}
	return "", fmt.Errorf("unknown signing mode %q", raw)
}

func (m Mode) startEvent() Event {
	if m == ModeCLI {
		return StartCLI
	}
	return StartWebWallet
}

type Transaction struct {
	ChainID     string
	Description string
	Payload     []byte
}

// SigningCommand is the command line shown on the CLI signing path.
func (t Transaction) SigningCommand() string {
	return fmt.Sprintf("subkey sign --hex --suri <secret-uri> --message 0x%s", hex.EncodeToString(t.Payload))
}

// TxFunc submits the transaction and reports progress on emitter. A non-nil
// return rejects the attempt immediately.
type TxFunc func(ctx context.Context, emitter *Emitter) error

type Result struct {
	AttemptID   string
	Mode        Mode
	Stage       Stage
	Ready       bool
	TimedOut    bool
	BlockHash   string
	BlockNumber uint64
	Timestamp   time.Time
	Err         error
}

type Option func(*Wizard)

// WithLegacyTimeout resolves attempts on chainID to success after d when no
// terminal signal arrives. An empty chainID disables the fallback.
func WithLegacyTimeout(chainID string, d time.Duration) Option {
	return func(w *Wizard) {
		w.legacyChain = strings.TrimSpace(chainID)
		if d > 0 {
			w.legacyTimeout = d
		}
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

type Wizard struct {
	mu            sync.Mutex
	tx            Transaction
	stage         Stage
	result        Result
	legacyChain   string
	legacyTimeout time.Duration
	logger        logging.Logger
}

func NewWizard(tx Transaction, opts ...Option) *Wizard {
	w := &Wizard{
		tx:            tx,
		stage:         StageIntro,
		legacyChain:   LegacyTimeoutChainID,
		legacyTimeout: DefaultLegacyTimeout,
		logger:        logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

func (w *Wizard) Transaction() Transaction {
	return w.tx
}

func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

func (w *Wizard) Result() Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

func (w *Wizard) Retry() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := ApplyTransition(w.stage, Retry)
	if err != nil {
		return err
	}
	w.stage = next
	w.result = Result{}
	return nil
}

type outcome struct {
	event    Event
	payload  Payload
	timedOut bool
}

// Run starts an attempt in mode and blocks until the first terminal signal,
// the legacy fallback, or ctx cancellation. The returned error reports misuse
// such as running from a non-intro stage; transaction failures are carried in
// Result.Err.
func (w *Wizard) Run(ctx context.Context, mode Mode, fn TxFunc) (Result, error) {
	if fn == nil {
		return Result{}, fmt.Errorf("txsign: nil transaction function")
	}
	w.mu.Lock()
	next, err := ApplyTransition(w.stage, mode.startEvent())
	if err != nil {
		w.mu.Unlock()
		return Result{}, err
	}
	w.stage = next
	w.result = Result{AttemptID: uuid.NewString(), Mode: mode, Stage: next}
	attempt := w.result.AttemptID
	legacy := w.legacyChain != "" && w.tx.ChainID == w.legacyChain
	timeout := w.legacyTimeout
	w.mu.Unlock()

	log := w.logger.With(
		logging.F("attempt_id", attempt),
		logging.F("chain", w.tx.ChainID),
		logging.F("mode", string(mode)),
	)
	log.Info("tx_sign_started")

	emitter := NewEmitter()
	done := make(chan outcome, 1)
	ids := map[Signal]int{}
	var settleOnce sync.Once
	settle := func(o outcome) {
		settleOnce.Do(func() {
			for signal, id := range ids {
				emitter.Off(signal, id)
			}
			done <- o
		})
	}
	ids[SignalReady] = emitter.Once(SignalReady, func(Payload) {
		w.mu.Lock()
		w.result.Ready = true
		w.mu.Unlock()
		log.Debug("tx_sign_ready")
	})
	ids[SignalSuccess] = emitter.Once(SignalSuccess, func(p Payload) {
		settle(outcome{event: EventSuccess, payload: p})
	})
	ids[SignalError] = emitter.Once(SignalError, func(p Payload) {
		settle(outcome{event: EventError, payload: p})
	})
	ids[SignalFailed] = emitter.Once(SignalFailed, func(p Payload) {
		settle(outcome{event: EventFailed, payload: p})
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := fn(runCtx, emitter); err != nil {
		settle(outcome{event: EventError, payload: Payload{Err: err}})
	}

	var fallback <-chan time.Time
	if legacy {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		fallback = timer.C
	}

	var out outcome
	select {
	case out = <-done:
	case <-fallback:
		settle(outcome{event: EventSuccess, payload: Payload{Timestamp: time.Now()}, timedOut: true})
		out = <-done
	case <-ctx.Done():
		settle(outcome{event: EventError, payload: Payload{Err: ctx.Err()}})
		out = <-done
	}

	w.mu.Lock()
	next, err = ApplyTransition(w.stage, out.event)
	if err != nil {
		w.mu.Unlock()
		return Result{}, err
	}
	w.stage = next
	w.result.Stage = next
	w.result.TimedOut = out.timedOut
	w.result.BlockHash = out.payload.BlockHash
	w.result.BlockNumber = out.payload.BlockNumber
	w.result.Timestamp = out.payload.Timestamp
	w.result.Err = out.payload.Err
	if next == StageRejected && w.result.Err == nil {
		w.result.Err = fmt.Errorf("transaction %s", out.event)
	}
	result := w.result
	w.mu.Unlock()

	if result.Err != nil {
		log.Warn("tx_sign_rejected", logging.F("event", string(out.event)), logging.F("error", result.Err))
	} else {
		log.Info("tx_sign_succeeded",
			logging.F("block_hash", result.BlockHash),
			logging.F("block_number", result.BlockNumber),
			logging.F("timed_out", result.TimedOut),
		)
	}
	return result, nil
}
