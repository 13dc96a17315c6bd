package app

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"commonwealth/internal/txsign"
)

type wizardDoneMsg struct {
	result txsign.Result
	err    error
}

type wizardOverlay struct {
	wizard  *txsign.Wizard
	txFn    txsign.TxFunc
	spinner spinner.Model
	stage   txsign.Stage
	mode    txsign.Mode
	result  txsign.Result
	cancel  context.CancelFunc
}

func newWizardOverlay(wizard *txsign.Wizard, txFn txsign.TxFunc) *wizardOverlay {
	return &wizardOverlay{
		wizard:  wizard,
		txFn:    txFn,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		stage:   wizard.Stage(),
	}
}

func (o *wizardOverlay) start(ctx context.Context, mode txsign.Mode) tea.Cmd {
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.mode = mode
	o.stage = txsign.StageWaiting
	wizard := o.wizard
	txFn := o.txFn
	run := func() tea.Msg {
		res, err := wizard.Run(runCtx, mode, txFn)
		return wizardDoneMsg{result: res, err: err}
	}
	return tea.Batch(o.spinner.Tick, run)
}

func (o *wizardOverlay) finish(msg wizardDoneMsg) {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	if msg.err != nil {
		o.stage = txsign.StageRejected
		o.result = txsign.Result{Stage: txsign.StageRejected, Err: msg.err}
		return
	}
	o.result = msg.result
	o.stage = msg.result.Stage
}

func (o *wizardOverlay) stop() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// handleKey returns a command to run and whether the overlay should close.
func (o *wizardOverlay) handleKey(ctx context.Context, key string) (tea.Cmd, bool) {
	if key == "esc" {
		o.stop()
		return nil, true
	}
	switch o.stage {
	case txsign.StageIntro:
		switch key {
		case "w":
			return o.start(ctx, txsign.ModeWebWallet), false
		case "c":
			return o.start(ctx, txsign.ModeCLI), false
		}
	case txsign.StageSuccess:
		if key == "enter" {
			return nil, true
		}
	case txsign.StageRejected:
		if key == "r" {
			if err := o.wizard.Retry(); err == nil {
				o.stage = txsign.StageIntro
				o.result = txsign.Result{}
			}
		}
	}
	return nil, false
}

func (o *wizardOverlay) update(msg tea.Msg) tea.Cmd {
	if o.stage != txsign.StageWaiting {
		return nil
	}
	var cmd tea.Cmd
	o.spinner, cmd = o.spinner.Update(msg)
	return cmd
}

func (o *wizardOverlay) view(width int) string {
	tx := o.wizard.Transaction()
	lines := []string{headerStyle.Render("Sign transaction"), ""}
	if tx.Description != "" {
		lines = append(lines, tx.Description, "")
	}
	switch o.stage {
	case txsign.StageIntro:
		lines = append(lines,
			"How would you like to sign on "+tx.ChainID+"?",
			"",
			"  w  web wallet",
			"  c  command line",
		)
	case txsign.StageWaiting:
		lines = append(lines, o.spinner.View()+" waiting for the transaction…")
		if o.mode == txsign.ModeCLI {
			lines = append(lines, "", "Sign the payload with:", codeStyle.Render(tx.SigningCommand()), "", helpStyle.Render("y copy command"))
		}
	case txsign.StageSuccess:
		lines = append(lines, wizardSuccessStyle.Render("Transaction included"))
		lines = append(lines, successDetails(o.result)...)
		lines = append(lines, "", helpStyle.Render("enter close"))
	case txsign.StageRejected:
		lines = append(lines, wizardRejectedStyle.Render("Transaction rejected"))
		if o.result.Err != nil {
			lines = append(lines, o.result.Err.Error())
		}
		lines = append(lines, "", helpStyle.Render("r retry"))
	}
	lines = append(lines, helpStyle.Render("esc close"))
	body := strings.Join(lines, "\n")
	if width > 4 {
		body = overlayBorderStyle.Width(min(width-2, 72)).Render(body)
	}
	return body
}

func successDetails(res txsign.Result) []string {
	if res.TimedOut {
		return []string{"No confirmation received; assuming success."}
	}
	var out []string
	if res.BlockHash != "" {
		out = append(out, fmt.Sprintf("block %d  %s", res.BlockNumber, res.BlockHash))
	}
	if !res.Timestamp.IsZero() {
		out = append(out, res.Timestamp.Format("2006-01-02 15:04:05 MST"))
	}
	return out
}
