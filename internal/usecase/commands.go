package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"SignalRelay/internal/domain/models"
	"SignalRelay/internal/domain/repository"
	"SignalRelay/pkg/util"
)

// Command kinds recognized by the dispatcher.
const (
	CmdRiskCalculate = "risk-calculate"
	CmdExplain       = "explain"
	CmdHelp          = "help"
	CmdStart         = "start"
	CmdUnknown       = "unknown"
)

const riskUsage = "Usage: risk-calculate <balance> <riskPct> <entry> <stopLoss>\n" +
	"Example: risk-calculate 1000 2 1.2000 1.1950"

const helpText = "📡 Commands:\n" +
	"risk-calculate <balance> <riskPct> <entry> <stopLoss> — position size for your risk\n" +
	"explain — break down the last signal sent to this chat\n" +
	"help — this list\n\n" +
	"Anything else goes to the mentor."

const startText = "📡 Signal assistant ready. Send a question, a command, or wait for the next alert."

// Command is one parsed chat request: its kind and raw argument tokens.
type Command struct {
	Kind string
	Args []string
}

// ParseCommand splits chat text and matches the first token, case-sensitive.
// A leading slash is tolerated so platform-style "/help" works too.
func ParseCommand(text string) Command {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{Kind: CmdUnknown}
	}
	head := strings.TrimPrefix(fields[0], "/")
	switch head {
	case CmdRiskCalculate, CmdExplain, CmdHelp, CmdStart:
		return Command{Kind: head, Args: fields[1:]}
	}
	return Command{Kind: CmdUnknown}
}

// Dispatcher answers chat commands, consulting the last-signal store for the
// stateful ones. Bad arguments produce help-style replies, never errors.
type Dispatcher struct {
	store   repository.LastSignalStore
	metrics repository.Metrics
}

func NewDispatcher(store repository.LastSignalStore, metrics repository.Metrics) *Dispatcher {
	return &Dispatcher{store: store, metrics: metrics}
}

// Dispatch runs the command in text for chatID. handled is false when no
// command matched and the gateway should apply its fallback.
func (d *Dispatcher) Dispatch(chatID int64, text string) (reply string, handled bool) {
	cmd := ParseCommand(text)
	if cmd.Kind == CmdUnknown {
		return "", false
	}
	d.metrics.RecordCommand(cmd.Kind)

	switch cmd.Kind {
	case CmdRiskCalculate:
		return riskCalculate(cmd.Args), true
	case CmdExplain:
		return d.explain(chatID), true
	case CmdHelp:
		return helpText, true
	case CmdStart:
		return startText, true
	}
	return "", false
}

// riskCalculate computes position size from balance, risk percent, entry and
// stop-loss. Every argument problem is a user-visible reply.
func riskCalculate(args []string) string {
	if len(args) != 4 {
		return riskUsage
	}

	nums := make([]float64, 4)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Sprintf("⚠️ %q is not a number.\n%s", a, riskUsage)
		}
		nums[i] = v
	}
	balance, riskPct, entry, stopLoss := nums[0], nums[1], nums[2], nums[3]

	riskAmount := balance * riskPct / 100
	delta := math.Abs(entry - stopLoss)
	if delta == 0 {
		return "⚠️ Stop-loss equals entry — risk per unit is zero, nothing to size."
	}
	units := riskAmount / delta

	return fmt.Sprintf(
		"💰 Risk calculator\n"+
			"Balance: %.2f\n"+
			"Risk: %.2f%% ($%.2f)\n"+
			"Entry: %v  •  SL: %v\n"+
			"Delta: %.5f\n"+
			"Suggested size: %.2f units",
		balance, riskPct, riskAmount, entry, stopLoss, delta, units,
	)
}

// explain renders the last signal cached for chatID.
func (d *Dispatcher) explain(chatID int64) string {
	p, ok := d.store.Get(chatID)
	if !ok {
		return "🤷 No signal cached for this chat yet. I can explain the next one that arrives."
	}

	return fmt.Sprintf(
		"🧠 Last signal for this chat:\n"+
			"Type: %s %s\n"+
			"TF: %s  •  Price: %s\n"+
			"Filters: %s\n"+
			"Strength: %s/5  •  Confidence: %s\n"+
			"SL: %s  •  TP: %s",
		orDash(p.Signal.Type), p.Signal.Direction,
		explainTimeframe(p), p.Market.Price.Or("—"),
		util.JoinOr(p.Signal.Extras.Filters, ", ", "—"),
		strengthText(p.Signal.Strength), confidenceText(p.Signal.Confidence),
		p.Risk.SL.Or("—"), p.Risk.TP.Or("—"),
	)
}

func explainTimeframe(p *models.SignalPayload) string {
	if p.Signal.Extras.TF != "" {
		return p.Signal.Extras.TF
	}
	return orDash(p.Market.Timeframe)
}

func strengthText(v *int) string {
	if v == nil {
		return "—"
	}
	return strconv.Itoa(*v)
}

func confidenceText(v *float64) string {
	if v == nil {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", *v)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
