package format

import (
	"errors"
	"fmt"
	"strings"

	"SignalRelay/internal/domain/models"
)

// ErrBadPayload is returned for a payload that has no top-level shape to
// render. Missing optional fields never cause an error, only placeholders.
var ErrBadPayload = errors.New("format: payload is not a signal mapping")

const (
	dash           = "—"
	defaultProduct = "KVFX"
)

// Render turns an accepted payload into the notification text sent to chat.
// Line order is fixed: header, classification, timeframe/price, risk levels,
// chart link. HTML tags are understood by the transport's parse mode.
func Render(p *models.SignalPayload) (string, error) {
	if p == nil {
		return "", ErrBadPayload
	}

	product := p.Product
	if product == "" {
		product = defaultProduct
	}

	lines := []string{
		fmt.Sprintf("🧭 <b>%s</b> • <code>%s</code> %s",
			product, orQ(p.Market.Symbol), orQ(p.Signal.Direction)),
		fmt.Sprintf("🔔 <b>%s</b>  | 💪 %s/5  | 🤖 conf %s",
			orQ(p.Signal.Type), strength(p.Signal.Strength), confidence(p.Signal.Confidence)),
		fmt.Sprintf("⏱ TF: %s  •  💵 %s",
			timeframe(p), p.Market.Price.Or(dash)),
		fmt.Sprintf("🎯 TP: %s  •  🛡 SL: %s  •  Risk%%: %s",
			p.Risk.TP.Or(dash), p.Risk.SL.Or(dash), p.Risk.RiskPct.Or(dash)),
		fmt.Sprintf("🔗 Chart: %s", orDash(p.Meta.ChartURL)),
	}
	return strings.Join(lines, "\n"), nil
}

// timeframe prefers the override nested under signal extras, then the market
// timeframe.
func timeframe(p *models.SignalPayload) string {
	if p.Signal.Extras.TF != "" {
		return p.Signal.Extras.TF
	}
	return orDash(p.Market.Timeframe)
}

func strength(v *int) string {
	if v == nil {
		return dash
	}
	return fmt.Sprintf("%d", *v)
}

func confidence(v *float64) string {
	if v == nil {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", *v)
}

func orQ(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return dash
	}
	return s
}
