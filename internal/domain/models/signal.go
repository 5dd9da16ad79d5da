package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Flex is a scalar that alerting sources send either as a JSON number or a
// string ("1.2345" vs 1.2345). The literal text is kept; empty means absent.
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Flex(v)
		return nil
	}
	var v json.Number
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Flex(v.String())
	return nil
}

func (f Flex) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// IsSet reports whether the source supplied a value.
func (f Flex) IsSet() bool { return f != "" }

// Float parses the value as float64.
func (f Flex) Float() (float64, bool) {
	v, err := strconv.ParseFloat(string(f), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Or returns the literal text, or def when absent.
func (f Flex) Or(def string) string {
	if f == "" {
		return def
	}
	return string(f)
}

// SignalPayload is one trading-signal event as posted by the alerting source.
// Everything below the top level is optional; the formatter renders
// placeholders for whatever is missing.
type SignalPayload struct {
	Product string     `json:"product"`
	Market  MarketInfo `json:"market"`
	Signal  SignalInfo `json:"signal"`
	Risk    RiskInfo   `json:"risk"`
	Meta    MetaInfo   `json:"meta"`
}

type MarketInfo struct {
	Symbol    string `json:"symbol"`
	Price     Flex   `json:"price"`
	Timeframe string `json:"timeframe"`
}

type SignalInfo struct {
	Type       string       `json:"type"`
	Direction  string       `json:"direction"`
	Strength   *int         `json:"strength" validate:"omitempty,gte=0,lte=5"`
	Confidence *float64     `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Extras     SignalExtras `json:"extras"`
}

// SignalExtras carries the free-form additions the source nests under the
// signal block: a timeframe override and the filter names that fired.
type SignalExtras struct {
	TF      string   `json:"tf"`
	Filters []string `json:"filters"`
}

type RiskInfo struct {
	TP      Flex `json:"tp"`
	SL      Flex `json:"sl"`
	RiskPct Flex `json:"riskPct"`
}

type MetaInfo struct {
	Timestamp string `json:"timestamp"`
	ChartURL  string `json:"chart_url"`
}

// Clone returns a deep copy safe to retain after the request that produced
// the payload has ended.
func (p *SignalPayload) Clone() *SignalPayload {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Signal.Strength != nil {
		v := *p.Signal.Strength
		cp.Signal.Strength = &v
	}
	if p.Signal.Confidence != nil {
		v := *p.Signal.Confidence
		cp.Signal.Confidence = &v
	}
	if p.Signal.Extras.Filters != nil {
		cp.Signal.Extras.Filters = append([]string(nil), p.Signal.Extras.Filters...)
	}
	return &cp
}
