package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case Stats:
		o.printStats(v)
	case AccountSummary:
		o.printSummary(v)
	case GameSaved:
		_, _ = fmt.Fprintf(o.w, "Saved: %s\n", v.File)
	case GameRecord:
		o.printGameRecord(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Stats response type (matches API)
type Stats struct {
	Wins     int64    `json:"wins"`
	Losses   int64    `json:"losses"`
	BestTime *float64 `json:"best_time"`
}

// Account response type
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Stats    Stats  `json:"stats"`
}

// AccountSummary response type
type AccountSummary struct {
	Username string `json:"username"`
	Stats
}

// GameSaved response type
type GameSaved struct {
	Message string `json:"message"`
	File    string `json:"file"`
}

// GameRecord response type
type GameRecord struct {
	File string          `json:"file"`
	Data json.RawMessage `json:"data"`
}

// OKResult response type
type OKResult struct {
	OK bool `json:"ok"`
}

// HealthResult response type
type HealthResult struct {
	On bool `json:"on"`
}

func (o *Output) printAccount(a Account) {
	_, _ = fmt.Fprintf(o.w, "Account: %s (%s)\n", a.Username, a.ID)
	o.printStats(a.Stats)
}

func (o *Output) printStats(s Stats) {
	_, _ = fmt.Fprintf(o.w, "Wins: %d\n", s.Wins)
	_, _ = fmt.Fprintf(o.w, "Losses: %d\n", s.Losses)
	if s.BestTime != nil {
		_, _ = fmt.Fprintf(o.w, "Best time: %.1fs\n", *s.BestTime)
	} else {
		_, _ = fmt.Fprintln(o.w, "Best time: -")
	}
}

func (o *Output) printSummary(s AccountSummary) {
	_, _ = fmt.Fprintf(o.w, "Account: %s\n", s.Username)
	o.printStats(s.Stats)
}

func (o *Output) printGameRecord(g GameRecord) {
	_, _ = fmt.Fprintf(o.w, "File: %s\n", g.File)
	o.printJSON(g.Data)
}

func (o *Output) printHealthResult(h HealthResult) {
	status := "off"
	if h.On {
		status = "on"
	}
	_, _ = fmt.Fprintf(o.w, "Server: %s\n", status)
}
