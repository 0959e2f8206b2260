package diagnostics

import (
	"sync"
	"time"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
	At             time.Time      `json:"at"`
}

// ProfileFallback reports a profile name that did not resolve.
func ProfileFallback(kind, name, used string) Diagnostic {
	return Diagnostic{
		Severity:       Warn,
		Code:           "PROFILE.UNKNOWN",
		Summary:        "Unknown " + kind + " profile",
		Detail:         "using " + used,
		SuggestedFixes: []string{"check the profile name against /health"},
		Evidence:       map[string]any{"kind": kind, "name": name},
	}
}

// Log keeps the most recent diagnostics so late subscribers can catch up.
type Log struct {
	mu   sync.Mutex
	max  int
	list []Diagnostic
}

func NewLog(size int) *Log {
	if size <= 0 {
		size = 32
	}
	return &Log{max: size}
}

// Add stamps d and stores it, dropping the oldest entry when full.
func (l *Log) Add(d Diagnostic) Diagnostic {
	if d.At.IsZero() {
		d.At = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.list = append(l.list, d)
	if len(l.list) > l.max {
		l.list = l.list[len(l.list)-l.max:]
	}
	return d
}

// Recent returns a copy, oldest first.
func (l *Log) Recent() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Diagnostic(nil), l.list...)
}
