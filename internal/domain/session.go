package domain

import (
	"fmt"
	"time"
)

// SchemaVersion is the version of the NDJSON records
const SchemaVersion = 1

// State is the lifecycle state of a debug session
type State int

const (
	StateRunning State = iota
	StateTerminating
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	default:
		return "terminated"
	}
}

// Termination reasons reported in SessionSummary
const (
	ReasonRootExit   = "root_exit"
	ReasonFatalError = "fatal_error"
	ReasonNotStarted = "not_started"
)

// ModuleLoad is emitted for every module the debuggee maps
type ModuleLoad struct {
	Type          string `json:"type"`          // "module_load"
	SchemaVersion int    `json:"schemaVersion"` // 1
	SessionID     string `json:"session_id"`
	Program       string `json:"program"`
	PID           uint32 `json:"pid"`
	Sequence      int    `json:"sequence"`               // 1-based load order
	Path          string `json:"path,omitempty"`         // Resolved path, empty when unresolved
	Resolved      bool   `json:"resolved"`               //
	BaseAddress   string `json:"base_address,omitempty"` // Hex load address
	Timestamp     string `json:"timestamp"`              // ISO8601 timestamp
}

// NewModuleLoad creates a ModuleLoad record
func NewModuleLoad(sessionID, program string, pid uint32, sequence int, path string, resolved bool, base uintptr, at time.Time) *ModuleLoad {
	m := &ModuleLoad{
		Type:          "module_load",
		SchemaVersion: SchemaVersion,
		SessionID:     sessionID,
		Program:       program,
		PID:           pid,
		Sequence:      sequence,
		Resolved:      resolved,
		Timestamp:     at.UTC().Format(time.RFC3339Nano),
	}
	if resolved {
		m.Path = path
	}
	if base != 0 {
		m.BaseAddress = fmt.Sprintf("%#x", base)
	}
	return m
}

// SessionSummary is emitted when a session ends
type SessionSummary struct {
	Type            string  `json:"type"`          // "session_end"
	SchemaVersion   int     `json:"schemaVersion"` // 1
	SessionID       string  `json:"session_id"`
	Program         string  `json:"program"`
	PID             uint32  `json:"pid"`
	Reason          string  `json:"reason"` // root_exit, fatal_error
	Modules         int     `json:"modules"`
	Unresolved      int     `json:"unresolved"`
	Threads         int     `json:"threads"`
	ChildExits      int     `json:"child_exits"`
	Exceptions      int     `json:"exceptions"`
	OtherEvents     int     `json:"other_events"`
	DurationSeconds float64 `json:"duration_seconds"`
}
