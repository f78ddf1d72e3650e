// Package model defines domain types for cwrapped records and statistics.
package model

import "time"

// Role identifies who authored a message record.
type Role string

// Roles present in normalized records.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MessageRecord is one normalized interaction event: a user turn, an
// assistant turn, or a tool-invocation sub-record extracted from an
// assistant turn. Timestamps are already resolved to local time by the
// normalizer; token counts default to 0 when absent.
type MessageRecord struct {
	Timestamp time.Time
	Role      Role
	SessionID string
	Project   string

	// Model is set on assistant-authored records only.
	Model string

	// ToolName is set only on tool-invocation sub-records. MCPServer is
	// set when the invoked tool is MCP-backed (mcp__<server>__<tool>).
	ToolName  string
	MCPServer string

	InputTokens         int64
	OutputTokens        int64
	CacheCreationTokens int64
	CacheReadTokens     int64

	// File-operation flags carried by Edit/MultiEdit and Write invocations.
	IsEdit  bool
	IsWrite bool
}

// IsTurn reports whether the record counts as a conversation turn.
// Tool-invocation sub-records do not, so a single user action that fans
// out into several tool calls is counted once.
func (r MessageRecord) IsTurn() bool {
	return r.ToolName == "" && (r.Role == RoleUser || r.Role == RoleAssistant)
}

// TotalTokens returns the sum over all four token categories.
func (r MessageRecord) TotalTokens() int64 {
	return r.InputTokens + r.OutputTokens + r.CacheCreationTokens + r.CacheReadTokens
}

// DayKey returns the record's local calendar date as "2006-01-02".
func (r MessageRecord) DayKey() string {
	return r.Timestamp.Format("2006-01-02")
}

// MonthKey returns the record's local month as "2006-01".
func (r MessageRecord) MonthKey() string {
	return r.Timestamp.Format("2006-01")
}
