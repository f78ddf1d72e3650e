// Package source discovers and parses Claude Code JSONL session files.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"cwrapped/internal/model"
)

// Byte patterns for field extraction.
var (
	patTimestamp1 = []byte(`"timestamp":"`)
	patTimestamp2 = []byte(`"timestamp": "`)
)

// ParseResult holds the output of parsing a single JSONL file.
type ParseResult struct {
	Records     []model.MessageRecord
	ParseErrors int
	Err         error
}

// ParseFile reads a JSONL session file and produces normalized message
// records. Assistant entries are deduplicated by message.id, keeping only
// the last entry per ID (final billed usage). Each kept assistant entry
// yields one turn record plus one sub-record per tool_use content block;
// tool sub-records carry the tool name and never count as turns.
//
// Entry routing by top-level "type" field:
//   - "user"      → byte-level extraction (timestamp only)
//   - "assistant" → full JSON parse (usage, model, content blocks)
//   - everything else → skip
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	var (
		records     []model.MessageRecord
		parseErrors int

		// keyed holds the latest assistant entry per message id; ids
		// repeat when streaming re-emits a message with updated usage.
		keyed = make(map[string]RawEntry)
		order []string
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()

		switch extractTopLevelType(line) {
		case "user":
			ts, ok := extractTimestampBytes(line)
			if !ok {
				continue
			}
			records = append(records, model.MessageRecord{
				Timestamp: ts.Local(),
				Role:      model.RoleUser,
				SessionID: df.SessionID,
				Project:   df.Project,
			})

		case "assistant":
			var entry RawEntry
			if err := json.Unmarshal(line, &entry); err != nil {
				parseErrors++
				continue
			}
			if entry.Message == nil || entry.Timestamp == "" {
				continue
			}
			if id := entry.Message.ID; id != "" {
				if _, seen := keyed[id]; !seen {
					order = append(order, id)
				}
				keyed[id] = entry
				continue
			}
			records = append(records, assistantRecords(df, entry)...)
		}
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}

	for _, id := range order {
		records = append(records, assistantRecords(df, keyed[id])...)
	}

	return ParseResult{
		Records:     records,
		ParseErrors: parseErrors,
	}
}

// assistantRecords expands one assistant entry into its turn record and
// tool-invocation sub-records.
func assistantRecords(df DiscoveredFile, entry RawEntry) []model.MessageRecord {
	ts, err := time.Parse(time.RFC3339Nano, entry.Timestamp)
	if err != nil {
		return nil
	}
	ts = ts.Local()

	turn := model.MessageRecord{
		Timestamp: ts,
		Role:      model.RoleAssistant,
		SessionID: df.SessionID,
		Project:   df.Project,
		Model:     entry.Message.Model,
	}
	if u := entry.Message.Usage; u != nil {
		turn.InputTokens = u.InputTokens
		turn.OutputTokens = u.OutputTokens
		turn.CacheCreationTokens = u.CacheCreationInputTokens
		turn.CacheReadTokens = u.CacheReadInputTokens
	}

	out := []model.MessageRecord{turn}
	for _, block := range entry.Message.Content {
		if block.Type != "tool_use" || block.Name == "" {
			continue
		}
		out = append(out, model.MessageRecord{
			Timestamp: ts,
			Role:      model.RoleAssistant,
			SessionID: df.SessionID,
			Project:   df.Project,
			ToolName:  block.Name,
			MCPServer: mcpServer(block.Name),
			IsEdit:    block.Name == "Edit" || block.Name == "MultiEdit",
			IsWrite:   block.Name == "Write",
		})
	}
	return out
}

// mcpServer extracts the server name from an MCP tool name of the form
// mcp__<server>__<tool>. Non-MCP tools yield "".
func mcpServer(toolName string) string {
	rest, ok := strings.CutPrefix(toolName, "mcp__")
	if !ok {
		return ""
	}
	server, _, ok := strings.Cut(rest, "__")
	if !ok {
		return ""
	}
	return server
}

// typeKey is the byte sequence for a JSON key named "type" (with quotes).
var typeKey = []byte(`"type"`)

// extractTopLevelType finds the top-level "type" field in a JSONL line.
// Tracks brace depth and string boundaries so nested "type" keys are
// ignored. Early-exits once found, making cost O(1) vs line length.
func extractTopLevelType(line []byte) string {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], typeKey) {
				val, isKey := classifyType(line, i+len(typeKey))
				if isKey {
					return val
				}
				// "type" appeared as a value, not a key. Continue scanning.
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return ""
}

// classifyType checks whether pos follows a JSON key (expects : then value).
// isKey=false means "type" appeared as a value, not a key.
func classifyType(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true // key with non-string value (null, number, etc.)
	}
	i++

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 20 {
		return "", true
	}
	v := string(line[i : i+end])
	switch v {
	case "assistant", "user":
		return v, true
	}
	return "", true // valid key but irrelevant type (e.g., "progress")
}

// skipJSONString advances past a JSON string starting at the opening quote.
func skipJSONString(line []byte, i int) int {
	i++
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}

// extractTimestampBytes extracts the timestamp field via byte scanning.
func extractTimestampBytes(line []byte) (time.Time, bool) {
	for _, pat := range [][]byte{patTimestamp1, patTimestamp2} {
		idx := bytes.Index(line, pat)
		if idx < 0 {
			continue
		}
		start := idx + len(pat)
		end := bytes.IndexByte(line[start:], '"')
		if end < 0 || end > 40 {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, string(line[start:start+end]))
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}
	return time.Time{}, false
}
