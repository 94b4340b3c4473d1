package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"patrol-agent/src/contracts"
	"patrol-agent/src/sanitize"
)

// directEvent is the camelCase envelope accepted from direct callers
// (CLI input, MCP tools, HTTP invokers).
type directEvent struct {
	EventID       string          `json:"eventId"`
	Timestamp     int64           `json:"timestamp"`
	ErrorLog      *directErrorLog `json:"errorLog"`
	RepositoryURL string          `json:"repositoryUrl"`
}

type directErrorLog struct {
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	FilePath   string            `json:"filePath"`
	LineNumber int               `json:"lineNumber"`
	StackTrace string            `json:"stackTrace"`
	Context    map[string]string `json:"context"`
	Timestamp  int64             `json:"timestamp"`
}

// ParseDirectEvent converts a direct-invocation payload into an
// ErrorEvent. Missing event IDs and timestamps are filled in; a payload
// without an errorLog is rejected.
func ParseDirectEvent(data []byte) (contracts.ErrorEvent, error) {
	var payload directEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return contracts.ErrorEvent{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if payload.ErrorLog == nil {
		return contracts.ErrorEvent{}, fmt.Errorf("event has no errorLog")
	}

	eventID := strings.TrimSpace(payload.EventID)
	if eventID == "" {
		eventID = uuid.NewString()
	}
	ts := payload.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	recordTS := payload.ErrorLog.Timestamp
	if recordTS == 0 {
		recordTS = ts
	}

	event := contracts.ErrorEvent{
		EventID:       eventID,
		Timestamp:     ts,
		RepositoryURL: strings.TrimSpace(payload.RepositoryURL),
		Record: contracts.ErrorRecord{
			Message:    sanitize.Clean(payload.ErrorLog.Message),
			Code:       strings.TrimSpace(payload.ErrorLog.Code),
			FilePath:   strings.TrimSpace(payload.ErrorLog.FilePath),
			LineNumber: payload.ErrorLog.LineNumber,
			StackTrace: sanitize.Clean(payload.ErrorLog.StackTrace),
			Context:    payload.ErrorLog.Context,
			Timestamp:  recordTS,
		},
	}
	return event, nil
}

// ParseEvent accepts any supported raw payload shape: a direct-call
// envelope, a bare OTEL log, or a Vector batch. Returns every event the
// payload yields.
func ParseEvent(data []byte) ([]contracts.ErrorEvent, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}

	switch {
	case probe["errorLog"] != nil:
		event, err := ParseDirectEvent(data)
		if err != nil {
			return nil, err
		}
		return []contracts.ErrorEvent{event}, nil
	case probe["resourceLogs"] != nil:
		event, err := ParseOTELLog(data)
		if err != nil {
			return nil, err
		}
		return []contracts.ErrorEvent{event}, nil
	case probe["logs"] != nil:
		return ParseVectorPayload(data)
	default:
		return nil, fmt.Errorf("unrecognized event payload shape")
	}
}
