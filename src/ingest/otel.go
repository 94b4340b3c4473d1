// Package ingest turns raw payloads into ErrorEvents and runs the
// broker-driven agent that feeds them to the engine.
package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"patrol-agent/src/contracts"
	"patrol-agent/src/sanitize"
)

// repoURLKeys are the resource-attribute keys recognized as naming the
// source repository, in priority order.
var repoURLKeys = []string{"git.repository.url", "vcs.repository.url", "repository.url"}

// gitHintKeys are resource attributes copied into the record context so
// the resolver can pick the right revision.
var gitHintKeys = []string{
	"git.repository.url",
	"git.commit.sha",
	"git.sha",
	"vcs.repository.url",
	"vcs.ref.head.name",
	"vcs.ref.head.revision",
}

// otelPayload mirrors the OTLP JSON log shape far enough to reach the
// log records. Attribute values arrive as {"stringValue": ...} or
// {"intValue": ...} wrappers, or as plain scalars from relaxed senders.
type otelPayload struct {
	ResourceLogs []struct {
		Resource struct {
			Attributes attributeMap `json:"attributes"`
		} `json:"resource"`
		ScopeLogs []struct {
			LogRecords []otelLogRecord `json:"logRecords"`
		} `json:"scopeLogs"`
	} `json:"resourceLogs"`
}

type otelLogRecord struct {
	TimeUnixNano json.Number     `json:"timeUnixNano"`
	SeverityText string          `json:"severityText"`
	Body         json.RawMessage `json:"body"`
	Attributes   attributeMap    `json:"attributes"`
	TraceID      string          `json:"traceId"`
	SpanID       string          `json:"spanId"`
}

// attributeMap accepts both the OTLP list form
// [{"key": k, "value": {"stringValue": v}}] and a flat JSON object.
type attributeMap map[string]string

func (m *attributeMap) UnmarshalJSON(data []byte) error {
	out := make(map[string]string)

	var listForm []struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &listForm); err == nil {
		for _, kv := range listForm {
			out[kv.Key] = scalarString(kv.Value)
		}
		*m = out
		return nil
	}

	var objForm map[string]json.RawMessage
	if err := json.Unmarshal(data, &objForm); err != nil {
		return err
	}
	for k, v := range objForm {
		out[k] = scalarString(v)
	}
	*m = out
	return nil
}

// scalarString renders an attribute value as a string regardless of
// whether it arrived wrapped ({"stringValue": ...}, {"intValue": ...})
// or bare.
func scalarString(raw json.RawMessage) string {
	var wrapped struct {
		StringValue *string     `json:"stringValue"`
		IntValue    json.Number `json:"intValue"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if wrapped.StringValue != nil {
			return *wrapped.StringValue
		}
		if wrapped.IntValue != "" {
			return wrapped.IntValue.String()
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// ParseOTELLog converts one OTLP JSON log payload into an ErrorEvent.
// Only the first log record of the first resource/scope is consumed;
// Vector delivers one record per payload.
func ParseOTELLog(data []byte) (contracts.ErrorEvent, error) {
	var payload otelPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return contracts.ErrorEvent{}, fmt.Errorf("failed to unmarshal OTEL payload: %w", err)
	}

	if len(payload.ResourceLogs) == 0 {
		return contracts.ErrorEvent{}, fmt.Errorf("OTEL payload has no resourceLogs")
	}
	rl := payload.ResourceLogs[0]
	if len(rl.ScopeLogs) == 0 || len(rl.ScopeLogs[0].LogRecords) == 0 {
		return contracts.ErrorEvent{}, fmt.Errorf("OTEL payload has no log records")
	}

	record := rl.ScopeLogs[0].LogRecords[0]
	resourceAttrs := rl.Resource.Attributes

	ts := otelTimestamp(record)
	errorRecord := extractErrorRecord(record, resourceAttrs)
	errorRecord.Timestamp = ts

	event := contracts.ErrorEvent{
		EventID:       otelEventID(record),
		Timestamp:     ts,
		Record:        errorRecord,
		RepositoryURL: firstAttr(resourceAttrs, repoURLKeys),
	}
	return event, nil
}

// extractErrorRecord maps a log record's body and exception.* / code.*
// attributes onto an ErrorRecord. Remaining attributes plus selected
// resource attributes become the context map.
func extractErrorRecord(record otelLogRecord, resourceAttrs attributeMap) contracts.ErrorRecord {
	message := bodyString(record.Body)

	attrs := record.Attributes
	excType := attrs["exception.type"]
	excMessage := attrs["exception.message"]

	switch {
	case excType != "" && excMessage != "":
		message = excType + ": " + excMessage
	case excMessage != "":
		message = excMessage
	}
	if message == "" {
		message = "Unknown error"
	}

	line := 0
	if v := attrs["code.lineno"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			line = n
		}
	}

	context := make(map[string]string)
	for k, v := range attrs {
		if strings.HasPrefix(k, "exception.") || strings.HasPrefix(k, "code.") {
			continue
		}
		context[k] = v
	}
	if svc := resourceAttrs["service.name"]; svc != "" {
		context["service.name"] = svc
	}
	if ver := resourceAttrs["service.version"]; ver != "" {
		context["service.version"] = ver
	}
	for _, k := range gitHintKeys {
		if v := resourceAttrs[k]; v != "" {
			context[k] = v
		}
	}
	if len(context) == 0 {
		context = nil
	}

	return contracts.ErrorRecord{
		Message:    sanitize.Clean(message),
		Code:       excType,
		FilePath:   attrs["code.filepath"],
		LineNumber: line,
		StackTrace: sanitize.Clean(attrs["exception.stacktrace"]),
		Context:    context,
	}
}

// bodyString extracts the message from an OTLP body, which is either
// {"stringValue": ...} or a bare string.
func bodyString(body json.RawMessage) string {
	if len(body) == 0 {
		return ""
	}
	var wrapped struct {
		StringValue string `json:"stringValue"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.StringValue != "" {
		return wrapped.StringValue
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}
	return ""
}

func otelEventID(record otelLogRecord) string {
	if record.TraceID != "" && record.SpanID != "" {
		return record.TraceID + "-" + record.SpanID
	}
	return fmt.Sprintf("otel-%d", time.Now().UnixMilli())
}

func otelTimestamp(record otelLogRecord) int64 {
	if nanos, err := record.TimeUnixNano.Int64(); err == nil && nanos > 0 {
		return nanos / int64(time.Millisecond)
	}
	return time.Now().UnixMilli()
}

// ParseVectorPayload handles the Vector OTEL sink envelope: a "logs"
// field holding either one OTEL payload or a batch. Unparseable entries
// are dropped; an empty or absent batch yields an empty slice.
func ParseVectorPayload(data []byte) ([]contracts.ErrorEvent, error) {
	var envelope struct {
		Logs json.RawMessage `json:"logs"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Vector payload: %w", err)
	}
	if len(envelope.Logs) == 0 {
		return []contracts.ErrorEvent{}, nil
	}

	var batch []json.RawMessage
	if err := json.Unmarshal(envelope.Logs, &batch); err != nil {
		// Single OTEL log instead of a batch.
		event, err := ParseOTELLog(envelope.Logs)
		if err != nil {
			return []contracts.ErrorEvent{}, nil
		}
		return []contracts.ErrorEvent{event}, nil
	}

	events := make([]contracts.ErrorEvent, 0, len(batch))
	for _, raw := range batch {
		event, err := ParseOTELLog(raw)
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func firstAttr(attrs attributeMap, keys []string) string {
	for _, k := range keys {
		if v := attrs[k]; v != "" {
			return v
		}
	}
	return ""
}
