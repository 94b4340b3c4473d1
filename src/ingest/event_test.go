package ingest

import (
	"testing"
)

func TestParseDirectEvent(t *testing.T) {
	payload := `{
	  "eventId": "evt-42",
	  "timestamp": 1707817200000,
	  "errorLog": {
	    "message": "TypeError: x is undefined",
	    "code": "TypeError",
	    "filePath": "src/app.ts",
	    "lineNumber": 10,
	    "stackTrace": "at main (src/app.ts:10:3)",
	    "context": {"service.name": "api"}
	  },
	  "repositoryUrl": "https://github.com/acme/api"
	}`

	event, err := ParseDirectEvent([]byte(payload))
	if err != nil {
		t.Fatalf("ParseDirectEvent failed: %v", err)
	}
	if event.EventID != "evt-42" || event.Timestamp != 1707817200000 {
		t.Errorf("unexpected envelope %+v", event)
	}
	if event.RepositoryURL != "https://github.com/acme/api" {
		t.Errorf("RepositoryURL = %q", event.RepositoryURL)
	}
	r := event.Record
	if r.Message != "TypeError: x is undefined" || r.Code != "TypeError" {
		t.Errorf("unexpected record %+v", r)
	}
	if r.FilePath != "src/app.ts" || r.LineNumber != 10 {
		t.Errorf("location = %s:%d", r.FilePath, r.LineNumber)
	}
	if r.Timestamp != 1707817200000 {
		t.Errorf("record timestamp should inherit the envelope's, got %d", r.Timestamp)
	}
}

func TestParseDirectEventGeneratesIDs(t *testing.T) {
	payload := `{"errorLog": {"message": "boom"}}`

	event, err := ParseDirectEvent([]byte(payload))
	if err != nil {
		t.Fatalf("ParseDirectEvent failed: %v", err)
	}
	if event.EventID == "" {
		t.Error("EventID should be generated")
	}
	if event.Timestamp == 0 {
		t.Error("Timestamp should be filled in")
	}
}

func TestParseDirectEventRejectsMissingErrorLog(t *testing.T) {
	if _, err := ParseDirectEvent([]byte(`{"eventId": "evt-1"}`)); err == nil {
		t.Error("expected error for missing errorLog")
	}
}

func TestParseDirectEventStripsANSI(t *testing.T) {
	payload := `{"errorLog": {"message": "\u001b[31mERROR\u001b[0m: disk full"}}`

	event, err := ParseDirectEvent([]byte(payload))
	if err != nil {
		t.Fatalf("ParseDirectEvent failed: %v", err)
	}
	if event.Record.Message != "ERROR: disk full" {
		t.Errorf("Message = %q, expected ANSI stripped", event.Record.Message)
	}
}

func TestParseEventDispatch(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		count   int
		wantErr bool
	}{
		{
			name:    "direct envelope",
			payload: `{"errorLog": {"message": "boom"}}`,
			count:   1,
		},
		{
			name:    "otel payload",
			payload: otelLogFixture,
			count:   1,
		},
		{
			name:    "vector batch",
			payload: `{"logs": [` + otelLogFixture + `]}`,
			count:   1,
		},
		{
			name:    "unrecognized shape",
			payload: `{"something": "else"}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			payload: `[1, 2, 3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := ParseEvent([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEvent failed: %v", err)
			}
			if len(events) != tt.count {
				t.Errorf("expected %d events, got %d", tt.count, len(events))
			}
		})
	}
}
