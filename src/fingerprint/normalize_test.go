package fingerprint

import (
	"testing"
)

func TestNormalize_Fingerprint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "timestamp replaced with placeholder",
			input:    "2024-05-21T10:00:05.123Z Connection failed",
			expected: "[TIMESTAMP] Connection failed",
		},
		{
			name:     "numbers masked",
			input:    "Request timed out after 1500 ms on attempt 3",
			expected: "Request timed out after [NUM] ms on attempt [NUM]",
		},
		{
			name:     "hex address masked",
			input:    "invalid memory address 0x7fff5fbff8c0",
			expected: "invalid memory address [HEX]",
		},
		{
			name:     "UUID masked",
			input:    "Request 550e8400-e29b-41d4-a716-446655440000 failed",
			expected: "Request [UUID] failed",
		},
		{
			name:     "quoted values masked",
			input:    `user 'bob' has no field "email"`,
			expected: "user [VAR] has no field [VAR]",
		},
		{
			name:     "long path replaced entirely",
			input:    "/var/lib/service/workspace/src/main.go:42 - error",
			expected: "[PATH] - error",
		},
		{
			name:     "long hash masked",
			input:    "Container abc123def456789 exited",
			expected: "Container [HASH] exited",
		},
		{
			name:     "whitespace collapsed",
			input:    "Error    in     module",
			expected: "Error in module",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input, MaskFingerprint)
			if result != tt.expected {
				t.Errorf("Normalize(MaskFingerprint)\n  input:    %q\n  got:      %q\n  expected: %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalize_Presentation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "leading timestamp stripped",
			input:    "2024-05-21T10:00:05.123Z [ERROR] Connection failed",
			expected: "[ERROR] Connection failed",
		},
		{
			name:     "long path compressed preserving line number",
			input:    "/var/lib/service/workspace/src/handler/user.ts:45 - failed",
			expected: ".../user.ts:45 - failed",
		},
		{
			name:     "numbers preserved in presentation",
			input:    "Error code 42 on line 100",
			expected: "Error code 42 on line 100",
		},
		{
			name:     "quoted values preserved in presentation",
			input:    "user 'bob' not found",
			expected: "user 'bob' not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input, MaskPresentation)
			if result != tt.expected {
				t.Errorf("Normalize(MaskPresentation)\n  input:    %q\n  got:      %q\n  expected: %q", tt.input, result, tt.expected)
			}
		})
	}
}
