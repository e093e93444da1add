package jsonfmt

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedResult string
		expectError    bool
	}{
		{
			name:  "Flat object with array",
			input: `{"a":1,"b":[1,2,3]}`,
			expectedResult: `{
    "a": 1,
    "b": [
        1,
        2,
        3
    ]
}`,
		},
		{
			name:  "Key order preserved",
			input: `{"z":1,"a":2}`,
			expectedResult: `{
    "z": 1,
    "a": 2
}`,
		},
		{
			name:  "Escaped newlines stripped before parsing",
			input: `{"a":\n1}`,
			expectedResult: `{
    "a": 1
}`,
		},
		{
			name:  "Empty containers stay inline",
			input: `{"x":{},"y":[]}`,
			expectedResult: `{
    "x": {},
    "y": []
}`,
		},
		{
			name:           "Bare scalar",
			input:          `42`,
			expectedResult: `42`,
		},
		{
			name:        "Not JSON at all",
			input:       `not json`,
			expectError: true,
		},
		{
			name:        "Truncated document",
			input:       `{"a":`,
			expectError: true,
		},
		{
			name:        "Empty input",
			input:       ``,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Format(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected an error, but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tt.expectedResult {
				t.Errorf("Expected result %q, but got %q", tt.expectedResult, result)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":[1,2,3]}`,
		`{"nested":{"deep":{"list":[true,false,null]}}}`,
		`[1,"two",3.5,{"four":4}]`,
		`{"unicode":"héllo","escaped":"tab\there"}`,
	}

	for _, input := range inputs {
		formatted, err := Format(input)
		if err != nil {
			t.Fatalf("Format(%q): %v", input, err)
		}

		var original, reparsed any
		if err := json.Unmarshal([]byte(input), &original); err != nil {
			t.Fatalf("Bad test input %q: %v", input, err)
		}
		if err := json.Unmarshal([]byte(formatted), &reparsed); err != nil {
			t.Fatalf("Formatted output %q is not valid JSON: %v", formatted, err)
		}

		if !reflect.DeepEqual(original, reparsed) {
			t.Errorf("Round trip changed the document: %q -> %q", input, formatted)
		}
	}
}

func TestFormatIndentIsFourSpaces(t *testing.T) {
	result, err := Format(`{"a":1}`)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(result, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), result)
	}
	if !strings.HasPrefix(lines[1], "    \"a\"") {
		t.Errorf("Expected 4-space indent, got %q", lines[1])
	}
}
