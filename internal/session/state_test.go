package session

import (
	"encoding/json"
	"testing"
)

func TestTimeSourceMarshalJSON(t *testing.T) {
	tests := []struct {
		source   TimeSource
		expected string
	}{
		{TimeDerived, `"derived"`},
		{TimeDevice, `"device"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.source)
		if err != nil {
			t.Errorf("Marshal(%v) error: %v", tt.source, err)
			continue
		}
		if string(data) != tt.expected {
			t.Errorf("Marshal(%v) = %s, want %s", tt.source, data, tt.expected)
		}
	}
}

func TestTimeSourceUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected TimeSource
	}{
		{`"derived"`, TimeDerived},
		{`"device"`, TimeDevice},
	}

	for _, tt := range tests {
		var ts TimeSource
		if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.input, err)
			continue
		}
		if ts != tt.expected {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, ts, tt.expected)
		}
	}
}

func TestChangeAny(t *testing.T) {
	if (Change{}).Any() {
		t.Error("zero Change reports Any")
	}

	tests := []Change{
		{SystemReset: true},
		{StageChanged: true},
		{ActiveChanged: true},
		{TotalChanged: true},
		{SessionReset: true},
	}
	for _, c := range tests {
		if !c.Any() {
			t.Errorf("Change %+v should report Any", c)
		}
	}
}

func TestStateJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(State{Stage: 1, Total: 2})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal to map error: %v", err)
	}
	for _, field := range []string{"stage", "total", "activeTimeSeconds", "timeSource"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("JSON should contain %q field", field)
		}
	}
	if _, ok := raw["lastUpdate"]; ok {
		t.Error("nil lastUpdate should be omitted")
	}
}
