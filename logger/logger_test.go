package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevelFallback(t *testing.T) {
	Init("nonsense", "text")
	if Log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info", Log.GetLevel())
	}
	Init("debug", "text")
	if Log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", Log.GetLevel())
	}
}

func TestJSONComponentField(t *testing.T) {
	Init("info", "JSON")
	var buf bytes.Buffer
	Log.SetOutput(&buf)
	defer Init("info", "text")

	Component("render").Info("frame")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %q", buf.String())
	}
	if entry["component"] != "render" || entry["msg"] != "frame" {
		t.Fatalf("entry = %v", entry)
	}
}
