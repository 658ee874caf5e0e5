package diagnostics

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLoggerTagsLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{tag: "occurrence-7", out: log.New(&buf, "", 0)}

	l.Info("ran %d sweeps", 3)

	got := buf.String()
	if !strings.Contains(got, "[INFO]") {
		t.Errorf("output %q missing [INFO] tag", got)
	}
	if !strings.Contains(got, "occurrence-7") {
		t.Errorf("output %q missing tag", got)
	}
	if !strings.Contains(got, "ran 3 sweeps") {
		t.Errorf("output %q missing formatted message", got)
	}
}

func TestWithTagPreservesOutputKeepsNewTag(t *testing.T) {
	var buf bytes.Buffer
	base := &Logger{tag: "erin", out: log.New(&buf, "", 0)}
	scoped := base.WithTag("scenario-a")

	scoped.Warning("validation issue: %s", "clamp")

	got := buf.String()
	if strings.Contains(got, "erin:") {
		t.Errorf("output %q should use the scoped tag, not the base tag", got)
	}
	if !strings.Contains(got, "scenario-a") || !strings.Contains(got, "[WARNING]") {
		t.Errorf("output %q missing scoped tag or level", got)
	}
}
