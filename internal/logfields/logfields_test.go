package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "transform", Stage("transform")},
		{"Plugin", KeyPlugin, "crawl-links", Plugin("crawl-links")},
		{"Path", KeyPath, "notes/a.md", Path("notes/a.md")},
		{"Slug", KeySlug, "notes/a", Slug("notes/a")},
		{"Target", KeyTarget, "b", Target("b")},
		{"Output", KeyOutput, "public", Output("public")},
		{"Event", KeyEvent, "WRITE", Event("WRITE")},
		{"URL", KeyURL, "nats://x", URL("nats://x")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	if got := Count(3).Value.Int64(); got != 3 {
		t.Fatalf("count: got %d", got)
	}
	if got := DurationMS(1.5).Value.Float64(); got != 1.5 {
		t.Fatalf("duration: got %f", got)
	}
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("nil error: got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("error: got %q", got)
	}
}
