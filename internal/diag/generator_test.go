package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kirrishima/FluentSettings/internal/source"
)

func TestMissingBaseTypeMessage(t *testing.T) {
	sp := source.Span{File: 1, Start: 10, End: 15}
	d := MissingBaseType(sp, "Form", "LocalSettingsBase")
	if d.Code != GenMissingBaseType || d.Severity != SevError {
		t.Fatalf("unexpected code/severity: %v %v", d.Code, d.Severity)
	}
	want := "type 'Form' must embed 'LocalSettingsBase' to use the settings generator"
	if d.Message != want {
		t.Fatalf("message = %q, want %q", d.Message, want)
	}
	if d.Primary != sp {
		t.Fatalf("primary = %v, want %v", d.Primary, sp)
	}
	if len(d.Notes) != 0 {
		t.Fatalf("expected no notes, got %d", len(d.Notes))
	}
}

func TestDuplicateKeyNotesPointAtOthers(t *testing.T) {
	a := source.Span{File: 0, Start: 1, End: 2}
	b := source.Span{File: 0, Start: 5, End: 6}
	d := DuplicateKey(a, "X", []string{"A", "B"}, []source.Span{b})

	if d.Message != "settings key 'X' is used by more than one member: A, B" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if diff := cmp.Diff([]string{"X", "A, B"}, d.Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]source.Span{a, b}, d.Spans()); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestReportHelpersTolerateNilReporter(t *testing.T) {
	ReportMissingBaseType(nil, source.Span{}, "T", "B")
	ReportDuplicateKey(nil, source.Span{}, "k", nil, nil)
	ReportInternalError(nil, source.Span{}, "T", "boom")

	var c Collector
	ReportInternalError(&c, source.Span{}, "T", "boom")
	if !c.HasErrors() || len(c.Items()) != 1 {
		t.Fatalf("collector did not receive the diagnostic: %+v", c.Items())
	}
	if got := c.Items()[0].Message; got != "settings generation for 'T' failed: boom" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCodeIDAndTitle(t *testing.T) {
	cases := map[Code]string{
		GenMissingBaseType: "FS001",
		GenDuplicateKey:    "FS002",
		GenInternalError:   "FS099",
		HostParseError:     "FS101",
	}
	for code, id := range cases {
		if code.ID() != id {
			t.Errorf("%d.ID() = %q, want %q", code, code.ID(), id)
		}
	}
	if Code(7777).Title() != "Unknown error" {
		t.Fatalf("unknown code should fall back to the unknown title")
	}
}
