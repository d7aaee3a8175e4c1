package extractor_test

import (
	"encoding/json"
	"errors"
	"testing"

	"absubmit/internal/extractor"
)

func TestParseReportRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":         "not json {",
		"null":             "null",
		"array":            "[1,2]",
		"missing metadata": `{"lowlevel":{}}`,
		"scalar metadata":  `{"metadata":3}`,
		"trailing data":    `{"metadata":{}} {"metadata":{}}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := extractor.ParseReport([]byte(input)); !errors.Is(err, extractor.ErrMalformedReport) {
				t.Fatalf("expected malformed report error, got %v", err)
			}
		})
	}
}

func TestSetProvenance(t *testing.T) {
	report, err := extractor.ParseReport([]byte(`{"metadata":{"version":{"essentia":"2.1"}}}`))
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	if err := report.SetProvenance("deadbeef"); err != nil {
		t.Fatalf("SetProvenance: %v", err)
	}
	if report.Provenance() != "deadbeef" {
		t.Fatalf("provenance = %q", report.Provenance())
	}

	null, err := extractor.ParseReport([]byte(`{"metadata":{"version":null}}`))
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	if err := null.SetProvenance("f00d"); err != nil {
		t.Fatalf("SetProvenance with null version: %v", err)
	}
	if null.Provenance() != "f00d" {
		t.Fatalf("provenance = %q", null.Provenance())
	}

	bad, err := extractor.ParseReport([]byte(`{"metadata":{"version":"2.1"}}`))
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	if err := bad.SetProvenance("f00d"); !errors.Is(err, extractor.ErrMalformedReport) {
		t.Fatalf("expected malformed error for string version, got %v", err)
	}
}

func TestReportRoundTripsNumbers(t *testing.T) {
	input := `{"metadata":{"version":{}},"lowlevel":{"x":0.10000000000000001,"n":12345678901234567890}}`
	report, err := extractor.ParseReport([]byte(input))
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	out, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"lowlevel":{"n":12345678901234567890,"x":0.10000000000000001},"metadata":{"version":{}}}`
	if string(out) != want {
		t.Fatalf("round trip changed numbers:\n got %s\nwant %s", out, want)
	}
}
