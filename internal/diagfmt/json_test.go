package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"netc/internal/diag"
	"netc/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	bag := duplicateNetBag(fs, "rtl/amp.yaml")

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output Report
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "IR6001" || d.Title != "Duplicate net name" {
		t.Errorf("unexpected header fields: %+v", d)
	}
	if d.Location == nil || d.Location.File != "amp.yaml" {
		t.Fatalf("unexpected location: %+v", d.Location)
	}
	if d.Location.StartByte != 49 || d.Location.EndByte != 51 {
		t.Errorf("Expected bytes 49..51, got %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.From == nil || *d.Location.From != (Pos{Line: 5, Col: 7}) {
		t.Errorf("Expected 5:7, got %+v", d.Location.From)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.From.Line != 4 {
		t.Errorf("unexpected notes: %+v", d.Notes)
	}
}

// TestJSONMaxAndNotes проверяет обрезку и заметки
func TestJSONMaxAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	bag := duplicateNetBag(fs, "amp.yaml")
	bag.Add(diag.New(diag.SevWarning, diag.PatSingleItem, source.NoSpan, "second"))

	output := BuildReport(bag, fs, JSONOpts{Max: 1})
	if output.Count != 1 || output.Dropped != 1 {
		t.Fatalf("count=%d dropped=%d", output.Count, output.Dropped)
	}
	if output.Diagnostics[0].Notes != nil {
		t.Errorf("notes included without IncludeNotes")
	}
	if output.Diagnostics[0].Location.From != nil {
		t.Errorf("positions included without IncludePositions")
	}

	output = BuildReport(bag, fs, JSONOpts{})
	if output.Diagnostics[1].Location != nil {
		t.Errorf("unlocated diagnostic got a location: %+v", output.Diagnostics[1].Location)
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	bag := duplicateNetBag(fs, "amp.yaml")
	bag.Add(diag.New(diag.SevWarning, diag.PatSingleItem, source.NoSpan, "single"))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "netc", ToolVersion: "0.3.0", InvocationArgs: []string{"diag", "amp.yaml"}}); err != nil {
		t.Fatal(err)
	}
	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						Region struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
				RelatedLocations []json.RawMessage `json:"relatedLocations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log: %+v", log)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "PAT2003" {
		t.Errorf("rules = %+v", run.Tool.Driver.Rules)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Errorf("run with errors marked successful")
	}
	r := run.Results[0]
	if r.RuleID != "IR6001" || r.Level != "error" || r.Locations[0].PhysicalLocation.Region.StartLine != 5 || len(r.RelatedLocations) != 1 {
		t.Errorf("first result = %+v", r)
	}
	if run.Results[1].Level != "warning" || len(run.Results[1].Locations) != 0 {
		t.Errorf("second result = %+v", run.Results[1])
	}
}
