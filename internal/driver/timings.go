package driver

import (
	"encoding/json"
	"fmt"

	"netc/internal/diag"
	"netc/internal/observ"
	"netc/internal/source"
)

type timingPayload struct {
	Kind     string               `json:"kind"`
	CacheHit bool                 `json:"cache_hit,omitempty"`
	TotalMS  float64              `json:"total_ms"`
	Stages   []observ.StageReport `json:"stages"`
}

// appendTimingDiagnostic adds an OBS info diagnostic whose note carries the
// report as JSON. It bypasses the bag limit.
func appendTimingDiagnostic(bag *diag.Bag, report observ.Report, cacheHit bool) {
	if bag == nil {
		return
	}
	data, err := json.Marshal(timingPayload{
		Kind:     "elaborate",
		CacheHit: cacheHit,
		TotalMS:  report.TotalMS,
		Stages:   report.Stages,
	})
	if err != nil {
		return
	}
	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  fmt.Sprintf("timings (elaborate): total %.2f ms", report.TotalMS),
		Primary:  source.NoSpan,
		Notes:    []diag.Note{{Span: source.NoSpan, Msg: string(data)}},
	}
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
