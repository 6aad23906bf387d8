package document_test

import (
	"testing"

	"netc/internal/diag"
	"netc/internal/document"
	"netc/internal/source"
	"netc/internal/testkit"
)

func TestSpansCoverTextWithCRLF(t *testing.T) {
	text := "modules:\r\n  inv:\r\n    instances:\r\n      'MP<0,1>': pfet\r\n    nets:\r\n      $out: [\"!MP<0,1>.D\"]\r\n"
	fs := source.NewFileSet()
	var c diag.Collector
	doc := document.DecodeBytes(fs, "inv.yaml", []byte(text), &c)
	if len(c.Items) != 0 {
		t.Fatalf("diags: %v", c.Items)
	}
	if err := testkit.CheckDocumentSpans(doc, fs.Get(doc.File)); err != nil {
		t.Fatal(err)
	}
}
