package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"netc/internal/ids"
	"netc/internal/pattern"
)

var partEqual = cmp.Comparer(func(a, b pattern.Part) bool { return a == b })

func sampleProgram() *Program {
	p := NewProgram()
	p.Devices["d1"] = &Device{ID: "d1", Name: "nfet", Ports: []string{"D", "G", "S", "B"},
		Backends: []Backend{{Name: "ngspice", Fields: []Param{{Name: "template", Value: "M{name}"}}}}}
	m := NewModule("m1", "amp")
	m.Ports = []string{"inp"}
	m.Nets["n1"] = &Net{ID: "n1", Name: "inp", Port: true,
		Origin: &PatternOrigin{Expr: "x2", BaseName: "in", Parts: []pattern.Part{pattern.Literal("p")}}}
	m.Instances["i1"] = &Instance{ID: "i1", Name: "M3", Ref: Ref{Kind: RefDevice, ID: "d1", Token: "nfet"},
		Origin: &PatternOrigin{Expr: "x3", BaseName: "M", Parts: []pattern.Part{pattern.Numeric(3)}}}
	m.Endpoints["e1"] = &Endpoint{ID: "e1", Net: "n1", Instance: "i1", Port: "G"}
	p.Modules["m1"] = m
	p.Top = "m1"
	p.EmitOrder = []ids.ID{"m1"}
	return p
}

// wideProgram has enough map entries that runtime map order would show up
// in the encoding.
func wideProgram() *Program {
	p := sampleProgram()
	for i := 2; i <= 12; i++ {
		did := ids.ID(fmt.Sprintf("d%d", i))
		p.Devices[did] = &Device{ID: did, Name: fmt.Sprintf("cell%d", i), Ports: []string{"A"}}
	}
	m := p.Modules["m1"]
	for i := 2; i <= 24; i++ {
		nid := ids.ID(fmt.Sprintf("n%d", i))
		iid := ids.ID(fmt.Sprintf("i%d", i))
		eid := ids.ID(fmt.Sprintf("e%d", i))
		m.Nets[nid] = &Net{ID: nid, Name: fmt.Sprintf("w%d", i)}
		m.Instances[iid] = &Instance{ID: iid, Name: fmt.Sprintf("U%d", i), Ref: Ref{Kind: RefDevice, ID: "d2", Token: "cell2"}}
		m.Endpoints[eid] = &Endpoint{ID: eid, Net: nid, Instance: iid, Port: "A"}
	}
	for i := 2; i <= 6; i++ {
		mid := ids.ID(fmt.Sprintf("m%d", i))
		p.Modules[mid] = NewModule(mid, fmt.Sprintf("sub%d", i))
	}
	return p
}

func TestSnapshotRoundTrip(t *testing.T) {
	want := sampleProgram()
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, want); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(want, got, partEqual); diff != "" {
		t.Fatalf("program (-want +got):\n%s", diff)
	}
	if k := got.Modules["m1"].Instances["i1"].Origin.Parts[0]; k.Kind() != pattern.PartNumeric || k.Num() != 3 {
		t.Fatalf("numeric part lost its tag: %v", k)
	}
}

func TestSnapshotIsDeterministic(t *testing.T) {
	var first bytes.Buffer
	if err := EncodeSnapshot(&first, wideProgram()); err != nil {
		t.Fatal(err)
	}
	for range 20 {
		var again bytes.Buffer
		if err := EncodeSnapshot(&again, wideProgram()); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first.Bytes(), again.Bytes()) {
			t.Fatalf("two encodings of the same program differ")
		}
	}
}

func TestSnapshotRoundTripWideProgram(t *testing.T) {
	want := wideProgram()
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, partEqual); diff != "" {
		t.Fatalf("program (-want +got):\n%s", diff)
	}
	if got.Modules["m6"].Nets == nil {
		t.Fatalf("empty module decoded with nil maps")
	}
}

func TestSnapshotRejectsOtherSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&snapshot{Schema: snapshotSchema + 1, Program: NewProgram()}); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeSnapshot(&buf); !errors.Is(err, ErrSnapshotSchema) {
		t.Fatalf("err = %v, want ErrSnapshotSchema", err)
	}
}

func TestProgramJSONRendersPartsBare(t *testing.T) {
	data, err := json.Marshal(sampleProgram().Modules["m1"].Instances["i1"].Origin)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"expr":"x3","segment":0,"base_name":"M","parts":[3]}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
	var back PatternOrigin
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Parts[0] != pattern.Numeric(3) {
		t.Fatalf("parts = %v", back.Parts)
	}
}

func TestSortedIDsAreNumeric(t *testing.T) {
	m := NewModule("m1", "x")
	for _, id := range []ids.ID{"n10", "n2", "n1"} {
		m.Nets[id] = &Net{ID: id}
	}
	if diff := cmp.Diff([]ids.ID{"n1", "n2", "n10"}, m.NetIDs()); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}
