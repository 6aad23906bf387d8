package ids

import "testing"

func TestAllocatorCountsPerKind(t *testing.T) {
	a := NewAllocator()
	got := []ID{
		a.Next(KindModule),
		a.Next(KindNet),
		a.Next(KindNet),
		a.Next(KindModule),
		a.Next(KindEndpoint),
	}
	want := []ID{"m1", "n1", "n2", "m2", "e1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("id[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if a.Count(KindNet) != 2 || a.Count(KindDevice) != 0 {
		t.Fatalf("counts: net=%d device=%d", a.Count(KindNet), a.Count(KindDevice))
	}
}

func TestFreshAllocatorsAgree(t *testing.T) {
	a, b := NewAllocator(), NewAllocator()
	for range 5 {
		if x, y := a.Next(KindInstance), b.Next(KindInstance); x != y {
			t.Fatalf("allocators diverged: %q vs %q", x, y)
		}
	}
}

func TestLessIsNumeric(t *testing.T) {
	if !Less("n2", "n10") {
		t.Fatalf("n2 should sort before n10")
	}
	if Less("n1", "m5") {
		t.Fatalf("kinds sort before numbers")
	}
	if ID("i42").Seq() != 42 || ID("i42").Kind() != KindInstance {
		t.Fatalf("bad decode of i42")
	}
}
