package wide

import "testing"

func TestQuadF32(t *testing.T) {
	// Plane 2x + 3y + 1 at quad origin (10, 20).
	q := QuadF32(2, 3, 1, 10, 20)
	want := F32x4{81, 83, 84, 86}
	if q != want {
		t.Errorf("QuadF32 = %v, want %v", q, want)
	}
}

func TestF32x4Arithmetic(t *testing.T) {
	a := F32x4{1, 2, 3, 4}
	b := F32x4{4, 3, 2, 1}

	if got := a.Add(b); got != (F32x4{5, 5, 5, 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (F32x4{-3, -1, 1, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(b); got != (F32x4{4, 6, 6, 4}) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Scale(2); got != (F32x4{2, 4, 6, 8}) {
		t.Errorf("Scale = %v", got)
	}
}

func TestF32x4Rcp(t *testing.T) {
	got := F32x4{2, 4, 0, 0.5}.Rcp()
	want := F32x4{0.5, 0.25, 0, 2}
	if got != want {
		t.Errorf("Rcp = %v, want %v", got, want)
	}
}

func TestI32x4CmpGTSignMask(t *testing.T) {
	x := I32x4{5, 6, 5, 6}
	left := SplatI32(5)
	right := SplatI32(7)

	// Covered where x > left and right > x: lanes 1 and 3.
	inside := x.CmpGT(left).And(right.CmpGT(x))
	if got := inside.SignMask(); got != 0b1010 {
		t.Errorf("coverage mask = %04b, want 1010", got)
	}
}

func TestSignMaskAllLanes(t *testing.T) {
	if got := (I32x4{-1, -1, -1, -1}).SignMask(); got != 0b1111 {
		t.Errorf("full mask = %04b", got)
	}
	if got := (I32x4{0, 0, 0, 0}).SignMask(); got != 0 {
		t.Errorf("empty mask = %04b", got)
	}
}

func TestU16x16AvgRound(t *testing.T) {
	tests := []struct {
		a, b, want uint16
	}{
		{0, 0, 0},
		{1, 2, 2},     // rounds up
		{2, 2, 2},
		{65535, 65535, 65535}, // no overflow
		{65535, 0, 32768},
		{100, 101, 101},
	}
	for _, tt := range tests {
		a := SplatU16(tt.a)
		b := SplatU16(tt.b)
		got := a.AvgRound(b)
		for i := range got {
			if got[i] != tt.want {
				t.Errorf("AvgRound(%d, %d)[%d] = %d, want %d", tt.a, tt.b, i, got[i], tt.want)
				break
			}
		}
	}
}
