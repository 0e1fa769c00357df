package geom

import (
	"math"
	"testing"
)

func TestNormalizeAngle_CanonicalRange(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{181, -179},
		{-181, 179},
		{360, 0},
		{540, 180},
		{-540, 180},
		{725, 5},
		{-725, -5},
	}
	for _, c := range cases {
		got := NormalizeAngle(c.in)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeAngle_Idempotent(t *testing.T) {
	for a := -1080.0; a <= 1080; a += 7.25 {
		n := NormalizeAngle(a)
		if n <= -180 || n > 180 {
			t.Fatalf("NormalizeAngle(%v) = %v out of (-180, 180]", a, n)
		}
		if NormalizeAngle(n) != n {
			t.Fatalf("NormalizeAngle not idempotent for %v: %v -> %v", a, n, NormalizeAngle(n))
		}
	}
}

func TestNormalizeAngle_NonFinite(t *testing.T) {
	if NormalizeAngle(math.NaN()) != 0 {
		t.Fatal("NaN should normalize to 0")
	}
	if NormalizeAngle(math.Inf(1)) != 0 {
		t.Fatal("+Inf should normalize to 0")
	}
}

func TestInArc_Wraparound(t *testing.T) {
	// 179 and -179 are 2 degrees apart across the seam.
	if !InArc(-179, 10, 179) {
		t.Fatal("bearing 179 should be inside a 10 degree arc centred on -179")
	}
	if !InArc(179, 10, -179) {
		t.Fatal("bearing -179 should be inside a 10 degree arc centred on 179")
	}
	if InArc(0, 10, 179) {
		t.Fatal("bearing 179 should be outside a 10 degree arc centred on 0")
	}
}

func TestInArc_Edge(t *testing.T) {
	if !InArc(90, 60, 120) {
		t.Fatal("edge of arc should be inclusive")
	}
	if InArc(90, 60, 120.001) {
		t.Fatal("just past the edge should be excluded")
	}
}

func TestAngularDifference_Signed(t *testing.T) {
	if d := AngularDifference(170, -170); math.Abs(d-20) > 1e-9 {
		t.Fatalf("expected +20 across seam, got %v", d)
	}
	if d := AngularDifference(-170, 170); math.Abs(d+20) > 1e-9 {
		t.Fatalf("expected -20 across seam, got %v", d)
	}
	if d := AbsAngularDifference(10, 350); math.Abs(d-20) > 1e-9 {
		t.Fatalf("expected 20, got %v", d)
	}
}

func TestBearingTo(t *testing.T) {
	cases := []struct {
		px, py, want float64
	}{
		{10, 0, 0},
		{0, 10, 90},
		{-10, 0, 180},
		{0, -10, -90},
	}
	for _, c := range cases {
		if got := BearingTo(0, 0, c.px, c.py); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("BearingTo(0,0,%v,%v) = %v, want %v", c.px, c.py, got, c.want)
		}
	}
}

func TestDistanceTo(t *testing.T) {
	if d := DistanceTo(1, 1, 4, 5); math.Abs(d-5) > 1e-9 {
		t.Fatalf("expected 5, got %v", d)
	}
}

func TestRotateToward_SnapsWithinOneStep(t *testing.T) {
	got := RotateToward(0, 2.5, 3)
	if got != 2.5 {
		t.Fatalf("expected exact snap to 2.5, got %v", got)
	}
}

func TestRotateToward_StepsShortWay(t *testing.T) {
	got := RotateToward(170, -170, 5)
	if math.Abs(got-175) > 1e-9 {
		t.Fatalf("expected 175 (short way across seam), got %v", got)
	}
	got = RotateToward(0, -90, 5)
	if math.Abs(got+5) > 1e-9 {
		t.Fatalf("expected -5, got %v", got)
	}
}

func TestRotateToward_NoOvershootOverManySteps(t *testing.T) {
	h := 0.0
	for i := 0; i < 100; i++ {
		h = RotateToward(h, 100, 3)
	}
	if h != 100 {
		t.Fatalf("expected to settle exactly on 100, got %v", h)
	}
}

func TestPolar(t *testing.T) {
	x, y := Polar(90, 10)
	if math.Abs(x) > 1e-9 || math.Abs(y-10) > 1e-9 {
		t.Fatalf("Polar(90,10) = (%v,%v), want (0,10)", x, y)
	}
}

func TestClamp01(t *testing.T) {
	if Clamp01(-1) != 0 || Clamp01(2) != 1 || Clamp01(0.3) != 0.3 || Clamp01(math.NaN()) != 0 {
		t.Fatal("Clamp01 out of contract")
	}
}
