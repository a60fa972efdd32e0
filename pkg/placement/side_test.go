package placement

import "testing"

func TestParseSide(t *testing.T) {
	tests := []struct {
		in     string
		want   Side
		wantOK bool
	}{
		{"top", Top, true},
		{"bottom", Bottom, true},
		{" Right ", Right, true},
		{"LEFT", Left, true},
		{"", Top, false},
		{"diagonal", Top, false},
	}
	for _, tt := range tests {
		got, ok := ParseSide(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseSide(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSideText(t *testing.T) {
	for _, s := range FallbackOrder {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var back Side
		if err := back.UnmarshalText(b); err != nil || back != s {
			t.Errorf("UnmarshalText(%q) = %v, %v", b, back, err)
		}
	}

	if _, err := Side(9).MarshalText(); err == nil {
		t.Error("MarshalText(Side(9)) should fail")
	}
	var s Side
	if err := s.UnmarshalText([]byte("middle")); err == nil {
		t.Error("UnmarshalText(middle) should fail")
	}
}

func TestClassesSide(t *testing.T) {
	if got := DefaultClasses.Side(Left); got != "usa-tooltip__body--left" {
		t.Errorf("Side(Left) = %q", got)
	}
	if got := Side(7).String(); got != "Side(7)" {
		t.Errorf("String() = %q", got)
	}
}
