package geom

import "testing"

func TestLengthString(t *testing.T) {
	tests := []struct {
		length Length
		want   string
	}{
		{Px(5), "5px"},
		{Px(-5), "-5px"},
		{Px(0), "0px"},
		{Px(-0.0), "0px"},
		{Px(12.5), "12.5px"},
		{Pct(50), "50%"},
		{Length{}, ""},
	}

	for _, tt := range tests {
		if got := tt.length.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.length, got, tt.want)
		}
	}
}

func TestLengthResolve(t *testing.T) {
	if got := Pct(50).Resolve(200); got != 100 {
		t.Errorf("Pct(50).Resolve(200) = %v, want 100", got)
	}
	if got := Px(-5).Resolve(200); got != -5 {
		t.Errorf("Px(-5).Resolve(200) = %v, want -5", got)
	}
	if got := (Length{}).Resolve(200); got != 0 {
		t.Errorf("unset Resolve = %v, want 0", got)
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    Length
		wantErr bool
	}{
		{in: "5px", want: Px(5)},
		{in: " -5px ", want: Px(-5)},
		{in: "50%", want: Pct(50)},
		{in: "0", want: Px(0)},
		{in: "", want: Length{}},
		{in: "12", wantErr: true},
		{in: "abcpx", wantErr: true},
		{in: "x%", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLength(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLength(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLength(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInlineStyleCSS(t *testing.T) {
	var s InlineStyle
	if s.CSS() != "" || !s.IsZero() {
		t.Fatalf("zero style should render empty, got %q", s.CSS())
	}

	s.Left = Pct(50)
	s.Top = Px(-5)
	s.SetMargin(EdgeTRBL(-48, 0, 0, -80))

	want := "top: -5px; left: 50%; margin: -48px 0px 0px -80px"
	if got := s.CSS(); got != want {
		t.Errorf("CSS() = %q, want %q", got, want)
	}

	s.Reset()
	if !s.IsZero() {
		t.Errorf("Reset() left properties behind: %q", s.CSS())
	}
}
