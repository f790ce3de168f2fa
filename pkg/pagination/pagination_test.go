package pagination

import "testing"

func TestParsePage(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: 1},
		{in: " 3 ", want: 3},
		{in: "0", wantErr: true},
		{in: "-2", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParsePage(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParsePage(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePage(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePage(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNumPages(t *testing.T) {
	if got := NumPages(0, 20); got != 1 {
		t.Fatalf("expected 1 page for empty set, got %d", got)
	}
	if got := NumPages(20, 20); got != 1 {
		t.Fatalf("expected 1 page, got %d", got)
	}
	if got := NumPages(21, 20); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
	if got := NumPages(250, 0); got != 3 {
		t.Fatalf("expected default per page to give 3 pages, got %d", got)
	}
}

func TestParamsOffsetAndResolve(t *testing.T) {
	p := Params{Page: 3, PerPage: 20}
	if p.Offset() != 40 {
		t.Fatalf("expected offset 40, got %d", p.Offset())
	}

	page, err := p.Resolve(41)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if page.NumPages != 3 || page.Number != 3 || page.HasMore() {
		t.Fatalf("unexpected page %+v", page)
	}

	if _, err := p.Resolve(40); err == nil {
		t.Fatal("expected out of range page to fail")
	}
}

func TestParamsNormalizeDefaults(t *testing.T) {
	p := Params{}.Normalize()
	if p.Page != 1 || p.PerPage != DefaultPerPage {
		t.Fatalf("unexpected defaults %+v", p)
	}
}
