package pptx

import (
	"errors"
	"strings"
	"testing"
)

func TestTiers_SizeFor(t *testing.T) {
	t.Parallel()

	tiers := DefaultTiers()
	tests := []struct {
		name  string
		runes int
		want  float64
	}{
		{name: "empty", runes: 0, want: 16},
		{name: "at medium threshold", runes: 300, want: 16},
		{name: "just over medium threshold", runes: 301, want: 14},
		{name: "at small threshold", runes: 500, want: 14},
		{name: "just over small threshold", runes: 501, want: 12},
		{name: "long", runes: 5000, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body := strings.Repeat("가", tt.runes)
			if got := tiers.SizeFor(body); got != tt.want {
				t.Errorf("SizeFor(%d runes) = %v, want %v", tt.runes, got, tt.want)
			}
		})
	}
}

func TestTiers_SizeForCountsRunesNotBytes(t *testing.T) {
	t.Parallel()

	// 200 Hangul syllables are 600 bytes but stay in the large tier.
	if got := DefaultTiers().SizeFor(strings.Repeat("한", 200)); got != 16 {
		t.Errorf("SizeFor() = %v, want 16", got)
	}
}

func TestTiers_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tiers   Tiers
		wantErr bool
	}{
		{name: "defaults", tiers: DefaultTiers()},
		{name: "thresholds equal", tiers: Tiers{MediumAbove: 300, SmallAbove: 300, Large: 16, Medium: 14, Small: 12}, wantErr: true},
		{name: "zero threshold", tiers: Tiers{SmallAbove: 300, Large: 16, Medium: 14, Small: 12}, wantErr: true},
		{name: "sizes increasing", tiers: Tiers{MediumAbove: 300, SmallAbove: 500, Large: 12, Medium: 14, Small: 16}, wantErr: true},
		{name: "zero size", tiers: Tiers{MediumAbove: 300, SmallAbove: 500, Large: 16, Medium: 14}, wantErr: true},
		{name: "flat sizes", tiers: Tiers{MediumAbove: 100, SmallAbove: 200, Large: 14, Medium: 14, Small: 14}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.tiers.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidTiers) {
				t.Errorf("error = %v, want ErrInvalidTiers", err)
			}
		})
	}
}

func TestLayoutByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    Layout
		wantErr bool
	}{
		{name: "", want: LayoutStandard},
		{name: "4:3", want: LayoutStandard},
		{name: "A4", want: LayoutA4},
		{name: " a4 ", want: LayoutA4},
		{name: "16:9", wantErr: true},
	}

	for _, tt := range tests {
		got, err := LayoutByName(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownLayout) {
				t.Errorf("LayoutByName(%q) error = %v, want ErrUnknownLayout", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("LayoutByName(%q) = %+v, %v; want %+v", tt.name, got, err, tt.want)
		}
	}
}

func TestToEMU(t *testing.T) {
	t.Parallel()

	if got := toEMU(10); got != 9144000 {
		t.Errorf("toEMU(10) = %d, want 9144000", got)
	}
	if got := toEMU(7.5); got != 6858000 {
		t.Errorf("toEMU(7.5) = %d, want 6858000", got)
	}
	if got := LayoutA4.emuX(1); got != 10689336 {
		t.Errorf("A4 width = %d EMU, want 10689336", got)
	}
}
