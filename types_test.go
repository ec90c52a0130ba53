package mdconv

// Notes:
// - PageSettings: validation for size, orientation, and margin boundaries
// - Dimensions: paper sizes in inches with landscape swap

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPageSettings_Validate - PageSettings Validation
// ---------------------------------------------------------------------------

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ps      *PageSettings
		wantErr error
	}{
		{
			name:    "nil is valid (use defaults)",
			ps:      nil,
			wantErr: nil,
		},
		{
			name:    "defaults are valid",
			ps:      DefaultPageSettings(),
			wantErr: nil,
		},
		{
			name:    "valid a4 landscape",
			ps:      &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape, Margin: 1.0},
			wantErr: nil,
		},
		{
			name:    "valid legal at min margin",
			ps:      &PageSettings{Size: PageSizeLegal, Orientation: OrientationPortrait, Margin: MinMargin},
			wantErr: nil,
		},
		{
			name:    "valid at max margin",
			ps:      &PageSettings{Size: PageSizeLetter, Orientation: OrientationPortrait, Margin: MaxMargin},
			wantErr: nil,
		},
		{
			name:    "case insensitive size and orientation",
			ps:      &PageSettings{Size: "A4", Orientation: "LANDSCAPE", Margin: DefaultMargin},
			wantErr: nil,
		},
		{
			name:    "unknown size",
			ps:      &PageSettings{Size: "tabloid", Orientation: OrientationPortrait, Margin: DefaultMargin},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "empty size",
			ps:      &PageSettings{Orientation: OrientationPortrait, Margin: DefaultMargin},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "unknown orientation",
			ps:      &PageSettings{Size: PageSizeLetter, Orientation: "diagonal", Margin: DefaultMargin},
			wantErr: ErrInvalidOrientation,
		},
		{
			name:    "margin below minimum",
			ps:      &PageSettings{Size: PageSizeLetter, Orientation: OrientationPortrait, Margin: 0.24},
			wantErr: ErrInvalidMargin,
		},
		{
			name:    "margin above maximum",
			ps:      &PageSettings{Size: PageSizeLetter, Orientation: OrientationPortrait, Margin: 3.01},
			wantErr: ErrInvalidMargin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.ps.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPageSettings_Dimensions - Paper Sizes
// ---------------------------------------------------------------------------

func TestPageSettings_Dimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		ps            *PageSettings
		width, height float64
	}{
		{"nil uses letter portrait", nil, 8.5, 11},
		{"letter portrait", &PageSettings{Size: PageSizeLetter, Orientation: OrientationPortrait}, 8.5, 11},
		{"a4 portrait", &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait}, 8.27, 11.69},
		{"legal landscape swaps", &PageSettings{Size: PageSizeLegal, Orientation: OrientationLandscape}, 14, 8.5},
		{"uppercase size", &PageSettings{Size: "A4", Orientation: "Landscape"}, 11.69, 8.27},
		{"unknown size falls back to letter", &PageSettings{Size: "tabloid"}, 8.5, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, h := tt.ps.Dimensions()
			if w != tt.width || h != tt.height {
				t.Errorf("Dimensions() = (%v, %v), want (%v, %v)", w, h, tt.width, tt.height)
			}
		})
	}
}
