package errors

import (
	"testing"
)

func TestValidateDirection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid left", "left", false},
		{"valid right", "right", false},
		{"valid up", "up", false},
		{"valid down", "down", false},
		{"valid uppercase", "LEFT", false},

		{"empty", "", true},
		{"diagonal", "up-left", true},
		{"typo", "rigth", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOrientation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid horizontal", "horizontal", false},
		{"valid vertical", "vertical", false},
		{"valid tabbed", "tabbed", false},
		{"valid stacked", "stacked", false},
		{"valid mixed case", "Horizontal", false},

		{"empty", "", true},
		{"abbreviation", "horiz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrientation(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOrientation(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGridDims(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"valid 1x1", 1, 1, false},
		{"valid 3x3", 3, 3, false},
		{"valid max", 32, 32, false},

		{"zero width", 0, 3, true},
		{"negative height", 3, -1, true},
		{"too wide", 33, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGridDims(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGridDims(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSurfaceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "editor", false},
		{"valid with dash", "web-browser", false},
		{"valid with space", "music player", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSurfaceName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSurfaceName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRatio(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid half", "0.5", false},
		{"valid bare decimal", ".25", false},
		{"valid long fraction", "0.333333", false},

		{"empty", "", true},
		{"one", "1.0", true},
		{"integer", "2", true},
		{"negative", "-0.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRatio(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRatio(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
