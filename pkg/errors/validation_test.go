package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateViewport(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"default", 1100, 720, false},
		{"one pixel", 1, 1, false},
		{"max", MaxViewportSide, MaxViewportSide, false},

		{"zero width", 0, 720, true},
		{"zero height", 1100, 0, true},
		{"negative", -1, -1, true},
		{"too wide", MaxViewportSide + 1, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateViewport(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateViewport(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidViewport) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidViewport)
			}
		})
	}
}

func TestValidateCamera(t *testing.T) {
	tests := []struct {
		name                  string
		yaw, pitch, dist, fov float64
		wantErr               bool
	}{
		{"default", 0.6, 0.18, 7.2, 1.05, false},
		{"out of range pitch is clamped later", 0, 5, 100, 1, false},

		{"zero fov", 0, 0, 5, 0, true},
		{"fov pi", 0, 0, 5, math.Pi, true},
		{"nan yaw", math.NaN(), 0, 5, 1, true},
		{"inf dist", 0, 0, math.Inf(1), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCamera(tt.yaw, tt.pitch, tt.dist, tt.fov)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCamera() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		limit   int
		wantErr bool
	}{
		{140, false},
		{1, false},
		{MaxLimit, false},
		{0, true},
		{-5, true},
		{MaxLimit + 1, true},
	}

	for _, tt := range tests {
		err := ValidateLimit(tt.limit)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLimit(%d) error = %v, wantErr %v", tt.limit, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"absolute", "/home/user", false},
		{"relative", "docs", false},
		{"dot", ".", false},
		{"root", "/", false},
		{"unicode", "/home/ünïcode/文件", false},

		{"empty", "", true},
		{"too long", "/" + strings.Repeat("a", MaxPathLength), true},
		{"null byte", "/tmp/\x00x", true},
		{"newline", "/tmp/a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	supported := []string{"svg", "png", "json", "dot"}
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"single", []string{"svg"}, false},
		{"several", []string{"svg", "png", "json"}, false},
		{"case insensitive", []string{"SVG"}, false},

		{"none", nil, true},
		{"unknown", []string{"pdf"}, true},
		{"one unknown", []string{"svg", "gif"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormats(tt.input, supported)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidFormat {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
			}
		})
	}
}
