package vignette

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestParamsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{
			name: "in range untouched",
			in:   Params{Coverage: 0.5, Time: 3, EdgeSoftness: 0.03, BoundaryThickness: 0.08, WobbleStrength: 0.045, WobbleFrequency: 8, WobbleSpeed: 2},
			want: Params{Coverage: 0.5, Time: 3, EdgeSoftness: 0.03, BoundaryThickness: 0.08, WobbleStrength: 0.045, WobbleFrequency: 8, WobbleSpeed: 2},
		},
		{
			name: "coverage clamped low",
			in:   Params{Coverage: -2, EdgeSoftness: 0.02},
			want: Params{Coverage: 0, EdgeSoftness: 0.02},
		},
		{
			name: "coverage clamped high",
			in:   Params{Coverage: 1.5, EdgeSoftness: 0.02},
			want: Params{Coverage: 1, EdgeSoftness: 0.02},
		},
		{
			name: "softness floored",
			in:   Params{EdgeSoftness: 0.001},
			want: Params{EdgeSoftness: 0.01},
		},
		{
			name: "negative softness floored",
			in:   Params{EdgeSoftness: -1},
			want: Params{EdgeSoftness: 0.01},
		},
		{
			name: "negative thickness floored",
			in:   Params{EdgeSoftness: 0.05, BoundaryThickness: -0.3},
			want: Params{EdgeSoftness: 0.05, BoundaryThickness: 0},
		},
		{
			name: "time passes through",
			in:   Params{Time: -42, EdgeSoftness: 0.05},
			want: Params{Time: -42, EdgeSoftness: 0.05},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamped(); got != tt.want {
				t.Errorf("Clamped() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParamsPackLayout(t *testing.T) {
	p := Params{
		Coverage:          0.5,
		Time:              3.25,
		EdgeSoftness:      0.03,
		BoundaryThickness: 0.08,
		WobbleStrength:    0.045,
		WobbleFrequency:   8,
		WobbleSpeed:       2,
	}
	buf := p.Pack()
	if len(buf) != ParamsUniformSize {
		t.Fatalf("packed size = %d, want %d", len(buf), ParamsUniformSize)
	}

	field := func(i int) float64 {
		bits := binary.LittleEndian.Uint32(buf[i*4:])
		return float64(math.Float32frombits(bits))
	}
	want := []float64{0.5, 3.25, 0.03, 0.08, 0.045, 8, 2, 0}
	for i, w := range want {
		if got := field(i); math.Abs(got-w) > 1e-6 {
			t.Errorf("field %d = %g, want %g", i, got, w)
		}
	}
}

func TestParamsPackClampsFirst(t *testing.T) {
	p := Params{Coverage: 7, EdgeSoftness: -1, BoundaryThickness: -1}
	buf := p.Pack()

	coverage := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))
	softness := math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))
	thickness := math.Float32frombits(binary.LittleEndian.Uint32(buf[12:]))

	if coverage != 1 {
		t.Errorf("packed coverage = %g, want 1", coverage)
	}
	if softness != 0.01 {
		t.Errorf("packed softness = %g, want 0.01", softness)
	}
	if thickness != 0 {
		t.Errorf("packed thickness = %g, want 0", thickness)
	}
}
