package timespec

import "testing"

func TestSub(t *testing.T) {
	tests := []struct {
		name string
		t1   Timespec
		t2   Timespec
		want Timespec
	}{
		{"same instant is zero", Timespec{5, 100}, Timespec{5, 100}, Timespec{0, 0}},
		{"whole seconds", Timespec{10, 0}, Timespec{11, 0}, Timespec{1, 0}},
		{"no borrow needed", Timespec{5, 200_000_000}, Timespec{6, 800_000_000}, Timespec{1, 600_000_000}},
		{"positive borrow", Timespec{5, 800_000_000}, Timespec{6, 200_000_000}, Timespec{0, 400_000_000}},
		{"negative borrow", Timespec{6, 200_000_000}, Timespec{5, 800_000_000}, Timespec{0, -400_000_000}},
		{"fully negative", Timespec{6, 800_000_000}, Timespec{5, 200_000_000}, Timespec{-1, -600_000_000}},
		{"sub-second positive", Timespec{0, 100}, Timespec{0, 300}, Timespec{0, 200}},
		{"sub-second negative", Timespec{0, 300}, Timespec{0, 100}, Timespec{0, -200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sub(tt.t1, tt.t2)
			if got != tt.want {
				t.Errorf("Sub(%v, %v) = %v, want %v", tt.t1, tt.t2, got, tt.want)
			}
		})
	}
}

func TestSubSameInstantIsZero(t *testing.T) {
	instants := []Timespec{
		{0, 0},
		{1, 999_999_999},
		{123456, 42},
	}
	for _, ts := range instants {
		if got := Sub(ts, ts); !got.IsZero() {
			t.Errorf("Sub(%v, %v) = %v, want zero", ts, ts, got)
		}
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name string
		t1   Timespec
		t2   Timespec
		want Timespec
	}{
		{"zero identity", Timespec{3, 500_000_000}, Timespec{0, 0}, Timespec{3, 500_000_000}},
		{"no carry", Timespec{1, 100_000_000}, Timespec{2, 200_000_000}, Timespec{3, 300_000_000}},
		{"positive carry", Timespec{0, 900_000_000}, Timespec{0, 200_000_000}, Timespec{1, 100_000_000}},
		{"carry to exact second", Timespec{0, 500_000_000}, Timespec{0, 500_000_000}, Timespec{1, 0}},
		{"negative carry", Timespec{0, -900_000_000}, Timespec{0, -200_000_000}, Timespec{-1, -100_000_000}},
		{"opposite signs, no carry", Timespec{1, 0}, Timespec{0, -300_000_000}, Timespec{1, -300_000_000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Add(tt.t1, tt.t2)
			if got != tt.want {
				t.Errorf("Add(%v, %v) = %v, want %v", tt.t1, tt.t2, got, tt.want)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name       string
		ts         Timespec
		wantSec    float64
		wantMillis int64
		wantMicros int64
		wantNanos  int64
	}{
		{"one second", Timespec{1, 0}, 1.0, 1000, 1_000_000, 1_000_000_000},
		{"half second", Timespec{0, 500_000_000}, 0.5, 500, 500_000, 500_000_000},
		{"truncates, never rounds", Timespec{0, 999_999_999}, 0.999999999, 999, 999_999, 999_999_999},
		{"zero", Timespec{0, 0}, 0, 0, 0, 0},
		{"negative", Timespec{-1, -500_000_000}, -1.5, -1500, -1_500_000, -1_500_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ts.Seconds(); got != tt.wantSec {
				t.Errorf("Seconds() = %v, want %v", got, tt.wantSec)
			}
			if got := tt.ts.Millis(); got != tt.wantMillis {
				t.Errorf("Millis() = %v, want %v", got, tt.wantMillis)
			}
			if got := tt.ts.Micros(); got != tt.wantMicros {
				t.Errorf("Micros() = %v, want %v", got, tt.wantMicros)
			}
			if got := tt.ts.Nanos(); got != tt.wantNanos {
				t.Errorf("Nanos() = %v, want %v", got, tt.wantNanos)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	if !(Timespec{}).IsZero() {
		t.Error("zero value should report IsZero")
	}
	if (Timespec{0, 1}).IsZero() {
		t.Error("{0,1} should not report IsZero")
	}
	if (Timespec{1, 0}).IsZero() {
		t.Error("{1,0} should not report IsZero")
	}
}
