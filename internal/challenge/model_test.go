package challenge

import (
	"testing"
	"time"
)

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  string
	}{
		{"0712345678", "0712345XXX678"},
		{"071234", "071XXX"},
		{"07", "07XXX"},
	}
	for _, tc := range cases {
		if got := MaskPhone(tc.phone); got != tc.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", tc.phone, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		first, second string
		want          string
	}{
		{"Wanjiku", "Kamau", "Wanjiku K."},
		{"Wanjiku", "", "Wan***"},
		{"Al", "", "Al***"},
		{"", "", "Winner"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.first, tc.second); got != tc.want {
			t.Errorf("DisplayName(%q, %q) = %q, want %q", tc.first, tc.second, got, tc.want)
		}
	}
}

func TestIsRunning(t *testing.T) {
	now := time.Now()
	c := &Challenge{
		Status:    StatusActive,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}
	if !c.IsRunning(now) {
		t.Error("challenge inside its window not running")
	}

	c.Status = StatusUpcoming
	if c.IsRunning(now) {
		t.Error("upcoming challenge reported running")
	}

	c.Status = StatusActive
	if c.IsRunning(now.Add(2 * time.Hour)) {
		t.Error("challenge past its end date reported running")
	}
}
