package screenshot

import "testing"

func TestRegionValid(t *testing.T) {
	cases := []struct {
		region Region
		want   bool
	}{
		{Region{X: 0, Y: 0, Width: 100, Height: 50}, true},
		{Region{Width: 0, Height: 50}, false},
		{Region{Width: 100, Height: 0}, false},
		{Region{Width: -10, Height: 50}, false},
	}
	for _, c := range cases {
		if got := c.region.Valid(); got != c.want {
			t.Errorf("Valid(%+v) = %v, want %v", c.region, got, c.want)
		}
	}
}

func TestCaptureRegionRejectsInvalid(t *testing.T) {
	if _, err := CaptureRegion(Region{Width: 0, Height: 0}); err == nil {
		t.Error("Expected error for zero-size region")
	}
}
