package sampler

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/swdee/go-struck/geom"
)

func TestRadialSamplesSize(t *testing.T) {
	centre := geom.NewRect(40.5, 30.25, 20.0, 10.0)

	tests := []struct {
		radius   float64
		nRadial  int
		nAngular int
	}{
		{60, 5, 16},
		{10, 1, 1},
		{7.5, 3, 8},
		{0, 2, 4},
	}

	for _, tc := range tests {
		samples := RadialSamples(centre, tc.radius, tc.nRadial, tc.nAngular)

		if len(samples) != 1+tc.nRadial*tc.nAngular {
			t.Errorf("expected %d samples, got %d", 1+tc.nRadial*tc.nAngular, len(samples))
		}

		if samples[0] != centre {
			t.Errorf("expected first sample %+v, got %+v", centre, samples[0])
		}

		for _, s := range samples {
			if s.W != centre.W || s.H != centre.H {
				t.Fatalf("sample %+v changed size", s)
			}
		}
	}
}

func TestRadialSamplesGeometry(t *testing.T) {
	centre := geom.NewRect(0.0, 0.0, 10.0, 10.0)
	samples := RadialSamples(centre, 20, 2, 4)

	// ring 1 is odd so carries a 45 degree phase, ring 2 starts at 0
	step := 10.0
	want := []geom.FloatRect{centre}

	for it := 0; it < 4; it++ {
		a := float64(it)*math.Pi/2 + math.Pi/4
		want = append(want, geom.NewRect(step*math.Cos(a), step*math.Sin(a), 10, 10))
	}

	for it := 0; it < 4; it++ {
		a := float64(it) * math.Pi / 2
		want = append(want, geom.NewRect(2*step*math.Cos(a), 2*step*math.Sin(a), 10, 10))
	}

	approx := cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })

	if diff := cmp.Diff(want, samples, approx); diff != "" {
		t.Errorf("RadialSamples mismatch (-want +got):\n%s", diff)
	}
}

func TestPixelSamplesDisk(t *testing.T) {
	centre := geom.NewRect(50.0, 60.0, 20.0, 20.0)

	for _, radius := range []int{0, 1, 3, 5, 30} {
		samples := PixelSamples(centre, radius, false)

		if samples[0] != centre {
			t.Fatalf("expected first sample %+v, got %+v", centre, samples[0])
		}

		seen := make(map[geom.FloatRect]bool)
		count := 0

		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy <= radius*radius {
					count++
				}
			}
		}

		if len(samples) != count {
			t.Errorf("radius %d expected %d samples, got %d", radius, count, len(samples))
		}

		for _, s := range samples {
			dx := s.X - centre.X
			dy := s.Y - centre.Y

			if dx*dx+dy*dy > float64(radius*radius) {
				t.Errorf("sample %+v outside radius %d", s, radius)
			}

			if seen[s] {
				t.Errorf("duplicate sample %+v", s)
			}
			seen[s] = true
		}
	}
}

func TestPixelSamplesOrder(t *testing.T) {
	centre := geom.NewRect(10.0, 10.0, 4.0, 4.0)
	samples := PixelSamples(centre, 1, false)

	want := []geom.FloatRect{
		centre,
		geom.NewRect(10.0, 9.0, 4.0, 4.0),
		geom.NewRect(9.0, 10.0, 4.0, 4.0),
		geom.NewRect(11.0, 10.0, 4.0, 4.0),
		geom.NewRect(10.0, 11.0, 4.0, 4.0),
	}

	if diff := cmp.Diff(want, samples); diff != "" {
		t.Errorf("PixelSamples order mismatch (-want +got):\n%s", diff)
	}
}

func TestPixelSamplesSnapsCentre(t *testing.T) {
	centre := geom.NewRect(10.7, 20.2, 15.9, 8.4)
	samples := PixelSamples(centre, 2, false)

	want := geom.NewRect(10.0, 20.0, 15.0, 8.0)

	if samples[0] != want {
		t.Errorf("expected snapped centre %+v, got %+v", want, samples[0])
	}
}

func TestPixelSamplesHalfIsSubset(t *testing.T) {
	centre := geom.NewRect(100.0, 100.0, 30.0, 30.0)

	for _, radius := range []int{1, 4, 7, 30} {
		full := PixelSamples(centre, radius, false)
		half := PixelSamples(centre, radius, true)

		if half[0] != centre {
			t.Errorf("expected half sampled first element %+v, got %+v", centre, half[0])
		}

		index := make(map[geom.FloatRect]int, len(full))
		for i, s := range full {
			index[s] = i
		}

		last := -1
		for _, s := range half {
			i, ok := index[s]
			if !ok {
				t.Fatalf("half sample %+v not in full output", s)
			}
			if i <= last {
				t.Fatalf("half samples out of enumeration order at %+v", s)
			}
			last = i

			dx := int(s.X - centre.X)
			dy := int(s.Y - centre.Y)
			if dx%2 != 0 || dy%2 != 0 {
				t.Errorf("half sample %+v has odd offset", s)
			}
		}

		if radius > 1 && len(half) >= len(full) {
			t.Errorf("radius %d half sampling did not reduce count (%d vs %d)", radius, len(half), len(full))
		}
	}
}

func TestInside(t *testing.T) {
	bounds := geom.NewRect(0.0, 0.0, 100.0, 100.0)
	samples := []geom.FloatRect{
		geom.NewRect(-5.0, 0.0, 10.0, 10.0),
		geom.NewRect(0.0, 0.0, 10.0, 10.0),
		geom.NewRect(95.0, 0.0, 10.0, 10.0),
		geom.NewRect(90.0, 90.0, 10.0, 10.0),
	}

	got := Inside(samples, bounds, false)
	want := []geom.FloatRect{samples[1], samples[3]}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inside mismatch (-want +got):\n%s", diff)
	}

	got = Inside(samples, bounds, true)
	want = []geom.FloatRect{samples[0], samples[1], samples[3]}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inside keepFirst mismatch (-want +got):\n%s", diff)
	}
}
