package variate

import (
	"math"
	"math/rand"
	"testing"
)

func TestConstantSampler_ReturnsExactValue(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewSampler(Spec{Type: "constant", Params: map[string]float64{"value": 3.5}})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		if v := s.Sample(rng); v != 3.5 {
			t.Fatalf("sample %d: got %f, want 3.5", i, v)
		}
	}
}

func TestUniformSampler_StaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewSampler(Spec{Type: "uniform", Params: map[string]float64{"low": 2, "high": 6}})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10000; i++ {
		v := s.Sample(rng)
		if v < 2 || v > 6 {
			t.Errorf("sample %d: %f outside [2, 6]", i, v)
			break
		}
	}
}

func TestExponentialSampler_MeanMatchesParam(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewSampler(Spec{Type: "exponential", Params: map[string]float64{"mean": 4}})
	if err != nil {
		t.Fatal(err)
	}
	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.Sample(rng)
	}
	mean := sum / float64(n)
	if math.Abs(mean-4)/4 > 0.05 {
		t.Errorf("exponential mean = %.3f, want ≈ 4 (within 5%%)", mean)
	}
}

func TestNormalSampler_NegativeDrawsClampToZero(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewSampler(Spec{Type: "normal", Params: map[string]float64{"mean": -5, "std_dev": 1}})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 1000; i++ {
		if v := s.Sample(rng); v != 0 {
			t.Fatalf("sample %d: got %f, want 0 for a distribution far below zero", i, v)
		}
	}
}

func TestGammaSampler_MeanMatchesShapeTimesScale(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewSampler(Spec{Type: "gamma", Params: map[string]float64{"shape": 2, "scale": 3}})
	if err != nil {
		t.Fatal(err)
	}
	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		v := s.Sample(rng)
		if v < 0 {
			t.Fatalf("sample %d: negative gamma draw %f", i, v)
		}
		sum += v
	}
	mean := sum / float64(n)
	if math.Abs(mean-6)/6 > 0.05 {
		t.Errorf("gamma mean = %.3f, want ≈ 6 (within 5%%)", mean)
	}
}

func TestGammaSampler_ShapeBelowOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewSampler(Spec{Type: "gamma", Params: map[string]float64{"shape": 0.5, "scale": 2}})
	if err != nil {
		t.Fatal(err)
	}
	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.Sample(rng)
	}
	mean := sum / float64(n)
	if math.Abs(mean-1)/1 > 0.05 {
		t.Errorf("gamma(0.5, 2) mean = %.3f, want ≈ 1 (within 5%%)", mean)
	}
}

func TestWeibullSampler_AlwaysNonnegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewSampler(Spec{Type: "weibull", Params: map[string]float64{"shape": 1.5, "scale": 2}})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10000; i++ {
		if v := s.Sample(rng); v < 0 {
			t.Errorf("sample %d: negative weibull draw %f", i, v)
			break
		}
	}
}

func TestTriangularSampler_StaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewSampler(Spec{Type: "triangular", Params: map[string]float64{"low": 1, "mode": 2, "high": 5}})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10000; i++ {
		v := s.Sample(rng)
		if v < 1 || v > 5 {
			t.Errorf("sample %d: %f outside [1, 5]", i, v)
			break
		}
	}
}

func TestTriangularSampler_MeanMatchesParams(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, err := NewSampler(Spec{Type: "triangular", Params: map[string]float64{"low": 0, "mode": 3, "high": 6}})
	if err != nil {
		t.Fatal(err)
	}
	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.Sample(rng)
	}
	mean := sum / float64(n)
	// Triangular mean = (low + mode + high) / 3
	if math.Abs(mean-3)/3 > 0.05 {
		t.Errorf("triangular mean = %.3f, want ≈ 3 (within 5%%)", mean)
	}
}

func TestNewSampler_UnknownType_ReturnsError(t *testing.T) {
	_, err := NewSampler(Spec{Type: "poisson"})
	if err == nil {
		t.Fatal("expected error for unknown distribution type")
	}
}

func TestNewSampler_MissingParam_ReturnsError(t *testing.T) {
	_, err := NewSampler(Spec{Type: "exponential", Params: map[string]float64{}})
	if err == nil {
		t.Fatal("expected error for missing mean parameter")
	}
}

func TestNewSampler_RejectsBadRanges(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
	}{
		{"negative constant", Spec{Type: "constant", Params: map[string]float64{"value": -1}}},
		{"uniform low above high", Spec{Type: "uniform", Params: map[string]float64{"low": 5, "high": 2}}},
		{"zero exponential mean", Spec{Type: "exponential", Params: map[string]float64{"mean": 0}}},
		{"negative std_dev", Spec{Type: "normal", Params: map[string]float64{"mean": 1, "std_dev": -2}}},
		{"zero gamma shape", Spec{Type: "gamma", Params: map[string]float64{"shape": 0, "scale": 1}}},
		{"zero weibull scale", Spec{Type: "weibull", Params: map[string]float64{"shape": 1, "scale": 0}}},
		{"triangular mode below low", Spec{Type: "triangular", Params: map[string]float64{"low": 3, "mode": 1, "high": 5}}},
		{"non-finite parameter", Spec{Type: "constant", Params: map[string]float64{"value": math.Inf(1)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSampler(tc.spec); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}
