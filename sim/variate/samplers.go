package variate

import (
	"fmt"
	"math"
	"math/rand"
)

// Sampler draws values from one configured distribution.
type Sampler interface {
	// Sample returns a nonnegative real value.
	Sample(rng *rand.Rand) float64
}

// ConstantSampler always returns the same value.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(rng *rand.Rand) float64 {
	return s.value
}

// UniformSampler draws uniformly from [low, high].
type UniformSampler struct {
	low, high float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return s.low + rng.Float64()*(s.high-s.low)
}

// ExponentialSampler draws exponentially-distributed values.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * s.mean
}

// NormalSampler draws Gaussian values clamped at zero.
// Durations and inter-arrival gaps are nonnegative, so the left tail folds to 0.
type NormalSampler struct {
	mean, stdDev float64
}

func (s *NormalSampler) Sample(rng *rand.Rand) float64 {
	val := rng.NormFloat64()*s.stdDev + s.mean
	if val < 0 {
		return 0
	}
	return val
}

// LogNormalSampler draws values whose logarithm is Gaussian.
type LogNormalSampler struct {
	mu, sigma float64
}

func (s *LogNormalSampler) Sample(rng *rand.Rand) float64 {
	val := math.Exp(s.mu + s.sigma*rng.NormFloat64())
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0
	}
	return val
}

// GammaSampler draws Gamma(shape, scale) values.
// Implemented using Marsaglia-Tsang's method for shape >= 1,
// with transformation for shape < 1.
type GammaSampler struct {
	shape, scale float64
}

func (s *GammaSampler) Sample(rng *rand.Rand) float64 {
	return gammaRand(rng, s.shape, s.scale)
}

// gammaRand samples from Gamma(shape, scale) using Marsaglia-Tsang's method.
// For shape >= 1: direct method.
// For shape < 1: Gamma(shape) = Gamma(shape+1) * U^(1/shape).
func gammaRand(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		// Ahrens-Dieter: Gamma(a) = Gamma(a+1) * U^(1/a)
		u := rng.Float64()
		return gammaRand(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	// Marsaglia-Tsang for shape >= 1
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)

	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()

		// Squeeze test
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// WeibullSampler draws Weibull(shape, scale) values.
type WeibullSampler struct {
	shape, scale float64
}

func (s *WeibullSampler) Sample(rng *rand.Rand) float64 {
	// Inverse CDF: scale * (-ln(U))^(1/shape)
	u := rng.Float64()
	if u == 0 {
		u = math.SmallestNonzeroFloat64 // prevent -ln(0) = +Inf
	}
	return s.scale * math.Pow(-math.Log(u), 1.0/s.shape)
}

// TriangularSampler draws from a triangular distribution on [low, high]
// with the given mode, via the inverse CDF.
type TriangularSampler struct {
	low, mode, high float64
}

func (s *TriangularSampler) Sample(rng *rand.Rand) float64 {
	if s.high == s.low {
		return s.low
	}
	u := rng.Float64()
	fc := (s.mode - s.low) / (s.high - s.low)
	if u < fc {
		return s.low + math.Sqrt(u*(s.high-s.low)*(s.mode-s.low))
	}
	return s.high - math.Sqrt((1.0-u)*(s.high-s.low)*(s.high-s.mode))
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewSampler creates a Sampler from a Spec, checking parameter presence
// and ranges. The same checks back Validate, so a spec that passed
// configuration-time validation always constructs.
func NewSampler(spec Spec) (Sampler, error) {
	for name, val := range spec.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("parameter %q must be a finite number, got %f", name, val)
		}
	}

	switch spec.Type {
	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		if v := spec.Params["value"]; v < 0 {
			return nil, fmt.Errorf("constant value must be nonnegative, got %f", v)
		}
		return &ConstantSampler{value: spec.Params["value"]}, nil

	case "uniform":
		if err := requireParam(spec.Params, "low", "high"); err != nil {
			return nil, err
		}
		low, high := spec.Params["low"], spec.Params["high"]
		if low < 0 || high < low {
			return nil, fmt.Errorf("uniform requires 0 <= low <= high, got low=%f high=%f", low, high)
		}
		return &UniformSampler{low: low, high: high}, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		if m := spec.Params["mean"]; m <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %f", m)
		}
		return &ExponentialSampler{mean: spec.Params["mean"]}, nil

	case "normal":
		if err := requireParam(spec.Params, "mean", "std_dev"); err != nil {
			return nil, err
		}
		if sd := spec.Params["std_dev"]; sd < 0 {
			return nil, fmt.Errorf("normal std_dev must be nonnegative, got %f", sd)
		}
		return &NormalSampler{mean: spec.Params["mean"], stdDev: spec.Params["std_dev"]}, nil

	case "lognormal":
		if err := requireParam(spec.Params, "mu", "sigma"); err != nil {
			return nil, err
		}
		if sg := spec.Params["sigma"]; sg < 0 {
			return nil, fmt.Errorf("lognormal sigma must be nonnegative, got %f", sg)
		}
		return &LogNormalSampler{mu: spec.Params["mu"], sigma: spec.Params["sigma"]}, nil

	case "gamma":
		if err := requireParam(spec.Params, "shape", "scale"); err != nil {
			return nil, err
		}
		shape, scale := spec.Params["shape"], spec.Params["scale"]
		if shape <= 0 || scale <= 0 {
			return nil, fmt.Errorf("gamma requires positive shape and scale, got shape=%f scale=%f", shape, scale)
		}
		return &GammaSampler{shape: shape, scale: scale}, nil

	case "weibull":
		if err := requireParam(spec.Params, "shape", "scale"); err != nil {
			return nil, err
		}
		shape, scale := spec.Params["shape"], spec.Params["scale"]
		if shape <= 0 || scale <= 0 {
			return nil, fmt.Errorf("weibull requires positive shape and scale, got shape=%f scale=%f", shape, scale)
		}
		return &WeibullSampler{shape: shape, scale: scale}, nil

	case "triangular":
		if err := requireParam(spec.Params, "low", "mode", "high"); err != nil {
			return nil, err
		}
		low, mode, high := spec.Params["low"], spec.Params["mode"], spec.Params["high"]
		if low < 0 || mode < low || high < mode {
			return nil, fmt.Errorf("triangular requires 0 <= low <= mode <= high, got low=%f mode=%f high=%f", low, mode, high)
		}
		return &TriangularSampler{low: low, mode: mode, high: high}, nil

	default:
		return nil, fmt.Errorf("unknown distribution %q; valid: %s", spec.Type, ValidTypes())
	}
}
