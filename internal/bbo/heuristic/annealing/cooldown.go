package annealing

import (
	"fmt"
	"math"
)

// Cooldown computes the temperature at a given iteration from an initial
// temperature and a decay coefficient alpha.
type Cooldown func(initialTemp, alpha float64, iteration int) float64

// Exponential implements T(k) = T0 * alpha^k, the original's exponential
// cooldown, valid for alpha in (0, 1).
func Exponential(initialTemp, alpha float64, iteration int) float64 {
	return initialTemp * math.Pow(alpha, float64(iteration))
}

// Logarithmic implements T(k) = T0 / (1 + alpha * log(1+k)), valid for
// alpha > 1.
func Logarithmic(initialTemp, alpha float64, iteration int) float64 {
	return initialTemp / (1 + alpha*math.Log(1+float64(iteration)))
}

// Multiplicative implements T(k) = T0 / (1 + alpha * k), valid for alpha > 1.
func Multiplicative(initialTemp, alpha float64, iteration int) float64 {
	return initialTemp / (1 + alpha*float64(iteration))
}

// ValidateAlpha enforces the original's per-schedule validity assertions:
// exponential requires alpha < 1, logarithmic and multiplicative require
// alpha > 1.
func ValidateAlpha(name string, alpha float64) error {
	switch name {
	case "exponential":
		if !(alpha < 1) {
			return fmt.Errorf("bbo/annealing: exponential cooldown requires alpha < 1, got %v", alpha)
		}
	case "logarithmic", "multiplicative":
		if !(alpha > 1) {
			return fmt.Errorf("bbo/annealing: %s cooldown requires alpha > 1, got %v", name, alpha)
		}
	default:
		return fmt.Errorf("bbo/annealing: unknown cooldown schedule %q", name)
	}
	return nil
}

// CooldownByName resolves a Cooldown function by configuration name,
// validating alpha against the schedule's constraint first.
func CooldownByName(name string, alpha float64) (Cooldown, error) {
	if err := ValidateAlpha(name, alpha); err != nil {
		return nil, err
	}
	switch name {
	case "exponential":
		return Exponential, nil
	case "logarithmic":
		return Logarithmic, nil
	case "multiplicative":
		return Multiplicative, nil
	default:
		return nil, fmt.Errorf("bbo/annealing: unknown cooldown schedule %q", name)
	}
}
