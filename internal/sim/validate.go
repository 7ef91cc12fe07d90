package sim

import (
	"math"
	"time"

	"tradesim/internal/errors"
	"tradesim/internal/schema"
)

func positiveCount(name string, n int) error {
	if n <= 0 {
		return errors.InvalidArgument("%s must be > 0, got %d", name, n)
	}
	return nil
}

func positiveDuration(name string, d time.Duration) error {
	if d <= 0 {
		return errors.InvalidArgument("%s must be > 0, got %s", name, d)
	}
	return nil
}

func positiveFinite(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return errors.InvalidArgument("%s must be a positive finite number, got %v", name, v)
	}
	return nil
}

func uniqueNames(kind string, names []string) error {
	if len(names) == 0 {
		return errors.InvalidArgument("%s list must not be empty", kind)
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return errors.InvalidArgument("%s name must not be empty", kind)
		}
		if _, ok := seen[name]; ok {
			return errors.InvalidArgument("duplicate %s %q", kind, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func validateRequests(requests []schema.StrategyRequest) ([]string, error) {
	names := make([]string, len(requests))
	for i, req := range requests {
		if err := positiveFinite("amount of "+req.Name, req.Amount); err != nil {
			return nil, err
		}
		names[i] = req.Name
	}
	if err := uniqueNames("strategy", names); err != nil {
		return nil, err
	}
	return names, nil
}

func finiteSeries(name string, values []float64, allowNegative bool) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.InvalidArgument("%s[%d] is not finite", name, i)
		}
		if !allowNegative && v < 0 {
			return errors.InvalidArgument("%s[%d] must not be negative, got %v", name, i, v)
		}
	}
	return nil
}
