package sim

import (
	"context"
	"sync"

	"github.com/san-kum/podsim/internal/lookup"
	"github.com/san-kum/podsim/internal/pod"
)

// Variant is one configuration in a parameter sweep.
type Variant struct {
	Name   string
	Veh    pod.Vehicle
	Brakes pod.Brakes
	Cfg    Config
	Models lookup.Set
}

// Sweep runs independent variants concurrently. Runs share no state, so
// they are embarrassingly parallel; results are returned in variant order.
// The first run error is returned after all runs finish.
func Sweep(ctx context.Context, variants []Variant) ([]*Result, error) {
	results := make([]*Result, len(variants))
	errs := make([]error, len(variants))

	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(idx int, v Variant) {
			defer wg.Done()

			d, err := NewDriver(v.Veh, v.Brakes, v.Cfg, v.Models)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = d.Run(ctx)
		}(i, v)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
