package sim

import "math/rand/v2"

// RandomProposal draws a proposal of dimension dim with every entry uniform
// in [-upper, upper). A nil rng uses the process-wide source.
func RandomProposal(rng *rand.Rand, dim int, upper float64) []float64 {
	draw := rand.Float64
	if rng != nil {
		draw = rng.Float64
	}
	out := make([]float64, dim)
	for i := range out {
		out[i] = -upper + 2*upper*draw()
	}
	return out
}
