package smoketest

import (
	"context"
	"math/rand"

	"github.com/okian/metaforge/pkg/logger"
)

// Request shape constants.
const (
	minResultCount = 1
	maxResultCount = 20

	budgetChance  = 3 // one in N requests carries a budget limit
	minDPSChance  = 4
	classChance   = 3
	capChance     = 4
	seededChance  = 2
	maxBudget     = 200
	maxMinDPS     = 5000
	minSupportCap = 3
	maxSupportCap = 6
)

var innovationLevels = []string{"", "conservative", "balanced", "experimental"}

// generateRequests creates a varied mix of recommendation requests. The
// mix leans on optional fields being absent most of the time, the way
// real traffic looks, with a sprinkle of every constraint combination.
func generateRequests(ctx context.Context, config *Config, classes []string, stats *Stats) []Request {
	logger.Get().Info(ctx, "generating recommendation requests",
		logger.Int("numRequests", config.NumRequests),
		logger.Any("seed", config.Seed))

	rng := rand.New(rand.NewSource(config.Seed))
	requests := make([]Request, config.NumRequests)

	for i := range requests {
		req := Request{
			ResultCount:     minResultCount + rng.Intn(maxResultCount-minResultCount+1),
			InnovationLevel: innovationLevels[rng.Intn(len(innovationLevels))],
		}

		if rng.Intn(budgetChance) == 0 {
			req.BudgetLimit = 1 + rng.Intn(maxBudget)
		}
		if rng.Intn(minDPSChance) == 0 {
			req.MinDPS = rng.Intn(maxMinDPS)
		}
		if len(classes) > 0 && rng.Intn(classChance) == 0 {
			req.PreferredClass = classes[rng.Intn(len(classes))]
		}
		if rng.Intn(capChance) == 0 {
			req.MaxSupportCount = minSupportCap + rng.Intn(maxSupportCap-minSupportCap+1)
		}
		if rng.Intn(seededChance) == 0 {
			req.Seed = rng.Int63()
		}

		requests[i] = req
	}

	stats.RequestsGenerated = len(requests)
	logger.Get().Info(ctx, "generated requests successfully", logger.Int("count", len(requests)))
	return requests
}
