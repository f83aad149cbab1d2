package smoketest

import (
	"context"
	"fmt"
	"log"
)

// verifyOutcomes checks every successful response against the API's
// promised invariants: rank ordering, composite monotonicity, request
// constraint containment, and the result-count bound.
func verifyOutcomes(ctx context.Context, outcomes []Outcome, stats *Stats) error {
	log.Println("verifying responses...")

	checked := 0
	for i := range outcomes {
		o := &outcomes[i]
		if o.Response == nil {
			continue
		}
		checked++

		if err := verifySingleOutcome(o); err != nil {
			stats.InvariantFailures++
			log.Printf("invariant failure on request %d: %v", i, err)
		}
	}

	if checked == 0 {
		return fmt.Errorf("no successful responses to verify")
	}

	log.Printf("verified %d responses, %d invariant failures", checked, stats.InvariantFailures)
	return nil
}

// verifySingleOutcome checks one request/response pair.
func verifySingleOutcome(o *Outcome) error {
	req, resp := o.Request, o.Response

	if len(resp.Recommendations) > req.ResultCount {
		return fmt.Errorf("got %d recommendations, requested %d", len(resp.Recommendations), req.ResultCount)
	}
	if len(resp.Recommendations) < req.ResultCount && !resp.Shortfall {
		return fmt.Errorf("short result set without a shortfall annotation")
	}

	seen := make(map[string]bool, len(resp.Recommendations))
	for i, rec := range resp.Recommendations {
		if rec.Rank != i+1 {
			return fmt.Errorf("rank %d at position %d", rec.Rank, i)
		}
		if i > 0 && rec.Composite > resp.Recommendations[i-1].Composite {
			return fmt.Errorf("composite increases at rank %d", rec.Rank)
		}
		if seen[rec.ID] {
			return fmt.Errorf("duplicate build %s", rec.ID)
		}
		seen[rec.ID] = true

		if req.BudgetLimit > 0 && rec.Cost > req.BudgetLimit {
			return fmt.Errorf("rank %d cost %d exceeds budget %d", rec.Rank, rec.Cost, req.BudgetLimit)
		}
		if req.MinDPS > 0 && rec.DPS < req.MinDPS {
			return fmt.Errorf("rank %d dps %d below minimum %d", rec.Rank, rec.DPS, req.MinDPS)
		}
		if req.MaxSupportCount > 0 && len(rec.Supports) > req.MaxSupportCount {
			return fmt.Errorf("rank %d carries %d supports, cap is %d", rec.Rank, len(rec.Supports), req.MaxSupportCount)
		}
		if req.PreferredClass != "" && rec.Class != req.PreferredClass {
			return fmt.Errorf("rank %d class %s, requested %s", rec.Rank, rec.Class, req.PreferredClass)
		}
	}

	return nil
}

// verifyReplays re-submits a sample of seeded requests and checks that
// the service returns byte-for-byte identical rankings. The seed echo in
// the response makes every request replayable.
func verifyReplays(ctx context.Context, config *Config, outcomes []Outcome, stats *Stats) {
	log.Println("verifying seeded replays...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/recommend"

	for i := range outcomes {
		if stats.ReplayChecks >= ReplaySampleSize {
			break
		}
		o := &outcomes[i]
		if o.Response == nil || o.Request.Seed == 0 {
			continue
		}

		replayed := submitSingleRequest(ctx, client, url, o.Request)
		if replayed.Response == nil {
			stats.ReplayFailures++
			log.Printf("replay of request %d failed: %s", i, replayed.Error)
			continue
		}

		stats.ReplayChecks++
		if !sameRankings(o.Response, replayed.Response) {
			stats.ReplayFailures++
			log.Printf("replay of request %d diverged from the original run", i)
		}
	}

	log.Printf("replay checks: %d, failures: %d", stats.ReplayChecks, stats.ReplayFailures)
}

// sameRankings reports whether two responses rank the same builds in the
// same order.
func sameRankings(a, b *Response) bool {
	if len(a.Recommendations) != len(b.Recommendations) {
		return false
	}
	for i := range a.Recommendations {
		if a.Recommendations[i].ID != b.Recommendations[i].ID {
			return false
		}
	}
	return true
}
