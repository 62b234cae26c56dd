package services

import (
	"sort"

	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// TopCandidates is how many ranked couriers are notified per matching round.
const TopCandidates = 5

// Scoring weights. Lower total score ranks better. The completion-rate term
// is reserved for a later iteration and currently contributes zero.
const (
	priceWeight          = 0.4
	ratingWeight         = 0.3
	distanceWeight       = 0.2
	completionRateWeight = 0.1
)

// Prospect carries the scoring inputs for one eligible courier.
type Prospect struct {
	// CourierID identifies the courier owning the eligible coverage.
	CourierID kernel.UUID

	// Eligibility is how the coverage satisfied the containment rule.
	Eligibility coverage.Eligibility

	// DistanceKm is the distance from the coverage center to the pickup.
	DistanceKm float64

	// Rating is the courier's average rating on a 0..5 scale.
	Rating float64

	// EstimatedPrice is the courier's price for this delivery.
	EstimatedPrice decimal.Decimal
}

// RankedProspect is a Prospect with its computed score.
type RankedProspect struct {
	Prospect
	Score float64
}

// CandidateRanker is a domain service that orders eligible couriers by a
// weighted score of price, rating, and distance from the pickup point.
//
// Scoring (lower is better):
//
//	score = 0.4*normalizedPrice + 0.3*(5 - rating) + 0.2*(distanceKm/10)
//
// where normalizedPrice is the courier's price divided by the highest price
// among the prospects of the same round. Ties preserve input order, keeping
// the ranking deterministic for equal inputs.
type CandidateRanker struct{}

// NewCandidateRanker creates a new CandidateRanker instance.
func NewCandidateRanker() CandidateRanker {
	return CandidateRanker{}
}

// Rank scores the prospects and returns the best ones, capped at top.
// A non-positive cap returns an empty slice.
func (r CandidateRanker) Rank(prospects []Prospect, top int) []RankedProspect {
	if top <= 0 || len(prospects) == 0 {
		return []RankedProspect{}
	}

	maxPrice := maxEstimatedPrice(prospects)

	ranked := make([]RankedProspect, 0, len(prospects))
	for _, p := range prospects {
		ranked = append(ranked, RankedProspect{
			Prospect: p,
			Score:    r.score(p, maxPrice),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})

	if len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

// score computes the weighted score for one prospect.
func (r CandidateRanker) score(p Prospect, maxPrice decimal.Decimal) float64 {
	normalizedPrice := 0.0
	if maxPrice.IsPositive() {
		normalizedPrice, _ = p.EstimatedPrice.Div(maxPrice).Float64()
	}

	const completionRate = 0.0

	return priceWeight*normalizedPrice +
		ratingWeight*(5-p.Rating) +
		distanceWeight*(p.DistanceKm/10) +
		completionRateWeight*completionRate
}

// maxEstimatedPrice finds the highest price among the prospects, used as the
// normalization base.
func maxEstimatedPrice(prospects []Prospect) decimal.Decimal {
	maxPrice := decimal.Zero
	for _, p := range prospects {
		if p.EstimatedPrice.GreaterThan(maxPrice) {
			maxPrice = p.EstimatedPrice
		}
	}
	return maxPrice
}
