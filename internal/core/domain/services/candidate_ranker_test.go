package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prospect(distanceKm, rating float64, price int64) services.Prospect {
	return services.Prospect{
		CourierID:      kernel.NewUUID(),
		Eligibility:    coverage.BothEnds,
		DistanceKm:     distanceKm,
		Rating:         rating,
		EstimatedPrice: decimal.NewFromInt(price),
	}
}

func TestCandidateRanker_Rank_LowerScoreWins(t *testing.T) {
	ranker := services.NewCandidateRanker()

	cheapCloseGood := prospect(1, 5, 100)
	expensiveFarPoor := prospect(9, 2, 300)

	ranked := ranker.Rank([]services.Prospect{expensiveFarPoor, cheapCloseGood}, services.TopCandidates)

	require.Len(t, ranked, 2)
	assert.True(t, ranked[0].CourierID.IsEqual(cheapCloseGood.CourierID))
	assert.Less(t, ranked[0].Score, ranked[1].Score)
}

func TestCandidateRanker_Rank_ScoreFormula(t *testing.T) {
	ranker := services.NewCandidateRanker()

	// Single prospect: price normalizes to 1.
	p := prospect(5, 4, 200)
	ranked := ranker.Rank([]services.Prospect{p}, 1)

	require.Len(t, ranked, 1)
	// 0.4*1 + 0.3*(5-4) + 0.2*(5/10) = 0.4 + 0.3 + 0.1 = 0.8
	assert.InDelta(t, 0.8, ranked[0].Score, 1e-9)
}

func TestCandidateRanker_Rank_CapsAtTop(t *testing.T) {
	ranker := services.NewCandidateRanker()

	prospects := make([]services.Prospect, 0, 8)
	for i := range 8 {
		prospects = append(prospects, prospect(float64(i), 4, 100))
	}

	ranked := ranker.Rank(prospects, services.TopCandidates)
	assert.Len(t, ranked, services.TopCandidates)
}

func TestCandidateRanker_Rank_TiesPreserveInputOrder(t *testing.T) {
	ranker := services.NewCandidateRanker()

	first := prospect(3, 4, 150)
	second := prospect(3, 4, 150)

	ranked := ranker.Rank([]services.Prospect{first, second}, 2)

	require.Len(t, ranked, 2)
	assert.True(t, ranked[0].CourierID.IsEqual(first.CourierID))
	assert.True(t, ranked[1].CourierID.IsEqual(second.CourierID))
}

func TestCandidateRanker_Rank_ZeroPricesDoNotPanic(t *testing.T) {
	ranker := services.NewCandidateRanker()

	a := prospect(2, 5, 0)
	b := prospect(4, 5, 0)

	ranked := ranker.Rank([]services.Prospect{a, b}, 2)

	require.Len(t, ranked, 2)
	// With prices zeroed only the distance term differentiates.
	assert.True(t, ranked[0].CourierID.IsEqual(a.CourierID))
}

func TestCandidateRanker_Rank_EmptyInput(t *testing.T) {
	ranker := services.NewCandidateRanker()
	assert.Empty(t, ranker.Rank(nil, services.TopCandidates))
	assert.Empty(t, ranker.Rank([]services.Prospect{prospect(1, 5, 100)}, 0))
}
