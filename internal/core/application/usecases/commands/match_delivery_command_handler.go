package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// eligibilityCap bounds how many eligible coverages one round evaluates
// further. Dense areas can match hundreds of coverages; the nearest twenty
// are kept, ranking more than that buys nothing.
const eligibilityCap = 20

// MatchResult reports the outcome of one matching invocation.
type MatchResult struct {
	Result

	// Attempt is the round the invocation ended on.
	Attempt int

	// NotifiedCouriers is how many couriers were newly notified.
	NotifiedCouriers int
}

// MatchDeliveryCommandHandler drives matching rounds for a delivery.
// Each round collects eligible coverages, filters by courier availability,
// prices and ranks the prospects, and persists the notified candidates. A
// round that produces nobody to notify starts the next round within the same
// call until the attempt budget runs out, at which point the delivery is
// marked unassignable. The whole run is one transaction; notifications go
// out only after it commits.
type MatchDeliveryCommandHandler struct {
	uowFactory UoWFactory
	matcher    matcher
}

// NewMatchDeliveryCommandHandler creates a handler for matching rounds.
func NewMatchDeliveryCommandHandler(
	uowFactory UoWFactory,
	pricing ports.PricingLookup,
	notifier ports.NotificationDispatch,
) MatchDeliveryCommandHandler {
	return MatchDeliveryCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher{pricing: pricing, notifier: notifier},
	}
}

// Handle runs matching for the delivery until couriers are notified or the
// attempt budget is exhausted.
func (h MatchDeliveryCommandHandler) Handle(ctx context.Context, cmd MatchDeliveryCommand) (MatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return MatchResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return MatchResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return MatchResult{Result: FailedResult(CodeNotFound, "delivery not found")}, nil
	}
	if err != nil {
		return MatchResult{}, err
	}

	outcome, err := h.matcher.runRounds(ctx, uow, d)
	if err != nil {
		return MatchResult{}, err
	}
	if !outcome.committable() {
		return outcome.result, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return MatchResult{}, err
	}

	h.matcher.announce(ctx, d.ID(), outcome)
	return outcome.result, nil
}

// matcher is the matching round logic shared by the matching and rejection
// handlers. It never commits; callers own the transaction and call announce
// after it commits.
type matcher struct {
	pricing  ports.PricingLookup
	notifier ports.NotificationDispatch
}

// roundOutcome carries a finished run's result together with the
// notifications owed once the enclosing transaction commits.
type roundOutcome struct {
	result       MatchResult
	notified     []kernel.UUID
	unassignable bool
	fromStatus   delivery.Status
}

// committable reports whether the run wrote state worth committing. Domain
// rejections before any write are not.
func (o roundOutcome) committable() bool {
	return o.result.Success || o.unassignable
}

// runRounds advances the delivery through matching rounds until one notifies
// at least one courier or the attempt budget runs out. An empty round burns
// its attempt and the next round starts immediately, so a single run on a
// delivery nobody can serve terminates in unassignable with the counter at
// the budget.
func (m matcher) runRounds(ctx context.Context, uow UoW, d *delivery.Delivery) (roundOutcome, error) {
	deliveryRepo := uow.DeliveryRepository()

	for {
		attempt := d.MatchingAttempts() + 1
		err := d.StartMatching(attempt)
		if errors.Is(err, delivery.ErrMatchingAttemptsExhausted) {
			return m.markUnassignable(ctx, uow, d)
		}
		if err != nil {
			if result, ok := resultFromDomainError(err); ok {
				return roundOutcome{result: MatchResult{Result: result, Attempt: d.MatchingAttempts()}}, nil
			}
			return roundOutcome{}, err
		}

		if err = deliveryRepo.Update(ctx, d); err != nil {
			return roundOutcome{}, err
		}

		prospects, err := m.collectProspects(ctx, uow, d)
		if err != nil {
			return roundOutcome{}, err
		}

		ranked := services.NewCandidateRanker().Rank(prospects, services.TopCandidates)
		if len(ranked) == 0 {
			continue
		}

		notified, err := m.persistCandidates(ctx, uow, d, ranked, attempt)
		if err != nil {
			return roundOutcome{}, err
		}

		return roundOutcome{
			result: MatchResult{
				Result:           OKResult(fmt.Sprintf("round %d notified %d couriers", attempt, len(notified))),
				Attempt:          attempt,
				NotifiedCouriers: len(notified),
			},
			notified: notified,
		}, nil
	}
}

// announce sends the notifications owed by a committed run. Safe on a
// zero-value outcome.
func (m matcher) announce(ctx context.Context, deliveryID kernel.UUID, outcome roundOutcome) {
	for _, courierID := range outcome.notified {
		m.notifier.CandidateNotified(ctx, courierID, deliveryID, outcome.result.Attempt)
	}
	if outcome.unassignable {
		m.notifier.StatusChanged(ctx, deliveryID, outcome.fromStatus, delivery.StatusUnassignable)
	}
}

// collectProspects gathers eligible, notifiable, priced couriers for the
// round. Eligible coverages are ordered by distance from the pickup before
// the evaluation cap applies, so a dense area never crowds out the nearest
// couriers.
func (m matcher) collectProspects(
	ctx context.Context,
	uow UoW,
	d *delivery.Delivery,
) ([]services.Prospect, error) {
	coverages, err := uow.CoverageRepository().GetAllActiveByRole(ctx, coverage.OwnerRoleCourier)
	if err != nil {
		return nil, err
	}

	type eligible struct {
		courierID  kernel.UUID
		kind       coverage.Eligibility
		distanceKm float64
	}

	eligibles := make([]eligible, 0, len(coverages))
	for _, cov := range coverages {
		kind, distanceKm, err := cov.EligibilityFor(d.Pickup(), d.Drop())
		if err != nil {
			return nil, err
		}
		if kind == coverage.NotEligible {
			continue
		}

		eligibles = append(eligibles, eligible{
			courierID:  cov.OwnerID(),
			kind:       kind,
			distanceKm: distanceKm,
		})
	}
	if len(eligibles) == 0 {
		return nil, nil
	}

	sort.Slice(eligibles, func(i, j int) bool {
		return eligibles[i].distanceKm < eligibles[j].distanceKm
	})
	if len(eligibles) > eligibilityCap {
		eligibles = eligibles[:eligibilityCap]
	}

	courierIDs := make([]kernel.UUID, 0, len(eligibles))
	for _, e := range eligibles {
		courierIDs = append(courierIDs, e.courierID)
	}

	// Availability is advisory: a failed lookup or a missing record keeps
	// the courier in the round.
	notifiable := map[string]bool{}
	records, err := uow.AvailabilityRepository().GetByCouriers(ctx, courierIDs)
	if err == nil {
		for _, record := range records {
			notifiable[record.CourierID().String()] = record.IsNotifiable()
		}
	}

	routeKm, err := d.Pickup().DistanceKm(d.Drop())
	if err != nil {
		return nil, err
	}

	prospects := make([]services.Prospect, 0, len(eligibles))
	for _, e := range eligibles {
		if known, ok := notifiable[e.courierID.String()]; ok && !known {
			continue
		}

		price := d.EstimatedPrice()
		rating := 0.0
		if snapshot, err := m.pricing.GetPricing(ctx, e.courierID); err == nil {
			price = snapshot.BaseFare.Add(snapshot.PerKmRate.Mul(decimal.NewFromFloat(routeKm)))
			rating = snapshot.Rating
		}

		prospects = append(prospects, services.Prospect{
			CourierID:      e.courierID,
			Eligibility:    e.kind,
			DistanceKm:     e.distanceKm,
			Rating:         rating,
			EstimatedPrice: price,
		})
	}

	return prospects, nil
}

// persistCandidates stores the round's candidates and the audit event.
// Returns the couriers that were newly inserted, skipping ones already
// notified by an earlier run of the same round.
func (m matcher) persistCandidates(
	ctx context.Context,
	uow UoW,
	d *delivery.Delivery,
	ranked []services.RankedProspect,
	attempt int,
) ([]kernel.UUID, error) {
	candidateRepo := uow.CandidateRepository()

	notified := make([]kernel.UUID, 0, len(ranked))
	candidateIDs := make([]string, 0, len(ranked))
	for _, prospect := range ranked {
		candidate, err := delivery.NewCandidate(d.ID(), prospect.CourierID, attempt)
		if err != nil {
			return nil, err
		}

		inserted, err := candidateRepo.AddIfAbsent(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if inserted {
			notified = append(notified, prospect.CourierID)
		}
		candidateIDs = append(candidateIDs, prospect.CourierID.String())
	}

	event, err := delivery.NewEvent(
		d.ID(),
		delivery.EventMatched,
		delivery.StatusMatching,
		delivery.StatusMatching,
		nil,
		map[string]any{
			"attempt":    attempt,
			"candidates": candidateIDs,
		},
	)
	if err != nil {
		return nil, err
	}
	if err = uow.EventRepository().Append(ctx, event); err != nil {
		return nil, err
	}

	return notified, nil
}

// markUnassignable finalizes a delivery whose attempt budget ran out.
func (m matcher) markUnassignable(
	ctx context.Context,
	uow UoW,
	d *delivery.Delivery,
) (roundOutcome, error) {
	from := d.Status()
	if err := d.MarkUnassignable(); err != nil {
		if result, ok := resultFromDomainError(err); ok {
			return roundOutcome{result: MatchResult{Result: result, Attempt: d.MatchingAttempts()}}, nil
		}
		return roundOutcome{}, err
	}

	if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
		return roundOutcome{}, err
	}

	event, err := delivery.NewEvent(
		d.ID(),
		delivery.EventUnassignable,
		from,
		delivery.StatusUnassignable,
		nil,
		nil,
	)
	if err != nil {
		return roundOutcome{}, err
	}
	if err = uow.EventRepository().Append(ctx, event); err != nil {
		return roundOutcome{}, err
	}

	return roundOutcome{
		result: MatchResult{
			Result:  FailedResult(CodeUnassignable, "matching attempts exhausted"),
			Attempt: d.MatchingAttempts(),
		},
		unassignable: true,
		fromStatus:   from,
	}, nil
}
