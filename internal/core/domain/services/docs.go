// Package services provides domain services that implement business logic
// spanning multiple aggregates in the dispatch system.
//
// The package includes:
//   - CandidateRanker: scores and orders eligible couriers for a matching round
//
// Domain services coordinate between aggregates, implementing workflows that
// don't naturally belong to a single aggregate root.
package services
