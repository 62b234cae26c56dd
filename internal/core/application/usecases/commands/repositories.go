// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// CoverageRepoFactory provides access to the coverage repository within a transaction.
	CoverageRepoFactory interface {
		CoverageRepository() ports.CoverageRepository
	}

	// DeliveryRepoFactory provides access to the delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// CandidateRepoFactory provides access to the candidate repository within a transaction.
	CandidateRepoFactory interface {
		CandidateRepository() ports.CandidateRepository
	}

	// AvailabilityRepoFactory provides access to the availability repository within a transaction.
	AvailabilityRepoFactory interface {
		AvailabilityRepository() ports.AvailabilityRepository
	}

	// PODRepoFactory provides access to the proof of delivery repository within a transaction.
	PODRepoFactory interface {
		PODRepository() ports.PODRepository
	}

	// EventRepoFactory provides access to the event log within a transaction.
	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	// CoverageUoW manages transactions for coverage-only operations.
	CoverageUoW interface {
		TxManager
		CoverageRepoFactory
	}

	// CoverageUoWFactory creates new coverage unit of work instances.
	CoverageUoWFactory interface {
		Create() CoverageUoW
	}

	// DeliveryUoW manages transactions for operations touching only the
	// delivery aggregate and its event log.
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
		EventRepoFactory
	}

	// DeliveryUoWFactory creates new delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// AvailabilityUoW manages transactions for availability updates.
	// Includes the delivery repository for reconciling stale busy records.
	AvailabilityUoW interface {
		TxManager
		AvailabilityRepoFactory
		DeliveryRepoFactory
	}

	// AvailabilityUoWFactory creates new availability unit of work instances.
	AvailabilityUoWFactory interface {
		Create() AvailabilityUoW
	}

	// LifecycleUoW manages transactions for courier-driven stage progression.
	// Covers the delivery aggregate, its proof of delivery, the event log, and
	// the courier's availability release on completion.
	LifecycleUoW interface {
		TxManager
		DeliveryRepoFactory
		PODRepoFactory
		EventRepoFactory
		AvailabilityRepoFactory
	}

	// LifecycleUoWFactory creates new lifecycle unit of work instances.
	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	// PODUoW manages transactions for proof of delivery operations that run
	// outside stage progression, such as OTP re-issue and verification.
	PODUoW interface {
		TxManager
		PODRepoFactory
		DeliveryRepoFactory
		EventRepoFactory
	}

	// PODUoWFactory creates new proof of delivery unit of work instances.
	PODUoWFactory interface {
		Create() PODUoW
	}

	// UoW manages transactions across every aggregate. Used by matching and
	// response handling, which coordinate deliveries, coverages, candidates,
	// and availability in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   deliveryRepo := uow.DeliveryRepository()
	//   candidateRepo := uow.CandidateRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		CoverageRepoFactory
		DeliveryRepoFactory
		CandidateRepoFactory
		AvailabilityRepoFactory
		PODRepoFactory
		EventRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
