package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/out/notifications"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/pricing"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	pricing    ports.PricingLookup
	notifier   ports.NotificationDispatch
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		pricing:    pricing.NewClient(configs.PricingServiceURL),
		notifier:   notifications.NewSlogDispatcher(logger),
	}
}

// UnitOfWorkFactory exposes the cross-aggregate factory for background jobs.
func (c *CompositionRoot) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return &c.uowFactory
}

func (c *CompositionRoot) CreateSetCoverageCommandHandler() commands.SetCoverageCommandHandler {
	var f commands.CoverageUoWFactory = FuncCoverageUoWFactory(func() commands.CoverageUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetCoverageCommandHandler(f)
}

func (c *CompositionRoot) CreateDeactivateCoverageCommandHandler() commands.DeactivateCoverageCommandHandler {
	var f commands.CoverageUoWFactory = FuncCoverageUoWFactory(func() commands.CoverageUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeactivateCoverageCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateDeliveryCommandHandler(f)
}

func (c *CompositionRoot) CreateMatchDeliveryCommandHandler() commands.MatchDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewMatchDeliveryCommandHandler(f, c.pricing, c.notifier)
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptDeliveryCommandHandler(f, c.pricing, c.notifier)
}

func (c *CompositionRoot) CreateRejectDeliveryCommandHandler() commands.RejectDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRejectDeliveryCommandHandler(f, c.pricing, c.notifier)
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelDeliveryCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateUpdateAvailabilityCommandHandler() commands.UpdateAvailabilityCommandHandler {
	var f commands.AvailabilityUoWFactory = FuncAvailabilityUoWFactory(func() commands.AvailabilityUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateAvailabilityCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkPickedUpCommandHandler() commands.MarkPickedUpCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkPickedUpCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateMarkInTransitCommandHandler() commands.MarkInTransitCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkInTransitCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkDeliveredCommandHandler(f, c.pricing, c.notifier)
}

func (c *CompositionRoot) CreateCloseDeliveryCommandHandler() commands.CloseDeliveryCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCloseDeliveryCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateSendOTPCommandHandler() commands.SendOTPCommandHandler {
	var f commands.PODUoWFactory = FuncPODUoWFactory(func() commands.PODUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSendOTPCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateVerifyOTPCommandHandler() commands.VerifyOTPCommandHandler {
	var f commands.PODUoWFactory = FuncPODUoWFactory(func() commands.PODUoW {
		return c.uowFactory.Create()
	})
	return commands.NewVerifyOTPCommandHandler(f)
}

func (c *CompositionRoot) CreateCheckCoverageQueryHandler() queries.CheckCoverageQueryHandler {
	return queries.NewCheckCoverageQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateFindEligibleCouriersQueryHandler() queries.FindEligibleCouriersQueryHandler {
	return queries.NewFindEligibleCouriersQueryHandler(c.gormDB, c.pricing)
}

func (c *CompositionRoot) CreateGetAvailabilityQueryHandler() queries.GetAvailabilityQueryHandler {
	return queries.NewGetAvailabilityQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStateInfoQueryHandler() queries.GetStateInfoQueryHandler {
	return queries.NewGetStateInfoQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPODQueryHandler() queries.GetPODQueryHandler {
	return queries.NewGetPODQueryHandler(c.gormDB)
}

type FuncCoverageUoWFactory func() commands.CoverageUoW

func (f FuncCoverageUoWFactory) Create() commands.CoverageUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncAvailabilityUoWFactory func() commands.AvailabilityUoW

func (f FuncAvailabilityUoWFactory) Create() commands.AvailabilityUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncPODUoWFactory func() commands.PODUoW

func (f FuncPODUoWFactory) Create() commands.PODUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
