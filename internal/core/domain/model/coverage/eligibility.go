package coverage

// Eligibility describes how a coverage area satisfies a delivery's pickup and
// drop containment rule.
type Eligibility int

const (
	// NotEligible means the coverage cannot serve the delivery at all.
	NotEligible Eligibility = iota

	// PickupOnly means the pickup point is inside the coverage radius and the
	// owner has opted in to carrying drops outside their area.
	PickupOnly

	// BothEnds means both the pickup and the drop point are inside the
	// coverage radius.
	BothEnds
)

// String returns the canonical name of the eligibility kind.
func (e Eligibility) String() string {
	switch e {
	case PickupOnly:
		return "PICKUP_ONLY"
	case BothEnds:
		return "BOTH_ENDS"
	default:
		return "NOT_ELIGIBLE"
	}
}

// OwnerRole identifies which kind of account owns a coverage area.
// Only couriers participate in delivery matching; vendor coverages exist for
// storefront visibility and are skipped by eligibility scans.
type OwnerRole int

const (
	// OwnerRoleUnknown represents an invalid or undefined role.
	OwnerRoleUnknown OwnerRole = iota

	// OwnerRoleCourier marks a coverage declared by a courier.
	OwnerRoleCourier

	// OwnerRoleVendor marks a coverage declared by a vendor.
	OwnerRoleVendor
)

// getValidOwnerRoleStrings returns only valid roles, to support validation.
func getValidOwnerRoleStrings() map[OwnerRole]string {
	return map[OwnerRole]string{
		OwnerRoleCourier: "Courier",
		OwnerRoleVendor:  "Vendor",
	}
}

// String returns the human-readable name of the role.
func (r OwnerRole) String() string {
	if s, ok := getValidOwnerRoleStrings()[r]; ok {
		return s
	}
	return "Unknown"
}

// Validate checks if the OwnerRole value is one of the defined roles.
func (r OwnerRole) Validate() error {
	if _, ok := getValidOwnerRoleStrings()[r]; !ok {
		return ErrOwnerRoleIsInvalid
	}
	return nil
}
