// Package coverage contains the Coverage aggregate: a circular service area
// declared by a courier or vendor, together with the eligibility rules that
// decide whether the area can serve a given pickup/drop pair.
//
// A coverage is a circle (center GeoPoint + radius in kilometers). Eligibility
// against a delivery is classified as BothEnds when pickup and drop both fall
// inside the circle, PickupOnly when only the pickup does and the owner allows
// carrying drops outside, and NotEligible otherwise. Inactive coverages never
// match; an owner has at most one active coverage at a time.
package coverage
