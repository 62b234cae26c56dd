package delivery

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	// OTPLength is the number of digits in a delivery confirmation code.
	OTPLength = 4

	// OTPValidityWindow is how long an issued code remains verifiable.
	OTPValidityWindow = 30 * time.Minute
)

// ErrProofIsNotConstructed is returned when a ProofOfDelivery instance was
// not created through the NewProofOfDelivery factory method.
var ErrProofIsNotConstructed = errors.New("ProofOfDelivery must be created via NewProofOfDelivery constructor")

// OTPOutcome classifies one verification attempt against the stored code.
// A mismatch or expiry is an expected client-facing outcome, not an error.
type OTPOutcome int

const (
	// OTPNotSent means no code has been issued for the delivery yet.
	OTPNotSent OTPOutcome = iota

	// OTPVerified means the supplied code matched the current code.
	OTPVerified

	// OTPMismatch means the supplied code did not match. State is unchanged.
	OTPMismatch

	// OTPExpired means the code matched but its validity window has passed.
	OTPExpired
)

// String returns the canonical name of the outcome.
func (o OTPOutcome) String() string {
	switch o {
	case OTPVerified:
		return "VERIFIED"
	case OTPMismatch:
		return "MISMATCH"
	case OTPExpired:
		return "EXPIRED"
	default:
		return "NOT_SENT"
	}
}

// GenerateOTPCode produces a uniformly random numeric code of OTPLength
// digits using a cryptographic source.
func GenerateOTPCode() (string, error) {
	bound := big.NewInt(1)
	for range OTPLength {
		bound = bound.Mul(bound, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("generating OTP code: %w", err)
	}

	return fmt.Sprintf("%0*d", OTPLength, n), nil
}

// HashOTP returns the hex-encoded SHA-256 digest of a code. Codes are stored
// hashed; the plaintext lives only in the notification to the recipient.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// ProofOfDelivery captures the evidence trail of a delivery hand-off: the
// per-stage timestamps, recipient identity, photo/signature references, the
// delivered position, and the recipient-confirmation (OTP) state.
//
// There is exactly one proof per delivery, created lazily on the first
// evidence-producing action. At most one OTP is valid at a time: issuing a
// new code supersedes the previous one. A successful verification is
// monotonic - once verified, later mismatching attempts never unset it.
type ProofOfDelivery struct {
	deliveryID         kernel.UUID
	recipientName      string
	recipientRelation  string
	otpHash            string
	otpSentAt          *time.Time
	otpVerified        bool
	otpVerifiedAt      *time.Time
	photoURL           string
	signatureURL       string
	deliveredPoint     *kernel.GeoPoint
	distanceFromDropKm *float64
	condition          string
	pickupNotes        string
	pickedUpAt         *time.Time
	inTransitAt        *time.Time
	deliveredAt        *time.Time
	closedAt           *time.Time
	verifiedBy         *kernel.UUID

	isConstructed bool
}

// NewProofOfDelivery creates an empty proof for a delivery.
func NewProofOfDelivery(deliveryID kernel.UUID) (*ProofOfDelivery, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	return &ProofOfDelivery{
		deliveryID:    deliveryID,
		isConstructed: true,
	}, nil
}

// RestoreProofOfDelivery reconstructs a proof from persistence.
func RestoreProofOfDelivery(
	deliveryID kernel.UUID,
	recipientName string,
	recipientRelation string,
	otpHash string,
	otpSentAt *time.Time,
	otpVerified bool,
	otpVerifiedAt *time.Time,
	photoURL string,
	signatureURL string,
	deliveredPoint *kernel.GeoPoint,
	distanceFromDropKm *float64,
	condition string,
	pickupNotes string,
	pickedUpAt *time.Time,
	inTransitAt *time.Time,
	deliveredAt *time.Time,
	closedAt *time.Time,
	verifiedBy *kernel.UUID,
) (*ProofOfDelivery, error) {
	p, err := NewProofOfDelivery(deliveryID)
	if err != nil {
		return nil, err
	}

	p.recipientName = recipientName
	p.recipientRelation = recipientRelation
	p.otpHash = otpHash
	p.otpSentAt = otpSentAt
	p.otpVerified = otpVerified
	p.otpVerifiedAt = otpVerifiedAt
	p.photoURL = photoURL
	p.signatureURL = signatureURL
	p.deliveredPoint = deliveredPoint
	p.distanceFromDropKm = distanceFromDropKm
	p.condition = condition
	p.pickupNotes = pickupNotes
	p.pickedUpAt = pickedUpAt
	p.inTransitAt = inTransitAt
	p.deliveredAt = deliveredAt
	p.closedAt = closedAt
	p.verifiedBy = verifiedBy
	return p, nil
}

// Validate ensures the proof was properly constructed.
func (p *ProofOfDelivery) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProofIsNotConstructed
	}
	return nil
}

// DeliveryID returns the delivery this proof belongs to.
func (p *ProofOfDelivery) DeliveryID() kernel.UUID { return p.deliveryID }

// RecipientName returns the name of the person who received the package.
func (p *ProofOfDelivery) RecipientName() string { return p.recipientName }

// RecipientRelation returns the recipient's relation to the addressee.
func (p *ProofOfDelivery) RecipientRelation() string { return p.recipientRelation }

// OTPHash returns the SHA-256 digest of the current code, empty if none.
func (p *ProofOfDelivery) OTPHash() string { return p.otpHash }

// OTPSentAt returns when the current code was issued, nil if none.
func (p *ProofOfDelivery) OTPSentAt() *time.Time { return p.otpSentAt }

// OTPVerified reports whether the recipient confirmed with the current code.
func (p *ProofOfDelivery) OTPVerified() bool { return p.otpVerified }

// OTPVerifiedAt returns when the confirmation happened, nil if unverified.
func (p *ProofOfDelivery) OTPVerifiedAt() *time.Time { return p.otpVerifiedAt }

// PhotoURL returns the reference to the hand-off photo, empty if none.
func (p *ProofOfDelivery) PhotoURL() string { return p.photoURL }

// SignatureURL returns the reference to the signature image, empty if none.
func (p *ProofOfDelivery) SignatureURL() string { return p.signatureURL }

// DeliveredPoint returns where the courier reported the hand-off.
func (p *ProofOfDelivery) DeliveredPoint() *kernel.GeoPoint { return p.deliveredPoint }

// DistanceFromDropKm returns how far the reported hand-off was from the
// planned drop point.
func (p *ProofOfDelivery) DistanceFromDropKm() *float64 { return p.distanceFromDropKm }

// Condition returns the reported package condition, empty if unreported.
func (p *ProofOfDelivery) Condition() string { return p.condition }

// PickupNotes returns the courier's notes from collection, empty if none.
func (p *ProofOfDelivery) PickupNotes() string { return p.pickupNotes }

// PickedUpAt returns the collection timestamp, nil before pickup.
func (p *ProofOfDelivery) PickedUpAt() *time.Time { return p.pickedUpAt }

// InTransitAt returns the transit-start timestamp, nil before transit.
func (p *ProofOfDelivery) InTransitAt() *time.Time { return p.inTransitAt }

// DeliveredAt returns the hand-off timestamp, nil before delivery.
func (p *ProofOfDelivery) DeliveredAt() *time.Time { return p.deliveredAt }

// ClosedAt returns the closure timestamp, nil before closure.
func (p *ProofOfDelivery) ClosedAt() *time.Time { return p.closedAt }

// VerifiedBy returns who closed the delivery, nil for system closure.
func (p *ProofOfDelivery) VerifiedBy() *kernel.UUID { return p.verifiedBy }

// IssueOTP stores a fresh confirmation code, superseding any previous one.
// The code is stored as a SHA-256 hash and the verified flag is reset for the
// new code. Returns when the new code stops being verifiable.
func (p *ProofOfDelivery) IssueOTP(code string) (time.Time, error) {
	if err := p.Validate(); err != nil {
		return time.Time{}, err
	}

	now := time.Now().UTC()
	p.otpHash = HashOTP(code)
	p.otpSentAt = &now
	p.otpVerified = false
	p.otpVerifiedAt = nil
	return now.Add(OTPValidityWindow), nil
}

// VerifyOTP compares a supplied code against the stored one. This is the
// single verification routine - the delivery-completion flow and the
// standalone verification operation both call it.
//
// Outcomes:
//   - OTPNotSent: no code has been issued
//   - OTPVerified: exact match within the validity window; sets the verified
//     flag. Repeating with the same correct code stays verified (idempotent).
//   - OTPExpired: exact match but the validity window has passed
//   - OTPMismatch: wrong code; no state is mutated
func (p *ProofOfDelivery) VerifyOTP(code string) (OTPOutcome, error) {
	if err := p.Validate(); err != nil {
		return OTPNotSent, err
	}

	if p.otpHash == "" || p.otpSentAt == nil {
		return OTPNotSent, nil
	}

	supplied := HashOTP(code)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(p.otpHash)) != 1 {
		return OTPMismatch, nil
	}

	if time.Now().UTC().After(p.otpSentAt.Add(OTPValidityWindow)) {
		return OTPExpired, nil
	}

	if !p.otpVerified {
		now := time.Now().UTC()
		p.otpVerified = true
		p.otpVerifiedAt = &now
	}
	return OTPVerified, nil
}

// RecordPickup stamps the collection stage with optional photo and notes.
func (p *ProofOfDelivery) RecordPickup(photoURL string, notes string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.pickedUpAt = &now
	if photoURL != "" {
		p.photoURL = photoURL
	}
	p.pickupNotes = notes
	return nil
}

// RecordInTransit stamps the transit stage.
func (p *ProofOfDelivery) RecordInTransit() error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.inTransitAt = &now
	return nil
}

// RecordDelivery stamps the hand-off stage with the recipient identity,
// evidence references, reported position, and its distance from the planned
// drop.
func (p *ProofOfDelivery) RecordDelivery(
	recipientName string,
	recipientRelation string,
	photoURL string,
	signatureURL string,
	deliveredPoint kernel.GeoPoint,
	distanceFromDropKm float64,
	condition string,
) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := deliveredPoint.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.recipientName = recipientName
	p.recipientRelation = recipientRelation
	if photoURL != "" {
		p.photoURL = photoURL
	}
	p.signatureURL = signatureURL
	p.deliveredPoint = &deliveredPoint
	p.distanceFromDropKm = &distanceFromDropKm
	p.condition = condition
	p.deliveredAt = &now
	return nil
}

// RecordClosure stamps the closure stage. verifiedBy is nil for system
// auto-closure.
func (p *ProofOfDelivery) RecordClosure(verifiedBy *kernel.UUID) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if verifiedBy != nil {
		if err := verifiedBy.Validate(); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	p.closedAt = &now
	p.verifiedBy = verifiedBy
	return nil
}
