package delivery_test

import (
	"testing"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPCode(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		code, err := delivery.GenerateOTPCode()
		require.NoError(t, err)
		assert.Len(t, code, delivery.OTPLength)
		assert.Regexp(t, `^\d{4}$`, code)
		seen[code] = true
	}
	// Uniform 4-digit codes should not collapse to a single value.
	assert.Greater(t, len(seen), 1)
}

func TestProofOfDelivery_IssueAndVerifyOTP(t *testing.T) {
	pod, err := delivery.NewProofOfDelivery(kernel.NewUUID())
	require.NoError(t, err)

	_, err = pod.IssueOTP("4821")
	require.NoError(t, err)

	assert.NotEmpty(t, pod.OTPHash())
	assert.NotEqual(t, "4821", pod.OTPHash())
	assert.False(t, pod.OTPVerified())

	outcome, err := pod.VerifyOTP("4821")
	require.NoError(t, err)
	assert.Equal(t, delivery.OTPVerified, outcome)
	assert.True(t, pod.OTPVerified())
	assert.NotNil(t, pod.OTPVerifiedAt())
}

func TestProofOfDelivery_VerifyOTP_Idempotent(t *testing.T) {
	pod, err := delivery.NewProofOfDelivery(kernel.NewUUID())
	require.NoError(t, err)
	_, err = pod.IssueOTP("4821")
	require.NoError(t, err)

	outcome, err := pod.VerifyOTP("4821")
	require.NoError(t, err)
	assert.Equal(t, delivery.OTPVerified, outcome)
	firstVerifiedAt := pod.OTPVerifiedAt()

	// Repeat verification with the same correct code remains verified and
	// does not move the timestamp.
	outcome, err = pod.VerifyOTP("4821")
	require.NoError(t, err)
	assert.Equal(t, delivery.OTPVerified, outcome)
	assert.True(t, pod.OTPVerified())
	assert.Equal(t, firstVerifiedAt, pod.OTPVerifiedAt())
}

func TestProofOfDelivery_VerifyOTP_Mismatch(t *testing.T) {
	pod, err := delivery.NewProofOfDelivery(kernel.NewUUID())
	require.NoError(t, err)
	_, err = pod.IssueOTP("4821")
	require.NoError(t, err)
	storedHash := pod.OTPHash()

	outcome, err := pod.VerifyOTP("0000")
	require.NoError(t, err)
	assert.Equal(t, delivery.OTPMismatch, outcome)
	assert.False(t, pod.OTPVerified())
	// A wrong code leaves the stored code untouched.
	assert.Equal(t, storedHash, pod.OTPHash())
}

func TestProofOfDelivery_VerifyOTP_MismatchNeverUnverifies(t *testing.T) {
	pod, err := delivery.NewProofOfDelivery(kernel.NewUUID())
	require.NoError(t, err)
	_, err = pod.IssueOTP("4821")
	require.NoError(t, err)

	_, err = pod.VerifyOTP("4821")
	require.NoError(t, err)
	require.True(t, pod.OTPVerified())

	outcome, err := pod.VerifyOTP("9999")
	require.NoError(t, err)
	assert.Equal(t, delivery.OTPMismatch, outcome)
	assert.True(t, pod.OTPVerified())
}

func TestProofOfDelivery_VerifyOTP_NotSent(t *testing.T) {
	pod, err := delivery.NewProofOfDelivery(kernel.NewUUID())
	require.NoError(t, err)

	outcome, err := pod.VerifyOTP("4821")
	require.NoError(t, err)
	assert.Equal(t, delivery.OTPNotSent, outcome)
}

func TestProofOfDelivery_IssueOTP_SupersedesPrevious(t *testing.T) {
	pod, err := delivery.NewProofOfDelivery(kernel.NewUUID())
	require.NoError(t, err)

	_, err = pod.IssueOTP("1111")
	require.NoError(t, err)
	_, err = pod.VerifyOTP("1111")
	require.NoError(t, err)
	require.True(t, pod.OTPVerified())

	// A fresh code supersedes the old one and resets verification for it.
	_, err = pod.IssueOTP("2222")
	require.NoError(t, err)
	assert.False(t, pod.OTPVerified())

	outcome, err := pod.VerifyOTP("1111")
	require.NoError(t, err)
	assert.Equal(t, delivery.OTPMismatch, outcome)

	outcome, err = pod.VerifyOTP("2222")
	require.NoError(t, err)
	assert.Equal(t, delivery.OTPVerified, outcome)
}

func TestProofOfDelivery_RecordStages(t *testing.T) {
	pod, err := delivery.NewProofOfDelivery(kernel.NewUUID())
	require.NoError(t, err)

	require.NoError(t, pod.RecordPickup("https://cdn.example/pickup.jpg", "sealed box"))
	assert.NotNil(t, pod.PickedUpAt())
	assert.Equal(t, "sealed box", pod.PickupNotes())

	require.NoError(t, pod.RecordInTransit())
	assert.NotNil(t, pod.InTransitAt())

	deliveredAt, err := kernel.NewGeoPoint(28.7041, 77.1025)
	require.NoError(t, err)
	require.NoError(t, pod.RecordDelivery(
		"Ravi", "self", "https://cdn.example/handoff.jpg", "", deliveredAt, 0.02, "intact",
	))
	assert.NotNil(t, pod.DeliveredAt())
	assert.Equal(t, "Ravi", pod.RecipientName())
	require.NotNil(t, pod.DistanceFromDropKm())
	assert.InDelta(t, 0.02, *pod.DistanceFromDropKm(), 1e-9)

	closer := kernel.NewUUID()
	require.NoError(t, pod.RecordClosure(&closer))
	assert.NotNil(t, pod.ClosedAt())
	require.NotNil(t, pod.VerifiedBy())
	assert.True(t, pod.VerifiedBy().IsEqual(closer))
}

func TestProofOfDelivery_RecordClosure_SystemActor(t *testing.T) {
	pod, err := delivery.NewProofOfDelivery(kernel.NewUUID())
	require.NoError(t, err)

	require.NoError(t, pod.RecordClosure(nil))
	assert.NotNil(t, pod.ClosedAt())
	assert.Nil(t, pod.VerifiedBy())
}
