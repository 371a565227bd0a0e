package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()
	secretKey := "my-secret-key"
	payload := []byte(`{"id":"evt_1","type":"payin.received","data":{"amount":50000}}`)

	signature := svc.Sign(secretKey, payload)

	// Should be lowercase hex
	assert.Regexp(t, `^[0-9a-f]{64}$`, signature, "signature should be 64-char lowercase hex (SHA-256)")

	assert.True(t, svc.Verify(secretKey, payload, signature))
}

func TestHMACSignatureService_VerifyFails_WrongKey(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := []byte("test payload")

	signature := svc.Sign("correct-key", payload)
	assert.False(t, svc.Verify("wrong-key", payload, signature))
}

func TestHMACSignatureService_VerifyFails_WrongPayload(t *testing.T) {
	svc := NewHMACSignatureService()
	secretKey := "my-key"

	signature := svc.Sign(secretKey, []byte("original payload"))
	assert.False(t, svc.Verify(secretKey, []byte("tampered payload"), signature))
}

func TestHMACSignatureService_VerifyFails_WrongSignature(t *testing.T) {
	svc := NewHMACSignatureService()
	assert.False(t, svc.Verify("key", []byte("payload"), "invalidsignature"))
}

func TestHMACSignatureService_VerifyFails_EmptySecret(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := []byte("payload")

	assert.False(t, svc.Verify("", payload, svc.Sign("", payload)))
}

func TestHMACSignatureService_DeterministicSign(t *testing.T) {
	svc := NewHMACSignatureService()

	sig1 := svc.Sign("key", []byte("data"))
	sig2 := svc.Sign("key", []byte("data"))

	assert.Equal(t, sig1, sig2, "same key+payload should produce same signature")
}

func TestHMACSignatureService_CompareSecret(t *testing.T) {
	svc := NewHMACSignatureService()

	assert.True(t, svc.CompareSecret("whsec", "whsec"))
	assert.False(t, svc.CompareSecret("whsec", "whsec2"))
	assert.False(t, svc.CompareSecret("whsec", ""))
	assert.False(t, svc.CompareSecret("", ""))
}
