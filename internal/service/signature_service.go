package service

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // provider signature schemes are MD5-based
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureServiceImpl implements ports.SignatureService.
// MD5 digests cover offerwall postback schemes; HMAC-SHA256 covers the
// generic endpoint and outgoing notification webhooks.
type SignatureServiceImpl struct{}

// NewSignatureService creates a new signature service.
func NewSignatureService() *SignatureServiceImpl {
	return &SignatureServiceImpl{}
}

// MD5Hex returns the lowercase hex MD5 of the concatenated parts.
func (s *SignatureServiceImpl) MD5Hex(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, ""))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// VerifyMD5 compares signature with MD5Hex(parts...) in constant time.
// Providers differ in hex case, so the comparison ignores it.
func (s *SignatureServiceImpl) VerifyMD5(signature string, parts ...string) bool {
	expected := s.MD5Hex(parts...)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// Sign computes HMAC-SHA256 of payload using secretKey as lowercase hex.
func (s *SignatureServiceImpl) Sign(secretKey string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signature against HMAC-SHA256(secretKey, payload).
func (s *SignatureServiceImpl) Verify(secretKey string, payload string, signature string) bool {
	expected := s.Sign(secretKey, payload)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
