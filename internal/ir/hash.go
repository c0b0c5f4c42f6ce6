package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Domain tags for address derivation.
// Version suffix enables future algorithm migration.
const (
	DomainProfile    = "classroom/profile/v1"
	DomainSubmission = "classroom/submission/v1"
)

// MaxSeedLen is the byte budget of the discriminant seed.
const MaxSeedLen = 32

// MaxOwnerLen bounds the encoded identity token.
const MaxOwnerLen = 128

// ErrInvalidInput reports derivation inputs the addressing scheme cannot
// encode.
var ErrInvalidInput = errors.New("invalid derivation input")

var knownDomains = map[string]bool{
	DomainProfile:    true,
	DomainSubmission: true,
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DeriveAddress maps (domain, owner, discriminant) to a stable storage key.
// Identical inputs always yield the same address. The discriminant may be
// empty; for the profile domain it is the display name.
//
// Owner and discriminant enter the hash as hex of their raw bytes, so two
// inputs share an address only when they are byte-for-byte equal. Canonical
// string handling (NFC) never applies to them.
//
// Returns an error wrapping ErrInvalidInput when the domain is unknown, the
// owner is empty, too long or not valid UTF-8, or the discriminant exceeds
// MaxSeedLen bytes or is not valid UTF-8.
func DeriveAddress(domain string, owner Identity, discriminant string) (Address, error) {
	if !knownDomains[domain] {
		return "", fmt.Errorf("%w: unknown domain %q", ErrInvalidInput, domain)
	}
	if owner == "" {
		return "", fmt.Errorf("%w: owner is empty", ErrInvalidInput)
	}
	if len(owner) > MaxOwnerLen {
		return "", fmt.Errorf("%w: owner is %d bytes", ErrInvalidInput, len(owner))
	}
	if !utf8.ValidString(string(owner)) {
		return "", fmt.Errorf("%w: owner is not valid UTF-8", ErrInvalidInput)
	}
	if len(discriminant) > MaxSeedLen {
		return "", fmt.Errorf("%w: discriminant is %d bytes, max %d", ErrInvalidInput, len(discriminant), MaxSeedLen)
	}
	if !utf8.ValidString(discriminant) {
		return "", fmt.Errorf("%w: discriminant is not valid UTF-8", ErrInvalidInput)
	}

	canonical, err := MarshalCanonical(map[string]any{
		"owner":        hex.EncodeToString([]byte(owner)),
		"discriminant": hex.EncodeToString([]byte(discriminant)),
	})
	if err != nil {
		return "", fmt.Errorf("DeriveAddress: failed to marshal: %w", err)
	}

	return Address(hashWithDomain(domain, canonical)), nil
}

// ProfileAddress derives the address of owner's profile named name.
func ProfileAddress(owner Identity, name string) (Address, error) {
	return DeriveAddress(DomainProfile, owner, name)
}

// SubmissionAddress derives owner's single submission slot.
func SubmissionAddress(owner Identity) (Address, error) {
	return DeriveAddress(DomainSubmission, owner, "")
}

// MustProfileAddress is like ProfileAddress but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustProfileAddress(owner Identity, name string) Address {
	addr, err := ProfileAddress(owner, name)
	if err != nil {
		panic(err)
	}
	return addr
}

// MustSubmissionAddress is like SubmissionAddress but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSubmissionAddress(owner Identity) Address {
	addr, err := SubmissionAddress(owner)
	if err != nil {
		panic(err)
	}
	return addr
}
