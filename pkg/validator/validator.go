package validator

import (
	"regexp"
)

var (
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	txHashPattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	hexHashPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)
	// Identifiers issued by the platform: slug-style, bounded length.
	identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{0,127}$`)
	portPattern       = regexp.MustCompile(`^(102[4-9]|10[3-9][0-9]|1[1-9][0-9]{2}|[2-9][0-9]{3}|[1-5][0-9]{4}|6[0-4][0-9]{3}|65[0-4][0-9]{2}|655[0-2][0-9]|6553[0-5])$`)
)

func IsEmpty(value string) bool {
	return value == ""
}

// IsValidAddress reports whether the value is a 0x-prefixed 20-byte hex address.
func IsValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}

// IsValidTxHash reports whether the value is a 0x-prefixed 32-byte hex transaction hash.
func IsValidTxHash(txHash string) bool {
	return txHashPattern.MatchString(txHash)
}

// IsValidPayloadHash reports whether the value is a 32-byte hex digest,
// with or without the 0x prefix. Replay hashes are computed client-side to
// match the on-chain replay check, which accepts both encodings.
func IsValidPayloadHash(hash string) bool {
	return hexHashPattern.MatchString(hash)
}

// IsValidIdentifier reports whether the value is a well-formed game, player
// or post identifier.
func IsValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

func IsValidPort(port string) bool {
	return portPattern.MatchString(port)
}
