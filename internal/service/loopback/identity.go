// Package loopback derives the loopback interface owned by a student identity.
package loopback

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	namePrefix   = "Loopback"
	prefixLength = 24
)

// Name returns the interface name for an identity, e.g. "046" -> "Loopback046".
func Name(id string) string {
	return namePrefix + id
}

// IPCIDR returns 172.<d0>.<d1d2>.1/24 built from the last three digits of id.
// Shorter identities are left-padded with zeros.
func IPCIDR(id string) (string, error) {
	last3 := id
	if len(last3) > 3 {
		last3 = last3[len(last3)-3:]
	}
	last3 = strings.Repeat("0", 3-len(last3)) + last3

	x, err := strconv.Atoi(last3[:1])
	if err != nil {
		return "", fmt.Errorf("identity %q is not numeric: %w", id, err)
	}
	y, err := strconv.Atoi(last3[1:])
	if err != nil || y < 0 {
		return "", fmt.Errorf("identity %q is not numeric", id)
	}

	return fmt.Sprintf("172.%d.%d.1/%d", x, y, prefixLength), nil
}
