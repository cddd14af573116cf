package ipv4

import (
	"fmt"
	"strconv"
	"strings"
)

// PrefixToNetmask renders a CIDR prefix length as a dotted-quad mask.
// Prefix lengths outside 0..32 are a caller bug and panic.
func PrefixToNetmask(prefix int) string {
	if prefix < 0 || prefix > 32 {
		panic(fmt.Sprintf("ipv4: prefix length %d out of range", prefix))
	}

	mask := uint32(uint64(0xffffffff) << (32 - prefix))

	octets := make([]string, 0, 4)
	for _, shift := range []uint{24, 16, 8, 0} {
		octets = append(octets, strconv.Itoa(int((mask>>shift)&0xff)))
	}
	return strings.Join(octets, ".")
}

// SplitCIDR splits "a.b.c.d/n" into the address and the prefix length.
func SplitCIDR(cidr string) (string, int, error) {
	ip, bits, ok := strings.Cut(cidr, "/")
	if !ok || ip == "" {
		return "", 0, fmt.Errorf("invalid cidr %q", cidr)
	}

	prefix, err := strconv.Atoi(bits)
	if err != nil {
		return "", 0, fmt.Errorf("invalid prefix in %q: %w", cidr, err)
	}
	if prefix < 0 || prefix > 32 {
		return "", 0, fmt.Errorf("prefix out of range in %q", cidr)
	}
	return ip, prefix, nil
}
