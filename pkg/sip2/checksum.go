package sip2

import (
	"fmt"
	"strings"
)

// Checksum returns the four hex digit SIP2 checksum of msg: the two's
// complement of the 16-bit sum of every byte.
func Checksum(msg []byte) string {
	var sum uint16

	for _, b := range msg {
		sum += uint16(b)
	}

	return fmt.Sprintf("%04X", -sum)
}

// VerifyChecksum checks a message ending in "AZxxxx". The checksum covers
// every byte up to and including "AZ".
func VerifyChecksum(msg []byte) bool {
	const trailer = 6

	if len(msg) < trailer || string(msg[len(msg)-trailer:len(msg)-4]) != "AZ" {
		return false
	}

	return strings.EqualFold(Checksum(msg[:len(msg)-4]), string(msg[len(msg)-4:]))
}
