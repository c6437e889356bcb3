package exam

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

// Exam codes are 6 uppercase letters, optionally suffixed with the timer
// length in zero-padded minutes: "KWXRPT" or "KWXRPT-05".
var codeRe = regexp.MustCompile(`^[A-Z]{6}(-(0[1-9]|[1-5][0-9]|60))?$`)

const codeLetters = 6

// NewCode returns a random exam code. timerMinutes of 0 means no timer;
// otherwise it must already be validated to the 1-60 range.
func NewCode(timerMinutes int) string {
	var sb strings.Builder
	for range codeLetters {
		sb.WriteByte(byte('A' + rand.IntN(26)))
	}
	if timerMinutes > 0 {
		return fmt.Sprintf("%s-%02d", sb.String(), timerMinutes)
	}
	return sb.String()
}

// ValidCode reports whether s is a well-formed exam code.
func ValidCode(s string) bool {
	return codeRe.MatchString(s)
}

// ParseCode splits a code into its letter part and timer minutes (0 when the
// code has no timer suffix). It returns ErrBadCode for malformed input.
func ParseCode(s string) (string, int, error) {
	if !codeRe.MatchString(s) {
		return "", 0, ErrBadCode
	}
	base, suffix, found := strings.Cut(s, "-")
	if !found {
		return base, 0, nil
	}
	minutes, err := strconv.Atoi(suffix)
	if err != nil {
		return "", 0, ErrBadCode
	}
	return base, minutes, nil
}
