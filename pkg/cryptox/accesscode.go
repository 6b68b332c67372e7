package cryptox

import (
	"crypto/rand"
	"fmt"
)

const (
	letterAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitAlphabet  = "0123456789"
	fullAlphabet   = letterAlphabet + digitAlphabet

	// MinAccessCodeLength is the shortest code that can still guarantee the
	// 6-letter/6-digit composition.
	MinAccessCodeLength = 12

	// AccessCodeLetters and AccessCodeDigits are the guaranteed minimum counts
	// in every generated code.
	AccessCodeLetters = 6
	AccessCodeDigits  = 6
)

// GenerateAccessCode produces a random one-time access code of the requested
// length containing at least 6 uppercase letters and at least 6 digits.
//
// Six letters and six digits are drawn first, the combined sequence is
// shuffled with Fisher-Yates, and any remaining positions are filled from the
// full alphanumeric alphabet. Every draw uses rejection sampling so no
// character is favoured by modulo bias.
func GenerateAccessCode(length int) (string, error) {
	if length < MinAccessCodeLength {
		return "", fmt.Errorf(
			"cryptox: access code length must be at least %d, got %d",
			MinAccessCodeLength, length,
		)
	}

	code := make([]byte, 0, length)
	for range AccessCodeLetters {
		c, err := pickUnbiased(letterAlphabet)
		if err != nil {
			return "", err
		}
		code = append(code, c)
	}
	for range AccessCodeDigits {
		c, err := pickUnbiased(digitAlphabet)
		if err != nil {
			return "", err
		}
		code = append(code, c)
	}

	// Fisher-Yates over the guaranteed 12 characters.
	for i := len(code) - 1; i > 0; i-- {
		j, err := intnUnbiased(i + 1)
		if err != nil {
			return "", err
		}
		code[i], code[j] = code[j], code[i]
	}

	for len(code) < length {
		c, err := pickUnbiased(fullAlphabet)
		if err != nil {
			return "", err
		}
		code = append(code, c)
	}

	return string(code), nil
}

// pickUnbiased returns one uniformly random character from alphabet.
func pickUnbiased(alphabet string) (byte, error) {
	n, err := intnUnbiased(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[n], nil
}

// intnUnbiased returns a uniform value in [0, n) for 1 <= n <= 256.
// Bytes that would wrap unevenly into n buckets are rejected and redrawn.
func intnUnbiased(n int) (int, error) {
	if n <= 0 || n > 256 {
		return 0, fmt.Errorf("cryptox: intnUnbiased range out of bounds: %d", n)
	}
	limit := 256 - (256 % n)

	var b [1]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("cryptox: read random byte: %w", err)
		}
		if int(b[0]) < limit {
			return int(b[0]) % n, nil
		}
	}
}
