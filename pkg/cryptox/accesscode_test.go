package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func countClasses(code string) (letters, digits int) {
	for _, c := range code {
		switch {
		case c >= 'A' && c <= 'Z':
			letters++
		case c >= '0' && c <= '9':
			digits++
		}
	}
	return letters, digits
}

func TestGenerateAccessCodeComposition(t *testing.T) {
	t.Parallel()

	for range 1000 {
		code, err := GenerateAccessCode(MinAccessCodeLength)
		require.NoError(t, err)
		require.Len(t, code, MinAccessCodeLength)

		letters, digits := countClasses(code)
		require.GreaterOrEqual(t, letters, AccessCodeLetters, "code %q", code)
		require.GreaterOrEqual(t, digits, AccessCodeDigits, "code %q", code)
		require.Equal(t, len(code), letters+digits, "code %q contains characters outside the alphabet", code)
	}
}

func TestGenerateAccessCodeLongerLengths(t *testing.T) {
	t.Parallel()

	for _, length := range []int{13, 16, 24} {
		code, err := GenerateAccessCode(length)
		require.NoError(t, err)
		require.Len(t, code, length)

		letters, digits := countClasses(code)
		require.GreaterOrEqual(t, letters, AccessCodeLetters)
		require.GreaterOrEqual(t, digits, AccessCodeDigits)
	}
}

func TestGenerateAccessCodeRejectsShortLengths(t *testing.T) {
	t.Parallel()

	for _, length := range []int{0, 1, 6, 11} {
		_, err := GenerateAccessCode(length)
		require.Error(t, err)
	}
}

func TestGenerateAccessCodeVaries(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 100)
	for range 100 {
		code, err := GenerateAccessCode(MinAccessCodeLength)
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	// Collisions in 100 draws from a 36^12 space would point at a broken
	// random source.
	require.Len(t, seen, 100)
}

func TestIntnUnbiasedBounds(t *testing.T) {
	t.Parallel()

	for range 500 {
		n, err := intnUnbiased(len(fullAlphabet))
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, len(fullAlphabet))
	}

	_, err := intnUnbiased(0)
	require.Error(t, err)
	_, err = intnUnbiased(257)
	require.Error(t, err)
}

func TestAlphabets(t *testing.T) {
	t.Parallel()

	require.Len(t, letterAlphabet, 26)
	require.Len(t, digitAlphabet, 10)
	require.False(t, strings.ContainsAny(letterAlphabet, digitAlphabet))
}
