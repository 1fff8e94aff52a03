package policy

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// DefaultMinPasswordLength is the minimum plaintext secret length.
const DefaultMinPasswordLength = 8

// ComplexityPolicy validates plaintext secrets. Checks run in a fixed order
// and the first failure wins: length, username containment, character
// classes, then the optional dictionary-strength collaborator.
type ComplexityPolicy struct {
	minLength int
	checker   StrengthChecker
}

func NewComplexityPolicy(minLength int, checker StrengthChecker) *ComplexityPolicy {
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}
	return &ComplexityPolicy{minLength: minLength, checker: checker}
}

func (p *ComplexityPolicy) Validate(ctx context.Context, username, secret string) error {
	if len(secret) < p.minLength {
		return errLengthTooShort(p.minLength)
	}

	// Byte-exact containment, matching the host's native comparison.
	if strings.Contains(secret, username) {
		return errContainsUsername()
	}

	var hasLetter, hasUpper, hasDigit, hasOther bool
	for _, ch := range secret {
		switch {
		case unicode.IsLetter(ch):
			hasLetter = true
			if unicode.IsUpper(ch) {
				hasUpper = true
			}
		case unicode.IsDigit(ch):
			hasDigit = true
		default:
			hasOther = true
		}
	}
	if !hasLetter || !hasUpper || !hasDigit || !hasOther {
		return errInsufficientComplexity()
	}

	if p.checker != nil {
		diagnostic, err := p.checker.Check(ctx, secret)
		if err != nil {
			// Checker infrastructure failure aborts the request rather
			// than silently skipping the check.
			return fmt.Errorf("strength check: %w", err)
		}
		if diagnostic != "" {
			return errWeaklyRanked(diagnostic)
		}
	}

	return nil
}
