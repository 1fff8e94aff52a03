package policy

import "time"

// DefaultMaxValidityDays is how far into the future an expiration date may
// be set, measured from the moment of validation.
const DefaultMaxValidityDays = 90

// ExpirationPolicy rejects absent expiration dates and dates beyond the
// sliding maximum-validity window.
type ExpirationPolicy struct {
	maxValidity time.Duration
}

func NewExpirationPolicy(maxValidityDays int) ExpirationPolicy {
	if maxValidityDays <= 0 {
		maxValidityDays = DefaultMaxValidityDays
	}
	return ExpirationPolicy{maxValidity: time.Duration(maxValidityDays) * 24 * time.Hour}
}

func (p ExpirationPolicy) maxValidityDays() int {
	return int(p.maxValidity / (24 * time.Hour))
}

// Validate accepts expiresAt iff it is present and no later than
// now + maxValidity. The window is a fixed offset on the absolute instant,
// not a calendar-day walk, so the boundary is unambiguous across DST
// transitions. Exactly on the boundary is allowed.
func (p ExpirationPolicy) Validate(now time.Time, expiresAt *time.Time) error {
	if expiresAt == nil {
		return errMissingExpiration()
	}
	maxAllowed := now.Add(p.maxValidity)
	if expiresAt.After(maxAllowed) {
		return errExpirationTooFar(p.maxValidityDays())
	}
	return nil
}
