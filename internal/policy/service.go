package policy

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Service is the policy engine behind both hook entry points. It is
// stateless and reentrant: every check is a pure decision over the
// submission plus the wall clock captured at entry.
type Service struct {
	expiration ExpirationPolicy
	complexity *ComplexityPolicy
	gate       ChangeGate
	verifier   CredentialVerifier
	now        func() time.Time
	logger     zerolog.Logger
}

func NewService(expiration ExpirationPolicy, complexity *ComplexityPolicy, verifier CredentialVerifier, logger zerolog.Logger) *Service {
	return &Service{
		expiration: expiration,
		complexity: complexity,
		gate:       NewChangeGate(),
		verifier:   verifier,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock overrides the wall clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CheckCredential validates a new or changed credential. The expiration
// window is checked first; plaintext secrets then get the complexity rules,
// pre-hashed ones only the equals-username guard.
func (s *Service) CheckCredential(ctx context.Context, sub CredentialSubmission) error {
	if err := s.expiration.Validate(s.now(), sub.ExpiresAt); err != nil {
		return s.reject(sub.Username, err)
	}

	if sub.Kind == SecretPreHashed {
		if s.verifier != nil && s.verifier.Verify(sub.Username, sub.Secret) {
			return s.reject(sub.Username, errSecretEqualsUsername())
		}
		return nil
	}

	if err := s.complexity.Validate(ctx, sub.Username, sub.Secret); err != nil {
		return s.reject(sub.Username, err)
	}
	return nil
}

// CheckRequest gates an attribute-change request before the host executes it.
func (s *Service) CheckRequest(ctx context.Context, req AttributeChangeRequest) error {
	if err := s.gate.Validate(req); err != nil {
		return s.reject("", err)
	}
	return nil
}

func (s *Service) reject(username string, err error) error {
	ev := s.logger.Debug().Err(err)
	if username != "" {
		ev = ev.Str("username", username)
	}
	if pe, ok := AsError(err); ok {
		ev = ev.Str("code", pe.Code.String())
		if pe.Detail != "" {
			// Diagnostic detail stays in the logs, never in the response.
			ev = ev.Str("detail", pe.Detail)
		}
	}
	ev.Msg("policy rejection")
	return err
}
