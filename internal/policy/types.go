package policy

import (
	"context"
	"time"
)

// SecretKind tells the credential check which branch applies: plaintext
// secrets get the complexity rules, pre-hashed ones only the
// equals-username guard (their content is opaque).
type SecretKind string

const (
	SecretPlaintext SecretKind = "plaintext"
	SecretPreHashed SecretKind = "prehashed"
)

// RequestKind tags an attribute-change request. Only alter-role requests
// are subject to the change gate.
type RequestKind string

const KindAlterRole RequestKind = "alter_role"

// OptionValidUntil is the canonical name of the expiration option on an
// alter-role request.
const OptionValidUntil = "validUntil"

// CredentialSubmission is the request-scoped input to a credential check.
// Nothing here outlives the call.
type CredentialSubmission struct {
	Username  string
	Secret    string
	Kind      SecretKind
	ExpiresAt *time.Time
}

// AttributeChangeRequest describes a parsed attribute-change request as the
// host hands it to the gate: a kind tag plus its option set, keyed by the
// option's canonical name.
type AttributeChangeRequest struct {
	Kind    RequestKind
	Options map[string]string
}

// CredentialChecker is the credential-check hook shape. Previously installed
// checkers are chained ahead of this service's own checks.
type CredentialChecker interface {
	CheckCredential(ctx context.Context, sub CredentialSubmission) error
}

// RequestChecker is the pre-execution request-gate hook shape.
type RequestChecker interface {
	CheckRequest(ctx context.Context, req AttributeChangeRequest) error
}

// StrengthChecker is the optional dictionary-strength collaborator. A
// non-empty diagnostic means the secret is considered crackable; the
// diagnostic is treated as sensitive and is only ever logged. A non-nil
// error reports checker infrastructure failure, not a policy decision.
type StrengthChecker interface {
	Check(ctx context.Context, secret string) (diagnostic string, err error)
}

// CredentialVerifier knows the host's hash scheme. Verify reports whether
// the stored hash accepts candidate as valid input.
type CredentialVerifier interface {
	Verify(candidate, storedHash string) bool
}
