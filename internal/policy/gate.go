package policy

// ChangeGate rejects alter-role requests that omit the expiration option.
// It checks key presence only; the option's value is judged later by the
// expiration policy when the credential itself is checked.
type ChangeGate struct{}

func NewChangeGate() ChangeGate {
	return ChangeGate{}
}

func (ChangeGate) Validate(req AttributeChangeRequest) error {
	if req.Kind != KindAlterRole {
		return nil
	}
	if _, ok := req.Options[OptionValidUntil]; !ok {
		return errExpirationSettingRequired()
	}
	return nil
}
