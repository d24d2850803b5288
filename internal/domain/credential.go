package domain

// Credential is an externally supplied secret bound to a named service.
// Loaded once at process start and never mutated, so concurrent reads
// are safe.
type Credential struct {
	KeyName string `json:"key_name"`
	Value   string `json:"-"`
	Present bool   `json:"present"`
}

// Require returns a MissingCredentialError when the credential was not
// found. Components that cannot operate without the secret call this at
// construction time so the failure surfaces at startup, not inside a
// request.
func (c Credential) Require() error {
	if !c.Present || c.Value == "" {
		return &MissingCredentialError{Name: c.KeyName}
	}
	return nil
}
