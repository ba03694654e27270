package domain

// Credentials select alternate store access rights. Enforcement of what a
// credential pair may see is entirely the store's concern.
type Credentials struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// Identity is the effective identity for a call: the caller name used for
// audit and history attribution, plus optional alternate store credentials.
// It is threaded explicitly through every gateway call; there is no hidden
// session-level identity switching.
type Identity struct {
	Caller      string       `json:"caller"`
	Credentials *Credentials `json:"credentials,omitempty"`
}
