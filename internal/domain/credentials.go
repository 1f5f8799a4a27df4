package domain

// Credentials is the caller-supplied API key pair for the Composer platform.
// It is constructed once at startup from configuration and never mutated;
// the zero value means the gateway runs unauthenticated and every tool that
// requires auth fails fast without contacting upstream.
type Credentials struct {
	APIKey    string
	SecretKey string
}

// Present reports whether both halves of the pair were supplied. The upstream
// platform rejects requests carrying only one of the two headers, so a partial
// pair counts as absent.
func (c Credentials) Present() bool {
	return c.APIKey != "" && c.SecretKey != ""
}
