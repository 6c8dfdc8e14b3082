package model

// Token is a short-lived access token scoped to one study. It is never cached.
type Token string

// String hides the token value so it cannot leak through logs.
func (t Token) String() string {
	if t == "" {
		return ""
	}
	return "[token]"
}
