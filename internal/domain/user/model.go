package user

// Principal is the authenticated caller as established by the token
// verifier. It carries only what handlers need for ownership checks.
type Principal struct {
	ID      string
	Name    string
	IsAdmin bool
}
