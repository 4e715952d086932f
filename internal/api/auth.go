package api

import "net/http"

// AuthFunc applies authentication to an outgoing request.
type AuthFunc func(*http.Request)

// NewBasicAuth returns an AuthFunc using HTTP Basic authentication.
func NewBasicAuth(email, token string) AuthFunc {
	return func(r *http.Request) {
		r.SetBasicAuth(email, token)
	}
}

// NewBearerAuth returns an AuthFunc setting a Bearer token.
func NewBearerAuth(token string) AuthFunc {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// NoAuth returns an AuthFunc that leaves the request untouched, for backends
// that are open on the local network.
func NoAuth() AuthFunc {
	return func(r *http.Request) {}
}

// ResolveAuth returns the appropriate AuthFunc based on provided credentials.
// It supports Bearer token, Basic (email + API token), or no authentication.
func ResolveAuth(bearerToken, email, token string) (auth AuthFunc, method string) {
	switch {
	case bearerToken != "":
		return NewBearerAuth(bearerToken), "Bearer"
	case email != "" && token != "":
		return NewBasicAuth(email, token), "Basic"
	default:
		return NoAuth(), "None"
	}
}
