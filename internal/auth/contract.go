// Package auth implements the identity subsystem: Discord OAuth sign-in,
// database-backed sessions, and session resolution for the HTTP layer.
//
// The subsystem does not speak any particular HTTP framework. It exposes a
// narrow request/response contract (method, path, headers, body in; status,
// headers, cookies, body out) and the transport layer adapts its own
// request type to it. That keeps the OAuth flow testable without a server
// and lets the surrounding app swap frameworks without touching auth.
package auth

import (
	"net/http"
	"net/url"
)

// Request is the transport-neutral inbound request the identity subsystem
// consumes. Path is relative to the auth mount point (e.g. "/callback"
// for a request to /api/auth/callback).
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Cookie returns the named cookie value from the request headers, with
// presence reported separately so empty values are distinguishable.
func (r *Request) Cookie(name string) (string, bool) {
	hr := http.Request{Header: r.Header}
	c, err := hr.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Response is the transport-neutral outbound response. Cookies are carried
// separately from Header because Set-Cookie folding is lossy; the adapter
// emits each one individually.
type Response struct {
	Status  int
	Header  http.Header
	Cookies []*http.Cookie
	Body    []byte
}

// newResponse returns a Response with the given status and an initialized
// header map.
func newResponse(status int) *Response {
	return &Response{Status: status, Header: http.Header{}}
}

// withJSON sets a JSON body and content type.
func (r *Response) withJSON(body []byte) *Response {
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	r.Body = body
	return r
}

// withRedirect sets a Location header. Status should already be 3xx.
func (r *Response) withRedirect(location string) *Response {
	r.Header.Set("Location", location)
	return r
}
