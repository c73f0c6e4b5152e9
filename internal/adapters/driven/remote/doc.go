// Package remote provides an ElementSource backed by an HTTP element API.
//
// Requests are authenticated with a bearer token through golang.org/x/oauth2
// and throttled with a token bucket from golang.org/x/time/rate. Pages are
// exchanged as JSON in the same shape as domain.Page.
package remote
