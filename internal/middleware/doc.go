// Package middleware provides the HTTP middleware chain: request logging in
// W3C Extended Log Format and Prometheus request metrics.
package middleware
