// Package credential compares the proof submitted in an authentication
// token against the stored truth held in an account record. Matchers
// run on every authentication attempt, including realm cache hits, so
// a stale cache can never skip credential verification.
package credential
