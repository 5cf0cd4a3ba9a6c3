// Package permission implements the hierarchical wildcard permission
// model used for authorization decisions. A permission is either an
// absolute grant ([All]) or a [Wildcard] permission parsed from a
// colon-delimited string such as "user:read,write:123", where each part
// is a comma-separated token set and "*" matches any value for that
// part. The sole primitive exposed upward is [Permission.Implies].
package permission
