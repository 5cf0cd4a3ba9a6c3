// Package authz answers "may this identity do that": it aggregates
// role and permission grants across authorizing realms and evaluates
// requested permissions against them with the wildcard permission
// model. Probe methods (IsPermitted, HasRole) return booleans; check
// methods fail loudly with typed errors so callers can distinguish
// "log in first" from "forbidden".
package authz
