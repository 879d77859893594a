// Package common contains shared constants and sentinel errors used across
// client and server components.
package common

// AuthorizationHeader carries the bearer access token on API requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "

// Parent entity kinds an attachment can be filed under. The set is closed:
// every attachment belongs to exactly one of these.
const (
	ParentKindAsset   = "asset"
	ParentKindGateway = "gateway"
	ParentKindPoint   = "point"
)

// ValidParentKind reports whether kind is one of the closed parent set.
func ValidParentKind(kind string) bool {
	switch kind {
	case ParentKindAsset, ParentKindGateway, ParentKindPoint:
		return true
	}
	return false
}
