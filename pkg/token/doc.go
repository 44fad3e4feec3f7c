// Package token issues and validates the signed customer tokens of the
// storefront API.
//
// Tokens are HMAC-SHA256 JWTs carrying the customer identifier plus the
// store and tenant the customer belongs to. The tenant claim is advisory
// context only: the middleware cross-checks it against the resolution the
// tenant middleware bound from the control-plane directory and rejects
// mismatches, so a token minted for one store can never read another
// tenant's data.
package token
