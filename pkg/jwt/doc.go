// Package jwt implements the gateway's token service: HMAC-SHA256 signed
// access/refresh token pairs and the Bearer middleware that turns a valid
// access token into an authenticated principal on the request context.
//
// Tokens carry a token_type claim so a refresh token can never be used as
// an access token or vice versa. Verification uses constant-time signature
// comparison and rejects any algorithm other than HS256.
package jwt
