// Package principal models the authenticated identity of an HTTP request.
//
// A Principal is either Anonymous or Authenticated with a user ID. The
// authentication middleware attaches it to the request context; downstream
// gates and handlers read it with FromContext and branch on Authenticated().
// Modeling the identity as a tagged value keeps "is there a user?" checks
// exhaustive instead of relying on nil checks scattered through handlers.
package principal
