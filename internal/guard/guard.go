// Package guard holds the authorization predicates composed in front of
// guarded operations. They are explicit checks the services call, not
// route decoration: authorization stays visible in every call path.
package guard

import (
	"github.com/rmehta/blogr/internal/apperr"
	"github.com/rmehta/blogr/internal/auth"
)

// RequireLoggedIn fails with ErrAuthRequired when the request is anonymous.
func RequireLoggedIn(id *auth.Identity) error {
	if id == nil {
		return apperr.ErrAuthRequired
	}
	return nil
}

// RequireOwner fails with ErrForbidden when the identity does not own the
// resource. Callers must confirm the resource exists first; ownership of a
// missing resource reports not-found, never forbidden.
func RequireOwner(id *auth.Identity, authorID int64) error {
	if err := RequireLoggedIn(id); err != nil {
		return err
	}
	if id.UserID != authorID {
		return apperr.ErrForbidden
	}
	return nil
}
