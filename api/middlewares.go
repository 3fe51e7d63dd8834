package api

import (
	"context"
	"net/http"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/errors"
	"github.com/ecocollect/waste-backend/internal"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// authenticator is a middleware that authenticates the user from the JWT
// token. If successful, it decodes the user identifier from the token, gets
// the user from the database, adds it to the request context and passes it
// to the next handler.
func (a *API) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			if err == jwtauth.ErrNoTokenFound {
				errors.ErrUnauthorized.Write(w)
				return
			}
			// malformed, expired or badly signed token
			errors.ErrInvalidCredential.WithErr(err).Write(w)
			return
		}
		if token == nil || jwt.Validate(token, jwt.WithRequiredClaim("userId")) != nil {
			errors.ErrInvalidCredential.Withf("userId claim not found in JWT token").Write(w)
			return
		}
		rawUserID, ok := claims["userId"].(string)
		if !ok {
			errors.ErrInvalidCredential.Withf("malformed userId claim").Write(w)
			return
		}
		userID, err := internal.ObjectIDFromHex(rawUserID)
		if err != nil {
			errors.ErrInvalidCredential.Withf("malformed userId claim").Write(w)
			return
		}
		// get the user from the database
		user, err := a.db.User(userID)
		if err != nil {
			if err == db.ErrNotFound {
				errors.ErrUnknownSubject.Write(w)
				return
			}
			errors.ErrGenericInternalServerError.Withf("could not retrieve user from database: %v", err).Write(w)
			return
		}
		// add the user to the context
		ctx := context.WithValue(r.Context(), apicommon.UserMetadataKey, *user)
		// token is authenticated, pass it through with the new context with
		// the user information
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole restricts the wrapped routes to accounts of the given role.
// For the collector role it also resolves the collector profile and stores
// it in the context.
func (a *API) requireRole(role db.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := apicommon.UserFromContext(r.Context())
			if !ok {
				errors.ErrUnauthorized.Write(w)
				return
			}
			if user.Role != role {
				errors.ErrForbidden.Withf("route restricted to %s accounts", role).Write(w)
				return
			}
			ctx := r.Context()
			if role == db.CollectorRole {
				profile, err := a.db.CollectorProfileByUser(user.ID)
				if err != nil {
					if err == db.ErrNotFound {
						errors.ErrProfileNotFound.Write(w)
						return
					}
					errors.ErrInternalStorageError.WithErr(err).Write(w)
					return
				}
				ctx = context.WithValue(ctx, apicommon.CollectorProfileMetadataKey, *profile)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireOwner restricts the wrapped routes to request owner accounts, that
// is residents and businesses.
func (a *API) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := apicommon.UserFromContext(r.Context())
		if !ok {
			errors.ErrUnauthorized.Write(w)
			return
		}
		if user.Role != db.ResidentRole && user.Role != db.BusinessRole {
			errors.ErrForbidden.Withf("route restricted to resident and business accounts").Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
