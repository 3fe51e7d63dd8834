package api

import (
	"encoding/json"
	"net/http"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/errors"
	"github.com/ecocollect/waste-backend/internal"
	log "github.com/sirupsen/logrus"
)

// registerHandler handles the register request. It creates a new account in
// the database and, for collector accounts, an empty collector profile. It
// returns a token so the client is logged in right away.
func (a *API) registerHandler(w http.ResponseWriter, r *http.Request) {
	userInfo := &apicommon.UserInfo{}
	if err := json.NewDecoder(r.Body).Decode(userInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	// check the email is correct format
	if !internal.ValidEmail(userInfo.Email) {
		errors.ErrEmailMalformed.Write(w)
		return
	}
	// check the password is correct format
	if len(userInfo.Password) < 8 {
		errors.ErrPasswordTooShort.Write(w)
		return
	}
	// check the name is not empty
	if userInfo.Name == "" {
		errors.ErrValidation.Withf("name is empty").Write(w)
		return
	}
	role := db.Role(userInfo.Role)
	if !db.IsValidRole(role) {
		errors.ErrInvalidRole.Write(w)
		return
	}
	// sanitize the phone number if one was provided
	phone := userInfo.Phone
	if phone != "" {
		sanitized, err := internal.SanitizeAndVerifyPhoneNumber(phone)
		if err != nil {
			errors.ErrPhoneMalformed.Write(w)
			return
		}
		phone = sanitized
	}
	user := &db.User{
		Name:     userInfo.Name,
		Email:    userInfo.Email,
		Password: internal.HexHashPassword(passwordSalt, userInfo.Password),
		Phone:    phone,
		Role:     role,
	}
	if userInfo.Location != nil {
		user.Location = *userInfo.Location
	}
	// add the user to the database
	userID, err := a.db.SetUser(user)
	if err != nil {
		if err == db.ErrAlreadyExists {
			errors.ErrDuplicateEmail.Write(w)
			return
		}
		log.WithError(err).Warn("could not create user")
		errors.ErrInternalStorageError.Write(w)
		return
	}
	user.ID = userID
	// collectors get an empty profile to fill in later
	if role == db.CollectorRole {
		if _, err := a.db.SetCollectorProfile(&db.CollectorProfile{UserID: userID}); err != nil {
			log.WithError(err).Warn("could not create collector profile")
			errors.ErrInternalStorageError.Write(w)
			return
		}
	}
	res, err := a.buildLoginResponse(user)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	// send the token back to the user
	apicommon.HTTPWriteCreatedJSON(w, res)
}

// authLoginHandler authenticates a user and returns a JWT token. Unknown
// email and bad password produce the same response.
func (a *API) authLoginHandler(w http.ResponseWriter, r *http.Request) {
	loginInfo := &apicommon.UserInfo{}
	if err := json.NewDecoder(r.Body).Decode(loginInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	// get the user information from the database by email
	user, err := a.db.UserByEmail(loginInfo.Email)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUnauthorized.Write(w)
			return
		}
		errors.ErrInternalStorageError.Write(w)
		return
	}
	// check the password
	if pass := internal.HexHashPassword(passwordSalt, loginInfo.Password); pass != user.Password {
		errors.ErrUnauthorized.Write(w)
		return
	}
	res, err := a.buildLoginResponse(user)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	// send the token back to the user
	apicommon.HTTPWriteJSON(w, res)
}

// refreshTokenHandler re-issues the JWT token for an authenticated caller.
func (a *API) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	res, err := a.buildLoginResponse(user)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, res)
}

// userInfoHandler returns the public profile of the authenticated account.
func (a *API) userInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, user)
}

// updateUserInfoHandler updates the mutable fields of the authenticated
// account, name, phone and location. Email and role are immutable.
func (a *API) updateUserInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	update := &apicommon.UserProfileUpdate{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if update.Name == "" {
		errors.ErrValidation.Withf("name is empty").Write(w)
		return
	}
	phone := update.Phone
	if phone != "" {
		sanitized, err := internal.SanitizeAndVerifyPhoneNumber(phone)
		if err != nil {
			errors.ErrPhoneMalformed.Write(w)
			return
		}
		phone = sanitized
	}
	updated, err := a.db.UpdateUserProfile(user.ID, update.Name, phone)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUserNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	if update.Location != nil {
		updated, err = a.db.UpdateUserLocation(user.ID,
			update.Location.Coordinates[0], update.Location.Coordinates[1])
		if err != nil {
			errors.ErrInternalStorageError.WithErr(err).Write(w)
			return
		}
	}
	apicommon.HTTPWriteJSON(w, updated)
}
