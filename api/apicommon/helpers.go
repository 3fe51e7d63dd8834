package apicommon

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/internal"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// UserFromContext retrieves the user from the context provided, expected to be
// the context of a request handled by the authenticator middleware.
func UserFromContext(ctx context.Context) (*db.User, bool) {
	rawUser, ok := ctx.Value(UserMetadataKey).(db.User)
	if ok {
		return &rawUser, ok
	}
	return nil, false
}

// CollectorProfileFromContext retrieves the collector profile stored by the
// role middleware.
func CollectorProfileFromContext(ctx context.Context) (*db.CollectorProfile, bool) {
	profile, ok := ctx.Value(CollectorProfileMetadataKey).(db.CollectorProfile)
	if ok {
		return &profile, ok
	}
	return nil, false
}

// ObjectIDFromURL extracts and parses an ObjectID URL parameter.
func ObjectIDFromURL(r *http.Request, param string) (internal.ObjectID, error) {
	return internal.ObjectIDFromHex(chi.URLParam(r, param))
}

// HTTPWriteJSON helper function allows to write a JSON response.
func HTTPWriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.WithError(err).Warn("failed to write on response")
	}
}

// HTTPWriteCreatedJSON writes a JSON response with a 201 status code.
func HTTPWriteCreatedJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.WithError(err).Warn("failed to write on response")
	}
}

// HTTPWriteOK helper function allows to write an OK response.
func HTTPWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.WithError(err).Warn("failed to write on response")
	}
}
