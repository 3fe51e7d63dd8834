package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/errors"
	"github.com/ecocollect/waste-backend/internal"
	"github.com/ecocollect/waste-backend/realtime"
)

// ownerKindOf maps an account role onto the owner kind of its requests.
func ownerKindOf(role db.Role) db.OwnerKind {
	if role == db.BusinessRole {
		return db.BusinessOwner
	}
	return db.ResidentOwner
}

// requestFromInfo validates the payload and builds the request to store. The
// owner kind is derived from the account role, never from the payload.
func requestFromInfo(user *db.User, info *apicommon.RequestInfo) (*db.WasteRequest, errors.Error, bool) {
	if !db.IsValidWasteType(db.WasteType(info.WasteType)) {
		return nil, errors.ErrValidation.Withf("unknown waste type %q", info.WasteType), false
	}
	if info.TimeSlot == "" || info.Address == "" {
		return nil, errors.ErrValidation.Withf("timeSlot and address are required"), false
	}
	date, err := parseDate(info.Date)
	if err != nil {
		return nil, errors.ErrInvalidDate.Withf("could not parse %q", info.Date), false
	}
	now := time.Now()
	year, month, day := now.Date()
	if date.Before(time.Date(year, month, day, 0, 0, 0, 0, now.Location())) {
		return nil, errors.ErrInvalidDate, false
	}
	return &db.WasteRequest{
		OwnerID:     user.ID,
		OwnerKind:   ownerKindOf(user.Role),
		Kind:        db.RegularRequest,
		Date:        date,
		TimeSlot:    info.TimeSlot,
		WasteType:   db.WasteType(info.WasteType),
		Quantity:    info.Quantity,
		Address:     info.Address,
		Description: info.Description,
	}, errors.Error{}, true
}

// createRequestHandler stores a new waste request for the authenticated
// owner and announces it to connected clients.
func (a *API) createRequestHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	info := &apicommon.RequestInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	req, apiErr, ok := requestFromInfo(user, info)
	if !ok {
		apiErr.Write(w)
		return
	}
	created, err := a.db.CreateRequest(req)
	if err != nil {
		if err == db.ErrInvalidData {
			errors.ErrValidation.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	a.publishRequestEvent(realtime.EventRequestCreated, created)
	apicommon.HTTPWriteCreatedJSON(w, created)
}

// listRequestsHandler returns the owner's requests, newest first.
func (a *API) listRequestsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	reqs, err := a.db.RequestsByOwner(user.ID, db.RegularRequest)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.RequestList{Requests: reqs})
}

// requestStatusCountsHandler returns the owner's request tally per lifecycle
// status, with every status present.
func (a *API) requestStatusCountsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	counts, err := a.db.StatusCounts(user.ID, db.RegularRequest)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.StatusCounts{Counts: counts})
}

// requestInfoHandler returns one of the owner's requests. A request owned by
// another account is reported as missing.
func (a *API) requestInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromURL(r, "requestId")
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	req, err := a.db.Request(user.ID, id)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrRequestNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, req)
}

// ownerTransitionRequestHandler lets an owner move one of its requests
// through the lifecycle. The only transition an owner may perform is the
// cancellation of a pending request.
func (a *API) ownerTransitionRequestHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromURL(r, "requestId")
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	update := &apicommon.RequestStatusUpdate{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	target := db.RequestStatus(update.Status)
	if !db.IsValidStatus(target) {
		errors.ErrValidation.Withf("unknown status %q", update.Status).Write(w)
		return
	}
	if target != db.StatusCancelled {
		// the only owner transition is the cancellation, anything else is
		// refused with the untouched current status
		req, err := a.db.Request(user.ID, id)
		if err != nil {
			if err == db.ErrNotFound {
				errors.ErrRequestNotFound.Write(w)
				return
			}
			errors.ErrInternalStorageError.WithErr(err).Write(w)
			return
		}
		errors.ErrInvalidTransition.WithData(map[string]any{
			"current":   req.Status,
			"attempted": target,
		}).Write(w)
		return
	}
	a.cancelRequest(w, user, id)
}

// cancelRequestHandler cancels one of the owner's pending requests.
func (a *API) cancelRequestHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromURL(r, "requestId")
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	a.cancelRequest(w, user, id)
}

func (a *API) cancelRequest(w http.ResponseWriter, user *db.User, id internal.ObjectID) {
	cancelled, err := a.db.CancelRequest(user.ID, id)
	if err != nil {
		errorFromTransition(err).Write(w)
		return
	}
	a.publishRequestEvent(realtime.EventRequestCancelled, cancelled)
	apicommon.HTTPWriteJSON(w, cancelled)
}
