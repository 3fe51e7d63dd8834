package api

import (
	"encoding/json"
	"net/http"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/errors"
	"github.com/ecocollect/waste-backend/realtime"
)

// createBulkRequestHandler stores a new bulk waste request for the
// authenticated business. Bulk requests follow the same lifecycle as regular
// ones but must carry a quantity.
func (a *API) createBulkRequestHandler(w http.ResponseWriter, r *http.Request) {
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
	if info.Quantity < 1 {
		errors.ErrValidation.Withf("quantity must be at least 1").Write(w)
		return
	}
	req, apiErr, ok := requestFromInfo(user, info)
	if !ok {
		apiErr.Write(w)
		return
	}
	req.Kind = db.BulkRequest
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

// listBulkRequestsHandler returns the business's bulk requests, newest first.
func (a *API) listBulkRequestsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	reqs, err := a.db.RequestsByOwner(user.ID, db.BulkRequest)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.RequestList{Requests: reqs})
}

// bulkRequestStatusCountsHandler returns the business's bulk request tally
// per lifecycle status.
func (a *API) bulkRequestStatusCountsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	counts, err := a.db.StatusCounts(user.ID, db.BulkRequest)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.StatusCounts{Counts: counts})
}

// createScheduledPickupHandler stores a new recurring pickup for the
// authenticated business.
func (a *API) createScheduledPickupHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	info := &apicommon.ScheduleInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if !db.IsValidWasteType(db.WasteType(info.WasteType)) {
		errors.ErrValidation.Withf("unknown waste type %q", info.WasteType).Write(w)
		return
	}
	if info.TimeSlot == "" || info.Address == "" {
		errors.ErrValidation.Withf("timeSlot and address are required").Write(w)
		return
	}
	startDate, err := parseDate(info.StartDate)
	if err != nil {
		errors.ErrInvalidDate.Withf("could not parse %q", info.StartDate).Write(w)
		return
	}
	pickup, err := a.db.CreateSchedule(&db.ScheduledPickup{
		BusinessID: user.ID,
		Frequency:  db.Frequency(info.Frequency),
		DayOfWeek:  info.DayOfWeek,
		DayOfMonth: info.DayOfMonth,
		TimeSlot:   info.TimeSlot,
		WasteType:  db.WasteType(info.WasteType),
		Address:    info.Address,
		StartDate:  startDate,
	})
	if err != nil {
		if err == db.ErrInvalidData {
			errors.ErrInvalidRecurrence.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteCreatedJSON(w, pickup)
}

// listScheduledPickupsHandler returns the business's recurring pickups,
// newest first.
func (a *API) listScheduledPickupsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	pickups, err := a.db.SchedulesByBusiness(user.ID)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.ScheduleList{Pickups: pickups})
}

// toggleScheduledPickupHandler switches a recurring pickup on or off.
func (a *API) toggleScheduledPickupHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromURL(r, "pickupId")
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	update := &apicommon.ScheduleActiveUpdate{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	pickup, err := a.db.SetScheduleActive(user.ID, id, update.Active)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrPickupNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, pickup)
}
