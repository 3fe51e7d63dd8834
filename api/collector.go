package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/errors"
	"github.com/ecocollect/waste-backend/realtime"
	log "github.com/sirupsen/logrus"
)

// analyticsWindow resolves the timeFrame query parameter into a date range:
// the last 7 days for "week", the last 30 for anything else.
func analyticsWindow(r *http.Request) (from, to time.Time, days int) {
	to = time.Now()
	days = 30
	if r.URL.Query().Get("timeFrame") == "week" {
		days = 7
	}
	from = to.AddDate(0, 0, -days)
	return from, to, days
}

// scheduledAt combines a request date with its HH:MM time slot. Requests
// with an unparseable slot are scheduled at the date itself.
func scheduledAt(req *db.WasteRequest) time.Time {
	slot, err := time.Parse("15:04", req.TimeSlot)
	if err != nil {
		return req.Date
	}
	year, month, day := req.Date.Date()
	return time.Date(year, month, day, slot.Hour(), slot.Minute(), 0, 0, req.Date.Location())
}

// collectorAssignedRequestsHandler returns the pending and accepted requests
// assigned to the collector, soonest pickup first.
func (a *API) collectorAssignedRequestsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	reqs, err := a.db.OpenRequestsByCollector(user.ID)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.RequestList{Requests: reqs})
}

// collectorAvailableRequestsHandler returns pending requests no collector
// has claimed yet.
func (a *API) collectorAvailableRequestsHandler(w http.ResponseWriter, _ *http.Request) {
	reqs, err := a.db.UnassignedPendingRequests()
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.RequestList{Requests: reqs})
}

// collectorHistoryHandler returns one page of the collector's completed
// pickups, newest completion first.
func (a *API) collectorHistoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	page := defaultHistoryPage
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	reqs, total, err := a.db.CompletedRequestsByCollector(user.ID, page, limit)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	apicommon.HTTPWriteJSON(w, &apicommon.HistoryResponse{
		Requests:    reqs,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
	})
}

// collectorTransitionRequestHandler lets a collector accept, reject or
// complete a request. Accepting or rejecting an unassigned pending request
// claims it for the collector. Completing records the earnings and bumps the
// collector performance counters.
func (a *API) collectorTransitionRequestHandler(w http.ResponseWriter, r *http.Request) {
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
	switch target {
	case db.StatusAccepted, db.StatusRejected, db.StatusCompleted:
	default:
		errors.ErrInvalidTransition.Withf("collectors may not set status %q", update.Status).Write(w)
		return
	}
	req, err := a.db.TransitionRequest(
		db.TransitionScope{Collector: user.ID}, id, target, update.Earnings)
	if err != nil {
		errorFromTransition(err).Write(w)
		return
	}
	if target == db.StatusCompleted {
		onTime := req.CompletedAt != nil &&
			!req.CompletedAt.After(scheduledAt(req).Add(onTimeThreshold))
		if _, err := a.db.RecordCollectorPickup(user.ID, req.Earnings, onTime); err != nil {
			// the transition already happened, log and keep going
			log.WithError(err).Warn("could not update collector performance counters")
		}
	}
	a.publishRequestEvent(realtime.EventRequestUpdated, req)
	apicommon.HTTPWriteJSON(w, req)
}

// collectorLocationHandler stores a collector position fix and broadcasts it.
func (a *API) collectorLocationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	update := &apicommon.LocationUpdate{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	profile, err := a.db.UpdateCollectorLocation(user.ID, update.Longitude, update.Latitude)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrProfileNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	a.publish(realtime.Event{
		Type: realtime.EventCollectorMoved,
		Data: map[string]any{
			"collectorId": user.ID,
			"location":    profile.CurrentLocation,
		},
	})
	apicommon.HTTPWriteJSON(w, profile)
}

// collectorProfileHandler returns the collector profile resolved by the role
// middleware.
func (a *API) collectorProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, ok := apicommon.CollectorProfileFromContext(r.Context())
	if !ok {
		errors.ErrProfileNotFound.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, profile)
}

// updateCollectorProfileHandler updates the mutable collector profile
// fields.
func (a *API) updateCollectorProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	update := &apicommon.CollectorProfileUpdate{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	profile, err := a.db.UpdateCollectorProfile(user.ID,
		update.VehicleType, update.VehicleNumber,
		update.WorkingHours, update.ServiceArea, update.NotificationPreferences)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrProfileNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, profile)
}

// collectorAnalytics builds the aggregate view of the collector's completed
// pickups over the window.
func collectorAnalytics(reqs []*db.WasteRequest, from time.Time, days int) *apicommon.CollectorAnalytics {
	analytics := &apicommon.CollectorAnalytics{
		TotalPickups:    len(reqs),
		PickupsOverTime: []apicommon.DailyPickups{},
	}
	perDay := make(map[string]*apicommon.DailyPickups, days)
	var delaySum time.Duration
	for _, req := range reqs {
		analytics.TotalEarnings += req.Earnings
		if req.CompletedAt == nil {
			continue
		}
		delay := req.CompletedAt.Sub(scheduledAt(req))
		if delay < 0 {
			delay = 0
		}
		delaySum += delay
		if delay <= onTimeThreshold {
			analytics.OnTimePickups++
		}
		day := req.CompletedAt.Format("2006-01-02")
		if bucket, ok := perDay[day]; ok {
			bucket.Pickups++
			bucket.Earnings += req.Earnings
		} else {
			perDay[day] = &apicommon.DailyPickups{Date: day, Pickups: 1, Earnings: req.Earnings}
		}
	}
	analytics.AverageDailyPickups = float64(len(reqs)) / float64(days)
	if len(reqs) > 0 {
		analytics.AverageDelayMinutes = delaySum.Minutes() / float64(len(reqs))
	}
	// one bucket per day of the window, zero-filled
	for i := 0; i <= days; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		if bucket, ok := perDay[day]; ok {
			analytics.PickupsOverTime = append(analytics.PickupsOverTime, *bucket)
		} else {
			analytics.PickupsOverTime = append(analytics.PickupsOverTime, apicommon.DailyPickups{Date: day})
		}
	}
	return analytics
}

// collectorAnalyticsHandler aggregates the collector's completed pickups
// over the requested window.
func (a *API) collectorAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	from, to, days := analyticsWindow(r)
	reqs, err := a.db.CompletedRequestsByCollectorSince(user.ID, from, to)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, collectorAnalytics(reqs, from, days))
}

// collectorAnalyticsExportHandler streams the collector's completed pickups
// over the window as a CSV attachment.
func (a *API) collectorAnalyticsExportHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	from, to, _ := analyticsWindow(r)
	reqs, err := a.db.CompletedRequestsByCollectorSince(user.ID, from, to)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	filename := fmt.Sprintf("collector-analytics-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Date", "Number of Pickups", "Earnings", "Waste Type"})
	for _, req := range reqs {
		date := ""
		if req.CompletedAt != nil {
			date = req.CompletedAt.Format("2006-01-02")
		}
		_ = cw.Write([]string{
			date,
			"1",
			strconv.FormatFloat(req.Earnings, 'f', 2, 64),
			string(req.WasteType),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.WithError(err).Warn("could not write csv export")
	}
}
