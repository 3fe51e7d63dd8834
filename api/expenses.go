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

// expenseWindow parses the optional startDate and endDate query parameters.
// Zero times disable the corresponding bound.
func expenseWindow(r *http.Request) (from, to time.Time, err error) {
	if raw := r.URL.Query().Get("startDate"); raw != "" {
		if from, err = parseDate(raw); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		if to, err = parseDate(raw); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

// createExpenseHandler stores a new expense, linked to one of the business's
// bulk requests, and announces it to the business room.
func (a *API) createExpenseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	info := &apicommon.ExpenseInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	requestID, err := internal.ObjectIDFromHex(info.RequestID)
	if err != nil {
		errors.ErrValidation.Withf("malformed requestId").Write(w)
		return
	}
	if !db.IsValidExpenseCategory(db.ExpenseCategory(info.Category)) {
		errors.ErrValidation.Withf("unknown expense category %q", info.Category).Write(w)
		return
	}
	if info.Amount < 0 {
		errors.ErrValidation.Withf("amount must not be negative").Write(w)
		return
	}
	exp := &db.Expense{
		BusinessID:  user.ID,
		RequestID:   requestID,
		Amount:      info.Amount,
		Category:    db.ExpenseCategory(info.Category),
		Description: info.Description,
	}
	if info.Date != "" {
		if exp.Date, err = parseDate(info.Date); err != nil {
			errors.ErrInvalidDate.Withf("could not parse %q", info.Date).Write(w)
			return
		}
	}
	created, err := a.db.CreateExpense(exp)
	if err != nil {
		switch err {
		case db.ErrNotFound:
			errors.ErrRequestNotFound.Write(w)
		case db.ErrInvalidData:
			errors.ErrValidation.Write(w)
		default:
			errors.ErrInternalStorageError.WithErr(err).Write(w)
		}
		return
	}
	a.publish(realtime.Event{
		Type: realtime.EventExpenseCreated,
		Room: realtime.BusinessRoom(user.ID),
		Data: created,
	})
	apicommon.HTTPWriteCreatedJSON(w, created)
}

// listExpensesHandler returns the business's expenses, optionally bounded by
// the startDate and endDate query parameters.
func (a *API) listExpensesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	from, to, err := expenseWindow(r)
	if err != nil {
		errors.ErrInvalidDate.Write(w)
		return
	}
	expenses, err := a.db.ExpensesByBusiness(user.ID, from, to)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.ExpenseList{Expenses: expenses})
}

// expenseInfoHandler returns one of the business's expenses.
func (a *API) expenseInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromURL(r, "expenseId")
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	exp, err := a.db.Expense(user.ID, id)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrExpenseNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, exp)
}

// updateExpenseHandler updates the amount, category and description of one
// of the business's expenses.
func (a *API) updateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromURL(r, "expenseId")
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	info := &apicommon.ExpenseInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	exp, err := a.db.UpdateExpense(user.ID, id, info.Amount, db.ExpenseCategory(info.Category), info.Description)
	if err != nil {
		switch err {
		case db.ErrNotFound:
			errors.ErrExpenseNotFound.Write(w)
		case db.ErrInvalidData:
			errors.ErrValidation.Write(w)
		default:
			errors.ErrInternalStorageError.WithErr(err).Write(w)
		}
		return
	}
	apicommon.HTTPWriteJSON(w, exp)
}

// deleteExpenseHandler removes one of the business's expenses.
func (a *API) deleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromURL(r, "expenseId")
	if err != nil {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	if err := a.db.DeleteExpense(user.ID, id); err != nil {
		if err == db.ErrNotFound {
			errors.ErrExpenseNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// expenseAnalyticsHandler returns the monthly and per-category expense
// totals of the business, optionally bounded by startDate and endDate.
func (a *API) expenseAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	from, to, err := expenseWindow(r)
	if err != nil {
		errors.ErrInvalidDate.Write(w)
		return
	}
	analytics, err := a.db.ExpenseAnalytics(user.ID, from, to)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, analytics)
}
