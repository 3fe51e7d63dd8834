package api

import (
	"encoding/json"
	"net/http"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/errors"
)

// listTipsHandler returns the disposal tips, grouped by waste category. The
// optional category query parameter narrows the result to one category.
func (a *API) listTipsHandler(w http.ResponseWriter, r *http.Request) {
	category := db.WasteType(r.URL.Query().Get("category"))
	tips, err := a.db.Tips(category)
	if err != nil {
		if err == db.ErrInvalidData {
			errors.ErrValidation.Withf("unknown waste type %q", category).Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.TipList{Tips: tips})
}

// createTipHandler stores a new disposal tip. Restricted to collector
// accounts by the router.
func (a *API) createTipHandler(w http.ResponseWriter, r *http.Request) {
	info := &apicommon.TipInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	tip := &db.WasteTip{
		Category: db.WasteType(info.Category),
		Content:  info.Content,
	}
	if _, err := a.db.CreateTip(tip); err != nil {
		if err == db.ErrInvalidData {
			errors.ErrValidation.Withf("category and content are required").Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	apicommon.HTTPWriteCreatedJSON(w, tip)
}
