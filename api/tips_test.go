package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	qt "github.com/frankban/quicktest"
)

func TestTipHandlers(t *testing.T) {
	c := qt.New(t)
	collector := registerTestUser(t, uniqueEmail("tipcol"), db.CollectorRole)
	resident := registerTestUser(t, uniqueEmail("tipres"), db.ResidentRole)
	// only collectors may publish tips
	resp, code := testRequest(t, http.MethodPost, resident.Token, &apicommon.TipInfo{
		Category: string(db.WasteRecyclable),
		Content:  "Rinse containers before recycling them.",
	}, wasteTipsEndpoint)
	c.Assert(code, qt.Equals, http.StatusForbidden)
	c.Assert(string(resp), qt.Contains, "40004") // ErrForbidden
	// a tip needs a known category
	resp, code = testRequest(t, http.MethodPost, collector.Token, &apicommon.TipInfo{
		Category: "hazardous",
		Content:  "Handle with care.",
	}, wasteTipsEndpoint)
	c.Assert(code, qt.Equals, http.StatusBadRequest)
	c.Assert(string(resp), qt.Contains, "40006") // ErrValidation
	// publish two tips
	for _, tip := range []*apicommon.TipInfo{
		{Category: string(db.WasteRecyclable), Content: "Rinse containers before recycling them."},
		{Category: string(db.WasteBiodegradable), Content: "Compost fruit peels."},
	} {
		_, code := testRequest(t, http.MethodPost, collector.Token, tip, wasteTipsEndpoint)
		c.Assert(code, qt.Equals, http.StatusCreated)
	}
	// tips are public, no token needed
	resp, code = testRequest(t, http.MethodGet, "", nil, wasteTipsEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	list := &apicommon.TipList{}
	c.Assert(json.Unmarshal(resp, list), qt.IsNil)
	c.Assert(list.Tips, qt.HasLen, 2)
	// filtered by category
	resp, code = testRequest(t, http.MethodGet, "", nil, wasteTipsEndpoint+"?category=recyclable")
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(json.Unmarshal(resp, list), qt.IsNil)
	c.Assert(list.Tips, qt.HasLen, 1)
	c.Assert(list.Tips[0].Category, qt.Equals, db.WasteRecyclable)
	// an unknown category filter is rejected
	resp, code = testRequest(t, http.MethodGet, "", nil, wasteTipsEndpoint+"?category=hazardous")
	c.Assert(code, qt.Equals, http.StatusBadRequest)
	c.Assert(string(resp), qt.Contains, "40006") // ErrValidation
}
