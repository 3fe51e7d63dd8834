package api

import (
	"context"
	"time"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/errors"
	"github.com/ecocollect/waste-backend/realtime"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// buildLoginResponse creates a JWT token for the given user. The token is
// signed with the API secret and carries the user identifier and role. It is
// valid for the period specified on the jwtExpiration constant.
func (a *API) buildLoginResponse(user *db.User) (*apicommon.LoginResponse, error) {
	j := jwt.New()
	if err := j.Set("userId", user.ID.Hex()); err != nil {
		return nil, err
	}
	if err := j.Set("role", string(user.Role)); err != nil {
		return nil, err
	}
	if err := j.Set(jwt.ExpirationKey, time.Now().Add(jwtExpiration)); err != nil {
		return nil, err
	}
	lr := apicommon.LoginResponse{User: user}
	lr.Expirity = time.Now().Add(jwtExpiration)
	jmap, err := j.AsMap(context.Background())
	if err != nil {
		return nil, err
	}
	_, lr.Token, _ = a.auth.Encode(jmap)
	return &lr, nil
}

// parseDate parses a request date, accepting RFC3339 or plain YYYY-MM-DD.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// publish pushes an event on the bus if one is configured.
func (a *API) publish(ev realtime.Event) {
	if a.bus != nil {
		a.bus.Publish(ev)
	}
}

// requestRooms returns the rooms interested in a request event: the owner
// room and, when a collector is assigned, the collector room.
func requestRooms(req *db.WasteRequest) []string {
	rooms := []string{realtime.UserRoom(req.OwnerID)}
	if !req.CollectorID.IsZero() {
		rooms = append(rooms, realtime.CollectorRoom(req.CollectorID))
	}
	return rooms
}

// publishRequestEvent publishes the event to every room interested in the
// request.
func (a *API) publishRequestEvent(eventType string, req *db.WasteRequest) {
	for _, room := range requestRooms(req) {
		a.publish(realtime.Event{Type: eventType, Room: room, Data: req})
	}
}

// errorFromTransition maps a storage transition failure onto the API error
// taxonomy, attaching the current and attempted statuses when available.
func errorFromTransition(err error) errors.Error {
	if terr, ok := err.(*db.TransitionError); ok {
		return errors.ErrInvalidTransition.WithData(map[string]any{
			"current":   terr.Current,
			"attempted": terr.Attempted,
		})
	}
	if err == db.ErrNotFound {
		return errors.ErrRequestNotFound
	}
	return errors.ErrInternalStorageError.WithErr(err)
}
