package api

import (
	"net/http"
	"strings"

	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/errors"
	"github.com/ecocollect/waste-backend/internal"
	"github.com/ecocollect/waste-backend/realtime"
	"github.com/gorilla/websocket"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS for WebSocket is handled at the HTTP layer already.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// wsToken extracts the bearer token from the Authorization header or, for
// browser WebSocket clients, from the token query parameter.
func wsToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// websocketHandler authenticates the caller, upgrades the connection and
// registers it in its rooms: the private account room plus the role room for
// businesses and collectors.
func (a *API) websocketHandler(w http.ResponseWriter, r *http.Request) {
	raw := wsToken(r)
	if raw == "" {
		errors.ErrUnauthorized.Write(w)
		return
	}
	token, err := a.auth.Decode(raw)
	if err != nil || jwt.Validate(token, jwt.WithRequiredClaim("userId")) != nil {
		errors.ErrInvalidCredential.Write(w)
		return
	}
	rawUserID, _ := token.Get("userId")
	hexUserID, ok := rawUserID.(string)
	if !ok {
		errors.ErrInvalidCredential.Write(w)
		return
	}
	userID, err := internal.ObjectIDFromHex(hexUserID)
	if err != nil {
		errors.ErrInvalidCredential.Write(w)
		return
	}
	user, err := a.db.User(userID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUnknownSubject.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}

	rooms := []string{realtime.UserRoom(user.ID)}
	switch user.Role {
	case db.BusinessRole:
		rooms = append(rooms, realtime.BusinessRoom(user.ID))
	case db.CollectorRole:
		rooms = append(rooms, realtime.CollectorRoom(user.ID))
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	a.hub.Serve(conn, rooms...)
}
