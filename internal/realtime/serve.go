package realtime

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// TokenParser validates an access token and returns the user id.
type TokenParser interface {
	ParseAccess(token string) (int64, error)
}

// MembershipChecker reports whether a user participates in an event.
type MembershipChecker interface {
	IsParticipant(ctx context.Context, eventID, userID int64) (bool, error)
}

// ServeWS returns the GET /ws/events/:id handler. The token travels in
// the query string because browsers cannot set headers on WebSocket
// dials.
func ServeWS(hub *Hub, tokens TokenParser, members MembershipChecker, cfg config.WSConfig, log zerolog.Logger) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true }, // CORS is open on the REST side too
	}
	log = log.With().Str("component", "realtime.serve").Logger()

	return func(c *gin.Context) {
		eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || eventID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		userID, err := tokens.ParseAccess(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		ok, err := members.IsParticipant(c.Request.Context(), eventID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "membership check failed"})
			return
		}
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("ws upgrade failed")
			return
		}

		client := &Client{
			hub:          hub,
			conn:         conn,
			send:         make(chan []byte, cfg.SendBuffer),
			userID:       userID,
			eventID:      eventID,
			pingInterval: cfg.PingInterval.Duration(),
			writeTimeout: cfg.WriteTimeout.Duration(),
			log:          log.With().Int64("user_id", userID).Int64("event_id", eventID).Logger(),
		}
		hub.register(client)
		go client.writePump()
		// Detach from the request context: the socket outlives the
		// upgrade request.
		client.readPump(context.Background())
	}
}
