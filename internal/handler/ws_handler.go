/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
upgrading the HTTP connection to WebSocket, and initiating the client lifecycle. Identity
is not carried on the handshake: the first frame a client sends is expected to be a
user:join event.
*/
package handler

import (
	"net/http"

	"mapchat/internal/app/chat"
	"mapchat/internal/pkg/errs"
	"mapchat/internal/pkg/limiter"
	"mapchat/internal/pkg/logx"
	"mapchat/internal/pkg/randx"
	"mapchat/internal/pkg/resp"

	"github.com/gorilla/websocket"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		connID, err := randx.ConnID()
		if err != nil {
			logx.Error(err, "Failed to generate connection identifier")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Hub, conn, connID)

		go client.WritePump()

		logx.Info("WebSocket connection established", "conn_id", connID)

		client.ReadPump()
	}
}
