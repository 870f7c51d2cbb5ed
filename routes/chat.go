package routes

import (
	"github.com/gin-gonic/gin"

	"rozzgari-server/middleware"
	ws "rozzgari-server/websocket"
)

// RegisterChatRoutes wires the live relay endpoint. The relay is a
// plain pass-through: peers join rooms keyed by conversation id and
// "send_message" events are rebroadcast to other members. It has no
// relation to the persisted message store.
func RegisterChatRoutes(router *gin.Engine, hub *ws.Hub) {
	chat := router.Group("/api/chat")
	chat.GET("/ws", middleware.WebSocketAuthMiddleware(), func(c *gin.Context) {
		userID := c.GetUint("user_id")
		ws.ServeWebSocket(hub, c.Writer, c.Request, userID)
	})
}
