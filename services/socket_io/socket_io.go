package socket_io

import (
	"time"

	"Abuze/middleware"
	"Abuze/pkg/logger"
	"Abuze/services/chat"
	"Abuze/services/redis"
	"Abuze/services/socket_io/handlers"
	socketio_types "Abuze/services/socket_io/types"

	"Abuze/models/postgres"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Start mounts the socket.io endpoint on the gin router. Every authenticated
// connection gets its own chat engine; conversation state flows back to the
// client as `conversation_state` snapshots.
func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// Higher ping interval and timeout to reduce network load and support
	// slower home connections.
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.UserConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		success, username := verifyUserConnection(client, db)
		if !success {
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(username, client)
		if err := redisClient.SetOnline(username); err != nil {
			logger.Warn("error marking user online", "user", username, "error", err)
		}
		logger.Info("user connected", "user", username)

		// One engine per socket session. Snapshots and send failures are
		// pushed straight back over this connection.
		engine := chat.NewEngine(chat.Config{
			Store: chat.NewPostgresStore(db, redisClient),
			Feed:  chat.NewBusFeed(redisClient),
			OnChange: func(snapshot []chat.Message) {
				client.Emit("conversation_state", snapshot)
			},
			OnSendError: func(msg chat.Message, err error) {
				logger.Error("error persisting message", "user", username, "error", err)
				client.Emit("message_failed", gin.H{
					"local_id": msg.ID,
					"error":    "Your message could not be delivered",
				})
			},
		})

		// Open (or switch to) the conversation with one friend
		client.On("open_conversation", handlers.HandleOpenConversation(engine, client, username))

		// Send a message into the open conversation
		client.On("send_message", handlers.HandleSendMessage(engine, client, username))

		// Leave the conversation view
		client.On("close_conversation", handlers.HandleCloseConversation(engine))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(username, engine,
			(*socketio_types.SocketServer)(sio), redisClient))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	logger.Info("socket server started")
}

// verifyUserConnection authenticates the handshake token and resolves the
// account's username. Unauthenticated sockets are told why and dropped.
func verifyUserConnection(client *socket.Socket, db *gorm.DB) (bool, string) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		client.Emit("error", gin.H{"error": "Missing handshake auth"})
		client.Disconnect(true)
		return false, ""
	}

	email, err := middleware.DecodeSocketToken(authData)
	if err != nil {
		client.Emit("error", gin.H{"error": "Invalid token"})
		client.Disconnect(true)
		return false, ""
	}

	var user postgres.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		client.Emit("error", gin.H{"error": "User not found"})
		client.Disconnect(true)
		return false, ""
	}

	return true, user.ProfileUsername
}
