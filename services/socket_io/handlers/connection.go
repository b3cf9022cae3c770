package handlers

import (
	"Abuze/pkg/logger"
	"Abuze/services/chat"
	"Abuze/services/redis"
	socketio_types "Abuze/services/socket_io/types"
)

// HandleDisconnecting releases everything tied to one user's socket
// session: the conversation engine, the connection map entry and the
// presence marker.
func HandleDisconnecting(username string, engine *chat.Engine,
	sio *socketio_types.SocketServer, redisClient *redis.RedisClient) func(args ...interface{}) {
	return func(args ...interface{}) {
		engine.Close()
		sio.RemoveConnection(username)

		if redisClient != nil {
			if err := redisClient.SetOffline(username); err != nil {
				logger.Warn("error clearing presence", "user", username, "error", err)
			}
		}

		logger.Info("user disconnected", "user", username)
	}
}
