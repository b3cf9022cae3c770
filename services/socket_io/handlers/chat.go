package handlers

import (
	"context"

	"Abuze/pkg/logger"
	"Abuze/services/chat"
	"Abuze/utils"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleOpenConversation switches the session's engine to the requested
// peer. The engine handles resubscription and stale-fetch discarding; this
// handler only parses the event and reports failures.
func HandleOpenConversation(engine *chat.Engine, client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		peer, ok := firstString(args)
		if !ok || peer == "" {
			client.Emit("error", gin.H{"error": "open_conversation requires a peer username"})
			return
		}
		if peer == username {
			client.Emit("error", gin.H{"error": "You cannot open a conversation with yourself"})
			return
		}

		if err := engine.Open(context.Background(), username, peer); err != nil {
			logger.Error("error opening conversation", "user", username, "peer", peer, "error", err)
			client.Emit("error", gin.H{"error": "Error loading conversation history"})
			return
		}
	}
}

// HandleSendMessage feeds the text into the engine. Empty text is a no-op
// by design, so no error event is emitted for it.
func HandleSendMessage(engine *chat.Engine, client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		text, ok := firstString(args)
		if !ok {
			client.Emit("error", gin.H{"error": "send_message requires the message text"})
			return
		}

		if err := engine.Send(context.Background(), utils.CleanText(text)); err != nil {
			logger.Warn("message send rejected", "user", username, "error", err)
			client.Emit("error", gin.H{"error": "No conversation is open"})
		}
	}
}

// HandleCloseConversation tears down the open conversation and its push
// subscription.
func HandleCloseConversation(engine *chat.Engine) func(args ...interface{}) {
	return func(args ...interface{}) {
		engine.Close()
	}
}

func firstString(args []interface{}) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok
}
