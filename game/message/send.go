package message

import (
	"context"
	"math/rand"

	"github.com/jacobpatterson1549/wibble/server/log"
)

// sendDebugID creates ids to match log messages of a send.
var sendDebugID = rand.Int

// Send is a utility function for sending messages out on a channel.
// When debugging, it prints a message before and after the message is sent to help identify deadlocks.
// The message is dropped if the context is done before it is sent.
func Send(ctx context.Context, m Message, out chan<- Message, debug bool, l log.Logger) {
	if debug {
		id := sendDebugID()
		log.Debugf(l, "[id: %v] sending message: %v %+v", id, m.Type, m)
		defer log.Debugf(l, "[id: %v] message sent", id)
	}
	select {
	case out <- m:
	case <-ctx.Done():
	}
}
