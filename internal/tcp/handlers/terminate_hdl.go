package handlers

import (
	"context"
	"net"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/static/errs"
)

var _ primary.MessageHandler = (*ClientTerminateHandler)(nil)

// ClientTerminateHandler handles the client's [T] and [E] shutdown notices.
// It always returns an error so the serve loop stops; the error says which
// kind of stop it was.
type ClientTerminateHandler struct {
	Failed bool
	Logger primary.Logger
}

// HandleMessage implements the MessageHandler interface
func (h *ClientTerminateHandler) HandleMessage(ctx context.Context, conn net.Conn) error {
	if h.Failed {
		h.Logger.Warn("Client terminated due to an error")
		return errs.ErrClientFailed
	}
	h.Logger.Info("Client terminated normally")
	return errs.ErrClientTerminated
}
