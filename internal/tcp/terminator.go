package tcp

import (
	"errors"
	"net"

	"gitlab.com/jobfeed.net/internal/domain"
	"gitlab.com/jobfeed.net/internal/tcp/defs"
)

// Terminate runs the client's shutdown sequence once and returns the exit
// status. Later calls return the first result.
func (c *TCPClient) Terminate(cause domain.Cause) int {
	c.terminateOnce.Do(func() {
		c.logger.Info("Terminating client", "cause", cause)

		if cause == domain.CauseInterrupt {
			// Consumers see their channels close and stop on their own.
			c.fanout.Close()
		} else {
			c.fanout.Finish()
			if !c.fanout.Wait(c.stopTimeout) && !c.fanout.Kill(c.stopTimeout) {
				c.logger.Warn("Consumers still running, leaving them behind")
			}
			c.fanout.Close()
		}

		if c.connectionMgr.Connected() {
			notice, err := defs.EncodeSignal(defs.ShutdownTag(cause))
			if err == nil {
				c.connectionMgr.SendShutdownNotice(notice)
			}
		}
		if err := c.connectionMgr.Close(); err != nil {
			c.logger.Warn("Failed to close connection", "error", err)
		}

		if cause == domain.CauseInterrupt {
			if !c.fanout.Wait(c.stopTimeout) && !c.fanout.Kill(c.stopTimeout) {
				c.logger.Warn("Consumers still running, leaving them behind")
			}
		}

		c.setState(domain.ClientStateTerminated)
		c.exitCode = cause.ExitCode()
	})
	return c.exitCode
}

// Terminate runs the server's shutdown sequence once and returns the exit
// status: notify the client, close the job file, close the sockets.
func (s *TCPServer) Terminate(cause domain.Cause) int {
	s.terminateOnce.Do(func() {
		s.logger.Info("Terminating server", "cause", cause)

		if s.connectionMgr.Connected() {
			s.connectionMgr.SendShutdownNotice(defs.EncodeEndOfData())
		}

		s.mu.Lock()
		feedService := s.feedService
		s.mu.Unlock()
		if feedService != nil {
			if err := feedService.Close(); err != nil {
				s.logger.Warn("Failed to close job file", "error", err)
			}
		}

		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				s.logger.Warn("Failed to close listener", "error", err)
			}
		}
		if err := s.connectionMgr.Close(); err != nil {
			s.logger.Warn("Failed to close connection", "error", err)
		}

		s.exitCode = cause.ExitCode()
	})
	return s.exitCode
}
