package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"hawker/internal/daemon"
	"hawker/internal/logging"
	"hawker/internal/offering"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path     string
	logger   *slog.Logger
	listener net.Listener
	rpc      *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	svc := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Hawker", svc); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:     path,
		logger:   logger,
		listener: listener,
		rpc:      rpcServer,
		ctx:      serverCtx,
		cancel:   cancel,
	}, nil
}

// Serve accepts RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpc.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("remove socket", logging.String("socket", s.path), logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	resp.Running = status.Running
	resp.PID = status.PID
	resp.Offerings = status.Offerings
	resp.LogPath = status.LogPath
	if !status.StartedAt.IsZero() {
		resp.StartedAt = status.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return nil
}

func (s *service) Offerings(_ OfferingsRequest, resp *OfferingsResponse) error {
	infos := s.daemon.OfferingInfos()
	resp.Offerings = make([]OfferingInfo, 0, len(infos))
	for _, info := range infos {
		resp.Offerings = append(resp.Offerings, OfferingInfo{
			ID:          info.ID,
			Description: info.Description,
			Quote:       info.Quote,
		})
	}
	return nil
}

func (s *service) Quote(req QuoteRequest, resp *QuoteResponse) error {
	resp.Outcome = s.daemon.Quote(offering.Request{
		OfferingID: req.OfferingID,
		Parameters: req.Parameters,
	})
	return nil
}

func (s *service) Invoke(req InvokeRequest, resp *InvokeResponse) error {
	s.logger.Debug("invoke requested", logging.String("offering", req.OfferingID))
	resp.Outcome = s.daemon.Dispatch(s.ctx, offering.Request{
		OfferingID: req.OfferingID,
		Parameters: req.Parameters,
	})
	return nil
}
