// Package rpc exposes the compiler over JSON-RPC on a unix socket so
// long-lived clients (editors, the reference UI) can compile without paying
// process startup per keystroke. The server is a thin method table over the
// pipeline; it owns no compilation state.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"promptforge/internal/artifact"
	"promptforge/internal/logger"
	"promptforge/internal/pipeline"
	"promptforge/internal/template"
)

var log = logger.ForComponent("rpc")

type Server struct {
	pipe     *pipeline.Pipeline
	resolver *artifact.Resolver
	store    artifact.Store
	listener net.Listener
}

func NewServer(registry *template.Registry, store artifact.Store) (*Server, error) {
	resolver, err := artifact.NewResolver(store)
	if err != nil {
		return nil, err
	}
	return &Server{
		pipe:     pipeline.New(registry),
		resolver: resolver,
		store:    store,
	}, nil
}

// Listen binds the unix socket, removing a stale one left by a previous run.
func (s *Server) Listen(socketPath string) error {
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	s.listener = listener
	log.Info("listening", "socket", socketPath)
	return nil
}

// Serve accepts connections until the context is canceled or the listener
// closes. Each connection gets its own jsonrpc2 conn; requests on different
// connections compile independently.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		stream := jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{})
		jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))
	}
}

func (s *Server) Close() error {
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) handle(ctx context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case "ping":
		return map[string]string{"status": "ok"}, nil
	case "compile":
		return s.handleCompile(ctx, req)
	case "artifact/list":
		return s.store.List(ctx)
	case "artifact/get":
		return s.handleArtifactGet(ctx, req)
	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}
}

func (s *Server) handleCompile(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var in pipeline.Input
	if err := unmarshalParams(req, &in); err != nil {
		return nil, err
	}

	out, err := s.pipe.Compile(ctx, in, s.resolver.Resolve, s.resolver.Fetch)
	if err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return out, nil
}

func (s *Server) handleArtifactGet(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params struct {
		ID    string `json:"id"`
		Alias string `json:"alias"`
	}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	var (
		a   *artifact.Artifact
		err error
	)
	switch {
	case params.ID != "":
		a, err = s.store.Get(ctx, params.ID)
	case params.Alias != "":
		a, err = s.store.GetByAlias(ctx, params.Alias)
	default:
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "id or alias is required"}
	}
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "artifact not found"}
	}
	return a, nil
}

func unmarshalParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "params required"}
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: err.Error()}
	}
	return nil
}
