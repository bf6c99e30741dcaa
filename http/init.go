package http

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	nethttp "net/http"
	"path/filepath"
	"time"

	"github.com/esimov/ascii-seasons/websocket"
	"go.uber.org/zap"
)

//go:embed static
var static embed.FS

// DefaultParams serves the embedded client on localhost:5000.
func DefaultParams() websocket.HttpParams {
	return websocket.HttpParams{
		Address: "localhost:5000",
		Prefix:  "/",
	}
}

// Handler routes the browser client under p.Prefix and the websocket endpoint
// under p.Prefix + "ws". Every request is logged at debug level.
func Handler(p websocket.HttpParams, socket nethttp.Handler, log *zap.SugaredLogger) (nethttp.Handler, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if p.Prefix == "" {
		p.Prefix = "/"
	}

	var files nethttp.FileSystem
	if p.Root != "" {
		root, err := filepath.Abs(p.Root)
		if err != nil {
			return nil, err
		}
		files = nethttp.Dir(root)
		log.Infow("serving client from disk", "root", root, "prefix", p.Prefix)
	} else {
		sub, err := fs.Sub(static, "static")
		if err != nil {
			return nil, err
		}
		files = nethttp.FS(sub)
	}

	mux := nethttp.NewServeMux()
	mux.Handle(p.Prefix, nethttp.StripPrefix(p.Prefix, nethttp.FileServer(files)))
	mux.Handle(p.Prefix+"ws", socket)

	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		log.Debugw("request", "remote", r.RemoteAddr, "method", r.Method, "url", r.URL.String())
		mux.ServeHTTP(w, r)
	}), nil
}

// InitServer listens on p.Address until ctx is done, then shuts the server down.
func InitServer(ctx context.Context, p websocket.HttpParams, socket nethttp.Handler, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	handler, err := Handler(p, socket, log)
	if err != nil {
		return err
	}
	srv := &nethttp.Server{
		Addr:    p.Address,
		Handler: handler,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infow("serving", "address", p.Address, "prefix", p.Prefix)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	return nil
}
