package server

import (
	"context"
	"fmt"
	"github.com/bokysan/tonconv/internal/util/addr"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"net"
	"net/http"
	"sync"
	"time"
)

const shutdownTimeout = 5 * time.Second

// HttpServer serves the converter page, the JSON API and the live conversion websocket
type HttpServer struct {
	Config

	upgrader websocket.Upgrader
	server   *http.Server
	listener net.Listener

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHttpServer(config Config) *HttpServer {
	return &HttpServer{
		Config: config,
		upgrader: websocket.Upgrader{
			EnableCompression: config.EnableCompression,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (ws *HttpServer) String() string {
	return ws.Address.String()
}

// Router creates the handler with all the routes and middleware
func (ws *HttpServer) Router() (http.Handler, error) {
	address, err := addr.ResolveHostAddress(ws.Address.Host)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID, // Set Request Id on all requests
		middleware.RealIP,    // Extract actual IP if running behind reverse proxy
		GetRequestLogger(address),
		middleware.RedirectSlashes, // Redirect slashes to no slash URLs
		middleware.Recoverer,       // Recover from panics without crashing the server
	)

	router.Get("/", ws.handleIndex)
	router.Get("/version", ws.handleVersion)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/convert", ws.handleConvertQuery)
		r.Post("/convert", ws.handleConvertBody)
		r.Get("/ws", ws.handleWebsocket)
	})

	return router, nil
}

// Startup starts listening and serving in the background. It returns once the listener is open.
func (ws *HttpServer) Startup() error {
	if err := ws.Validate(); err != nil {
		return errors.WithStack(err)
	}

	router, err := ws.Router()
	if err != nil {
		return err
	}

	ws.server = &http.Server{
		Addr:              ws.Address.Host,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ws.Address.Secure() {
		tlsConfig, err := ws.ServerConfig.GetTlsConfig()
		if err != nil {
			return errors.Wrapf(err, "Could not configure TLS")
		}
		ws.server.TLSConfig = tlsConfig
	}

	ln, err := net.Listen("tcp", ws.server.Addr)
	if err != nil {
		return errors.Wrapf(err, "Could not listen on %v", ws.server.Addr)
	}
	ws.listener = ln

	go func() {
		var err error
		if ws.Address.Secure() {
			log.Infof("Starting HTTPS server at %v", ws.URL())
			err = ws.server.ServeTLS(ln, "", "")
		} else {
			log.Infof("Starting HTTP server at %v", ws.URL())
			err = ws.server.Serve(ln)
		}
		if err != nil && err != http.ErrServerClosed {
			err = errors.WithStack(err)
			log.WithError(err).Errorf("Server %v stopped: %v", ws, err)
		}
	}()

	return nil
}

// URL returns the address the server is actually listening on. Useful when listening on port 0.
func (ws *HttpServer) URL() string {
	if ws.listener == nil {
		return ws.String()
	}
	return fmt.Sprintf("%s://%s", ws.Address.Scheme, ws.listener.Addr().String())
}

// Shutdown closes all websocket connections and gracefully stops the server
func (ws *HttpServer) Shutdown() error {
	var errs error

	ws.mu.Lock()
	for c := range ws.conns {
		deadline := time.Now().Add(time.Second)
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown")
		if err := c.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
			log.WithError(err).Debugf("Could not send close message: %v", err)
		}
		if err := c.Close(); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "Could not close websocket %v", c.RemoteAddr()))
		}
	}
	ws.conns = make(map[*websocket.Conn]struct{})
	ws.mu.Unlock()

	if ws.server == nil {
		return errs
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := ws.server.Shutdown(ctx); err != nil {
		errs = multierror.Append(errs, errors.Wrapf(err, "Could not shutdown %v", ws))
	}

	return errs
}

func (ws *HttpServer) track(c *websocket.Conn) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.conns[c] = struct{}{}
}

func (ws *HttpServer) untrack(c *websocket.Conn) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	delete(ws.conns, c)
}
