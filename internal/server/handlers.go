package server

import (
	_ "embed"
	"encoding/json"
	"github.com/bokysan/tonconv/internal/address"
	"github.com/bokysan/tonconv/internal/ui"
	"github.com/bokysan/tonconv/internal/version"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"html/template"
	"net/http"
)

//go:embed web/index.html
var indexHtml string

var indexTemplate = template.Must(template.New("index").Parse(indexHtml))

type indexData struct {
	Version      string
	NoticeMillis int64
	Invalid      string
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Debugf("Could not write response: %v", err)
	}
}

func (ws *HttpServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, indexData{
		Version:      version.AppVersion(),
		NoticeMillis: ui.CopiedNoticeDuration.Milliseconds(),
		Invalid:      address.InvalidAddressFormat,
	})
	if err != nil {
		log.WithError(err).Errorf("Could not render index page: %v", err)
	}
}

func (ws *HttpServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Current())
}

// handleConvertQuery converts the `address` query parameter. Note that `+` in a query string means a
// space, so standard base64 addresses must be URL-encoded.
func (ws *HttpServer) handleConvertQuery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewConvertResponse(r.URL.Query().Get("address")))
}

func (ws *HttpServer) handleConvertBody(w http.ResponseWriter, r *http.Request) {
	req := ConvertRequest{}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, ws.ReadLimit))
	if err := decoder.Decode(&req); err != nil {
		err = errors.Wrapf(err, "Could not parse request")
		log.WithError(err).Debugf("%v", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, NewConvertResponse(req.Address))
}

// handleWebsocket converts every text message received. Each message is the full content of the input
// field, the reply is a ConvertResponse.
func (ws *HttpServer) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.WithError(err).Debugf("Socket upgrade failed: %v", err)
		return
	}
	ws.track(c)
	defer func() {
		ws.untrack(c)
		if err := c.Close(); err != nil {
			log.WithError(err).Tracef("Close: %v", err)
		}
	}()

	c.SetReadLimit(ws.ReadLimit)
	log.Debugf("New websocket client %v", c.RemoteAddr())

	for {
		kind, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debugf("Websocket %v closed: %v", c.RemoteAddr(), err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := c.WriteJSON(NewConvertResponse(string(msg))); err != nil {
			log.WithError(err).Debugf("Could not write to websocket %v: %v", c.RemoteAddr(), err)
			return
		}
	}
}
