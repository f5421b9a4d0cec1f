package server

import (
	"bytes"
	"encoding/json"
	"github.com/bokysan/tonconv/internal/address"
	"github.com/bokysan/tonconv/internal/util/addr"
	"github.com/bokysan/tonconv/internal/version"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

const testAddress = "EQBx6tZZWa2Tbv6BvgcvegoOQxkRrVaBVwBOoW85nbP37_Go"

func testConfig() Config {
	return Config{
		Address:   addr.ProtoAddress{Scheme: addr.SchemeHttp, Host: "127.0.0.1:0"},
		ReadLimit: DefaultReadLimit,
	}
}

func newTestServer(t *testing.T) (*HttpServer, *httptest.Server) {
	srv := NewHttpServer(testConfig())
	router, err := srv.Router()
	require.NoError(t, err)

	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		require.NoError(t, srv.Shutdown())
		ts.Close()
	})
	return srv, ts
}

func decode(t *testing.T, r io.Reader, v interface{}) {
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func Test_Index(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "TON Address Converter")
	require.Contains(t, string(body), "Copied to clipboard!")
	require.Contains(t, string(body), "2000")
}

func Test_Version(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer res.Body.Close()

	info := version.Info{}
	decode(t, res.Body, &info)
	require.Equal(t, version.AppVersion(), info.Version)
}

func Test_ConvertQuery(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/v1/convert?address=" + url.QueryEscape(testAddress))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, res.Header.Get("Content-Type"), "application/json")

	response := ConvertResponse{}
	decode(t, res.Body, &response)
	require.Equal(t, ConvertResponse{
		Address: testAddress,
		Result:  address.Convert(testAddress),
		Valid:   true,
	}, response)
}

func Test_ConvertQuery_Invalid(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/v1/convert?address=AB")
	require.NoError(t, err)
	defer res.Body.Close()

	response := ConvertResponse{}
	decode(t, res.Body, &response)
	require.False(t, response.Valid)
	require.Equal(t, address.InvalidAddressFormat, response.Result)
}

func Test_ConvertBody(t *testing.T) {
	_, ts := newTestServer(t)

	body, err := json.Marshal(ConvertRequest{Address: "UQ//+-"})
	require.NoError(t, err)
	res, err := http.Post(ts.URL+"/api/v1/convert", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()

	response := ConvertResponse{}
	decode(t, res.Body, &response)
	require.True(t, response.Valid)
	require.Equal(t, "ffffbe", response.Result)
}

func Test_ConvertBody_Malformed(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Post(ts.URL+"/api/v1/convert", "application/json", strings.NewReader("{nope"))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	response := ErrorResponse{}
	decode(t, res.Body, &response)
	require.NotEmpty(t, response.Error)
}

func Test_ConvertBody_TooLarge(t *testing.T) {
	_, ts := newTestServer(t)

	payload := `{"address":"EQ` + strings.Repeat("A", DefaultReadLimit) + `"}`
	res, err := http.Post(ts.URL+"/api/v1/convert", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func Test_Websocket(t *testing.T) {
	_, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer c.Close()

	// every message is the full field content, as the user types
	for _, value := range []string{"E", "EQ", "EQA", "EQAA", testAddress, ""} {
		require.NoError(t, c.SetWriteDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(value)))

		response := ConvertResponse{}
		require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, c.ReadJSON(&response))
		require.Equal(t, NewConvertResponse(value), response)
		require.Equal(t, address.Convert(value), response.Result)
	}
}

func Test_Websocket_Shutdown(t *testing.T) {
	srv, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer c.Close()

	require.Eventually(t, func() bool {
		srv.mu.Lock()
		defer srv.mu.Unlock()
		return len(srv.conns) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Shutdown())

	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = c.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "Unexpected error: %v", err)
}

func Test_Startup(t *testing.T) {
	srv := NewHttpServer(testConfig())
	require.NoError(t, srv.Startup())
	defer func() {
		require.NoError(t, srv.Shutdown())
	}()

	require.NotEqual(t, "http://127.0.0.1:0", srv.URL())
	res, err := http.Get(srv.URL() + "/api/v1/convert?address=EQAA")
	require.NoError(t, err)
	defer res.Body.Close()

	response := ConvertResponse{}
	decode(t, res.Body, &response)
	require.Equal(t, "000", response.Result)
}

func Test_Config_Validate(t *testing.T) {
	config := testConfig()
	require.NoError(t, config.Validate())

	config.Address.Scheme = addr.SchemeHttps
	config.ReadLimit = 0
	err := config.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "requires a certificate")
	require.Contains(t, err.Error(), "Read limit")

	config = testConfig()
	config.Address.Host = ""
	require.Error(t, config.Validate())
	require.Error(t, NewHttpServer(config).Startup())
}
