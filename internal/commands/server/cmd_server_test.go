package server

import (
	"encoding/json"
	"github.com/bokysan/tonconv/internal/server"
	"github.com/bokysan/tonconv/internal/util/addr"
	"github.com/stretchr/testify/require"
	"net/http"
	"testing"
)

func Test_Command_StartupShutdown(t *testing.T) {
	cmd := NewCommand()
	cmd.Address = addr.ProtoAddress{Scheme: addr.SchemeHttp, Host: "127.0.0.1:0"}

	require.NoError(t, cmd.Startup())

	res, err := http.Get(cmd.srv.URL() + "/api/v1/convert?address=UQAA")
	require.NoError(t, err)
	defer res.Body.Close()

	response := server.ConvertResponse{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	require.Equal(t, "000", response.Result)

	require.NoError(t, cmd.Shutdown())
}

func Test_Command_InvalidConfig(t *testing.T) {
	cmd := NewCommand()
	cmd.Address = addr.ProtoAddress{Scheme: addr.SchemeHttps, Host: "127.0.0.1:0"}

	require.Error(t, cmd.Startup())
	require.NoError(t, cmd.Shutdown())
}
