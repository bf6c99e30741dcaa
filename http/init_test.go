package http

import (
	"context"
	"io/ioutil"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esimov/ascii-seasons/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(body string) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte(body))
	})
}

func get(t *testing.T, h nethttp.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	body, err := ioutil.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestHandlerServesEmbeddedClient(t *testing.T) {
	h, err := Handler(DefaultParams(), okHandler("socket"), nil)
	require.NoError(t, err)

	code, body := get(t, h, "/")
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Contains(t, body, `<canvas id="effect">`)

	code, body = get(t, h, "/client.js")
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Contains(t, body, "new WebSocket")

	_, body = get(t, h, "/ws")
	assert.Equal(t, "socket", body)

	code, _ = get(t, h, "/missing.js")
	assert.Equal(t, nethttp.StatusNotFound, code)
}

func TestHandlerPrefix(t *testing.T) {
	p := websocket.HttpParams{Prefix: "/seasons/"}
	h, err := Handler(p, okHandler("socket"), nil)
	require.NoError(t, err)

	code, _ := get(t, h, "/seasons/client.js")
	assert.Equal(t, nethttp.StatusOK, code)
	_, body := get(t, h, "/seasons/ws")
	assert.Equal(t, "socket", body)
}

func TestHandlerServesRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(dir+"/wasm.html", []byte("wasm build"), 0644))

	h, err := Handler(websocket.HttpParams{Prefix: "/", Root: dir}, okHandler("socket"), nil)
	require.NoError(t, err)
	_, body := get(t, h, "/wasm.html")
	assert.Equal(t, "wasm build", body)
}

func TestInitServerShutsDown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- InitServer(ctx, websocket.HttpParams{Address: addr, Prefix: "/"}, okHandler("socket"), nil)
	}()

	require.Eventually(t, func() bool {
		resp, err := nethttp.Get("http://" + addr + "/ws")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == nethttp.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
