package classifier

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func newTestServer(t *testing.T) *httptest.Server {
	s, reg := newTestService(t)
	ws, err := NewWebServer(s, WebConfig{TemplateDir: "../../web/templates", Gatherer: reg}, zerolog.Nop())
	require.NoError(t, err)
	srv := httptest.NewServer(ws.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestAPIClassify(t *testing.T) {
	srv := newTestServer(t)

	body := `{"legs":["C -2 100 2024-01-19","C 1 110 2024-01-19","C 1 90 2024-01-19"]}`
	resp, err := http.Post(srv.URL+"/api/classify", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var r ClassifyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	assert.Equal(t, "Butterfly", r.Name)
	assert.Equal(t, []int{3, 1, 2}, r.Order)
	assert.Empty(t, r.Error)

	resp2, err := http.Post(srv.URL+"/api/classify", "application/json", strings.NewReader(`{"legs":["C x 100 2024-01-19"]}`))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	resp3, err := http.Get(srv.URL + "/api/classify")
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp3.StatusCode)
}

func TestPages(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(page), "Classify legs")

	form := url.Values{"legs": {"P 1 100 2024-01-19\nC 1 100 2024-01-19"}}
	resp, err = http.PostForm(srv.URL+"/classify", form)
	require.NoError(t, err)
	page, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(page), "Straddle")

	resp, err = http.Get(srv.URL + "/patterns")
	require.NoError(t, err)
	page, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(page), "Quarterly Futures Roll")

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	page, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(page), "combos_classifications_total")
}

func TestWebsocketClassify(t *testing.T) {
	srv := newTestServer(t)

	conn, err := websocket.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, websocket.JSON.Send(conn, ClassifyRequest{Legs: []string{"F -1 2024-03-15", "F 1 2024-06-15"}}))
	var r ClassifyResponse
	require.NoError(t, websocket.JSON.Receive(conn, &r))
	assert.Equal(t, "Quarterly Futures Roll", r.Name)

	require.NoError(t, websocket.JSON.Send(conn, ClassifyRequest{Legs: []string{"bad"}}))
	r = ClassifyResponse{}
	require.NoError(t, websocket.JSON.Receive(conn, &r))
	assert.NotEmpty(t, r.Error)
}
