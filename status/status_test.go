package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/meshview/view"
)

type received struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func newHubServer(t *testing.T, h *Hub, onMessage func(string, []byte)) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		h.Serve(conn, onMessage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg received
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestNewViewerGetsLastMessages(t *testing.T) {
	h := NewHub()
	h.Info("loaded %d", 1)
	h.PublishFrame(&view.Frame{Seq: 7})

	conn := dial(t, newHubServer(t, h, nil))

	msg := readMessage(t, conn)
	assert.Equal(t, KindStatus, msg.Kind)
	var st status
	require.NoError(t, json.Unmarshal(msg.Data, &st))
	assert.Equal(t, "loaded 1", st.Message)
	assert.Equal(t, INFO, st.Type)

	msg = readMessage(t, conn)
	assert.Equal(t, KindFrame, msg.Kind)
	var f view.Frame
	require.NoError(t, json.Unmarshal(msg.Data, &f))
	assert.Equal(t, uint64(7), f.Seq)
}

func TestBroadcastAndReceive(t *testing.T) {
	h := NewHub()
	got := make(chan string, 1)
	conn := dial(t, newHubServer(t, h, func(_ string, data []byte) {
		got <- string(data)
	}))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"xr-support","value":"1"}`)))
	select {
	case data := <-got:
		assert.Contains(t, data, "xr-support")
	case <-time.After(5 * time.Second):
		t.Fatal("message was not delivered")
	}

	assert.Equal(t, 1, h.ClientsCount())
	h.Publish(KindXR, map[string]string{"action": "start"})
	msg := readMessage(t, conn)
	assert.Equal(t, KindXR, msg.Kind)
	assert.JSONEq(t, `{"action":"start"}`, string(msg.Data))
}

func TestProgressSanitized(t *testing.T) {
	h := NewHub()
	var zero float32
	h.Progress(zero/zero, "loading")

	data, ok := h.Last(KindStatus)
	require.True(t, ok)
	var msg received
	require.NoError(t, json.Unmarshal(data, &msg))
	var st status
	require.NoError(t, json.Unmarshal(msg.Data, &st))
	assert.Equal(t, PROGRESS, st.Type)
	assert.Equal(t, float32(0), st.Progress)
}
