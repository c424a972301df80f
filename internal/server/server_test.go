package server

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyitsfei/deadmans-tip/internal/game"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	engine := game.NewEngine(game.NewRegistry(nil), game.FlipperFunc(func() bool { return false }), game.Config{
		PassBurn:  big.NewInt(10),
		GritBonus: big.NewInt(20),
	}, zerolog.Nop())
	srv := NewServer("unused", NewDispatcher(engine, zerolog.Nop()), nil, 0, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebSocketDepositRoundTrip(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	msg, err := NewMessage(MessageTypeDeposit, DepositData{
		ChannelID:     "chan",
		Sender:        "alice",
		PayoutAddress: "0xalice",
		Amount:        "100",
	})
	require.NoError(t, err)
	msg.RequestID = "r1"
	require.NoError(t, conn.WriteJSON(msg))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageTypeReply, reply.Type)
	assert.Equal(t, "r1", reply.RequestID)

	var data ReplyData
	require.NoError(t, json.Unmarshal(reply.Data, &data))
	assert.Equal(t, "chan", data.ChannelID)
	assert.Contains(t, data.Text, "alice is in!")
}

func TestWebSocketCommandsPlayAGame(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	send := func(msgType MessageType, data interface{}) ReplyData {
		t.Helper()
		msg, err := NewMessage(msgType, data)
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(msg))

		var reply Message
		require.NoError(t, conn.ReadJSON(&reply))
		require.Equal(t, MessageTypeReply, reply.Type)
		var out ReplyData
		require.NoError(t, json.Unmarshal(reply.Data, &out))
		return out
	}

	send(MessageTypeDeposit, DepositData{ChannelID: "chan", Sender: "alice", PayoutAddress: "0xa", Amount: "100"})
	send(MessageTypeDeposit, DepositData{ChannelID: "chan", Sender: "bob", PayoutAddress: "0xb", Amount: "100"})

	reply := send(MessageTypeCommand, CommandData{Kind: "start", ChannelID: "chan", Actor: "alice"})
	assert.Contains(t, reply.Text, "game is on")

	reply = send(MessageTypeCommand, CommandData{Kind: "shoot", ChannelID: "chan", Actor: "alice"})
	assert.Equal(t, "click", reply.Outcome)

	reply = send(MessageTypeCommand, CommandData{Kind: "status", ChannelID: "chan", Actor: "alice"})
	assert.Contains(t, reply.Text, "bob's turn")
}

func TestWebSocketMalformedMessageGetsError(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	msg := &Message{Type: MessageType("bogus")}
	require.NoError(t, conn.WriteJSON(msg))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageTypeError, reply.Type)
}
