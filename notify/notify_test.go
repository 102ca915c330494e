package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu        sync.Mutex
	sent      []Message
	responses func(tokens []string) []Response
}

func (f *fakeSender) Send(_ context.Context, msg Message) ([]Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.responses != nil {
		return f.responses(msg.Tokens), nil
	}
	out := make([]Response, len(msg.Tokens))
	for i := range out {
		out[i].Success = true
	}
	return out, nil
}

func TestNewOrderText(t *testing.T) {
	title, body := NewOrderText(&model.Order{CustomerName: "Maria", Number: "P000012"})
	assert.Equal(t, "Novo pedido recebido", title)
	assert.Equal(t, "Pedido de Maria (#P000012)", body)

	_, body = NewOrderText(&model.Order{CustomerName: "  "})
	assert.Equal(t, "Um novo pedido foi recebido.", body)

	_, body = NewOrderText(&model.Order{Number: "P000001"})
	assert.Equal(t, "Um novo pedido foi recebido. (#P000001)", body)
}

func TestNotifyNewOrder_NoTokens(t *testing.T) {
	db := testutil.OpenDB(t)
	sender := &fakeSender{}
	s := NewService(db, sender, nil)

	s.NotifyNewOrder(context.Background(), &model.Order{ID: "o1", StoreID: "loja"})
	assert.Empty(t, sender.sent)
}

func TestNotifyNewOrder_PrunesDeadTokens(t *testing.T) {
	db := testutil.OpenDB(t)
	sender := &fakeSender{responses: func(tokens []string) []Response {
		out := make([]Response, len(tokens))
		for i, tok := range tokens {
			switch tok {
			case "gone":
				out[i] = Response{Code: CodeNotRegistered, Error: "not registered"}
			case "bad":
				out[i] = Response{Code: CodeInvalidToken, Error: "invalid"}
			case "busy":
				out[i] = Response{Code: "messaging/internal-error", Error: "retry"}
			default:
				out[i] = Response{Success: true}
			}
		}
		return out
	}}
	s := NewService(db, sender, nil)
	for _, tok := range []string{"ok", "gone", "bad", "busy"} {
		require.NoError(t, s.Register("u1", tok, ""))
	}

	s.NotifyNewOrder(context.Background(), &model.Order{ID: "o1", StoreID: "loja", CustomerName: "Ana", Number: "P000003"})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Pedido de Ana (#P000003)", sender.sent[0].Body)
	assert.Equal(t, "o1", sender.sent[0].Data["orderId"])
	left, err := database.GetAllTokens(db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ok", "busy"}, left)
}

func TestRegister(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db, nil, nil)
	assert.ErrorIs(t, s.Register("u1", " ", ""), ErrTokenRequired)
	require.NoError(t, s.Register("u1", "abc", "android"))
	require.NoError(t, s.Register("u2", "abc", "android"))
	tokens, err := database.GetAllTokens(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, tokens)

	require.NoError(t, s.Unregister("abc"))
	tokens, err = database.GetAllTokens(db)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestHub(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe("loja")
	_, cancelB := h.Subscribe("outra")
	defer cancelB()

	assert.Equal(t, 1, h.Publish("loja", Event{Type: EventNewOrder, PlaySound: true}))
	ev := <-a
	assert.True(t, ev.PlaySound)

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 0, h.Publish("loja", Event{Type: EventNewOrder}))
}

func TestWebhookSender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "Novo pedido recebido", msg.Title)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"responses": []Response{{Success: true}, {Code: CodeInvalidToken}},
		})
	}))
	defer srv.Close()

	out, err := NewWebhookSender(srv.URL).Send(context.Background(), Message{Tokens: []string{"a", "b"}, Title: "Novo pedido recebido"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, CodeInvalidToken, out[1].Code)

	_, err = NewWebhookSender(srv.URL).Send(context.Background(), Message{Tokens: []string{"a"}})
	assert.Error(t, err)
}

func TestEventsHandler_StreamsNewOrder(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db, &fakeSender{}, nil)
	mux := http.NewServeMux()
	mux.Handle("GET /api/stores/{storeID}/events", EventsHandler(s, time.Minute))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stores/loja/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	s.NotifyNewOrder(context.Background(), &model.Order{ID: "o9", StoreID: "loja", CustomerName: "Bia"})

	var event, data string
	for data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}
	assert.Equal(t, EventNewOrder, event)
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.True(t, ev.PlaySound)
}
