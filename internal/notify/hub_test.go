package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub()
	go h.Run(ctx)
	return h
}

func receive(t *testing.T, s *Subscriber) Event {
	t.Helper()
	select {
	case msg, ok := <-s.Messages():
		require.True(t, ok, "subscriber closed")
		var e Event
		require.NoError(t, json.Unmarshal(msg, &e))
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestPublishReachesOnlyOwningPhotographer(t *testing.T) {
	h := startHub(t)

	mine := h.Subscribe(1)
	theirs := h.Subscribe(2)
	require.Eventually(t, func() bool { return h.Subscribers(1) == 1 && h.Subscribers(2) == 1 }, time.Second, 10*time.Millisecond)

	h.Publish(Event{Type: EventPaymentUpdated, PhotographerID: 1, AlbumID: "A", ClientID: "C", Status: "paid"})

	e := receive(t, mine)
	assert.Equal(t, EventPaymentUpdated, e.Type)
	assert.Equal(t, "A", e.AlbumID)
	assert.Equal(t, "paid", e.Status)
	assert.False(t, e.Timestamp.IsZero())

	select {
	case <-theirs.Messages():
		t.Fatal("event leaked to another photographer")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := startHub(t)

	s := h.Subscribe(1)
	require.Eventually(t, func() bool { return h.Subscribers(1) == 1 }, time.Second, 10*time.Millisecond)

	h.Unsubscribe(s)

	select {
	case _, ok := <-s.Messages():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
	assert.Equal(t, 0, h.Subscribers(1))
}

func TestStoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	s := h.Subscribe(1)
	_, ok := <-s.Messages()
	assert.False(t, ok)
	h.Unsubscribe(s)
}

func TestNilHubPublishIsNoop(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Publish(Event{Type: EventSelectionFinalized}) })
}

func TestServeStreamsOverWebsocket(t *testing.T) {
	h := startHub(t)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Subscribe(9).Serve(conn)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Subscribers(9) == 1 }, time.Second, 10*time.Millisecond)
	h.Publish(Event{Type: EventSelectionFinalized, PhotographerID: 9, AlbumID: "A", ClientID: "C"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var e Event
	require.NoError(t, json.Unmarshal(msg, &e))
	assert.Equal(t, EventSelectionFinalized, e.Type)
	assert.Equal(t, "C", e.ClientID)
}
