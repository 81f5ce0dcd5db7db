package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	closed  bool
	failing bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("broken pipe")
	}
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) messages() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte{}, c.written...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestPublishReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := &fakeConn{}
	bob := &fakeConn{}
	hub.Register <- &Client{UserID: 1, Conn: alice}
	hub.Register <- &Client{UserID: 2, Conn: bob}
	require.True(t, hub.IsOnline(1))

	hub.Publish(1, Event{Type: "message.new", Payload: map[string]int{"id": 7}})

	require.Eventually(t, func() bool { return len(alice.messages()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Empty(t, bob.messages())

	var got Event
	require.NoError(t, json.Unmarshal(alice.messages()[0], &got))
	assert.Equal(t, "message.new", got.Type)
}

func TestFailingConnIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := &fakeConn{failing: true}
	hub.Register <- &Client{UserID: 3, Conn: conn}
	hub.Publish(3, Event{Type: "ping"})

	require.Eventually(t, func() bool { return conn.isClosed() }, time.Second, 10*time.Millisecond)
	assert.False(t, hub.IsOnline(3))
}

func TestUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := &fakeConn{}
	client := &Client{UserID: 4, Conn: conn}
	hub.Register <- client
	hub.Unregister <- client

	require.Eventually(t, func() bool { return !hub.IsOnline(4) }, time.Second, 10*time.Millisecond)
	assert.True(t, conn.isClosed())
}
