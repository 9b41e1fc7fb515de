package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_SendMessageToUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	first := NewClient(hub, nil, 7)
	second := NewClient(hub, nil, 7)
	other := NewClient(hub, nil, 8)
	hub.Register(first)
	hub.Register(second)
	hub.Register(other)

	require.NoError(t, hub.SendMessageToUser(7, NotificationPayload{ID: 1, Type: "danger"}, MessageTypeNotification))

	for _, c := range []*Client{first, second} {
		select {
		case raw := <-c.Send:
			var env struct {
				Type    string              `json:"type"`
				Payload NotificationPayload `json:"payload"`
			}
			require.NoError(t, json.Unmarshal(raw, &env))
			assert.Equal(t, MessageTypeNotification, env.Type)
			assert.Equal(t, uint64(1), env.Payload.ID)
		default:
			t.Fatal("message not delivered")
		}
	}
	assert.Len(t, other.Send, 0)

	hub.Unregister(first)
	hub.Unregister(first)
	_, open := <-first.Send
	assert.False(t, open)
	assert.ElementsMatch(t, []uint64{7, 8}, hub.ConnectedUsers())
}

func TestHub_SendToUnknownUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	assert.NoError(t, hub.SendMessageToUser(99, "x", MessageTypeNotification))
}
