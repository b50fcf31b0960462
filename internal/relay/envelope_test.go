package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		ID:        "abc-123",
		Sender:    "alice",
		Content:   "http://localhost:5000/uploads/1-x.png",
		Room:      "random",
		Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		IsFile:    true,
		FileType:  "image",
	}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, msg, decoded)
}

func TestInboundDecodesByType(t *testing.T) {
	var in Inbound
	require.NoError(t, json.Unmarshal([]byte(`{"type":"message","content":"hi","room":"help","isFile":true,"fileType":"video"}`), &in))
	require.Equal(t, TypeMessage, in.Type)
	require.Equal(t, "hi", in.Content)
	require.Equal(t, "help", in.Room)
	require.True(t, in.IsFile)
	require.Equal(t, "video", in.FileType)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"typing","typing":true,"room":"general"}`), &in))
	require.Equal(t, TypeTyping, in.Type)
	require.True(t, in.Typing)
}
