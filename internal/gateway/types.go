package gateway

// Message is one inbound chat event delivered by the bridge.
type Message struct {
	Content    string `json:"content"`
	ChannelID  string `json:"channel_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	IsDM       bool   `json:"is_dm"`
}

// ReplyRequest is the outbound frame for both text and image sends.
// Image payloads are base64-encoded file bytes.
type ReplyRequest struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Data    string `json:"data"`
}

// HealthResponse is the bridge /health payload, used by the probe command.
type HealthResponse struct {
	Status    string `json:"status"`
	Gateway   string `json:"gateway"`
	UptimeSec int64  `json:"uptime_sec"`
}

type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateReconnecting WebSocketState = "reconnecting"
	WSStateFailed       WebSocketState = "failed"
	WSStateClosed       WebSocketState = "closed"
)
