package websocket

const (
	frameTypeCallStart = "call-start"
	frameTypeCallEnd   = "call-end"
	frameTypeError     = "error"
	frameTypeStop      = "stop"
)

type frame struct {
	Type    string `json:"type"`
	CallId  string `json:"callId,omitempty"`
	Message string `json:"message,omitempty"`
}
