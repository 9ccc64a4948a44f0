package api

import (
	"codeshift/internal/cancellation"
	"codeshift/internal/code_translator"
	"codeshift/pkg/types"
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait = 10 * time.Second
	wsReadWait  = 60 * time.Second
)

type wsClientMsg struct {
	Type string `json:"type"`
	types.TranslateRequest
}

type wsServerMsg struct {
	Type   string                             `json:"type"`
	ID     string                             `json:"id,omitempty"`
	Data   string                             `json:"data,omitempty"`
	Result *code_translator.TranslationResult `json:"result,omitempty"`
	Error  *types.ErrorBody                   `json:"error,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteJSON(v)
}

func (w *wsConn) writeError(err error) error {
	body := errorBody(err)
	return w.writeJSON(wsServerMsg{Type: "error", Error: &body})
}

// TranslateWS runs one streaming translation per connection. The first message carries the
// request; a later {"type":"cancel"} or a closed connection cancels it.
func (s *GinServer) TranslateWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()
	wc := &wsConn{c: conn}

	_ = conn.SetReadDeadline(time.Now().Add(wsReadWait))
	var first wsClientMsg
	if err := conn.ReadJSON(&first); err != nil {
		_ = wc.writeJSON(wsServerMsg{Type: "error", Error: &types.ErrorBody{
			Kind: string(code_translator.KindValidation), Message: "First message must be a JSON translation request.",
		}})
		return
	}
	if first.Type != "" && first.Type != "translate" {
		_ = wc.writeJSON(wsServerMsg{Type: "error", Error: &types.ErrorBody{
			Kind: string(code_translator.KindValidation), Message: "unknown message type",
		}})
		return
	}

	id := uuid.NewString()
	logger := s.logger.With(zap.String("id", id), zap.String("request_id", c.GetString("request_id")))
	if err := wc.writeJSON(wsServerMsg{Type: "started", ID: id}); err != nil {
		return
	}

	s.jobs.Add(1)
	defer s.jobs.Done()

	ctx, cancel := context.WithCancel(s.jobsCtx)
	defer cancel()

	// cancel messages and disconnects flip the token and abort a stalled provider call
	token := cancellation.NewToken()
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		defer token.Cancel()
		_ = conn.SetReadDeadline(time.Time{})
		for {
			var msg wsClientMsg
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			switch msg.Type {
			case "cancel":
				logger.Info("websocket translation cancel requested")
				return
			default:
				_ = wc.writeJSON(wsServerMsg{Type: "error", Error: &types.ErrorBody{
					Kind: string(code_translator.KindValidation), Message: "unknown message type",
				}})
			}
		}
	}()

	res, err := s.services.RunStream(ctx, id, toTranslationRequest(first.TranslateRequest), func(fragment string) error {
		return wc.writeJSON(wsServerMsg{Type: "fragment", Data: fragment})
	}, token)
	if err != nil {
		_ = wc.writeError(err)
	} else {
		_ = wc.writeJSON(wsServerMsg{Type: "result", ID: id, Result: res})
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(wsWriteWait))

	select {
	case <-readDone:
	case <-time.After(time.Second):
	}
}
