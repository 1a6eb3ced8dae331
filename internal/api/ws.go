package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sprite-ai/insight/internal/logger"
	"github.com/sprite-ai/insight/internal/model"
	"github.com/sprite-ai/insight/internal/pipeline"
)

// WebSocket message types from client.
const (
	wsMsgAnalyze = "analyze"
)

// WebSocket message types to client.
const (
	wsMsgStage  = "stage"
	wsMsgResult = "result"
	wsMsgError  = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsStage reports progress through the pipeline.
type wsStage struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	Total int    `json:"total"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024 * 16,
		WriteBufferSize: 1024 * 16,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.originAllowed(origin)
		},
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log := logger.Get()
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sendWSError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgAnalyze:
			s.handleWSAnalyze(r, conn, msg.Data)
		default:
			sendWSError(conn, "unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) handleWSAnalyze(r *http.Request, conn *websocket.Conn, data json.RawMessage) {
	var req model.AnalysisRequest
	if err := json.Unmarshal(data, &req); err != nil {
		sendWSError(conn, "invalid analyze data")
		return
	}

	total := len(pipeline.StageNames())
	index := 0
	observe := func(stage string, _ *pipeline.State) {
		index++
		sendWSMessage(conn, wsMsgStage, wsStage{Name: stage, Index: index, Total: total})
	}

	result, err := s.analyze(r.Context(), req, observe)
	if err != nil {
		if errors.Is(err, errNoRepos) {
			sendWSError(conn, msgNoRepos)
			return
		}
		sendWSError(conn, msgInsufficient)
		return
	}
	sendWSMessage(conn, wsMsgResult, result)
}

func sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.Get().Error("ws marshal", "error", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		logger.Get().Warn("ws write", "error", err)
	}
}

func sendWSError(conn *websocket.Conn, errMsg string) {
	sendWSMessage(conn, wsMsgError, map[string]string{"message": errMsg})
}
