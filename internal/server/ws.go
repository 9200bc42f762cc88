package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/protocol"
	"github.com/enaribe/startup-ludo-sub001/internal/service"
	"github.com/enaribe/startup-ludo-sub001/pkg/codes"
)

// PlayPath is where clients attach a game connection.
const PlayPath = "/play"

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 64
)

// Command is what a connected client sends: an op plus its arguments.
// roomId and playerId ride on the connection, not the command.
type Command struct {
	Op         string `json:"op"`
	PawnIdx    int32  `json:"pawnIdx,omitempty"`
	AnswerIdx  int32  `json:"answerIdx,omitempty"`
	OpponentID string `json:"opponentId,omitempty"`
	Score      int32  `json:"score,omitempty"`
	TargetID   string `json:"targetId,omitempty"`
}

// Ack answers every command with the room's result code.
type Ack struct {
	Op   string `json:"op"`
	Code int32  `json:"code"`
}

// Gateway upgrades play connections and bridges them to the rooms:
// commands go in through the service, envelopes come back out over the
// room's pub/sub stream.
type Gateway struct {
	svc      *service.Service
	upgrader *websocket.Upgrader
}

func NewGateway(svc *service.Service) *Gateway {
	return &Gateway{
		svc: svc,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type wsSession struct {
	gw       *Gateway
	conn     *websocket.Conn
	roomID   string
	playerID string
	send     chan []byte
	done     chan struct{}

	once sync.Once
	stop func()
}

// Handle is the websocket endpoint. Clients connect with
// ?roomId=X&playerId=Y and immediately receive a state snapshot.
func (g *Gateway) Handle(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	playerID := r.URL.Query().Get("playerId")
	if roomID == "" || playerID == "" {
		writeCode(w, http.StatusBadRequest, codes.BAD_REQUEST, "roomId and playerId required")
		return
	}
	reply, err := g.svc.RoomState(roomID)
	if err != nil {
		writeCode(w, http.StatusNotFound, codes.ROOM_NOT_FOUND, err.Error())
		return
	}
	if reply.State.PlayerByID(playerID) == nil {
		writeCode(w, http.StatusNotFound, codes.PLAYER_NOT_FOUND, "player not seated in this room")
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("gateway: upgrade failed: %v", err)
		return
	}

	s := &wsSession{
		gw:       g,
		conn:     conn,
		roomID:   roomID,
		playerID: playerID,
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
	}

	stop, err := g.svc.WatchRoom(context.Background(), roomID, s.onEnvelope)
	if err != nil {
		log.Errorf("gateway: watch %s failed: %v", roomID, err)
		_ = conn.Close()
		return
	}
	s.stop = stop

	g.svc.Reconnect(roomID, playerID)
	s.enqueue(snapshotMsg(reply))

	go s.writePump()
	s.readPump()
}

// snapshotMsg wraps the current room state so the client can render
// before any envelope arrives.
func snapshotMsg(reply *service.RoomReply) []byte {
	raw, _ := json.Marshal(struct {
		Op   string             `json:"op"`
		Data *service.RoomReply `json:"data"`
	}{Op: "snapshot", Data: reply})
	return raw
}

func (s *wsSession) onEnvelope(e *protocol.Envelope) {
	raw, err := protocol.Encode(e)
	if err != nil {
		return
	}
	s.enqueue(raw)
}

func (s *wsSession) enqueue(raw []byte) {
	select {
	case <-s.done:
	case s.send <- raw:
	default:
		log.Warnf("gateway: %s/%s send queue full, dropping", s.roomID, s.playerID)
	}
}

func (s *wsSession) close() {
	s.once.Do(func() {
		s.stop()
		close(s.done)
		_ = s.conn.Close()
		s.gw.svc.Disconnect(s.roomID, s.playerID)
	})
}

func (s *wsSession) readPump() {
	defer s.close()
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("gateway: %s/%s read: %v", s.roomID, s.playerID, err)
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			s.ack(&Command{Op: "?"}, codes.BAD_REQUEST)
			continue
		}
		s.ack(&cmd, s.dispatch(&cmd))
	}
}

func (s *wsSession) dispatch(cmd *Command) int32 {
	svc := s.gw.svc
	switch cmd.Op {
	case "roll":
		return svc.Roll(s.roomID, s.playerID)
	case "move":
		return svc.Move(s.roomID, s.playerID, cmd.PawnIdx)
	case "quizAnswer":
		return svc.AnswerQuiz(s.roomID, s.playerID, cmd.AnswerIdx)
	case "duelSelect":
		return svc.SelectDuelOpponent(s.roomID, s.playerID, cmd.OpponentID)
	case "duelScore":
		return svc.SubmitDuelScore(s.roomID, s.playerID, cmd.Score)
	case "claimForfeit":
		target := cmd.TargetID
		if target == "" {
			target = s.playerID
		}
		return svc.ClaimForfeit(s.roomID, target)
	default:
		return codes.BAD_REQUEST
	}
}

func (s *wsSession) ack(cmd *Command, code int32) {
	raw, _ := json.Marshal(&Ack{Op: cmd.Op, Code: code})
	s.enqueue(raw)
}

func (s *wsSession) writePump() {
	for {
		select {
		case <-s.done:
			return
		case raw := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				s.close()
				return
			}
		}
	}
}
