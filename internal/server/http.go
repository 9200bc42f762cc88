// Package server exposes the engine over HTTP and websocket: room
// lifecycle calls as JSON endpoints, live play over the gateway.
package server

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/google/wire"
	"github.com/yola1107/kratos/v2/log"
	"github.com/yola1107/kratos/v2/middleware/recovery"
	"github.com/yola1107/kratos/v2/transport/http"

	"github.com/enaribe/startup-ludo-sub001/internal/conf"
	"github.com/enaribe/startup-ludo-sub001/internal/service"
	"github.com/enaribe/startup-ludo-sub001/pkg/codes"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewGateway, NewHTTPServer)

// NewHTTPServer serves the lobby API and mounts the play gateway.
func NewHTTPServer(c *conf.Server, svc *service.Service, gw *Gateway) *http.Server {
	opts := []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.TimeoutSeconds > 0 {
		opts = append(opts, http.Timeout(time.Duration(c.Http.TimeoutSeconds)*time.Second))
	}
	srv := http.NewServer(opts...)

	srv.HandleFunc("/healthz", health)
	srv.HandleFunc("/v1/room/create", createRoom(svc))
	srv.HandleFunc("/v1/room/resume", resumeRoom(svc))
	srv.HandleFunc("/v1/room/state", roomState(svc))
	srv.HandleFunc(PlayPath, gw.Handle)
	return srv
}

func health(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

type errorReply struct {
	Code    int32  `json:"code,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("http: encode reply: %v", err)
	}
}

func writeError(w nethttp.ResponseWriter, status int, err error) {
	writeJSON(w, status, &errorReply{Message: err.Error()})
}

func writeCode(w nethttp.ResponseWriter, status int, code int32, msg string) {
	writeJSON(w, status, &errorReply{Code: code, Message: msg})
}

func createRoom(svc *service.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			w.WriteHeader(nethttp.StatusMethodNotAllowed)
			return
		}
		var req service.CreateRoomReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, nethttp.StatusBadRequest, err)
			return
		}
		reply, err := svc.CreateRoom(&req)
		if err != nil {
			writeError(w, nethttp.StatusBadRequest, err)
			return
		}
		writeJSON(w, nethttp.StatusOK, reply)
	}
}

func resumeRoom(svc *service.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			w.WriteHeader(nethttp.StatusMethodNotAllowed)
			return
		}
		var req struct {
			RoomID string `json:"roomId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == "" {
			writeJSON(w, nethttp.StatusBadRequest, &errorReply{Message: "roomId required"})
			return
		}
		reply, err := svc.ResumeRoom(r.Context(), req.RoomID)
		if err != nil {
			writeCode(w, nethttp.StatusNotFound, codes.ROOM_NOT_FOUND, err.Error())
			return
		}
		writeJSON(w, nethttp.StatusOK, reply)
	}
}

func roomState(svc *service.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		roomID := r.URL.Query().Get("roomId")
		if roomID == "" {
			writeJSON(w, nethttp.StatusBadRequest, &errorReply{Message: "roomId required"})
			return
		}
		reply, err := svc.RoomState(roomID)
		if err != nil {
			writeCode(w, nethttp.StatusNotFound, codes.ROOM_NOT_FOUND, err.Error())
			return
		}
		writeJSON(w, nethttp.StatusOK, reply)
	}
}
