// Package server hosts the room broadcast protocol: one websocket per
// client, membership in the hub, persistence in the store, and the
// history/room HTTP endpoints clients hydrate from.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"sketchroom/internal/auth"
	"sketchroom/internal/wire"
)

type Server struct {
	store    *Store
	hub      *Hub
	verifier *auth.Verifier
	upgrader websocket.Upgrader

	httpServer *http.Server
}

func New(store *Store, verifier *auth.Verifier) *Server {
	return &Server{
		store:    store,
		hub:      NewHub(),
		verifier: verifier,
		upgrader: websocket.Upgrader{
			// Any origin: the server is deployed behind whatever front
			// door the operator chooses.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/chats/", s.handleChats)
	mux.HandleFunc("/room/", s.handleRoomBySlug)
	mux.HandleFunc("/room", s.handleCreateRoom)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe blocks until Shutdown or a listener error.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.Handler()}
	log.Printf("[server] listening on %s", addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener and clears the registry. Live membership
// is not persisted anywhere; clients must rejoin after a restart.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[server] upgrade failed: %v", err)
		return
	}

	userID, err := s.verifier.Verify(r.URL.Query().Get("token"))
	if err != nil {
		// Closed immediately, no explanation frame.
		conn.Close()
		return
	}

	member := s.hub.Register(conn, userID)
	defer func() {
		s.hub.Unregister(member)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.dispatch(member, data)
	}
}

// dispatch handles one inbound frame. Malformed frames are dropped
// without closing the connection.
func (s *Server) dispatch(member *Member, data []byte) {
	env, err := wire.Parse(data)
	if err != nil {
		log.Printf("[server] ignoring frame from %s: %v", member.UserID, err)
		return
	}

	switch env.Type {
	case wire.TypeJoinRoom:
		s.hub.Join(member, env.RoomID)

	case wire.TypeLeaveRoom:
		s.hub.Leave(member, env.RoomID)

	case wire.TypeChat:
		roomID, err := strconv.ParseUint(env.RoomID, 10, 32)
		if err != nil {
			return
		}
		inner, err := env.Shape()
		if err != nil {
			log.Printf("[server] chat with undecodable shape from %s: %v", member.UserID, err)
			return
		}
		if err := s.store.SaveChat(uint(roomID), inner.Meta().ID, member.UserID, env.Message); err != nil {
			log.Printf("[server] persist failed: %v", err)
			return
		}
		// The identical frame goes back out, sender included; clients
		// drop duplicate ids on their own.
		s.hub.Broadcast(env.RoomID, data)

	case wire.TypeDeleteShape:
		if err := s.store.DeleteByShapeID(env.ShapeID); err != nil {
			log.Printf("[server] delete failed: %v", err)
			return
		}
		s.hub.Broadcast(env.RoomID, data)
	}
}

// handleChats serves GET /chats/{roomID}: up to HydrationLimit records,
// most recent first.
func (s *Server) handleChats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/chats/")
	roomID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	chats, err := s.store.ListByRoom(uint(roomID), HydrationLimit)
	if err != nil {
		log.Printf("[server] list chats: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": chats})
}

// handleRoomBySlug serves GET /room/{slug}.
func (s *Server) handleRoomBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/room/")
	room, err := s.store.RoomBySlug(slug)
	if errors.Is(err, ErrRoomNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Room not found"})
		return
	}
	if err != nil {
		log.Printf("[server] room by slug: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": room})
}

// handleCreateRoom serves POST /room with body {"name": "<slug>"}.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Incorrect inputs"})
		return
	}
	room, err := s.store.CreateRoom(req.Name)
	if err != nil {
		log.Printf("[server] create room: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roomId": room.ID})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[server] encode response: %v", err)
	}
}
