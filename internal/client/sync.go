// Package client keeps a local shape collection in step with a room:
// one-time history hydration over HTTP, then live create/delete frames
// over a websocket.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"sketchroom/internal/shape"
	"sketchroom/internal/wire"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNotConnected = errors.New("not connected")
)

type State int

const (
	Disconnected State = iota
	Connecting
	Joined
)

// Client is one side of the room protocol. Delivery is fire-and-forget:
// a send while the socket is down is dropped, not queued or retried.
type Client struct {
	httpBase string
	token    string

	mu    sync.Mutex
	state State
	conn  *websocket.Conn

	// OnCreate delivers an inbound shape, the sender's own echoes
	// included; the collection treats duplicate ids as no-ops.
	OnCreate func(shape.Shape)
	// OnDelete delivers an inbound shape deletion.
	OnDelete func(id string)
	// OnDisconnect fires once when the reader loop exits.
	OnDisconnect func(error)
}

// New builds a client against the server's HTTP base URL, e.g.
// "http://127.0.0.1:8080".
func New(httpBase, token string) *Client {
	return &Client{
		httpBase: strings.TrimSuffix(httpBase, "/"),
		token:    token,
	}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ResolveRoom maps a slug to its room id. A 404 surfaces as
// ErrRoomNotFound and no socket is ever opened for the room.
func (c *Client) ResolveRoom(slug string) (string, error) {
	resp, err := http.Get(c.httpBase + "/room/" + slug)
	if err != nil {
		return "", fmt.Errorf("resolve room %s: %w", slug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrRoomNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolve room %s: status %d", slug, resp.StatusCode)
	}

	var body struct {
		Room struct {
			ID uint `json:"id"`
		} `json:"room"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("resolve room %s: %w", slug, err)
	}
	return fmt.Sprintf("%d", body.Room.ID), nil
}

// CreateRoom registers a new room slug with the server and returns the
// room id.
func (c *Client) CreateRoom(slug string) (string, error) {
	body := strings.NewReader(fmt.Sprintf(`{"name":%q}`, slug))
	resp, err := http.Post(c.httpBase+"/room", "application/json", body)
	if err != nil {
		return "", fmt.Errorf("create room %s: %w", slug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create room %s: status %d", slug, resp.StatusCode)
	}
	var out struct {
		RoomID uint `json:"roomId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("create room %s: %w", slug, err)
	}
	return fmt.Sprintf("%d", out.RoomID), nil
}

// Hydrate fetches the stored history for a room. The server returns the
// most recent records first; the page is reversed here so replay runs
// oldest-first and stacking order comes out right. Records whose shapes
// no longer decode are skipped.
func (c *Client) Hydrate(roomID string) ([]shape.Shape, error) {
	resp, err := http.Get(c.httpBase + "/chats/" + roomID)
	if err != nil {
		return nil, fmt.Errorf("hydrate room %s: %w", roomID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hydrate room %s: status %d", roomID, resp.StatusCode)
	}

	var body struct {
		Messages []struct {
			Message string `json:"message"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("hydrate room %s: %w", roomID, err)
	}

	shapes := make([]shape.Shape, 0, len(body.Messages))
	for i := len(body.Messages) - 1; i >= 0; i-- {
		s, err := shape.Decode([]byte(body.Messages[i].Message))
		if err != nil {
			log.Printf("[sync] skipping undecodable record: %v", err)
			continue
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// Connect dials the socket, joins the room and starts the reader.
// Hydration is the caller's separate responsibility, done before the
// socket is used.
func (c *Client) Connect(roomID string) error {
	c.mu.Lock()
	if c.state != Disconnected {
		c.mu.Unlock()
		return fmt.Errorf("connect: already %v", c.state)
	}
	c.state = Connecting
	c.mu.Unlock()

	url := c.wsURL() + "/ws?token=" + c.token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		c.setState(Disconnected)
		return fmt.Errorf("dial %s: %w", url, err)
	}

	data, err := wire.Join(roomID).Encode()
	if err != nil {
		conn.Close()
		c.setState(Disconnected)
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		conn.Close()
		c.setState(Disconnected)
		return fmt.Errorf("join room %s: %w", roomID, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.state = Joined
	c.mu.Unlock()

	go c.readLoop(conn)
	log.Printf("[sync] joined room %s", roomID)
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
				c.state = Disconnected
			}
			c.mu.Unlock()
			if c.OnDisconnect != nil {
				c.OnDisconnect(err)
			}
			return
		}

		env, err := wire.Parse(data)
		if err != nil {
			// Malformed frames are ignored; the connection stays up.
			continue
		}

		switch env.Type {
		case wire.TypeChat:
			s, err := env.Shape()
			if err != nil {
				continue
			}
			if c.OnCreate != nil {
				c.OnCreate(s)
			}
		case wire.TypeDeleteShape:
			if c.OnDelete != nil {
				c.OnDelete(env.ShapeID)
			}
		}
	}
}

// SendCreate broadcasts a committed shape. If the socket is not open
// the message is dropped: the shape stays local until some future
// action, an accepted at-most-once gap.
func (c *Client) SendCreate(roomID string, s shape.Shape) {
	env, err := wire.Chat(roomID, s)
	if err != nil {
		log.Printf("[sync] dropping create: %v", err)
		return
	}
	c.write(env)
}

// SendDelete broadcasts a shape deletion, same delivery terms as
// SendCreate.
func (c *Client) SendDelete(roomID, shapeID string) {
	c.write(wire.Delete(roomID, shapeID))
}

func (c *Client) write(env wire.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Joined || c.conn == nil {
		log.Printf("[sync] socket not open, dropping %s", env.Type)
		return
	}
	data, err := env.Encode()
	if err != nil {
		log.Printf("[sync] dropping %s: %v", env.Type, err)
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[sync] send %s failed: %v", env.Type, err)
	}
}

// Close tears the socket down.
func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.state = Disconnected
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) wsURL() string {
	switch {
	case strings.HasPrefix(c.httpBase, "https://"):
		return "wss://" + strings.TrimPrefix(c.httpBase, "https://")
	case strings.HasPrefix(c.httpBase, "http://"):
		return "ws://" + strings.TrimPrefix(c.httpBase, "http://")
	}
	return "ws://" + c.httpBase
}
