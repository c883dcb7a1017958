package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mogaika/meshview/utils"
	"github.com/mogaika/meshview/view"
)

const (
	INFO = iota
	ERROR
	PROGRESS
)

const (
	KindStatus = "status"
	KindFrame  = "frame"
	KindXR     = "xr"
)

type status struct {
	Message  string
	Time     time.Time
	Type     int
	Progress float32
}

type message struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data"`
}

type client struct {
	name string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg to %s error: %v", c.name, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping to %s error: %v", c.name, err)
				return
			}
		}
	}
}

func (c *client) readPump(onMessage func(client string, data []byte)) {
	defer c.hub.unregisterClient(c)

	c.conn.SetReadLimit(1 << 16)
	c.conn.SetReadDeadline(time.Now().Add(70 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(70 * time.Second))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[status] ws read from %s error: %v", c.name, err)
			}
			return
		}
		if onMessage != nil {
			onMessage(c.name, data)
		}
	}
}

// Hub broadcasts status lines, rendered frames and xr requests to every
// connected viewer. New viewers get the last message of each kind.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
	last    map[string][]byte
	names   utils.RandomNameGenerator
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		last:    make(map[string][]byte),
	}
}

// Serve registers conn and blocks until it is closed. onMessage is called
// for every message the viewer sends.
func (h *Hub) Serve(conn *websocket.Conn, onMessage func(client string, data []byte)) {
	c := &client{
		name: h.names.RandomName(),
		conn: conn,
		send: make(chan []byte, 32),
		hub:  h,
	}
	h.registerClient(c)
	log.Printf("[status] viewer %s connected from %v", c.name, conn.RemoteAddr())

	go c.writePump()
	c.readPump(onMessage)
	log.Printf("[status] viewer %s disconnected", c.name)
}

func (h *Hub) registerClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	for _, kind := range []string{KindStatus, KindFrame} {
		if data, ok := h.last[kind]; ok {
			c.send <- data
		}
	}
}

func (h *Hub) unregisterClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.names.Release(c.name)
	}
}

func (h *Hub) ClientsCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Last returns the last broadcast payload of kind.
func (h *Hub) Last(kind string) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data, ok := h.last[kind]
	return data, ok
}

func (h *Hub) Publish(kind string, v interface{}) {
	data, err := json.Marshal(&message{Kind: kind, Data: v})
	if err != nil {
		log.Printf("[status] Failed to marshal %s message: %v", kind, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last[kind] = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("[status] viewer %s is too slow, dropping %s message", c.name, kind)
		}
	}
}

func (h *Hub) PublishFrame(f *view.Frame) {
	h.Publish(KindFrame, f)
}

func (h *Hub) Status(msg string, _type int, progress float32) {
	if math.IsNaN(float64(progress)) || math.IsInf(float64(progress), 0) {
		progress = 0
	}
	h.Publish(KindStatus, &status{
		Message:  msg,
		Time:     time.Now(),
		Type:     _type,
		Progress: progress})
}

func (h *Hub) Info(format string, a ...interface{}) {
	h.Status(fmt.Sprintf(format, a...), INFO, 0.0)
}

func (h *Hub) Error(format string, a ...interface{}) {
	h.Status(fmt.Sprintf(format, a...), ERROR, 0.0)
}

func (h *Hub) Progress(progress float32, format string, a ...interface{}) {
	h.Status(fmt.Sprintf(format, a...), PROGRESS, progress)
}
