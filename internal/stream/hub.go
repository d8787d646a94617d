package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/dynamo"
)

const writeWait = time.Second

// Frame is the message sent to clients after every committed frame.
type Frame struct {
	Type     string       `json:"type"`
	Frame    uint64       `json:"frame"`
	Time     float64      `json:"time"`
	Sign     float64      `json:"sign"`
	Contacts int          `json:"contacts"`
	Centers  [][3]float64 `json:"centers"`
	Radii    []float64    `json:"radii"`
}

// Event is a client input. Type is "keydown" or "keyup".
type Event struct {
	Type string `json:"type"`
}

var ErrUnknownEvent = errors.New("unknown event")

// Hub fans frames out to websocket clients and feeds their key events into
// the sign. OnFrame runs on the frame loop and never waits on the network:
// each client has a one-frame mailbox drained by its own writer, so a slow
// client only misses frames.
type Hub struct {
	sign     *control.Sign
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	last    *Frame
}

type client struct {
	conn *websocket.Conn
	send chan *Frame
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan *Frame, 1)}
}

// offer replaces any frame still waiting in the mailbox with f.
func (c *client) offer(f *Frame) {
	select {
	case c.send <- f:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- f:
	default:
	}
}

// writeLoop sends mailbox frames until done closes or a write fails. A
// failed write closes the connection, which ends the reader too.
func (c *client) writeLoop(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case f := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(f); err != nil {
				log.Println("websocket write:", err)
				c.conn.Close()
				return
			}
		}
	}
}

func NewHub(sign *control.Sign) *Hub {
	return &Hub{
		sign: sign,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Apply maps a client event onto the sign.
func (h *Hub) Apply(ev Event) error {
	switch ev.Type {
	case "keydown":
		h.sign.Press()
	case "keyup":
		h.sign.Release()
	default:
		return fmt.Errorf("%q: %w", ev.Type, ErrUnknownEvent)
	}
	return nil
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade:", err)
		return
	}
	defer conn.Close()

	c := newClient(conn)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.offer(h.last)
	}
	h.mu.Unlock()
	defer h.drop(c)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writeLoop(done)
	}()
	defer wg.Wait()
	defer close(done)

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("websocket read:", err)
			}
			return
		}
		if err := h.Apply(ev); err != nil {
			log.Println("websocket event:", err)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// OnFrame hands the snapshot to every client's mailbox and returns.
func (h *Hub) OnFrame(s dynamo.Snapshot) {
	f := newFrame(s)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = f
	for c := range h.clients {
		c.offer(f)
	}
}

func newFrame(s dynamo.Snapshot) *Frame {
	centers := make([][3]float64, s.Centers.Bodies())
	for i := range centers {
		centers[i] = s.Centers.Vec(i)
	}
	return &Frame{
		Type:     "frame",
		Frame:    s.Frame,
		Time:     s.Time,
		Sign:     s.Sign,
		Contacts: s.Contacts,
		Centers:  centers,
		Radii:    s.Radii,
	}
}

// Serve listens on addr with the hub mounted at /ws until ctx ends.
func Serve(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	srv := &http.Server{Addr: addr, Handler: mux}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
