// Package status broadcasts editor events to connected views. Every failed or
// long-running map operation is reported here; views subscribe over a
// websocket and render the messages however they see fit.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Update types.
const (
	INFO = iota
	ERROR
	PROGRESS
)

// Update is one editor event. Operation names the map operation that produced
// it ("load", "resize", "context.delete", ...).
type Update struct {
	Operation string
	Message   string
	Time      time.Time
	Type      int
	Progress  float32
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second)); err != nil {
				log.Printf("[status] ws set deadline error: %v", err)
				return
			}
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

// NewClient subscribes a websocket connection to the update broadcast. New
// subscribers immediately receive the most recent update.
func NewClient(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
	globalLock.Lock()
	defer globalLock.Unlock()
	if lastUpdate != nil {
		c.send <- lastUpdate
	}
}

var updateBroadcast chan *Update
var broadcastList map[*client]bool
var globalLock sync.Mutex
var lastUpdate []byte

func registerClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	broadcastList[c] = true
}

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(broadcastList, c)
}

func init() {
	updateBroadcast = make(chan *Update, 16)
	broadcastList = make(map[*client]bool)
	go func() {
		for u := range updateBroadcast {
			data, err := json.Marshal(u)
			if err != nil {
				log.Printf("[status] marshal error: %v", err)
				continue
			}
			globalLock.Lock()
			lastUpdate = data
			for c := range broadcastList {
				select {
				case c.send <- data:
				default:
					// slow subscriber, drop the update for it
				}
			}
			globalLock.Unlock()
		}
	}()
}

func Post(operation, message string, updateType int, progress float32) {
	if math.IsNaN(float64(progress)) || math.IsInf(float64(progress), 0) {
		progress = 0
	}
	updateBroadcast <- &Update{
		Operation: operation,
		Message:   message,
		Time:      time.Now(),
		Type:      updateType,
		Progress:  progress,
	}
}

func Info(operation, format string, a ...interface{}) {
	Post(operation, fmt.Sprintf(format, a...), INFO, 0.0)
}

func Error(operation, format string, a ...interface{}) {
	Post(operation, fmt.Sprintf(format, a...), ERROR, 0.0)
}

func Progress(operation string, progress float32, format string, a ...interface{}) {
	Post(operation, fmt.Sprintf(format, a...), PROGRESS, progress)
}
