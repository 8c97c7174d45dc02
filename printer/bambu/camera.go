// Package bambu is the Bambu Lab driver behind the printer contract:
// MQTT telemetry and commands, the TLS camera stream and the FTPS file
// channel.
package bambu

import (
	"crypto/tls"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"bambulink/printer"
)

const (
	// DefaultCameraPort is the chamber camera's TLS port.
	DefaultCameraPort = 6000
	// DefaultUsername is the fixed local account on Bambu printers.
	DefaultUsername = "bblp"

	maxFrameSize = 2 * 1024 * 1024
)

type cameraState int

const (
	cameraNotStarted cameraState = iota
	cameraRunning
	cameraStopped
)

// Camera keeps a background loop connected to the printer's chamber
// camera and caches the most recent JPEG frame. It satisfies
// printer.Camera and may be restarted after Stop.
type Camera struct {
	hostname   string
	accessCode string
	port       int
	username   string

	retryWait time.Duration

	mu    sync.Mutex
	state cameraState
	stop  chan struct{}
	done  chan struct{}

	frameMu sync.RWMutex
	frame   []byte
}

var _ printer.Camera = (*Camera)(nil)

// NewCamera uses the stock port and username.
func NewCamera(hostname, accessCode string) *Camera {
	return NewCameraAddr(hostname, accessCode, DefaultCameraPort, DefaultUsername)
}

func NewCameraAddr(hostname, accessCode string, port int, username string) *Camera {
	return &Camera{
		hostname:   hostname,
		accessCode: accessCode,
		port:       port,
		username:   username,
		retryWait:  5 * time.Second,
	}
}

// Start launches the capture loop. It reports false without side
// effects when the loop is already running.
func (c *Camera) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == cameraRunning {
		return false
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.state = cameraRunning
	go c.run(c.stop, c.done)
	return true
}

// Stop shuts the capture loop down and waits for it to exit. Calling it
// again, or before Start, is a no-op.
func (c *Camera) Stop() {
	c.mu.Lock()
	if c.state != cameraRunning {
		c.mu.Unlock()
		return
	}
	c.state = cameraStopped
	close(c.stop)
	done := c.done
	c.mu.Unlock()
	<-done
}

// IsAlive reports whether the capture loop is running.
func (c *Camera) IsAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == cameraRunning
}

// LastFrame returns the most recent frame, nil before the first one.
func (c *Camera) LastFrame() []byte {
	c.frameMu.RLock()
	defer c.frameMu.RUnlock()
	return c.frame
}

// FrameBase64 returns the last frame base64-encoded, or ErrNoFrame when
// nothing has been received yet.
func (c *Camera) FrameBase64() (string, error) {
	frame := c.LastFrame()
	if frame == nil {
		return "", printer.ErrNoFrame
	}
	return base64.StdEncoding.EncodeToString(frame), nil
}

func (c *Camera) updateFrame(frame []byte) {
	c.frameMu.Lock()
	c.frame = frame
	c.frameMu.Unlock()
}

// authPacket is the 80-byte binary hello the camera port expects:
// magic, command, then username and access code in fixed slots.
func (c *Camera) authPacket() []byte {
	auth := make([]byte, 80)
	binary.LittleEndian.PutUint32(auth[0:4], 0x40)
	binary.LittleEndian.PutUint32(auth[4:8], 0x3000)
	copy(auth[16:48], c.username)
	copy(auth[48:80], c.accessCode)
	return auth
}

func (c *Camera) run(stop, done chan struct{}) {
	defer close(done)
	auth := c.authPacket()
	addr := fmt.Sprintf("%s:%d", c.hostname, c.port)

	for {
		select {
		case <-stop:
			return
		default:
		}

		conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
		if err != nil {
			log.Printf("[Camera] connect %s: %v", addr, err)
			if !sleepOrStop(c.retryWait, stop) {
				return
			}
			continue
		}

		c.readFrames(conn, auth, stop)
		if !sleepOrStop(c.retryWait/2, stop) {
			return
		}
	}
}

func (c *Camera) readFrames(conn net.Conn, auth []byte, stop chan struct{}) {
	tlsConn := tls.Client(conn, &tls.Config{InsecureSkipVerify: true})
	defer tlsConn.Close()

	if _, err := tlsConn.Write(auth); err != nil {
		return
	}

	log.Printf("[Camera] streaming from %s", c.hostname)
	header := make([]byte, 16)
	for {
		select {
		case <-stop:
			return
		default:
		}

		tlsConn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if _, err := io.ReadFull(tlsConn, header); err != nil {
			log.Printf("[Camera] read header: %v", err)
			return
		}

		// frame length is the low 3 bytes of the first header word
		size := binary.LittleEndian.Uint32(header[0:4]) & 0x00FFFFFF
		if size == 0 || size > maxFrameSize {
			return
		}

		frame := make([]byte, size)
		if _, err := io.ReadFull(tlsConn, frame); err != nil {
			return
		}
		c.updateFrame(frame)
	}
}

func sleepOrStop(d time.Duration, stop chan struct{}) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-stop:
		return false
	case <-t.C:
		return true
	}
}
