package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/logging"
	"github.com/siadrive/siadrive-ui/internal/protocol"
)

const (
	// DefaultHandshakeTimeout bounds the wait for the host's hello.
	DefaultHandshakeTimeout = 10 * time.Second

	writeTimeout      = 5 * time.Second
	updateBufferSize  = 64
	closedReason      = "bridge connection closed"
	closeFrameTimeout = time.Second
)

// Client talks to a host over a websocket. It implements
// EnvironmentReader, ActionBridge and UpdateSource.
type Client struct {
	url  string
	conn *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]pendingCall
	snapshot Snapshot
	closed   bool

	updates   chan Update
	quit      chan struct{}
	quitOnce  sync.Once
	done      chan struct{}
	closeOnce sync.Once

	newID func() string
}

type pendingCall struct {
	op     protocol.Op
	future *Future
}

// Dial connects to the host at url and waits for its hello frame.
func Dial(ctx context.Context, url string) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: DefaultHandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, NewTransportError("", "failed to dial "+url, err)
	}

	deadline := time.Now().Add(DefaultHandshakeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)

	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, NewHandshakeError("no hello from host", err)
	}
	logging.LogFrame(url, "recv", string(protocol.TypeHello), "", len(data))

	hello, err := protocol.Decode(data)
	if err != nil {
		conn.Close()
		return nil, NewHandshakeError("malformed hello", err)
	}
	if hello.Type != protocol.TypeHello {
		conn.Close()
		return nil, NewHandshakeError("expected hello, got "+string(hello.Type), nil)
	}
	var snap protocol.Snapshot
	if err := hello.DecodeData(&snap); err != nil {
		conn.Close()
		return nil, NewHandshakeError("malformed hello", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	c := newClient(url, conn, SnapshotFromWire(snap))
	logging.LogConnection(url, "connected")
	go c.readLoop()
	return c, nil
}

func newClient(url string, conn *websocket.Conn, snap Snapshot) *Client {
	return &Client{
		url:      url,
		conn:     conn,
		pending:  make(map[string]pendingCall),
		snapshot: snap,
		updates:  make(chan Update, updateBufferSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		newID:    uuid.NewString,
	}
}

// URL returns the address the client dialed.
func (c *Client) URL() string {
	return c.url
}

// Snapshot returns the most recent environment snapshot.
func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Updates returns the push channel. It is closed when the connection ends.
func (c *Client) Updates() <-chan Update {
	return c.updates
}

// Done is closed once the connection has ended.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) StartApp() { c.notify(protocol.OpStartApp, nil) }
func (c *Client) StopApp()  { c.notify(protocol.OpStopApp, nil) }
func (c *Client) Shutdown() { c.notify(protocol.OpShutdown, nil) }

// SetRenterAllowance sends the allowance without waiting for the host.
func (c *Client) SetRenterAllowance(a Allowance) {
	c.notify(protocol.OpSetRenterAllowance, protocol.AllowanceArgs{Allowance: AllowanceToWire(a)})
}

// CreateWallet asks the host to create a wallet. The result payload is the
// seed.
func (c *Client) CreateWallet() *Future {
	f, err := c.call(protocol.OpCreateWallet, nil)
	if err != nil {
		return Resolved(Failure(err.Error()))
	}
	return f
}

// UnlockWallet asks the host to unlock the wallet.
func (c *Client) UnlockWallet(password string) (*Future, error) {
	f, err := c.call(protocol.OpUnlockWallet, protocol.UnlockArgs{Password: password})
	if err != nil {
		if IsClosed(err) {
			return nil, NewRejectedError(string(protocol.OpUnlockWallet), closedReason, err)
		}
		return nil, NewRejectedError(string(protocol.OpUnlockWallet), "request not sent", err)
	}
	return f, nil
}

// MountDrive asks the host to mount the volume at location.
func (c *Client) MountDrive(location string) *Future {
	f, err := c.call(protocol.OpMountDrive, protocol.MountArgs{Location: location})
	if err != nil {
		return Resolved(Failure(err.Error()))
	}
	return f
}

// UnmountDrive asks the host to unmount the volume.
func (c *Client) UnmountDrive() *Future {
	f, err := c.call(protocol.OpUnmountDrive, nil)
	if err != nil {
		return Resolved(Failure(err.Error()))
	}
	return f
}

// Close ends the connection. Pending futures resolve with a failure.
func (c *Client) Close() error {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	c.mu.Unlock()
	c.quitOnce.Do(func() { close(c.quit) })
	if already {
		<-c.done
		return nil
	}

	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeFrameTimeout))
	c.writeMu.Unlock()

	_ = c.conn.Close()
	<-c.done
	return nil
}

func (c *Client) notify(op protocol.Op, args interface{}) {
	logging.LogBridgeCall(string(op))
	frame, err := protocol.NewRequest(c.newID(), op, args)
	if err != nil {
		logging.Error("Failed to build request", zap.String("op", string(op)), zap.Error(err))
		return
	}
	if err := c.send(frame); err != nil {
		logging.Warn("Bridge notification not sent", zap.String("op", string(op)), zap.Error(err))
	}
}

func (c *Client) call(op protocol.Op, args interface{}) (*Future, error) {
	logging.LogBridgeCall(string(op))
	id := c.newID()
	frame, err := protocol.NewRequest(id, op, args)
	if err != nil {
		return nil, NewProtocolError("failed to build "+string(op), err)
	}

	f := NewFuture()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = pendingCall{op: op, future: f}
	c.mu.Unlock()

	if err := c.send(frame); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, err
	}
	return f, nil
}

func (c *Client) send(f *protocol.Frame) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	data, err := protocol.Encode(f)
	if err != nil {
		return NewProtocolError("encode failed", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return NewTransportError(f.Name(), "write failed", err)
	}
	logging.LogFrame(c.url, "send", string(f.Type), f.Name(), len(data))
	return nil
}

func (c *Client) readLoop() {
	defer c.shutdown()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn("Bridge connection lost", zap.String("url", c.url), zap.Error(err))
			}
			return
		}

		frame, err := protocol.Decode(data)
		if err != nil {
			logging.Warn("Dropping malformed frame", zap.String("url", c.url), zap.Error(err))
			continue
		}
		logging.LogFrame(c.url, "recv", string(frame.Type), frame.Name(), len(data))

		switch frame.Type {
		case protocol.TypeResponse:
			c.resolve(frame)
		case protocol.TypeEvent:
			if !c.dispatch(frame) {
				return
			}
		case protocol.TypeHello:
			var snap protocol.Snapshot
			if err := frame.DecodeData(&snap); err == nil {
				c.setSnapshot(SnapshotFromWire(snap))
			}
		default:
			logging.Warn("Unexpected frame from host", zap.String("frame", frame.String()))
		}
	}
}

func (c *Client) resolve(frame *protocol.Frame) {
	c.mu.Lock()
	call, ok := c.pending[frame.ID]
	delete(c.pending, frame.ID)
	c.mu.Unlock()

	if !ok {
		logging.Warn("Response for unknown request", zap.String("id", frame.ID))
		return
	}
	result := ResultFromWire(frame)
	logging.LogBridgeResult(string(call.op), result.OK, result.Reason)
	call.future.Resolve(result)
}

// dispatch forwards an event. It returns false once the client is closing.
func (c *Client) dispatch(frame *protocol.Frame) bool {
	u, err := UpdateFromEvent(frame)
	if err != nil {
		logging.Warn("Dropping event", zap.String("event", string(frame.Event)), zap.Error(err))
		return true
	}
	if env, ok := u.(EnvironmentUpdate); ok {
		c.setSnapshot(env.Snapshot)
	}

	select {
	case c.updates <- u:
		return true
	case <-c.quit:
		return false
	}
}

func (c *Client) setSnapshot(s Snapshot) {
	c.mu.Lock()
	c.snapshot = s
	c.mu.Unlock()
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		pending := c.pending
		c.pending = make(map[string]pendingCall)
		c.mu.Unlock()

		for _, call := range pending {
			logging.LogBridgeResult(string(call.op), false, closedReason)
			call.future.Resolve(Failure(closedReason))
		}

		c.conn.Close()
		close(c.updates)
		close(c.done)
		logging.LogConnection(c.url, "closed")
	})
}

var (
	_ EnvironmentReader = (*Client)(nil)
	_ ActionBridge      = (*Client)(nil)
	_ UpdateSource      = (*Client)(nil)
)
