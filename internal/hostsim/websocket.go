package hostsim

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/bridge"
	"github.com/siadrive/siadrive-ui/internal/logging"
	"github.com/siadrive/siadrive-ui/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// session is one connected UI.
type session struct {
	id      string
	remote  string
	conn    *websocket.Conn
	server  *Server
	backend *Backend

	ctx    context.Context
	cancel context.CancelFunc
	ops    sync.WaitGroup

	writeMu sync.Mutex

	mu          sync.Mutex
	started     bool
	addressSent bool
}

// handleBridge upgrades the request and serves the bridge protocol until
// the UI goes away.
func (s *Server) handleBridge(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:      uuid.NewString(),
		remote:  r.RemoteAddr,
		conn:    conn,
		server:  s,
		backend: s.backend,
		ctx:     ctx,
		cancel:  cancel,
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.track(sess)
	defer s.untrack(sess)
	s.startRefresh()

	sess.run()
}

func (c *session) run() {
	logging.LogConnection(c.remote, "bridge_opened")
	defer func() {
		c.cancel()
		c.ops.Wait()
		_ = c.conn.Close()
		logging.LogConnection(c.remote, "bridge_closed")
	}()

	hello, err := protocol.NewHello(bridge.SnapshotToWire(c.backend.Snapshot()))
	if err != nil {
		logging.Error("Failed to build hello", zap.Error(err))
		return
	}
	if err := c.send(hello); err != nil {
		return
	}

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Connection closed by UI", zap.String("remote_addr", c.remote))
			} else {
				logging.Info("Connection closed or error reading frame",
					zap.String("remote_addr", c.remote),
					zap.Error(err),
				)
			}
			return
		}

		f, err := protocol.Decode(data)
		if err != nil {
			logging.Warn("Dropping malformed frame",
				zap.String("remote_addr", c.remote),
				zap.Error(err),
			)
			continue
		}
		logging.LogFrame(c.remote, "recv", string(f.Type), f.Name(), len(data))
		if f.Type != protocol.TypeRequest {
			logging.Warn("Ignoring non-request frame",
				zap.String("remote_addr", c.remote),
				zap.String("frame", f.String()),
			)
			continue
		}
		c.dispatch(f)
	}
}

func (c *session) dispatch(f *protocol.Frame) {
	switch f.Op {
	case protocol.OpStartApp:
		c.setStarted(true)
		c.pushAll(c.backend.State())

	case protocol.OpStopApp:
		c.setStarted(false)

	case protocol.OpShutdown:
		c.setStarted(false)
		logging.Info("UI shut down", zap.String("remote_addr", c.remote))

	case protocol.OpCreateWallet:
		c.async(f.Op, f.ID, func(ctx context.Context) (string, error) {
			return c.backend.CreateWallet()
		})

	case protocol.OpUnlockWallet:
		var args protocol.UnlockArgs
		if err := f.DecodeArgs(&args); err != nil {
			c.reply(protocol.NewFailure(f.ID, err.Error()))
			return
		}
		c.async(f.Op, f.ID, func(ctx context.Context) (string, error) {
			return "", c.backend.Unlock(args.Password)
		})

	case protocol.OpMountDrive:
		var args protocol.MountArgs
		if err := f.DecodeArgs(&args); err != nil {
			c.reply(protocol.NewFailure(f.ID, err.Error()))
			return
		}
		c.async(f.Op, f.ID, func(ctx context.Context) (string, error) {
			return "", c.backend.Mount(ctx, args.Location)
		})

	case protocol.OpUnmountDrive:
		c.async(f.Op, f.ID, func(ctx context.Context) (string, error) {
			return "", c.backend.Unmount(ctx)
		})

	case protocol.OpSetRenterAllowance:
		var args protocol.AllowanceArgs
		if err := f.DecodeArgs(&args); err != nil {
			logging.Warn("Malformed allowance", zap.Error(err))
			return
		}
		if err := c.backend.SetAllowance(bridge.AllowanceFromWire(args.Allowance)); err != nil {
			logging.Warn("Allowance rejected",
				zap.String("remote_addr", c.remote),
				zap.Error(err),
			)
		}
		c.push(bridge.AllowanceUpdate{Allowance: c.backend.Allowance()})
	}
}

// async runs fn off the read loop and answers request id with its outcome.
func (c *session) async(op protocol.Op, id string, fn func(ctx context.Context) (string, error)) {
	c.ops.Add(1)
	go func() {
		defer c.ops.Done()
		payload, err := fn(c.ctx)
		if err != nil {
			c.reply(protocol.NewFailure(id, err.Error()))
			return
		}
		c.reply(protocol.NewSuccess(id, payload))
		if op == protocol.OpUnmountDrive {
			// The UI only takes a drive list once its toggle reads "Mount".
			c.server.Broadcast(bridge.DrivesUpdate{Drives: c.backend.AvailableDrives()})
		}
	}()
}

func (c *session) reply(f *protocol.Frame) {
	if err := c.send(f); err != nil {
		logging.Debug("Response not delivered",
			zap.String("remote_addr", c.remote),
			zap.String("frame", f.String()),
			zap.Error(err),
		)
	}
}

func (c *session) setStarted(started bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = started
}

func (c *session) isStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

func (c *session) pushAll(updates []bridge.Update) {
	for _, u := range updates {
		c.push(u)
	}
}

// push sends u if the UI is running. Environment changes are sent
// regardless so a stopped UI can reload. The receive address goes out
// once per session.
func (c *session) push(u bridge.Update) {
	if _, env := u.(bridge.EnvironmentUpdate); !env && !c.isStarted() {
		return
	}
	if w, ok := u.(bridge.WalletUpdate); ok {
		c.mu.Lock()
		if c.addressSent {
			w.Stats.ReceiveAddress = ""
		} else if w.Stats.ReceiveAddress != "" {
			c.addressSent = true
		}
		c.mu.Unlock()
		u = w
	}

	f, err := bridge.EventFromUpdate(u)
	if err != nil {
		logging.Error("Failed to build event", zap.String("kind", u.Kind()), zap.Error(err))
		return
	}
	if err := c.send(f); err != nil {
		logging.Debug("Event not delivered",
			zap.String("remote_addr", c.remote),
			zap.String("event", u.Kind()),
			zap.Error(err),
		)
	}
}

func (c *session) send(f *protocol.Frame) error {
	data, err := protocol.Encode(f)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	logging.LogFrame(c.remote, "send", string(f.Type), f.Name(), len(data))
	return nil
}

// close ends the session; run returns once the read fails.
func (c *session) close() {
	c.cancel()
	_ = c.conn.Close()
}

// startRefresh runs the shared refresh loop once the first UI connects.
func (s *Server) startRefresh() {
	s.refreshOnce.Do(func() {
		s.quit = make(chan struct{})
		go s.refreshLoop(s.quit)
	})
}

func (s *Server) refreshLoop(quit <-chan struct{}) {
	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			s.backend.Tick()
			updates := s.backend.State()

			s.mu.Lock()
			targets := make([]*session, 0, len(s.sessions))
			for _, sess := range s.sessions {
				targets = append(targets, sess)
			}
			s.mu.Unlock()

			for _, sess := range targets {
				sess.pushAll(updates)
			}
		}
	}
}
