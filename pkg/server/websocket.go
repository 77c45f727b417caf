package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/registry/pkg/protocol"
	"github.com/vango-dev/registry/pkg/urlparam"
)

// MaxMessageSize bounds a single client command.
const MaxMessageSize = 64 * 1024

// wsConn serializes frame writes and numbers them.
type wsConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu  sync.Mutex
	seq uint64
}

func (c *wsConn) write(f protocol.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	f.Seq = c.seq
	data, err := protocol.EncodeFrame(f)
	if err != nil {
		return err
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// initialState reads the session location from the upgrade request: the
// path parameter names the page and every other parameter is its query.
func initialState(r *http.Request) (*urlparam.InitialURLState, error) {
	params, err := urlparam.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return nil, err
	}
	path, _ := params.Get("path")
	params.Del("path")
	if path == "" {
		path = "/"
	}
	return &urlparam.InitialURLState{Path: path, Params: params}, nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	initial, err := initialState(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.wsErrors.WithLabelValues("upgrade").Inc()
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(MaxMessageSize)

	sess := NewSession(initial, s.mode, s.logger)
	s.register(sess)
	defer s.unregister(sess)

	c := &wsConn{conn: conn, writeTimeout: s.config.Server.WriteTimeoutDuration()}
	if err := c.write(protocol.Frame{Type: protocol.FrameHello, Session: sess.ID, URL: sess.URL()}); err != nil {
		s.metrics.wsErrors.WithLabelValues("write").Inc()
		sess.logger.Warn("hello write failed", "error", err)
		return
	}

	readTimeout := s.config.Server.ReadTimeoutDuration()
	for {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.metrics.wsErrors.WithLabelValues("read").Inc()
				sess.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if err := s.handleMessage(r.Context(), sess, c, msg); err != nil {
			s.metrics.wsErrors.WithLabelValues("write").Inc()
			sess.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

// handleMessage applies one command and writes its answer followed by any
// URL patches it produced. Only write errors are returned.
func (s *Server) handleMessage(ctx context.Context, sess *Session, c *wsConn, msg []byte) error {
	cmd, err := protocol.DecodeCommand(msg)
	if err != nil {
		s.metrics.commandsTotal.WithLabelValues("invalid", "error").Inc()
		ref := ""
		if cmd != nil {
			ref = cmd.Ref
		}
		sess.logger.Debug("rejected command", "error", err)
		return c.write(errorFrame(ref, err))
	}

	start := time.Now()
	var data any
	err = s.traceCommand(ctx, sess, cmd, func(ctx context.Context) error {
		var err error
		data, err = sess.Apply(ctx, cmd)
		return err
	})

	op := string(cmd.Op)
	s.metrics.commandDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.commandsTotal.WithLabelValues(op, "error").Inc()
		if werr := c.write(errorFrame(cmd.Ref, err)); werr != nil {
			return werr
		}
	} else {
		s.metrics.commandsTotal.WithLabelValues(op, "ok").Inc()
		if werr := c.write(protocol.Frame{Type: protocol.FrameResult, Ref: cmd.Ref, Data: data}); werr != nil {
			return werr
		}
	}

	for _, p := range sess.TakePatches() {
		s.metrics.navigationsTotal.WithLabelValues(p.Mode).Inc()
		if err := c.write(p.Frame()); err != nil {
			return err
		}
	}
	return nil
}
