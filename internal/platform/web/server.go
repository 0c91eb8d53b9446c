package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	// Watchers are read-only; any origin may look.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Router returns the HTTP routes of the hub:
//
//	GET /          viewer page
//	GET /frame.png last presented frame
//	GET /ws        websocket stream of PNG frames
func (h *Hub) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(loggerMiddleware(h.logger))

	r.GET("/", h.handleIndex)
	r.GET("/frame.png", h.handleFrame)
	r.GET("/ws", h.handleWS)
	return r
}

func loggerMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"remote", c.ClientIP(),
		)
	}
}

func (h *Hub) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

func (h *Hub) handleFrame(c *gin.Context) {
	data := h.Latest()
	if data == nil {
		c.String(http.StatusNotFound, "no frame presented yet")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", data)
}

func (h *Hub) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	cl := newClient(c.ClientIP())
	h.register(cl)
	go h.writePump(conn, cl)
	h.readPump(conn, cl)
}

// readPump only watches for the connection to close; viewers send nothing.
func (h *Hub) readPump(conn *websocket.Conn, cl *client) {
	defer func() {
		h.unregister(cl)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("watcher read error", "remote", cl.remote, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				h.logger.Debug("watcher write failed", "remote", cl.remote, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Listen binds addr for the watch server.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("watch server: %w", err)
	}
	return ln, nil
}

// Serve runs the hub's HTTP server on addr until ctx is done.
func Serve(ctx context.Context, addr string, h *Hub) error {
	ln, err := Listen(addr)
	if err != nil {
		return err
	}
	return ServeListener(ctx, ln, h)
}

// ServeListener runs the hub's HTTP server on ln until ctx is done.
// The listener is closed on return.
func ServeListener(ctx context.Context, ln net.Listener, h *Hub) error {
	srv := &http.Server{
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("watch server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>tileview</title>
<style>
body { margin: 0; background: #202020; display: flex; align-items: center; justify-content: center; height: 100vh; }
img { max-width: 100vmin; max-height: 100vmin; image-rendering: pixelated; }
</style>
</head>
<body>
<img id="board" src="/frame.png" alt="board">
<script>
const img = document.getElementById("board");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.binaryType = "blob";
let url = null;
ws.onmessage = (ev) => {
  const next = URL.createObjectURL(ev.data);
  img.src = next;
  if (url) URL.revokeObjectURL(url);
  url = next;
};
</script>
</body>
</html>
`
