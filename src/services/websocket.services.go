package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	lib "movieexplorer/src/modules/movies/lib"
	movies "movieexplorer/src/modules/movies/services"
	suggest "movieexplorer/src/modules/suggest/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 4096
)

// Catalog is everything a browse session asks of the remote catalog.
type Catalog interface {
	movies.Catalog
	suggest.Searcher
}

type BrowseSocketOptions struct {
	PageSize       int
	Suggest        suggest.Options
	AllowedOrigins []string
	Logger         *slog.Logger
}

// BrowseSocket serves /ws/browse. Each connection gets its own Browser and
// suggestion Engine, driven by intents the shell sends.
type BrowseSocket struct {
	catalog  Catalog
	opts     BrowseSocketOptions
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewBrowseSocket(catalog Catalog, opts BrowseSocketOptions) *BrowseSocket {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &BrowseSocket{catalog: catalog, opts: opts, logger: opts.Logger}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *BrowseSocket) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Intent is one message from the shell.
type Intent struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (in Intent) text() string {
	var s string
	if err := json.Unmarshal(in.Value, &s); err == nil {
		return s
	}
	return strings.Trim(string(in.Value), `"`)
}

func (in Intent) page() (int, error) {
	var n int
	if err := json.Unmarshal(in.Value, &n); err == nil {
		return n, nil
	}
	return strconv.Atoi(strings.TrimSpace(in.text()))
}

type stateMessage struct {
	Type string `json:"type"`
	movies.Snapshot
}

type suggestionsMessage struct {
	Type  string   `json:"type"`
	Query string   `json:"query"`
	Items []string `json:"items"`
	Open  bool     `json:"open"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Handler upgrades the request and runs the session until the peer goes away.
// The initial BrowseState comes from the request's query string.
func (s *BrowseSocket) Handler(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("[Browse] websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	initial := lib.ParseBrowseState(c.Request.URL.Query())
	s.run(conn, initial)
}

type browseSession struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex
	closed  bool

	browser *movies.Browser
	engine  *suggest.Engine
}

func (s *BrowseSocket) run(conn *websocket.Conn, initial lib.BrowseState) {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &browseSession{conn: conn, logger: s.logger}

	sess.browser = movies.NewBrowser(s.catalog, movies.BrowserOptions{
		PageSize: s.opts.PageSize,
		Logger:   s.logger,
		OnChange: func(snap movies.Snapshot) {
			sess.write(stateMessage{Type: "state", Snapshot: snap})
		},
	})
	engineOpts := s.opts.Suggest
	engineOpts.Logger = s.logger
	engineOpts.Target = sess.browser
	engineOpts.OnChange = func(st suggest.State) {
		items := st.Items
		if items == nil {
			items = []string{}
		}
		sess.write(suggestionsMessage{Type: "suggestions", Query: st.Query, Items: items, Open: st.Open})
	}
	sess.engine = suggest.NewEngine(s.catalog, engineOpts)

	defer func() {
		sess.engine.Stop()
		cancel()
		sess.browser.Wait()
		sess.close()
		s.logger.Debug("[Browse] websocket session closed")
	}()

	sess.browser.Restore(initial)
	// Refresh publishes the first state frame through OnChange.
	sess.browser.Refresh(ctx)

	stopPing := sess.keepAlive()
	defer stopPing()

	conn.SetReadLimit(maxMessage)
	for {
		var in Intent
		if err := conn.ReadJSON(&in); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				sess.write(errorMessage{Type: "error", Message: "malformed message"})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("[Browse] websocket read failed", slog.String("error", err.Error()))
			}
			return
		}
		sess.dispatch(ctx, in)
	}
}

func (sess *browseSession) dispatch(ctx context.Context, in Intent) {
	switch in.Type {
	case "genre":
		sess.engine.Dismiss()
		sess.browser.SetGenre(ctx, in.text())
	case "query":
		q := in.text()
		sess.browser.SetQuery(ctx, q)
		sess.engine.OnQueryChange(ctx, q)
	case "page":
		p, err := in.page()
		if err != nil {
			sess.write(errorMessage{Type: "error", Message: "page must be a number"})
			return
		}
		sess.browser.SetPage(ctx, p)
	case "select":
		sess.engine.Select(ctx, in.text())
	case "blur":
		sess.engine.Blur()
	default:
		sess.write(errorMessage{Type: "error", Message: "unknown message type: " + in.Type})
	}
}

func (sess *browseSession) keepAlive() func() {
	sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	ticker := time.NewTicker(pingPeriod)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				sess.writeMu.Lock()
				if !sess.closed {
					sess.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
				}
				sess.writeMu.Unlock()
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}

// write serializes all outgoing frames. Browser and engine callbacks arrive
// from their own goroutines.
func (sess *browseSession) write(v any) {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	if sess.closed {
		return
	}
	sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sess.conn.WriteJSON(v); err != nil {
		sess.logger.Debug("[Browse] websocket write failed", slog.String("error", err.Error()))
	}
}

func (sess *browseSession) close() {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	if sess.closed {
		return
	}
	sess.closed = true
	sess.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	sess.conn.Close()
}
