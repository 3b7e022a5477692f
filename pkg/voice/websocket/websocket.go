// Package websocket talks to a hosted voice assistant which accepts calls on a
// websocket endpoint and reports the call lifecycle as JSON frames.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/echocat/slf4g"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"

	"github.com/blaubaer/call-indicator/pkg/voice"
)

var ErrCallInProgress = errors.New("call already in progress")

type Provider struct {
	Conf   *Configuration
	Dialer *gorilla.Dialer
}

func (this *Provider) Provision(publicKey string) (voice.Session, error) {
	conf := NewConfiguration()
	if v := this.Conf; v != nil {
		conf = *v
	}
	if conf.Url == "" {
		return nil, fmt.Errorf("no voice assistant url configured")
	}
	u, err := url.Parse(conf.Url)
	if err != nil {
		return nil, fmt.Errorf("illegal voice assistant url %q: %w", conf.Url, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("illegal voice assistant url %q: scheme must be ws or wss", conf.Url)
	}

	dialer := this.Dialer
	if dialer == nil {
		dialer = gorilla.DefaultDialer
	}

	return &Session{
		url:          u,
		publicKey:    publicKey,
		dialer:       dialer,
		dialTimeout:  conf.DialTimeout,
		closeTimeout: conf.CloseTimeout,
	}, nil
}

type Session struct {
	voice.Handlers

	url          *url.URL
	publicKey    string
	dialer       *gorilla.Dialer
	dialTimeout  time.Duration
	closeTimeout time.Duration

	mutex   sync.Mutex
	current *call
}

type call struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	stopRequested atomic.Bool
	mutex         sync.Mutex
	conn          *gorilla.Conn
	done          chan struct{}
}

func (this *Session) Start(agentId string) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.current != nil {
		return ErrCallInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &call{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	this.current = c

	go this.run(c, agentId)
	return nil
}

func (this *Session) Stop() error {
	this.mutex.Lock()
	c := this.current
	this.mutex.Unlock()

	if c == nil {
		return nil
	}

	c.stopRequested.Store(true)
	c.cancel()

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if conn := c.conn; conn != nil {
		logger := log.With("call", c.id)
		if err := conn.WriteJSON(frame{Type: frameTypeStop, CallId: c.id}); err != nil {
			logger.WithError(err).
				Debug("Cannot send stop frame.")
		}
		if d := this.closeTimeout; d > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(d))
		}
	}
	return nil
}

func (this *Session) run(c *call, agentId string) {
	defer close(c.done)
	defer c.cancel()
	logger := log.With("call", c.id).
		With("agentId", agentId)

	conn, err := this.dial(c, agentId)
	if err != nil {
		this.detach(c)
		if c.stopRequested.Load() {
			logger.Debug("Call stopped while connecting.")
			return
		}
		logger.WithError(err).
			Warn("Cannot connect to voice assistant.")
		this.FireError(err.Error())
		return
	}
	defer func() { _ = conn.Close() }()

	c.mutex.Lock()
	c.conn = conn
	c.mutex.Unlock()

	if c.stopRequested.Load() {
		this.detach(c)
		logger.Debug("Call stopped while connecting.")
		return
	}

	started := false
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			this.detach(c)
			if c.stopRequested.Load() || gorilla.IsCloseError(err, gorilla.CloseNormalClosure) {
				if started {
					this.FireEnded()
				}
				return
			}
			logger.WithError(err).
				Warn("Connection to voice assistant lost.")
			this.FireError(fmt.Sprintf("connection to voice assistant lost: %v", err))
			return
		}

		switch f.Type {
		case frameTypeCallStart:
			started = true
			logger.Debug("Voice assistant accepted call.")
			this.FireStarted()
		case frameTypeCallEnd:
			this.detach(c)
			logger.Debug("Voice assistant ended call.")
			this.FireEnded()
			return
		case frameTypeError:
			// An error ends the call.
			this.detach(c)
			c.mutex.Lock()
			if err := conn.WriteJSON(frame{Type: frameTypeStop, CallId: c.id}); err != nil {
				logger.WithError(err).
					Debug("Cannot send stop frame.")
			}
			c.mutex.Unlock()
			logger.With("detail", f.Message).
				Warn("Voice assistant reported an error. Call ended.")
			this.FireError(f.Message)
			return
		default:
			logger.With("type", f.Type).
				Debug("Ignoring unknown frame.")
		}
	}
}

func (this *Session) dial(c *call, agentId string) (*gorilla.Conn, error) {
	u := *this.url
	q := u.Query()
	q.Set("agentId", agentId)
	q.Set("callId", c.id)
	u.RawQuery = q.Encode()

	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+this.publicKey)

	ctx := c.ctx
	if d := this.dialTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	conn, rsp, err := this.dialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		if rsp != nil {
			return nil, fmt.Errorf("cannot connect to voice assistant (status %d): %w", rsp.StatusCode, err)
		}
		return nil, fmt.Errorf("cannot connect to voice assistant: %w", err)
	}
	return conn, nil
}

// detach removes the call from the session before its final event is fired,
// so the receiver of this event can start the next call immediately.
func (this *Session) detach(c *call) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	if this.current == c {
		this.current = nil
	}
}
