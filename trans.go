package ethabi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const jsonRpcVersion = "2.0"

/*
Common interface implemented by RPC transports. Obtained via "Dial" and passed
to the various RPC functions, such as "EthCall" and "CallFunction".
*/
type Trans interface {
	/**
	Should make an RPC request and decode the response's result into `out`,
	which must be a pointer or nil. Returns a request error, an "RpcError"
	reported by the node, or a decoding error.
	*/
	Call(ctx context.Context, out interface{}, method string, params ...interface{}) error
}

/*
Chooses the appropriate transport for the given URL. For websockets, waits
until connected. The logger is used for background logging by persistent
transports; nil means the package logger, see "Logger".
*/
func Dial(rpcPath string, logger *zap.Logger) (Trans, error) {
	rpcUrl, err := url.Parse(rpcPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	switch rpcUrl.Scheme {
	case "ws", "wss":
		return DialWs(*rpcUrl, logger)
	case "http", "https":
		return HttpTrans{Url: *rpcUrl}, nil
	default:
		return nil, errors.Errorf("unsupported RPC path: %v", rpcPath)
	}
}

// Stateless HTTP transport. A nil ".Client" means "http.DefaultClient".
type HttpTrans struct {
	Url    url.URL
	Client *http.Client
}

// Makes an RPC call.
func (self HttpTrans) Call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	body, err := json.Marshal(rpcRequest{
		Jsonrpc: jsonRpcVersion,
		Id:      nextId(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, self.Url.String(), bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := self.Client
	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(res.Body)
		return errors.Errorf("RPC error: %s\n%s", res.Status, msg)
	}

	var rpcRes rpcResponse
	err = json.NewDecoder(res.Body).Decode(&rpcRes)
	if err != nil {
		return errors.Wrap(err, "failed to decode RPC response")
	}
	return rpcRes.decodeResult(out)
}

func (self rpcResponse) decodeResult(out interface{}) error {
	// Note: `error((*RpcError)(nil)) != nil` !!!
	if self.Error != nil {
		return errors.WithStack(*self.Error)
	}
	if out == nil || len(self.Result) == 0 {
		return nil
	}
	err := json.Unmarshal(self.Result, out)
	if err != nil {
		return errors.Wrap(err, "failed to decode RPC result")
	}
	return nil
}

/*
Stateful websocket transport. Multiplexes concurrent RPC calls over one
connection and reconnects automatically. Calls in flight during a disconnect
fail. The ".ReconnectInterval" property defaults to 1s, can be modified before
the first disconnect.
*/
type WsTrans struct {
	Url               url.URL
	Logger            *zap.Logger
	ReconnectInterval time.Duration

	// Guards the connection state below.
	connLock  sync.Mutex
	conn      *websocket.Conn
	connected chan struct{}

	// Unavoidable bottleneck
	writeLock sync.Mutex

	pendingLock sync.Mutex
	pending     map[string]chan either

	done      chan struct{}
	closeOnce sync.Once
}

/*
Establishes a websocket connection to the RPC node at the given URL. Waits
until the connection is established, then keeps it alive in the background
until "Close" is called.
*/
func DialWs(url url.URL, logger *zap.Logger) (*WsTrans, error) {
	if logger == nil {
		logger = Logger()
	}

	transport := &WsTrans{
		Url:               url,
		Logger:            logger.With(zap.String("url", url.String())),
		ReconnectInterval: defaultReconnectInterval,
		connected:         make(chan struct{}),
		pending:           map[string]chan either{},
		done:              make(chan struct{}),
	}

	err := transport.connect()
	if err != nil {
		return nil, err
	}

	go transport.run()
	return transport, nil
}

/*
Returns a channel that becomes closed when the transport is connected. If the
transport is currently connected, the channel is closed.
*/
func (self *WsTrans) Connected() chan struct{} {
	self.connLock.Lock()
	defer self.connLock.Unlock()
	return self.connected
}

// Stops the reconnect loop and closes the connection. Idempotent.
func (self *WsTrans) Close() error {
	var err error
	self.closeOnce.Do(func() {
		close(self.done)
		self.connLock.Lock()
		conn := self.conn
		self.connLock.Unlock()
		if conn != nil {
			err = errors.WithStack(conn.Close())
		}
	})
	return err
}

func (self *WsTrans) closed() bool {
	select {
	case <-self.done:
		return true
	default:
		return false
	}
}

func (self *WsTrans) run() {
	for {
		err := self.receiveLoop()
		if self.closed() {
			self.Logger.Debug("websocket transport closed")
			return
		}
		self.Logger.Warn("disconnected from RPC node", zap.Error(err))

		for {
			self.Logger.Info("waiting before reconnecting", zap.Duration("interval", self.ReconnectInterval))

			select {
			case <-self.done:
				return
			case <-time.After(self.ReconnectInterval):
			}

			err := self.connect()
			if err == nil {
				self.Logger.Info("reconnected to RPC node")
				break
			}
			self.Logger.Warn("failed to connect to RPC node", zap.Error(err))
		}
	}
}

func (self *WsTrans) connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(self.Url.String(), nil)
	if err != nil {
		return errors.WithStack(err)
	}

	self.connLock.Lock()
	self.conn = conn
	close(self.connected)
	self.connLock.Unlock()
	return nil
}

func (self *WsTrans) receiveLoop() error {
	self.connLock.Lock()
	conn := self.conn
	self.connLock.Unlock()

	defer func() {
		self.connLock.Lock()
		self.connected = make(chan struct{})
		self.connLock.Unlock()
		conn.Close()
		self.failPending(errors.New("disconnected from RPC server"))
	}()

	/**
	Note: we receive and unmarshal separately. A receiving failure indicates
	a disconnect. An unmarshaling error indicates a malformed message, but
	not necessarily a connection problem.
	*/
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var res rpcResponse
		err = json.Unmarshal(payload, &res)
		if err != nil {
			self.Logger.Warn("failed to decode RPC message", zap.Error(err))
			continue
		}

		var id string
		if json.Unmarshal(res.Id, &id) != nil || id == "" {
			// Notifications have no ID. We don't subscribe to anything.
			self.Logger.Debug("ignoring RPC message without ID", zap.ByteString("payload", payload))
			continue
		}
		self.dispatch(id, res)
	}
}

// Makes an RPC call.
func (self *WsTrans) Call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	id := nextId()
	reply := make(chan either, 1)
	self.register(id, reply)
	defer self.unregister(id)

	err := self.send(id, method, params...)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	case either := <-reply:
		if either.err != nil {
			return either.err
		}
		if out == nil || either.val == nil {
			return nil
		}
		return errors.WithStack(json.Unmarshal(either.val, out))
	}
}

func (self *WsTrans) send(id string, method string, params ...interface{}) error {
	self.connLock.Lock()
	conn := self.conn
	self.connLock.Unlock()

	self.writeLock.Lock()
	defer self.writeLock.Unlock()
	err := conn.WriteJSON(rpcRequest{
		Jsonrpc: jsonRpcVersion,
		Id:      id,
		Method:  method,
		Params:  params,
	})
	return errors.WithStack(err)
}

func (self *WsTrans) register(id string, reply chan either) {
	self.pendingLock.Lock()
	self.pending[id] = reply
	self.pendingLock.Unlock()
}

func (self *WsTrans) unregister(id string) {
	self.pendingLock.Lock()
	delete(self.pending, id)
	self.pendingLock.Unlock()
}

func (self *WsTrans) dispatch(id string, res rpcResponse) {
	self.pendingLock.Lock()
	reply := self.pending[id]
	self.pendingLock.Unlock()

	if reply == nil {
		self.Logger.Debug("ignoring RPC response to unknown request", zap.String("id", id))
		return
	}

	var out either
	if res.Error != nil {
		out.err = errors.WithStack(*res.Error)
	} else if len(res.Result) > 0 && string(res.Result) != "null" {
		out.val = res.Result
	}

	select {
	case reply <- out:
	default:
	}
}

func (self *WsTrans) failPending(err error) {
	self.pendingLock.Lock()
	defer self.pendingLock.Unlock()

	for id, reply := range self.pending {
		select {
		case reply <- either{err: err}:
		default:
		}
		delete(self.pending, id)
	}
}

var idCounter atomic.Uint64

// Request IDs only need to be unique per transport.
func nextId() string {
	return strconv.FormatUint(idCounter.Add(1), 10)
}
