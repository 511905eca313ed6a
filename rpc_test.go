package ethabi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rpcHandler func(method string, params []json.RawMessage) (interface{}, *RpcError)

type testRequest struct {
	Id     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func (self rpcHandler) respond(req testRequest) map[string]interface{} {
	out := map[string]interface{}{`jsonrpc`: `2.0`, `id`: req.Id}
	result, rpcErr := self(req.Method, req.Params)
	if rpcErr != nil {
		out[`error`] = rpcErr
	} else {
		out[`result`] = result
	}
	return out
}

func httpRpcServer(t *testing.T, handler rpcHandler) Trans {
	srv := httptest.NewServer(http.HandlerFunc(func(rew http.ResponseWriter, req *http.Request) {
		var body testRequest
		err := json.NewDecoder(req.Body).Decode(&body)
		if err != nil {
			http.Error(rew, err.Error(), http.StatusBadRequest)
			return
		}
		rew.Header().Set(`Content-Type`, `application/json`)
		_ = json.NewEncoder(rew).Encode(handler.respond(body))
	}))
	t.Cleanup(srv.Close)

	trans, err := Dial(srv.URL, nil)
	require.NoError(t, err)
	return trans
}

func TestDialUnsupported(t *testing.T) {
	t.Parallel()
	_, err := Dial(`ftp://localhost`, nil)
	require.Error(t, err)
}

func TestEthBlockNumber(t *testing.T) {
	t.Parallel()
	trans := httpRpcServer(t, func(method string, _ []json.RawMessage) (interface{}, *RpcError) {
		assert.Equal(t, `eth_blockNumber`, method)
		return `0x1b4`, nil
	})

	num, err := EthBlockNumber(context.Background(), trans)
	require.NoError(t, err)
	require.Equal(t, int64(436), num.Int64())
}

func TestHttpTransError(t *testing.T) {
	t.Parallel()
	trans := httpRpcServer(t, func(string, []json.RawMessage) (interface{}, *RpcError) {
		return nil, &RpcError{Code: -32601, Message: `method not found`}
	})

	_, err := EthBlockNumber(context.Background(), trans)
	var rpcErr RpcError
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, int64(-32601), rpcErr.Code)
	require.Contains(t, err.Error(), `method not found`)
}

func TestCallFunction(t *testing.T) {
	t.Parallel()
	token := repeatAddress(0xcc)
	balanceOf := testAbi.Function(`balanceOf`)

	trans := httpRpcServer(t, func(method string, params []json.RawMessage) (interface{}, *RpcError) {
		assert.Equal(t, `eth_call`, method)
		assert.Len(t, params, 2)
		assert.JSONEq(t, `"latest"`, string(params[1]))

		var msg struct {
			To   Address
			Data HexBytes
		}
		assert.NoError(t, json.Unmarshal(params[0], &msg))
		assert.Equal(t, token, msg.To)

		args, err := balanceOf.DecodeInput(msg.Data, true)
		if assert.NoError(t, err) {
			assert.Equal(t, TupleValue(AddressValue(repeatAddress(0x11))), args)
		}

		return `0x00000000000000000000000000000000000000000000000000000000000f4240`, nil
	})

	out, err := CallFunction(context.Background(), trans, testAbi, token, balanceOf, AddressValue(repeatAddress(0x11)))
	require.NoErrorf(t, err, "%+v", err)
	require.Equal(t, TupleValue(UintValueFrom64(1_000_000, 256)), out)

	_, err = CallFunction(context.Background(), trans, testAbi, token, balanceOf)
	requireKind(t, err, KindTypeMismatch)
}

func TestCallFunctionRevert(t *testing.T) {
	t.Parallel()
	payload, err := testAbi.CustomError(`InsufficientBalance`).EncodeRevert(
		UintValueFrom64(5, 256), UintValueFrom64(10, 256),
	)
	require.NoError(t, err)

	trans := httpRpcServer(t, func(string, []json.RawMessage) (interface{}, *RpcError) {
		data, _ := json.Marshal(HexBytes(payload))
		return nil, &RpcError{Code: 3, Message: `execution reverted`, Data: data}
	})
	transfer := testAbi.Function(`transfer`)

	_, err = CallFunction(context.Background(), trans, testAbi, repeatAddress(0xcc), transfer,
		AddressValue(repeatAddress(0x22)), UintValueFrom64(10, 256))
	var revert Revert
	require.True(t, errors.As(err, &revert), "%+v", err)
	require.Equal(t, `InsufficientBalance`, revert.Def.Name)
	require.Equal(t, TupleValue(UintValueFrom64(5, 256), UintValueFrom64(10, 256)), revert.Args)

	// Without the ABI, the custom error can't be decoded and the RPC error
	// passes through.
	_, err = CallFunction(context.Background(), trans, nil, repeatAddress(0xcc), transfer,
		AddressValue(repeatAddress(0x22)), UintValueFrom64(10, 256))
	require.False(t, errors.As(err, &revert))
	var rpcErr RpcError
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, int64(3), rpcErr.Code)
}

func TestFilterEvents(t *testing.T) {
	t.Parallel()
	event := testAbi.Event(`Transfer`)
	from := repeatAddress(0x11).Word()
	to := repeatAddress(0x22).Word()

	trans := httpRpcServer(t, func(method string, params []json.RawMessage) (interface{}, *RpcError) {
		assert.Equal(t, `eth_getLogs`, method)

		var filter struct {
			FromBlock string   `json:"fromBlock"`
			Topics    [][]Word `json:"topics"`
		}
		assert.NoError(t, json.Unmarshal(params[0], &filter))
		assert.Equal(t, `0x64`, filter.FromBlock)
		assert.Equal(t, [][]Word{{Word(event.Topic)}, {from}}, filter.Topics)

		return []map[string]interface{}{{
			`address`:  repeatAddress(0xcc),
			`topics`:   []Word{Word(event.Topic), from, to},
			`data`:     `0x0000000000000000000000000000000000000000000000000000000000000007`,
			`logIndex`: `0x2`,
		}}, nil
	})

	logs, err := FilterEvents(context.Background(), trans, LogFilter{FromBlock: uint64(100)}, event,
		AddressValue(repeatAddress(0x11)))
	require.NoErrorf(t, err, "%+v", err)
	require.Len(t, logs, 1)
	require.Equal(t, HexUint64(2), logs[0].Entry.LogIndex)
	require.Equal(t, TupleValue(
		AddressValue(repeatAddress(0x11)),
		AddressValue(repeatAddress(0x22)),
		UintValueFrom64(7, 256),
	), logs[0].Args)
}

func wsRpcServer(t *testing.T, handler rpcHandler) *httptest.Server {
	var upgrader websocket.Upgrader

	srv := httptest.NewServer(http.HandlerFunc(func(rew http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(rew, req, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var body testRequest
			err := conn.ReadJSON(&body)
			if err != nil {
				return
			}
			// Notifications without an ID must be ignored by the client.
			err = conn.WriteJSON(map[string]interface{}{`jsonrpc`: `2.0`, `method`: `eth_subscription`})
			if err != nil {
				return
			}
			err = conn.WriteJSON(handler.respond(body))
			if err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWsTrans(t *testing.T) {
	t.Parallel()
	srv := wsRpcServer(t, func(method string, _ []json.RawMessage) (interface{}, *RpcError) {
		switch method {
		case `eth_blockNumber`:
			return `0x10`, nil
		default:
			return nil, &RpcError{Code: -32601, Message: `method not found`}
		}
	})

	trans, err := Dial(`ws`+strings.TrimPrefix(srv.URL, `http`), zap.NewNop())
	require.NoError(t, err)
	ws := trans.(*WsTrans)
	defer ws.Close()

	select {
	case <-ws.Connected():
	case <-time.After(time.Second):
		t.Fatal(`websocket transport didn't connect`)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := EthBlockNumber(context.Background(), ws)
			assert.NoError(t, err)
			assert.Equal(t, int64(16), num.Int64())
		}()
	}
	wg.Wait()

	err = ws.Call(context.Background(), nil, `eth_unknown`)
	var rpcErr RpcError
	require.True(t, errors.As(err, &rpcErr))

	require.NoError(t, ws.Close())
	require.NoError(t, ws.Close())
}

func TestWsTransContextCancel(t *testing.T) {
	t.Parallel()
	block := make(chan struct{})
	srv := wsRpcServer(t, func(string, []json.RawMessage) (interface{}, *RpcError) {
		<-block
		return nil, nil
	})
	t.Cleanup(func() { close(block) })

	ws, err := DialWs(mustParseUrl(t, `ws`+strings.TrimPrefix(srv.URL, `http`)), nil)
	require.NoError(t, err)
	defer ws.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = ws.Call(ctx, nil, `eth_blockNumber`)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func mustParseUrl(t *testing.T, input string) url.URL {
	t.Helper()
	out, err := url.Parse(input)
	require.NoError(t, err)
	return *out
}
