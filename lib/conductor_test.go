package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/rpc"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postPlugin(t *testing.T, url, method string, body []byte) *http.Response {
	client := http.Client{Timeout: time.Second}
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp
}

func TestConductor_registrationHandler(t *testing.T) {
	rpcClient := &RPCClientMock{
		CallFunc: func(serviceMethod string, args interface{}, reply interface{}) error {
			return nil
		},
	}

	dialer := &RPCDialerMock{
		DialFunc: func(network string, address string) (RPCClient, error) {
			return rpcClient, nil
		},
	}

	c := Conductor{RPCDialer: dialer}
	ts := httptest.NewServer(c.registrationHandler())
	defer ts.Close()

	{ // register plugin
		data, err := json.Marshal(Plugin{Name: "Test1", Address: "127.0.0.1:0001"})
		require.NoError(t, err)
		resp := postPlugin(t, ts.URL, "POST", data)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.Equal(t, 1, len(c.Plugins()))
		assert.Equal(t, "Test1.FetchFeed", c.Plugins()[0].Method)
		assert.Equal(t, "127.0.0.1:0001", c.Plugins()[0].Address)
		assert.True(t, c.Plugins()[0].Alive)
		assert.Equal(t, 0, len(rpcClient.CallCalls()))
		assert.Equal(t, 1, len(dialer.DialCalls()))
		assert.Equal(t, "tcp", dialer.DialCalls()[0].Network)
	}

	{ // same registration
		data, err := json.Marshal(Plugin{Name: "Test1", Address: "127.0.0.1:0001"})
		require.NoError(t, err)
		resp := postPlugin(t, ts.URL, "POST", data)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, len(c.Plugins()))
		assert.Equal(t, 1, len(dialer.DialCalls()))
	}

	{ // address changed
		data, err := json.Marshal(Plugin{Name: "Test1", Address: "127.0.0.2:8002"})
		require.NoError(t, err)
		resp := postPlugin(t, ts.URL, "POST", data)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 1, len(c.Plugins()))
		assert.Equal(t, "127.0.0.2:8002", c.Plugins()[0].Address)
		assert.Equal(t, 2, len(dialer.DialCalls()))
	}

	{ // another plugin
		data, err := json.Marshal(Plugin{Name: "Test2", Address: "127.0.0.3:8003"})
		require.NoError(t, err)
		resp := postPlugin(t, ts.URL, "POST", data)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 2, len(c.Plugins()))
		assert.Equal(t, "Test2.FetchFeed", c.Plugins()[1].Method)
	}

	{ // bad registration
		resp := postPlugin(t, ts.URL, "POST", []byte("bad json body"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}

	{ // unsupported method
		resp := postPlugin(t, ts.URL, "PUT", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}

	{ // unregister
		data, err := json.Marshal(Plugin{Name: "Test1", Address: "127.0.0.2:8002"})
		require.NoError(t, err)
		resp := postPlugin(t, ts.URL, "DELETE", data)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 1, len(c.Plugins()))
		assert.Equal(t, "Test2.FetchFeed", c.Plugins()[0].Method)
	}
}

func TestConductor_registrationDialFailed(t *testing.T) {
	dialer := &RPCDialerMock{
		DialFunc: func(network string, address string) (RPCClient, error) {
			return nil, errors.New("dial failed")
		},
	}
	c := Conductor{RPCDialer: dialer}
	ts := httptest.NewServer(c.registrationHandler())
	defer ts.Close()

	data, err := json.Marshal(Plugin{Name: "Test1", Address: "127.0.0.1:0001"})
	require.NoError(t, err)
	resp := postPlugin(t, ts.URL, "POST", data)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, c.Plugins())
}

func TestConductor_Fetch(t *testing.T) {
	passing := &RPCClientMock{CallFunc: func(serviceMethod string, args interface{}, reply interface{}) error {
		reply.(*FetchResponse).Data = args.(FetchRequest).PrevBody
		return nil
	}}
	failing := &RPCClientMock{CallFunc: func(serviceMethod string, args interface{}, reply interface{}) error {
		return errors.New("rpc failed")
	}}
	caching := &RPCClientMock{CallFunc: func(serviceMethod string, args interface{}, reply interface{}) error {
		req := args.(FetchRequest)
		reply.(*FetchResponse).Data = req.PrevBody
		if req.URL == "http://example.com/cached" {
			reply.(*FetchResponse).Data = []byte("cached")
		}
		return nil
	}}
	fetching := &RPCClientMock{CallFunc: func(serviceMethod string, args interface{}, reply interface{}) error {
		req := args.(FetchRequest)
		*reply.(*FetchResponse) = FetchResponse{Data: []byte("fetched " + req.URL + " with " + string(req.PrevBody)),
			ClientUsed: true, ContentType: "application/rss+xml"}
		return nil
	}}

	clients := map[string]RPCClient{"a:1": passing, "b:2": failing, "c:3": caching, "d:4": fetching}
	c := Conductor{RPCDialer: RPCDialerFunc(func(network, address string) (RPCClient, error) {
		return clients[address], nil
	})}

	{ // no plugins
		res, ok := c.Fetch(FetchRequest{URL: "http://example.com/rss"})
		assert.False(t, ok)
		assert.Empty(t, res.Data)
	}

	c.locked(func() {
		require.NoError(t, c.register(Plugin{Name: "p1", Address: "a:1"}))
		require.NoError(t, c.register(Plugin{Name: "p2", Address: "b:2"}))
		require.NoError(t, c.register(Plugin{Name: "p3", Address: "c:3"}))
	})

	{ // nobody handled
		res, ok := c.Fetch(FetchRequest{URL: "http://example.com/rss"})
		assert.False(t, ok)
		assert.Empty(t, res.Data)
		assert.Equal(t, "p1.FetchFeed", passing.CallCalls()[0].ServiceMethod)
		assert.Equal(t, 1, len(failing.CallCalls()), "failed call skipped")
	}

	{ // body from cache
		res, ok := c.Fetch(FetchRequest{URL: "http://example.com/cached"})
		assert.True(t, ok)
		assert.False(t, res.ClientUsed)
		assert.Equal(t, "cached", string(res.Data))
	}

	c.locked(func() { require.NoError(t, c.register(Plugin{Name: "p4", Address: "d:4"})) })

	{ // last plugin fetched, got body of previous one
		res, ok := c.Fetch(FetchRequest{URL: "http://example.com/cached"})
		assert.True(t, ok)
		assert.True(t, res.ClientUsed)
		assert.Equal(t, "fetched http://example.com/cached with cached", string(res.Data))
		assert.Equal(t, "p4.FetchFeed", fetching.CallCalls()[0].ServiceMethod)
	}
}

func TestConductor_FetchDeadPlugin(t *testing.T) {
	var broken int32
	flaky := &RPCClientMock{CallFunc: func(serviceMethod string, args interface{}, reply interface{}) error {
		if atomic.LoadInt32(&broken) == 1 {
			return rpc.ErrShutdown
		}
		*reply.(*FetchResponse) = FetchResponse{Data: []byte("flaky"), ClientUsed: true}
		return nil
	}}
	fetching := &RPCClientMock{CallFunc: func(serviceMethod string, args interface{}, reply interface{}) error {
		*reply.(*FetchResponse) = FetchResponse{Data: []byte("fetching"), ClientUsed: true}
		return nil
	}}
	dialer := &RPCDialerMock{DialFunc: func(network, address string) (RPCClient, error) {
		if address == "a:1" {
			return flaky, nil
		}
		return fetching, nil
	}}
	c := Conductor{RPCDialer: dialer}
	c.locked(func() {
		require.NoError(t, c.register(Plugin{Name: "p1", Address: "a:1"}))
		require.NoError(t, c.register(Plugin{Name: "p2", Address: "b:2"}))
	})

	res, ok := c.Fetch(FetchRequest{URL: "http://example.com/rss"})
	assert.True(t, ok)
	assert.Equal(t, "flaky", string(res.Data))

	atomic.StoreInt32(&broken, 1)
	res, ok = c.Fetch(FetchRequest{URL: "http://example.com/rss"})
	assert.True(t, ok)
	assert.Equal(t, "fetching", string(res.Data), "next plugin used")
	assert.False(t, c.Plugins()[0].Alive)
	assert.True(t, c.Plugins()[1].Alive)

	_, _ = c.Fetch(FetchRequest{URL: "http://example.com/rss"})
	assert.Equal(t, 2, len(flaky.CallCalls()), "dead plugin skipped")

	{ // registered again, same address, keeps its place
		atomic.StoreInt32(&broken, 0)
		c.locked(func() { require.NoError(t, c.register(Plugin{Name: "p1", Address: "a:1"})) })
		assert.Equal(t, 3, len(dialer.DialCalls()))
		require.Equal(t, 2, len(c.Plugins()))
		assert.Equal(t, "p1", c.Plugins()[0].Name)
		assert.True(t, c.Plugins()[0].Alive)
		res, ok = c.Fetch(FetchRequest{URL: "http://example.com/rss"})
		assert.True(t, ok)
		assert.Equal(t, "flaky", string(res.Data))
	}
}

func TestConductor_FetchWithRegistrationInFlight(t *testing.T) {
	c := Conductor{}
	replacement := &RPCClientMock{CallFunc: func(serviceMethod string, args interface{}, reply interface{}) error {
		*reply.(*FetchResponse) = FetchResponse{Data: []byte("replacement"), ClientUsed: true}
		return nil
	}}
	slow := &RPCClientMock{CallFunc: func(serviceMethod string, args interface{}, reply interface{}) error {
		// plugin registered again while its old connection is still serving the call
		c.locked(func() { assert.NoError(t, c.register(Plugin{Name: "p1", Address: "b:2"})) })
		return rpc.ErrShutdown
	}}
	c.RPCDialer = &RPCDialerMock{DialFunc: func(network, address string) (RPCClient, error) {
		if address == "a:1" {
			return slow, nil
		}
		return replacement, nil
	}}
	c.locked(func() { require.NoError(t, c.register(Plugin{Name: "p1", Address: "a:1"})) })

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := c.Fetch(FetchRequest{URL: "http://example.com/rss"})
		assert.False(t, ok)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("registration blocked by running fetch")
	}

	require.Equal(t, 1, len(c.Plugins()))
	assert.Equal(t, "b:2", c.Plugins()[0].Address)
	assert.True(t, c.Plugins()[0].Alive, "new registration not affected by failure of the old one")

	res, ok := c.Fetch(FetchRequest{URL: "http://example.com/rss"})
	assert.True(t, ok)
	assert.Equal(t, "replacement", string(res.Data))
}

func TestConductor_Run(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	c := Conductor{Address: addr, RPCDialer: &RPCDialerMock{DialFunc: func(network, address string) (RPCClient, error) {
		return &RPCClientMock{}, nil
	}}}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	go func() {
		time.Sleep(100 * time.Millisecond)
		data, err := json.Marshal(Plugin{Name: "Test1", Address: "127.0.0.1:0001"})
		assert.NoError(t, err)
		client := http.Client{Timeout: time.Second}
		resp, err := client.Post("http://"+addr, "application/json", bytes.NewReader(data))
		if assert.NoError(t, err) {
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			_ = resp.Body.Close()
		}
	}()

	err = c.Run(ctx)
	assert.ErrorIs(t, err, http.ErrServerClosed)
	assert.Equal(t, 1, len(c.Plugins()))
}
