package lib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/rpc"
	"slices"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
)

//go:generate moq -out dialer_mock.go -fmt goimports . RPCDialer
//go:generate moq -out client_mock.go -fmt goimports . RPCClient

// Conductor is the host side. It accepts registrations from fetch plugins, keeps list of active plugins
// and calls them before the host fetches a feed.
type Conductor struct {
	Address   string
	RPCDialer RPCDialer

	plugins []Handler
	seq     int64 // registration counter, tells re-registered plugin from the old one
	lock    sync.RWMutex
}

// Handler contains information about a registered plugin
type Handler struct {
	Name    string
	Address string
	Method  string // full method name for rpc call, i.e. options_per_feed.FetchFeed
	Alive   bool

	client RPCClient
	seq    int64
}

// RPCDialer is a maker interface dialing to rpc server and returning new RPCClient
type RPCDialer interface {
	Dial(network, address string) (RPCClient, error)
}

// RPCDialerFunc is an adapter to allow the use of an ordinary functions as the RPCDialer.
type RPCDialerFunc func(network, address string) (RPCClient, error)

// Dial rpc server
func (f RPCDialerFunc) Dial(network, address string) (RPCClient, error) {
	return f(network, address)
}

// RPCClient defines interface for remote calls
type RPCClient interface {
	Call(serviceMethod string, args interface{}, reply interface{}) error
}

// NetRPCDialer dials plugins with net/rpc
var NetRPCDialer = RPCDialerFunc(func(network, address string) (RPCClient, error) {
	client, err := rpc.Dial(network, address)
	if err != nil {
		return nil, err
	}
	return client, nil
})

// Run creates and activates http registration server
func (c *Conductor) Run(ctx context.Context) error {
	log.Printf("[INFO] start plugin conductor on %s", c.Address)
	httpServer := &http.Server{
		Addr:              c.Address,
		Handler:           c.registrationHandler(),
		ReadHeaderTimeout: 50 * time.Millisecond,
		WriteTimeout:      time.Second,
		IdleTimeout:       50 * time.Millisecond,
	}

	go func() {
		<-ctx.Done()
		if err := httpServer.Close(); err != nil {
			log.Printf("[ERROR] failed to close plugin registration server, %v", err)
		}
	}()

	return httpServer.ListenAndServe()
}

// Fetch calls FetchFeed of all registered, alive plugins in registration order. The first plugin
// which used its own client or failed wins. Body returned by other plugins goes to the next one as PrevBody.
// Returns false if nobody fetched and the body is still empty, the host should fetch the feed by itself.
// Plugins with broken rpc connection marked as not alive until registered again.
func (c *Conductor) Fetch(req FetchRequest) (FetchResponse, bool) {
	res, ok, dead := c.chain(req)
	if len(dead) > 0 {
		c.locked(func() { c.markDead(dead) })
	}
	return res, ok
}

// chain calls plugins of the snapshot, the lock is not held during rpc calls
func (c *Conductor) chain(req FetchRequest) (res FetchResponse, ok bool, dead []Handler) {
	for _, p := range c.Plugins() {
		if !p.Alive {
			continue
		}
		var reply FetchResponse
		if err := p.client.Call(p.Method, req, &reply); err != nil {
			log.Printf("[WARN] failed to invoke plugin %s: %v", p.Method, err)
			if errors.Is(err, rpc.ErrShutdown) || errors.Is(err, io.ErrUnexpectedEOF) {
				dead = append(dead, p)
			}
			continue
		}
		if reply.ClientUsed || reply.Failed {
			return reply, true, dead
		}
		if len(reply.Data) > 0 {
			req.PrevBody = reply.Data
		}
	}
	return FetchResponse{Data: req.PrevBody}, len(req.PrevBody) > 0, dead
}

// Plugins returns copy of registered plugins
func (c *Conductor) Plugins() []Handler {
	c.lock.RLock()
	defer c.lock.RUnlock()
	res := make([]Handler, len(c.plugins))
	copy(res, c.plugins)
	return res
}

// registrationHandler accepts POST (register) or DELETE (unregister) with Plugin in body
func (c *Conductor) registrationHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			http.Error(w, "invalid request type", http.StatusBadRequest)
			return
		}
		var p Plugin
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Name == "" {
			http.Error(w, "invalid plugin info", http.StatusBadRequest)
			return
		}

		if r.Method == http.MethodDelete {
			c.locked(func() { c.unregister(p) })
			return
		}
		var err error
		c.locked(func() { err = c.register(p) })
		if err != nil {
			log.Printf("[WARN] registration of plugin %s failed, %v", p.Name, err)
			http.Error(w, "rpc registration failed", http.StatusInternalServerError)
		}
	})
}

// register adds plugin to the end of the chain or replaces one with the same name in place.
// Not thread safe, call should be enclosed with lock.
func (c *Conductor) register(p Plugin) error {
	idx := slices.IndexFunc(c.plugins, func(h Handler) bool { return h.Name == p.Name })
	if idx >= 0 && c.plugins[idx].Address == p.Address && c.plugins[idx].Alive {
		log.Printf("[DEBUG] plugin %s already registered on %s", p.Name, p.Address)
		return nil
	}

	client, err := c.RPCDialer.Dial("tcp", p.Address)
	if err != nil {
		return fmt.Errorf("can't reach plugin %s on %s: %w", p.Name, p.Address, err)
	}
	c.seq++
	h := Handler{Name: p.Name, Address: p.Address, Method: p.Name + "." + FetchMethod, Alive: true, client: client, seq: c.seq}

	if idx < 0 {
		log.Printf("[INFO] register plugin %s on %s, method %s", p.Name, p.Address, h.Method)
		c.plugins = append(c.plugins, h)
		return nil
	}
	log.Printf("[INFO] re-register plugin %s on %s, was %s", p.Name, p.Address, c.plugins[idx].Address)
	closeClient(c.plugins[idx])
	c.plugins[idx] = h
	return nil
}

// unregister removes plugin by name. Not thread safe, call should be enclosed with lock.
func (c *Conductor) unregister(p Plugin) {
	log.Printf("[INFO] unregister plugin %s on %s", p.Name, p.Address)
	c.plugins = slices.DeleteFunc(slices.Clone(c.plugins), func(h Handler) bool {
		if h.Name != p.Name {
			return false
		}
		closeClient(h)
		return true
	})
}

// markDead skips plugins registered again after the failed call. Not thread safe, call should be enclosed with lock.
func (c *Conductor) markDead(dead []Handler) {
	for i, h := range c.plugins {
		failed := slices.ContainsFunc(dead, func(d Handler) bool { return d.Name == h.Name && d.seq == h.seq })
		if failed && h.Alive {
			log.Printf("[WARN] plugin %s on %s is not reachable, skipped until registered again", h.Name, h.Address)
			c.plugins[i].Alive = false
		}
	}
}

func (c *Conductor) locked(fn func()) {
	c.lock.Lock()
	defer c.lock.Unlock()
	fn()
}

func closeClient(h Handler) {
	if cl, ok := h.client.(io.Closer); ok {
		if err := cl.Close(); err != nil {
			log.Printf("[DEBUG] close rpc client of %s, %v", h.Name, err)
		}
	}
}
