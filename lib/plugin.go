package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/rpc"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
)

var (
	registerRetries = 5
	registerDelay   = time.Second
)

// Plugin provides cancelable rpc server
type Plugin struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Do register the plugin, send info to the host's conductor and activate RPC listener.
// On completion unregister from conductor. Empty conductor means no registration, host dials the address directly.
func (p *Plugin) Do(ctx context.Context, conductor string, rcvr interface{}) (err error) {
	if err = rpc.RegisterName(p.Name, rcvr); err != nil {
		return fmt.Errorf("can't register plugin %s: %w", p.Name, err)
	}

	listener, err := net.Listen("tcp", p.Address)
	if err != nil {
		return fmt.Errorf("can't listen on %s: %w", p.Address, err)
	}
	log.Printf("[INFO] plugin %s listens on %s", p.Name, listener.Addr())

	client := http.Client{Timeout: time.Second}
	err = repeater.NewDefault(registerRetries, registerDelay).Do(ctx, func() error {
		if e := p.send(client, conductor, "POST"); e != nil {
			log.Printf("[WARN] can't register with conductor %s, %v", conductor, e)
			return e
		}
		return nil
	})
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("can't register with conductor for %s: %w", p.Name, err)
	}

	defer func() {
		if e := p.send(client, conductor, "DELETE"); e != nil {
			err = fmt.Errorf("can't unregister with conductor for %s: %w", p.Name, e)
		}
	}()

	go func() {
		<-ctx.Done()
		if e := listener.Close(); e != nil {
			log.Printf("[WARN] failed to close plugin listener, %v", e)
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return fmt.Errorf("accept failed for %s: %w", p.Name, err)
			}
		}

		go rpc.ServeConn(conn)
	}
}

func (p *Plugin) send(client http.Client, conductor, method string) error {

	if conductor == "" {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, conductor, bytes.NewReader(data))
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // nolint

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid status %s", resp.Status)
	}
	return nil
}
