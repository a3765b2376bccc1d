/*
 * Copyright 2026 The Sequencer Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/clusterseq/sequencer/types"
)

// SSHDispatcher runs remote actions over one multiplexed *ssh.Client per
// host, reusing the connection across actions targeting the same node and
// opening a fresh Session per action (spec §5 "SSH-multiplexing transport
// that aggregates results per-node").
type SSHDispatcher struct {
	config *ssh.ClientConfig
	port   string

	mu    sync.Mutex
	conns map[string]*pooledConn
}

type pooledConn struct {
	client   *ssh.Client
	refCount int
}

// NewSSHDispatcher builds a dispatcher that authenticates with cfg and
// connects to "<host>:<port>" (port defaults to "22").
func NewSSHDispatcher(cfg *ssh.ClientConfig, port string) *SSHDispatcher {
	if port == "" {
		port = "22"
	}
	return &SSHDispatcher{config: cfg, port: port, conns: make(map[string]*pooledConn)}
}

func (d *SSHDispatcher) Dispatch(ctx context.Context, a *types.ActionInstr) (Result, error) {
	host, err := Host(a)
	if err != nil {
		return Result{}, err
	}

	client, release, err := d.acquire(ctx, host)
	if err != nil {
		return Result{}, err
	}
	defer release()

	session, err := client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("ssh: new session to %s: %w", host, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(a.Command) }()

	select {
	case <-ctx.Done():
		session.Close()
		return Result{}, ctx.Err()
	case err := <-done:
		res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
		var exitErr *ssh.ExitError
		switch {
		case err == nil:
			res.ExitCode = 0
			return res, nil
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitStatus()
			return res, nil
		default:
			return res, err
		}
	}
}

// acquire returns a live client for host, dialing and caching it on first
// use, and increments its reference count; the caller must invoke the
// returned release func exactly once.
func (d *SSHDispatcher) acquire(ctx context.Context, host string) (*ssh.Client, func(), error) {
	d.mu.Lock()
	if pc, ok := d.conns[host]; ok {
		pc.refCount++
		d.mu.Unlock()
		return pc.client, func() { d.release(host) }, nil
	}
	d.mu.Unlock()

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, d.port))
	if err != nil {
		return nil, nil, fmt.Errorf("ssh: dial %s: %w", host, err)
	}
	clientConn, chans, reqs, err := ssh.NewClientConn(conn, net.JoinHostPort(host, d.port), d.config)
	if err != nil {
		return nil, nil, fmt.Errorf("ssh: handshake with %s: %w", host, err)
	}
	client := ssh.NewClient(clientConn, chans, reqs)

	d.mu.Lock()
	d.conns[host] = &pooledConn{client: client, refCount: 1}
	d.mu.Unlock()

	return client, func() { d.release(host) }, nil
}

// release drops a reference to host's pooled connection, closing it once
// nothing holds it.
func (d *SSHDispatcher) release(host string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pc, ok := d.conns[host]
	if !ok {
		return
	}
	pc.refCount--
	if pc.refCount <= 0 {
		pc.client.Close()
		delete(d.conns, host)
	}
}

// Close tears down every pooled connection, regardless of reference count;
// call once the whole ISE run has finished.
func (d *SSHDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for host, pc := range d.conns {
		pc.client.Close()
		delete(d.conns, host)
	}
}
