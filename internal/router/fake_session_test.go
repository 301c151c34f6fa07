package router

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/charmbracelet/ssh"
)

type fakeContext struct {
	context.Context
	mu     sync.Mutex
	values map[any]any
	remote net.Addr
	local  net.Addr
}

func newFakeContext(ctx context.Context, remote net.Addr) *fakeContext {
	return &fakeContext{
		Context: ctx,
		values:  map[any]any{},
		remote:  remote,
		local:   &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 2222},
	}
}

func (f *fakeContext) Lock()                         { f.mu.Lock() }
func (f *fakeContext) Unlock()                       { f.mu.Unlock() }
func (f *fakeContext) User() string                  { return "guest" }
func (f *fakeContext) SessionID() string             { return "test-session" }
func (f *fakeContext) ClientVersion() string         { return "ssh-test-client" }
func (f *fakeContext) ServerVersion() string         { return "ssh-test-server" }
func (f *fakeContext) RemoteAddr() net.Addr          { return f.remote }
func (f *fakeContext) LocalAddr() net.Addr           { return f.local }
func (f *fakeContext) Permissions() *ssh.Permissions { return &ssh.Permissions{} }
func (f *fakeContext) SetValue(key, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}
func (f *fakeContext) Value(key interface{}) interface{} {
	f.mu.Lock()
	v, ok := f.values[key]
	f.mu.Unlock()
	if ok {
		return v
	}
	return f.Context.Value(key)
}

type fakeSession struct {
	ctx     *fakeContext
	remote  net.Addr
	command []string
	pty     ssh.Pty
	hasPty  bool

	mu       sync.Mutex
	writes   []string
	exitCode int
	exited   bool
}

func newFakeSession(ctx context.Context, remote string) *fakeSession {
	addr := &net.TCPAddr{IP: net.ParseIP(remote), Port: 22}
	return &fakeSession{ctx: newFakeContext(ctx, addr), remote: addr}
}

func (f *fakeSession) withCommand(args ...string) *fakeSession {
	f.command = args
	return f
}

func (f *fakeSession) withPty(width, height int) *fakeSession {
	f.pty = ssh.Pty{Term: "xterm-256color", Window: ssh.Window{Width: width, Height: height}}
	f.hasPty = true
	return f
}

func (f *fakeSession) written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

func (f *fakeSession) Read(_ []byte) (int, error) { return 0, io.EOF }
func (f *fakeSession) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, string(p))
	return len(p), nil
}
func (f *fakeSession) Close() error                                   { return nil }
func (f *fakeSession) CloseWrite() error                              { return nil }
func (f *fakeSession) SendRequest(string, bool, []byte) (bool, error) { return false, nil }
func (f *fakeSession) Stderr() io.ReadWriter                          { return &bytes.Buffer{} }
func (f *fakeSession) User() string                                   { return "guest" }
func (f *fakeSession) RemoteAddr() net.Addr                           { return f.remote }
func (f *fakeSession) LocalAddr() net.Addr                            { return f.ctx.local }
func (f *fakeSession) Environ() []string                              { return nil }
func (f *fakeSession) Exit(code int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exitCode = code
	f.exited = true
	return nil
}
func (f *fakeSession) Command() []string            { return f.command }
func (f *fakeSession) RawCommand() string           { return strings.Join(f.command, " ") }
func (f *fakeSession) Subsystem() string            { return "" }
func (f *fakeSession) PublicKey() ssh.PublicKey     { return nil }
func (f *fakeSession) Context() ssh.Context         { return f.ctx }
func (f *fakeSession) Permissions() ssh.Permissions { return ssh.Permissions{} }
func (f *fakeSession) EmulatedPty() bool            { return false }
func (f *fakeSession) Pty() (ssh.Pty, <-chan ssh.Window, bool) {
	return f.pty, nil, f.hasPty
}
func (f *fakeSession) Signals(chan<- ssh.Signal) {}
func (f *fakeSession) Break(chan<- bool)         {}

