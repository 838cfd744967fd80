// Package network lets the TLS listener answer plain HTTP requests with a
// redirect to the https:// URL on the same port.
package network

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
	"sync"
)

// tlsHandshakeRecord is the first byte of every TLS connection.
const tlsHandshakeRecord = 0x16

type redirectListener struct {
	net.Listener
}

// NewHttpsRedirectListener wraps a listener that is about to be passed to
// tls.NewListener.
func NewHttpsRedirectListener(l net.Listener) net.Listener {
	return &redirectListener{Listener: l}
}

func (l *redirectListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &redirectConn{Conn: conn}, nil
}

// redirectConn peeks at the first bytes of the connection. TLS traffic is
// passed through, anything else is parsed as HTTP and redirected.
type redirectConn struct {
	net.Conn

	once    sync.Once
	pending []byte
	err     error
}

func (c *redirectConn) sniff() {
	buf := make([]byte, 4096)
	n, err := c.Conn.Read(buf)
	c.pending = buf[:n]
	if n == 0 {
		c.err = err
		return
	}
	if c.pending[0] == tlsHandshakeRecord {
		return
	}

	req, perr := http.ReadRequest(bufio.NewReader(bytes.NewReader(c.pending)))
	if perr == nil {
		resp := &http.Response{
			StatusCode: http.StatusTemporaryRedirect,
			ProtoMajor: 1,
			ProtoMinor: 1,
			Header:     http.Header{"Location": {"https://" + req.Host + req.URL.RequestURI()}},
			Close:      true,
		}
		_ = resp.Write(c.Conn)
	}
	c.pending = nil
	c.err = net.ErrClosed
	_ = c.Conn.Close()
}

func (c *redirectConn) Read(b []byte) (int, error) {
	c.once.Do(c.sniff)
	if len(c.pending) > 0 {
		n := copy(b, c.pending)
		c.pending = c.pending[n:]
		return n, nil
	}
	if c.err != nil {
		return 0, c.err
	}
	return c.Conn.Read(b)
}
