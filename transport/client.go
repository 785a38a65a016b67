package transport

import (
	"fmt"
	"net"
	"time"
)

// DialUpstream opens a TCP connection to addr with keep-alive enabled,
// matching the accepted side's socket options so both halves of a proxied
// connection behave the same way under an idle link.
func DialUpstream(addr string, timeout time.Duration) (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial upstream %s: %w", addr, err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		tcpConn.SetKeepAlive(true)
		tcpConn.SetKeepAlivePeriod(30 * time.Second)
	}

	return conn, nil
}
