// SPDX-License-Identifier: MIT

package api

import (
	"net"
	"strconv"
)

const loopback = "127.0.0.1"

// baseURL is the URL clients should use. A wildcard bind address is replaced
// with the address of the interface that routes outbound traffic.
func baseURL(host string, addr net.Addr) string {
	port := 0
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = tcp.Port
	}
	if isWildcard(host) {
		host = outboundIP()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

func isWildcard(host string) bool {
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		return true
	}
	return false
}

// outboundIP finds the local address used to reach the internet. Dialing UDP
// sends no packets.
func outboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return loopback
	}
	defer conn.Close()
	if a, ok := conn.LocalAddr().(*net.UDPAddr); ok && a.IP != nil {
		return a.IP.String()
	}
	return loopback
}
