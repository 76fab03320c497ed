package net

import (
	"fmt"
	"log"
	"net"
	"strings"
)

// Scheme prefixes share links that start a board in client mode.
const Scheme = "strokeboard://"

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// Offline networks still have a LAN address on some interface.
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("list interface addresses: %w", err)
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
	}
	log.Println("[HOST] No suitable local IP found, share link may not work")
	return "127.0.0.1", nil
}

// ShareLink builds the link other boards open to submit to this host.
func ShareLink(ip string, port int) string {
	return fmt.Sprintf("%s%s", Scheme, net.JoinHostPort(ip, fmt.Sprint(port)))
}

// ParseShareLink extracts host:port from a share link.
func ParseShareLink(link string) (string, bool) {
	if !strings.HasPrefix(link, Scheme) {
		return "", false
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, Scheme), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", false
	}
	return addr, true
}
