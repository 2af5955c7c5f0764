package util

import (
	"net"
	"testing"
)

func TestFindAvailablePort_SkipsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", ListenAddr(0))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	busy := ln.Addr().(*net.TCPAddr).Port
	port, err := FindAvailablePort(busy, 20)
	if err != nil {
		t.Fatalf("FindAvailablePort failed: %v", err)
	}
	if port == busy {
		t.Fatalf("busy port %d returned", busy)
	}
}

func TestLocalURL(t *testing.T) {
	if got := LocalURL(20262); got != "http://127.0.0.1:20262/" {
		t.Fatalf("LocalURL=%s", got)
	}
}
