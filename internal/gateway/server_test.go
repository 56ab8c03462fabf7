package gateway

import (
	"strings"
	"testing"
)

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Config{})
	if err == nil || err.Error() != "store is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewDefaultsListenAddress(t *testing.T) {
	srv := newTestServer(t)
	if srv.ListenAddress() != DefaultListenAddress {
		t.Fatalf("listen address: got %q want %q", srv.ListenAddress(), DefaultListenAddress)
	}
}

func TestNewRejectsNonLoopbackWithoutOptIn(t *testing.T) {
	_, err := New(Config{
		Store:  newTestStore(t, "app"),
		Bucket: "media",
		Listen: "0.0.0.0:8787",
	})
	if err == nil || !strings.Contains(err.Error(), "not loopback") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRejectsRemoteListenerWithoutToken(t *testing.T) {
	store := newTestStore(t, "app")

	_, err := New(Config{
		Store:       store,
		Bucket:      "media",
		Listen:      "0.0.0.0:8787",
		AllowRemote: true,
	})
	if err == nil || !strings.Contains(err.Error(), "auth token") {
		t.Fatalf("unexpected error: %v", err)
	}

	srv, err := New(Config{
		Store:       store,
		Bucket:      "media",
		Listen:      "0.0.0.0:8787",
		AllowRemote: true,
		AuthTokens:  "secret-token",
	})
	if err != nil {
		t.Fatalf("unexpected error with token: %v", err)
	}
	if srv.ListenAddress() != "0.0.0.0:8787" {
		t.Fatalf("listen address: got %q", srv.ListenAddress())
	}
}

func TestNewHTTPServerAppliesSecurityLimits(t *testing.T) {
	srv := newTestServer(t).newHTTPServer()

	if srv.ReadHeaderTimeout != serverReadHeaderTimeout {
		t.Fatalf("read header timeout: got %s want %s", srv.ReadHeaderTimeout, serverReadHeaderTimeout)
	}
	if srv.ReadTimeout != serverReadTimeout {
		t.Fatalf("read timeout: got %s want %s", srv.ReadTimeout, serverReadTimeout)
	}
	if srv.WriteTimeout != serverWriteTimeout {
		t.Fatalf("write timeout: got %s want %s", srv.WriteTimeout, serverWriteTimeout)
	}
	if srv.IdleTimeout != serverIdleTimeout {
		t.Fatalf("idle timeout: got %s want %s", srv.IdleTimeout, serverIdleTimeout)
	}
	if srv.MaxHeaderBytes != serverMaxHeaderBytes {
		t.Fatalf("max header bytes: got %d want %d", srv.MaxHeaderBytes, serverMaxHeaderBytes)
	}
}
