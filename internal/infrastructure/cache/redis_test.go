package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("s3cret")

	c, err := OpenRedis(context.Background(), Options{Addr: s.Addr(), Password: "s3cret", DB: 2, PoolSize: 4})
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if o := c.Options(); o.DB != 2 || o.PoolSize != 4 {
		t.Fatalf("options not applied: db=%d pool=%d", o.DB, o.PoolSize)
	}
	if err := c.Set(context.Background(), "prefs:emp-1:it_queue", "{}", 0).Err(); err != nil {
		t.Fatalf("SET: %v", err)
	}
	if v, _ := s.DB(2).Get("prefs:emp-1:it_queue"); v != "{}" {
		t.Fatalf("value not stored in db 2, got %q", v)
	}
	if err := Ping(context.Background(), c); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpenRedis_Failures(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("s3cret")
	if _, err := OpenRedis(context.Background(), Options{Addr: s.Addr(), Password: "wrong"}); err == nil {
		t.Fatal("bad password: expected error")
	}

	down := miniredis.RunT(t)
	addr := down.Addr()
	down.Close()
	_, err := OpenRedis(context.Background(), Options{Addr: addr})
	if err == nil || !strings.Contains(err.Error(), addr) {
		t.Fatalf("closed server: want error naming %s, got %v", addr, err)
	}
}
