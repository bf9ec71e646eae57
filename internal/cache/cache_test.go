package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/mohammed-shakir/meshcode/internal/cache/lrustore"
	"github.com/mohammed-shakir/meshcode/internal/cache/redisstore"
)

type counter struct{ n int }

func (c *counter) compute(val string) func(context.Context) ([]byte, error) {
	return func(context.Context) ([]byte, error) {
		c.n++
		return []byte(val), nil
	}
}

func newRedis(t *testing.T) (*redisstore.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rc, err := redisstore.New(context.Background(), mr.Addr())
	if err != nil {
		t.Fatalf("redisstore.New: %v", err)
	}
	return rc, mr
}

func TestTiered_FrontOnly_ComputesOnce(t *testing.T) {
	tc, err := NewTiered(lrustore.New(16), nil, Options{TTL: time.Minute}, nil)
	if err != nil {
		t.Fatalf("NewTiered: %v", err)
	}
	defer func() { _ = tc.Close() }()

	var c counter
	for range 3 {
		v, err := tc.GetOrCompute(context.Background(), "k", c.compute("v"))
		if err != nil || string(v) != "v" {
			t.Fatalf("GetOrCompute=%q err=%v", v, err)
		}
	}
	if c.n != 1 {
		t.Fatalf("compute called %d times want 1", c.n)
	}
	if err := tc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping without back store: %v", err)
	}
}

func TestTiered_BackStoreFillsFront(t *testing.T) {
	rc, mr := newRedis(t)
	front := lrustore.New(16)
	tc, _ := NewTiered(front, rc, Options{TTL: time.Minute}, nil)
	defer func() { _ = tc.Close() }()

	if err := mr.Set("k", "from-redis"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var c counter
	v, err := tc.GetOrCompute(context.Background(), "k", c.compute("computed"))
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if string(v) != "from-redis" || c.n != 0 {
		t.Fatalf("got %q computed=%d, want redis value without compute", v, c.n)
	}
	if _, ok, _ := front.Get(context.Background(), "k"); !ok {
		t.Fatal("redis hit should populate the front store")
	}
}

func TestTiered_MissWritesBothTiers(t *testing.T) {
	rc, mr := newRedis(t)
	tc, _ := NewTiered(lrustore.New(16), rc, Options{TTL: time.Minute}, nil)
	defer func() { _ = tc.Close() }()

	var c counter
	if _, err := tc.GetOrCompute(context.Background(), "k", c.compute("v")); err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	got, err := mr.Get("k")
	if err != nil || got != "v" {
		t.Fatalf("redis value=%q err=%v", got, err)
	}
	if ttl := mr.TTL("k"); ttl != time.Minute {
		t.Fatalf("redis ttl=%v want 1m", ttl)
	}
}

func TestTiered_BackStoreDown_Degrades(t *testing.T) {
	rc, mr := newRedis(t)
	tc, _ := NewTiered(lrustore.New(16), rc, Options{TTL: time.Minute, OpTimeout: 50 * time.Millisecond}, nil)
	defer func() { _ = tc.Close() }()
	mr.Close()

	var c counter
	v, err := tc.GetOrCompute(context.Background(), "k", c.compute("v"))
	if err != nil || string(v) != "v" || c.n != 1 {
		t.Fatalf("expected recompute with redis down: v=%q err=%v n=%d", v, err, c.n)
	}
	if err := tc.Ping(context.Background()); err == nil {
		t.Fatal("Ping should fail with redis down")
	}
}

func TestTiered_ComputeErrorNotCached(t *testing.T) {
	tc, _ := NewTiered(lrustore.New(16), nil, Options{}, nil)
	boom := errors.New("boom")
	calls := 0
	fail := func(context.Context) ([]byte, error) { calls++; return nil, boom }

	for range 2 {
		if _, err := tc.GetOrCompute(context.Background(), "k", fail); !errors.Is(err, boom) {
			t.Fatalf("err=%v want boom", err)
		}
	}
	if calls != 2 {
		t.Fatalf("failed computations must not be cached; calls=%d", calls)
	}
}

func TestNewTiered_RequiresFront(t *testing.T) {
	if _, err := NewTiered(nil, nil, Options{}, nil); err == nil {
		t.Fatal("expected error without front store")
	}
}
