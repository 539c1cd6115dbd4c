package ristretto

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGetDelete(t *testing.T) {
	c, err := New(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "workflow:deploy", []byte("definition"), time.Minute); err != nil {
		t.Fatal(err)
	}
	// Ristretto admits writes asynchronously.
	time.Sleep(10 * time.Millisecond)

	val, found, err := c.Get(ctx, "workflow:deploy")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(val) != "definition" {
		t.Fatalf("unexpected value: %s", val)
	}

	if err := c.Delete(ctx, "workflow:deploy"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, found, _ := c.Get(ctx, "workflow:deploy"); found {
		t.Fatal("expected miss after Delete")
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := New(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, found, err := c.Get(context.Background(), "workflow:absent")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected miss for absent key")
	}
}
