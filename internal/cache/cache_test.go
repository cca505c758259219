package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](time.Minute)

	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get = (%q, %v), want (v, true)", got, ok)
	}
}

func TestCache_MissingKey(t *testing.T) {
	c := New[int](time.Minute)

	if _, ok := c.Get("absent"); ok {
		t.Fatalf("expected miss")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[string](time.Millisecond)

	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New[string](time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected cleared cache")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected cleared cache")
	}
}
