// Trailcast - Real-Time Location Sharing and Route Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trailcast

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("geocode:paris", "48.8566,2.3522")

	got, ok := c.Get("geocode:paris")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "48.8566,2.3522" {
		t.Errorf("Get = %v, want coordinates", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	if _, ok := c.Get("absent"); ok {
		t.Error("expected cache miss for absent key")
	}

	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(10 * time.Millisecond)
	defer c.Close()

	c.Set("short-lived", 42)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("short-lived"); ok {
		t.Error("expected entry to expire")
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := New(time.Millisecond)
	defer c.Close()

	c.SetWithTTL("long-lived", "v", time.Minute)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("long-lived"); !ok {
		t.Error("entry with custom long TTL should survive the default TTL")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("k", "v")
	c.Delete("k")

	if _, ok := c.Get("k"); ok {
		t.Error("deleted key should miss")
	}
}

func TestCacheClear(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.Clear()

	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("TotalKeys after Clear = %d, want 0", stats.TotalKeys)
	}
	if stats.Evictions != 10 {
		t.Errorf("Evictions after Clear = %d, want 10", stats.Evictions)
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	if rate := c.HitRate(); rate != 0.0 {
		t.Errorf("HitRate on empty cache = %v, want 0", rate)
	}

	c.Set("k", "v")
	c.Get("k")    // hit
	c.Get("k")    // hit
	c.Get("nope") // miss

	want := float64(2) / float64(3) * 100.0
	if rate := c.HitRate(); rate != want {
		t.Errorf("HitRate = %v, want %v", rate, want)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%5)
			for j := 0; j < 100; j++ {
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
}

func TestGenerateKey(t *testing.T) {
	type query struct {
		Place string
		Lat   float64
		Lon   float64
	}

	k1 := GenerateKey("geocode", query{Place: "berlin"})
	k2 := GenerateKey("geocode", query{Place: "berlin"})
	k3 := GenerateKey("geocode", query{Place: "munich"})
	k4 := GenerateKey("route", query{Place: "berlin"})

	if k1 != k2 {
		t.Error("identical params should produce identical keys")
	}
	if k1 == k3 {
		t.Error("different params should produce different keys")
	}
	if k1 == k4 {
		t.Error("different operations should produce different keys")
	}
}
