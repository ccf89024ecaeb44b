package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rmitchellscott/hass-render/internal/entity"
)

func rec(id, state string, attrs map[string]any) entity.Record {
	return entity.Record{EntityID: id, State: state, Attributes: attrs}
}

func TestKey(t *testing.T) {
	base := []entity.Record{rec("sensor.a", "21.7", map[string]any{"unit_of_measurement": "°C", "device_class": "temperature"})}
	baseKey := Key("single-status", []string{"400", "200"}, base)

	t.Run("stable", func(t *testing.T) {
		again := []entity.Record{rec("sensor.a", "21.7", map[string]any{"device_class": "temperature", "unit_of_measurement": "°C"})}
		if got := Key("single-status", []string{"400", "200"}, again); got != baseKey {
			t.Errorf("equal inputs gave different keys: %s vs %s", got, baseKey)
		}
	})

	changes := []struct {
		name   string
		mode   string
		params []string
		recs   []entity.Record
	}{
		{"state", "single-status", []string{"400", "200"}, []entity.Record{rec("sensor.a", "21.8", base[0].Attributes)}},
		{"attribute", "single-status", []string{"400", "200"}, []entity.Record{rec("sensor.a", "21.7", map[string]any{"unit_of_measurement": "°F"})}},
		{"params", "single-status", []string{"400", "300"}, base},
		{"title", "single-status", []string{"400", "200", "Garage"}, base},
		{"mode", "multi-status", []string{"400", "200"}, base},
		{"unavailable", "single-status", []string{"400", "200"}, []entity.Record{entity.UnavailableRecord("sensor.a")}},
	}
	for _, tt := range changes {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.mode, tt.params, tt.recs); got == baseKey {
				t.Errorf("changing %s did not change the key", tt.name)
			}
		})
	}
}

func TestKeyOrderMatters(t *testing.T) {
	a := rec("sensor.a", "1", nil)
	b := rec("sensor.b", "2", nil)
	if Key("multi-status", nil, []entity.Record{a, b}) == Key("multi-status", nil, []entity.Record{b, a}) {
		t.Error("record order should change the key")
	}
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if _, found, err := c.Get(ctx, "k"); found || err != nil {
		t.Errorf("Noop Get = found %v, err %v", found, err)
	}
}

func TestRedisCache(t *testing.T) {
	// This test requires a running Redis instance
	c := NewRedisCache("localhost:6379", "", 1, time.Minute)
	defer c.Close()

	ctx := context.Background()
	if err := c.Ping(ctx); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	key := Key("single-status", []string{"test"}, []entity.Record{rec("sensor.cache_test", "1", nil)})
	defer c.Delete(ctx, key)

	if _, found, err := c.Get(ctx, key); err != nil || found {
		t.Fatalf("fresh key: found %v, err %v", found, err)
	}

	png := []byte{0x89, 'P', 'N', 'G', 0, 1, 2}
	if err := c.Set(ctx, key, png); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, found, err := c.Get(ctx, key)
	if err != nil || !found {
		t.Fatalf("Get after Set: found %v, err %v", found, err)
	}
	if !bytes.Equal(got, png) {
		t.Errorf("Get = %v, want %v", got, png)
	}
}
