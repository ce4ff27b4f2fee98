package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.values[key] = toString(value)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			delete(m.ttls, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func newTestClient() (*Client, *mockCmdable) {
	mock := newMockCmdable()
	return &Client{store: mock}, mock
}

func TestKeyBuilders(t *testing.T) {
	c, _ := newTestClient()

	if got := c.SessionKey("abc-123"); got != "ph:session:access:abc-123" {
		t.Fatalf("unexpected session key: %s", got)
	}
	if got := c.CartKey("Demo@Example.com"); got != "ph:cart:demo@example.com" {
		t.Fatalf("unexpected cart key: %s", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	c, _ := newTestClient()
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	key := c.CartKey("demo@example.com")
	if err := c.SetJSON(ctx, key, doc{Name: "визитки", Count: 2}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out doc
	found, err := c.GetJSON(ctx, key, &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !found {
		t.Fatal("expected document to be found")
	}
	if out.Name != "визитки" || out.Count != 2 {
		t.Fatalf("unexpected document: %+v", out)
	}
}

func TestGetJSON_MissingKeyIsEmpty(t *testing.T) {
	c, _ := newTestClient()

	var out map[string]any
	found, err := c.GetJSON(context.Background(), c.CartKey("nobody@example.com"), &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if found {
		t.Fatal("expected missing key to report not found")
	}
}

func TestGetJSON_CorruptDocumentIsEmpty(t *testing.T) {
	c, mock := newTestClient()
	key := c.CartKey("demo@example.com")
	mock.values[key] = "{not json"

	var out map[string]any
	found, err := c.GetJSON(context.Background(), key, &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if found {
		t.Fatal("expected corrupt document to report not found")
	}
}

func TestSessionLifecycle(t *testing.T) {
	c, mock := newTestClient()
	ctx := context.Background()
	key := c.SessionKey("tok-1")

	if err := c.Set(ctx, key, "demo@example.com", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if mock.ttls[key] != time.Hour {
		t.Fatalf("expected ttl to be stored, got %v", mock.ttls[key])
	}

	got, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "demo@example.com" {
		t.Fatalf("unexpected value: %s", got)
	}

	if err := c.Del(ctx, key); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok := mock.values[key]; ok {
		t.Fatal("expected key to be deleted")
	}
}
