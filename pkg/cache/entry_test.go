package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "future expiry",
			expires: time.Now().Add(5 * time.Minute),
			want:    false,
		},
		{
			name:    "past expiry",
			expires: time.Now().Add(-5 * time.Minute),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{ExpiresAt: tt.expires}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	entry := NewEntry([]byte(`{}`), 200, 5*time.Minute)

	ttl := entry.TTL()
	if ttl <= 4*time.Minute || ttl > 5*time.Minute {
		t.Errorf("TTL() = %v, want close to 5m", ttl)
	}
}

func TestEntry_TTL_Expired(t *testing.T) {
	entry := NewEntry([]byte(`{}`), 200, -time.Minute)

	if got := entry.TTL(); got != 0 {
		t.Errorf("TTL() = %v for expired entry, want 0", got)
	}
}

func TestNewEntry(t *testing.T) {
	body := []byte(`{"data":[]}`)
	entry := NewEntry(body, 200, time.Minute)

	if string(entry.Body) != string(body) {
		t.Errorf("Body = %s, want %s", entry.Body, body)
	}
	if entry.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", entry.StatusCode)
	}
	if entry.CachedAt.IsZero() {
		t.Error("CachedAt not set")
	}
	if !entry.ExpiresAt.After(entry.CachedAt) {
		t.Error("ExpiresAt should be after CachedAt")
	}
}
