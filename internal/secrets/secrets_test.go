package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
)

// recordingStore counts reads so tests can assert the store is not consulted.
type recordingStore struct {
	data  map[string]string
	err   error
	reads int
}

func (r *recordingStore) Get(_ context.Context, key string) (string, error) {
	r.reads++
	if r.err != nil {
		return "", r.err
	}
	return r.data[key], nil
}

func (r *recordingStore) Set(_ context.Context, key, value string) error {
	r.data[key] = value
	return nil
}

func (r *recordingStore) Delete(_ context.Context, key string) error {
	delete(r.data, key)
	return nil
}

func TestKeys(t *testing.T) {
	if got := Key(apps.Radarr); got != "clawarr.radarr.apiKey" {
		t.Errorf("unexpected key %q", got)
	}
	if got := LegacyKey(apps.Plex); got != "mediaarr.plex.apiKey" {
		t.Errorf("unexpected legacy key %q", got)
	}
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name string
		inst apps.Instance
		data map[string]string
		want string
	}{
		{
			name: "instance key wins",
			inst: apps.Instance{BaseURL: "http://x", APIKey: "local"},
			data: map[string]string{"clawarr.sonarr.apiKey": "stored", "mediaarr.sonarr.apiKey": "old"},
			want: "local",
		},
		{
			name: "current key before legacy",
			inst: apps.Instance{BaseURL: "http://x"},
			data: map[string]string{"clawarr.sonarr.apiKey": "stored", "mediaarr.sonarr.apiKey": "old"},
			want: "stored",
		},
		{
			name: "legacy fallback",
			inst: apps.Instance{BaseURL: "http://x"},
			data: map[string]string{"mediaarr.sonarr.apiKey": "old"},
			want: "old",
		},
		{
			name: "nothing anywhere",
			inst: apps.Instance{BaseURL: "http://x"},
			data: map[string]string{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &recordingStore{data: tt.data}
			got, err := Resolve(context.Background(), store, apps.Sonarr, tt.inst)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolveLocalKeySkipsStore(t *testing.T) {
	store := &recordingStore{data: map[string]string{}, err: errors.New("boom")}
	got, err := Resolve(context.Background(), store, apps.Radarr, apps.Instance{APIKey: "local"})
	if err != nil || got != "local" {
		t.Fatalf("expected local key, got %q, %v", got, err)
	}
	if store.reads != 0 {
		t.Errorf("store consulted %d times", store.reads)
	}
}

func TestResolveNilStore(t *testing.T) {
	got, err := Resolve(context.Background(), nil, apps.Radarr, apps.Instance{BaseURL: "http://x"})
	if err != nil || got != "" {
		t.Fatalf("expected empty credential, got %q, %v", got, err)
	}
}

func TestResolveStoreError(t *testing.T) {
	store := &recordingStore{data: map[string]string{}, err: errors.New("boom")}
	_, err := Resolve(context.Background(), store, apps.Radarr, apps.Instance{BaseURL: "http://x"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if v, err := s.Get(ctx, "missing"); err != nil || v != "" {
		t.Fatalf("expected empty miss, got %q, %v", v, err)
	}
	if err := s.Set(ctx, Key(apps.Bazarr), "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := s.Get(ctx, Key(apps.Bazarr)); v != "abc" {
		t.Errorf("expected abc, got %q", v)
	}
	if names, _ := s.Names(ctx); len(names) != 1 || names[0] != "clawarr.bazarr.apiKey" {
		t.Errorf("unexpected names %v", names)
	}
	if err := s.Delete(ctx, Key(apps.Bazarr)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if v, _ := s.Get(ctx, Key(apps.Bazarr)); v != "" {
		t.Errorf("expected deleted, got %q", v)
	}
}
