package apps

import (
	"encoding/json"
	"testing"
)

func TestAllOrder(t *testing.T) {
	want := []string{
		"radarr", "sonarr", "lidarr", "readarr", "prowlarr", "bazarr",
		"overseerr", "plex", "tautulli", "sabnzbd",
	}

	got := All()
	if len(got) != len(want) {
		t.Fatalf("All() returned %d apps, want %d", len(got), len(want))
	}
	for i, a := range got {
		if a.String() != want[i] {
			t.Errorf("All()[%d] = %s, want %s", i, a, want[i])
		}
	}
}

func TestEveryAppHasPortsAndFamily(t *testing.T) {
	for _, a := range All() {
		if len(a.DefaultPorts()) == 0 {
			t.Errorf("%s has no default ports", a)
		}
		if a.Family() == "" {
			t.Errorf("%s has no family", a)
		}
	}
}

func TestDefaultPortsIsCopy(t *testing.T) {
	ports := Radarr.DefaultPorts()
	ports[0] = 1
	if Radarr.DefaultPorts()[0] != 7878 {
		t.Error("DefaultPorts() leaked the internal table")
	}
}

func TestParseApp(t *testing.T) {
	tests := []struct {
		in      string
		want    App
		wantErr bool
	}{
		{in: "radarr", want: Radarr},
		{in: " Plex ", want: Plex},
		{in: "SABNZBD", want: Sabnzbd},
		{in: "jellyfin", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseApp(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseApp(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseApp(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseApp(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	got, err := ParseList("radarr, plex,,tautulli")
	if err != nil {
		t.Fatalf("ParseList() error = %v", err)
	}
	want := []App{Radarr, Plex, Tautulli}
	if len(got) != len(want) {
		t.Fatalf("ParseList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseList()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if _, err := ParseList("radarr,nope"); err == nil {
		t.Error("ParseList() with unknown app should fail")
	}
}

func TestJSONMapKey(t *testing.T) {
	in := map[App]Instance{Sonarr: {BaseURL: "http://nas:8989", APIKey: "secret"}}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"sonarr":{"baseUrl":"http://nas:8989"}}` {
		t.Errorf("Marshal() = %s", data)
	}

	var out map[App]Instance
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out[Sonarr].BaseURL != "http://nas:8989" {
		t.Errorf("round trip lost base url: %+v", out)
	}
}

func TestInvalidApp(t *testing.T) {
	bad := App(42)
	if bad.Valid() {
		t.Error("App(42) should not be valid")
	}
	if bad.DefaultPorts() != nil {
		t.Error("invalid app should have no ports")
	}
	if _, err := bad.MarshalText(); err == nil {
		t.Error("MarshalText() on invalid app should fail")
	}
}
