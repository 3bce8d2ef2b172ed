package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TobiSchelling/moodmap/internal/resolve"
)

func TestWriteFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	records := []resolve.GeoRecord{
		{HappinessScore: 0.2, Latitude: 48.8566, Longitude: 2.3522},
		{HappinessScore: -0.4, Latitude: 52.52, Longitude: 13.405},
	}

	if err := Write(path, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `[
  {
    "happiness_score": 0.2,
    "latitude": 48.8566,
    "longitude": 2.3522
  },
  {
    "happiness_score": -0.4,
    "latitude": 52.52,
    "longitude": 13.405
  }
]
`
	if string(b) != want {
		t.Errorf("unexpected file contents:\n%s", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be gone")
	}
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Write(path, nil); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "[]\n" {
		t.Errorf("expected [], got %q", b)
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	if err := Write(path, []resolve.GeoRecord{{HappinessScore: 1, Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}}); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, []resolve.GeoRecord{{HappinessScore: 0.5, Latitude: 3, Longitude: 3}}); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != (resolve.GeoRecord{HappinessScore: 0.5, Latitude: 3, Longitude: 3}) {
		t.Errorf("expected file to be replaced, got %v", got)
	}
}

func TestReadMissing(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %#v", got)
	}
}

func TestReadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{"), 0o644)
	if _, err := Read(path); err == nil {
		t.Error("expected decode error")
	}
}
