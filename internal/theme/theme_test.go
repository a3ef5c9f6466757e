package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#112233", color.RGBA{0x11, 0x22, 0x33, 0xff}, false},
		{"#11223344", color.RGBA{0x11, 0x22, 0x33, 0x44}, false},
		{"tomato", color.RGBA{0xff, 0x63, 0x47, 0xff}, false},
		{" DodgerBlue ", color.RGBA{0x1e, 0x90, 0xff, 0xff}, false},
		{"#123", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
		{"notacolour", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("%q: got %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{{1, 2, 3, 255}, {200, 100, 50, 128}} {
		got, err := ParseColor(FormatColor(c))
		if err != nil {
			t.Fatal(err)
		}
		if got != c {
			t.Fatalf("round trip %+v -> %+v", c, got)
		}
	}
}

func TestParseKeepsDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: mine\n# comment\nbackground: #010203\nUnknown: #FFFFFF\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "mine" {
		t.Fatalf("name %q", th.Name)
	}
	if th.Background != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("background %+v", th.Background)
	}
	if th.ButtonText != Default().ButtonText {
		t.Fatal("unset field lost its default")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: #zz\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestFieldsCoversEveryColour(t *testing.T) {
	fields := Default().Fields()
	if len(fields) != 15 {
		t.Fatalf("got %d fields", len(fields))
	}
	if fields[0].Name != "Background" {
		t.Fatalf("first field %q", fields[0].Name)
	}
	th := Dark()
	for _, f := range fields {
		if err := th.Set(f.Name, FormatColor(f.Color)); err != nil {
			t.Fatalf("Set(%s): %v", f.Name, err)
		}
	}
	got := th.Fields()
	for i := range fields {
		if got[i] != fields[i] {
			t.Fatalf("field %s = %+v, want %+v", fields[i].Name, got[i].Color, fields[i].Color)
		}
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ocean.theme"), []byte("Name: ocean\nBackground: navy\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	custom := Default()
	custom.Name = "mine"
	l := &Loader{ConfigDir: dir, Custom: map[string]*Theme{"mine": custom}}

	got, err := l.Load("")
	if err != nil || got.Name != "default" {
		t.Fatalf("empty name: %v %v", got, err)
	}
	got, err = l.Load("dark")
	if err != nil || got.Name != "dark" {
		t.Fatalf("builtin: %v %v", got, err)
	}
	got, err = l.Load("mine")
	if err != nil || got.Name != "mine" || got == custom {
		t.Fatalf("custom: %v %v", got, err)
	}
	got, err = l.Load("ocean")
	if err != nil || got.Background != (color.RGBA{0, 0, 0x80, 0xff}) {
		t.Fatalf("config dir: %+v %v", got, err)
	}
	got, err = l.Load(filepath.Join(dir, "ocean.theme"))
	if err != nil || got.Name != "ocean" {
		t.Fatalf("path: %v %v", got, err)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected not found")
	}
}

func TestBuiltinNames(t *testing.T) {
	got := strings.Join(BuiltinNames(), ",")
	if got != "dark,default,light" {
		t.Fatalf("names %q", got)
	}
}
