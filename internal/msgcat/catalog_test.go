package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderEmbeddedMessages(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.Render("steamid.saved", map[string]string{"Name": "alice"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Saved alice's Steam ID." {
		t.Fatalf("got %q", got)
	}

	got, err = c.Render("lobby.found", map[string]string{
		"Name":     "alice",
		"GameName": "Team Fortress 2",
		"URI":      "steam://joinlobby/440/1/2",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "alice's Team Fortress 2 lobby: steam://joinlobby/440/1/2" {
		t.Fatalf("got %q", got)
	}

	// game name is optional on the found path
	got, err = c.Render("lobby.found", map[string]string{
		"Name": "alice", "GameName": "", "URI": "steam://joinlobby/440/1/2",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "alice's lobby: steam://joinlobby/440/1/2" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderUnknownKey(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("lobby.no_such_key", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	body := "steamid:\n  saved: \"ID stored for {{.Name}}.\"\n"
	if err := os.WriteFile(filepath.Join(dir, "override.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("steamid.saved", map[string]string{"Name": "bob"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "ID stored for bob." {
		t.Fatalf("got %q", got)
	}
	// untouched keys keep their defaults
	got, err = c.Render("quota.global_exhausted", nil)
	if err != nil || !strings.Contains(got, "Total daily") {
		t.Fatalf("default lost: %q err=%v", got, err)
	}
}
