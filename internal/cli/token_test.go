package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quiz-platform/internal/config"
	"quiz-platform/internal/domain"
)

const memoryConfig = `
quiz:
  ttl: 1m
auth:
  secret: test-secret
  users:
    - id: c1
      username: candidate1
      role: CANDIDATE
`

func TestTokenCommandIssuesVerifiableToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(memoryConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--config", path, "--user", "candidate1"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("token command: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	d, err := buildDeps(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build deps: %v", err)
	}
	defer d.close()

	user, err := d.auth.Authenticate(context.Background(), strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("authenticate issued token: %v", err)
	}
	if user.ID != "c1" || user.Role != domain.RoleCandidate {
		t.Fatalf("unexpected principal %+v", user)
	}
}

func TestBuildDepsRejectsUnknownRole(t *testing.T) {
	var cfg config.Config
	cfg.Auth.Secret = "s"
	cfg.Auth.Users = []config.User{{ID: "x", Username: "x", Role: "ADMIN"}}
	if _, err := buildDeps(context.Background(), cfg); err == nil {
		t.Fatalf("expected unknown role to fail")
	}
}
