package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"savekeeper/internal/config"
	"savekeeper/internal/testsupport"
	"savekeeper/internal/title"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg := testsupport.NewConfig(t, opts...)
	return &cliTestEnv{cfg: cfg, configPath: testsupport.ConfigPath(cfg)}
}

func (e *cliTestEnv) seed(t *testing.T, titles ...testsupport.FakeTitle) {
	t.Helper()
	registry := testsupport.MustOpenRegistry(t, e.cfg)
	testsupport.SeedRegistry(t, registry, titles...)
	if err := registry.Close(); err != nil {
		t.Fatalf("close registry: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args, configPath)
}

func runCLIContext(t *testing.T, ctx context.Context, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

var (
	marioTitle = testsupport.FakeTitle{
		ID:          0x0004000000055D00,
		Media:       title.InternalSecondary,
		ProductCode: "CTR-P-AREE",
		Name:        "Mario",
		Publisher:   "Nintendo",
		Saves:       []title.SaveType{title.SaveUser},
	}
	zeldaTitle = testsupport.FakeTitle{
		ID:          0x0004000000033500,
		Media:       title.InternalSecondary,
		ProductCode: "CTR-P-AQEE",
		Name:        "Zelda",
		Publisher:   "Nintendo",
		Saves:       []title.SaveType{title.SaveExtData},
	}
)
