package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aicorp/aicorp/internal/observability"
)

// clearEnv detaches the test from the caller's environment. t.Setenv
// registers restoration, and an empty value reads as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{KeyBaseURL, KeyAPIKey, KeyDefaultModel, KeySystemPromptFile, "AICORP_ENV_FILE"} {
		t.Setenv(key, "")
	}
}

func testLogger() *observability.Logger {
	return observability.New("config-test", 0, nil)
}

func TestLoad_RequiresBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("AICORP_ENV_FILE", filepath.Join(t.TempDir(), ".aicorp.env"))

	_, err := Load(testLogger())
	if err == nil {
		t.Fatal("expected error for missing base URL")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if cfgErr.Key != KeyBaseURL {
		t.Errorf("key = %q, want %q", cfgErr.Key, KeyBaseURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AICORP_ENV_FILE", filepath.Join(t.TempDir(), ".aicorp.env"))
	t.Setenv(KeyBaseURL, "https://webui.example.com/")

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://webui.example.com" {
		t.Errorf("base URL = %q (trailing slash should be trimmed)", cfg.BaseURL)
	}
	if cfg.DefaultModel != DefaultModelName {
		t.Errorf("default model = %q, want %q", cfg.DefaultModel, DefaultModelName)
	}
	if cfg.SystemPromptFile != DefaultSystemPromptFile {
		t.Errorf("prompt file = %q", cfg.SystemPromptFile)
	}
	if cfg.APIKey != "" {
		t.Errorf("api key = %q, want empty", cfg.APIKey)
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".aicorp.env")
	content := strings.Join([]string{
		"# comment line",
		"",
		"WEBUI_BASE_URL=https://ai.corp.example.com",
		"WEBUI_API_KEY=sk-secret-123",
		`DEFAULT_MODEL="Azion Copilot"`,
		"not a valid line",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AICORP_ENV_FILE", path)

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://ai.corp.example.com" {
		t.Errorf("base URL = %q", cfg.BaseURL)
	}
	if cfg.APIKey != "sk-secret-123" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
	if cfg.DefaultModel != "Azion Copilot" {
		t.Errorf("default model = %q (quotes should be stripped)", cfg.DefaultModel)
	}
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".aicorp.env")
	os.WriteFile(path, []byte("WEBUI_BASE_URL=https://from-file.example.com\n"), 0o600)
	t.Setenv("AICORP_ENV_FILE", path)
	t.Setenv(KeyBaseURL, "https://from-env.example.com")

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://from-env.example.com" {
		t.Errorf("base URL = %q, environment should win", cfg.BaseURL)
	}
}

func TestEndpoints(t *testing.T) {
	cfg := &Config{BaseURL: "https://webui.example.com"}
	if got := cfg.ModelsEndpoint(); got != "https://webui.example.com/api/v1/models" {
		t.Errorf("models endpoint = %q", got)
	}
	if got := cfg.GenerateEndpoint(); got != "https://webui.example.com/api/chat/completions" {
		t.Errorf("generate endpoint = %q", got)
	}
}

func TestHeaders(t *testing.T) {
	cfg := &Config{BaseURL: "https://x", APIKey: "sk-abc"}
	h := cfg.Headers()
	if h.Get("Content-Type") != "application/json" {
		t.Errorf("content type = %q", h.Get("Content-Type"))
	}
	if h.Get("Authorization") != "Bearer sk-abc" {
		t.Errorf("authorization = %q", h.Get("Authorization"))
	}

	cfg.APIKey = ""
	if got := cfg.Headers().Get("Authorization"); got != "" {
		t.Errorf("authorization = %q, want unset without key", got)
	}
}

func TestSystemPrompt_TemplateSubstitution(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	promptPath := filepath.Join(dir, "system_prompt.txt")
	os.WriteFile(promptPath, []byte("Test prompt for {platform_info}\n"), 0o644)

	t.Setenv("AICORP_ENV_FILE", filepath.Join(dir, ".aicorp.env"))
	t.Setenv(KeyBaseURL, "https://x")
	t.Setenv(KeySystemPromptFile, promptPath)

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Contains(cfg.SystemPrompt, "{platform_info}") {
		t.Error("placeholder was not substituted")
	}
	if !strings.HasPrefix(cfg.SystemPrompt, "Test prompt for ") {
		t.Errorf("system prompt = %q", cfg.SystemPrompt)
	}
}

func TestSystemPrompt_FallbackOnMissingFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("AICORP_ENV_FILE", filepath.Join(dir, ".aicorp.env"))
	t.Setenv(KeyBaseURL, "https://x")
	t.Setenv(KeySystemPromptFile, filepath.Join(dir, "does-not-exist.txt"))

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SystemPrompt != fallbackSystemPrompt {
		t.Errorf("system prompt = %q, want fallback", cfg.SystemPrompt)
	}
}

func TestSaveEnvFile_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", ".aicorp.env")

	values := map[string]string{
		KeyBaseURL:      "https://ai.corp.example.com",
		KeyAPIKey:       "sk-saved",
		KeyDefaultModel: "Azion Copilot",
	}
	if err := SaveEnvFile(path, values); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perms := info.Mode().Perm(); perms != 0o600 {
		t.Errorf("permissions = %o, want 600", perms)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `DEFAULT_MODEL="Azion Copilot"`) {
		t.Errorf("model with spaces should be quoted:\n%s", raw)
	}
	if !strings.Contains(string(raw), "SYSTEM_PROMPT_FILE="+DefaultSystemPromptFile) {
		t.Errorf("prompt file default missing:\n%s", raw)
	}

	loaded := ReadEnvFile(path)
	if loaded[KeyBaseURL] != values[KeyBaseURL] {
		t.Errorf("base URL = %q", loaded[KeyBaseURL])
	}
	if loaded[KeyAPIKey] != values[KeyAPIKey] {
		t.Errorf("api key = %q", loaded[KeyAPIKey])
	}
	if loaded[KeyDefaultModel] != "Azion Copilot" {
		t.Errorf("model = %q (quotes should strip on read)", loaded[KeyDefaultModel])
	}
}

func TestSaveEnvFile_PreservesUnknownKeys(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".aicorp.env")

	err := SaveEnvFile(path, map[string]string{
		KeyBaseURL:    "https://x",
		"CUSTOM_FLAG": "yes",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ReadEnvFile(path)["CUSTOM_FLAG"] != "yes" {
		t.Error("unknown key was dropped on save")
	}
}
