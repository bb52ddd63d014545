// Package config resolves client configuration from the layered sources:
// the per-user env file, a working-directory .env fallback, and the process
// environment (all one namespace). A Config is built once per invocation and
// immutable afterwards; endpoints are always derived from the base URL.
package config

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aicorp/aicorp/internal/observability"
)

// Recognized configuration keys.
const (
	KeyBaseURL          = "WEBUI_BASE_URL"
	KeyAPIKey           = "WEBUI_API_KEY"
	KeyDefaultModel     = "DEFAULT_MODEL"
	KeySystemPromptFile = "SYSTEM_PROMPT_FILE"
)

// Defaults applied when the corresponding key is absent everywhere.
const (
	DefaultModelName        = "Azion Copilot"
	DefaultSystemPromptFile = "config/system_prompt.txt"

	fallbackSystemPrompt = "You are a helpful AI assistant that provides accurate and useful responses."
)

// ConfigError reports a missing required setting. It is the only error class
// that ends the process.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is required — set it in the environment or run: aicorp --configure", e.Key)
}

// Config holds the resolved client configuration.
type Config struct {
	BaseURL          string
	APIKey           string
	DefaultModel     string
	SystemPrompt     string
	SystemPromptFile string
}

// Load resolves the configuration: the env file (per-user location first,
// then ./.env) is merged into the process environment, then the keys are
// read back with defaults applied. A missing base URL is fatal; a missing
// system prompt file degrades to the built-in prompt with a warning.
func Load(log *observability.Logger) (*Config, error) {
	if path := locateEnvFile(); path != "" {
		if _, err := loadEnvFile(path); err != nil {
			log.Warn("could not read env file", "path", path, "error", err)
		} else {
			log.Debug("loaded env file", "path", path)
		}
	}

	baseURL := strings.TrimRight(os.Getenv(KeyBaseURL), "/")
	if baseURL == "" {
		return nil, &ConfigError{Key: KeyBaseURL}
	}

	model := os.Getenv(KeyDefaultModel)
	if model == "" {
		model = DefaultModelName
	}

	promptFile := os.Getenv(KeySystemPromptFile)
	if promptFile == "" {
		promptFile = DefaultSystemPromptFile
	}

	cfg := &Config{
		BaseURL:          baseURL,
		APIKey:           os.Getenv(KeyAPIKey),
		DefaultModel:     model,
		SystemPromptFile: promptFile,
	}
	cfg.SystemPrompt = loadSystemPrompt(promptFile, log)
	return cfg, nil
}

// ModelsEndpoint returns the model-listing URL derived from the base URL.
func (c *Config) ModelsEndpoint() string {
	return c.BaseURL + "/api/v1/models"
}

// GenerateEndpoint returns the chat-completions URL derived from the base URL.
func (c *Config) GenerateEndpoint() string {
	return c.BaseURL + "/api/chat/completions"
}

// Headers returns the request headers, including the bearer token when an
// API key is configured.
func (c *Config) Headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		h.Set("Authorization", "Bearer "+c.APIKey)
	}
	return h
}

// loadSystemPrompt reads the template file and substitutes the single
// {platform_info} placeholder. Any failure falls back to the built-in prompt
// with a warning; a broken template never blocks the client.
func loadSystemPrompt(path string, log *observability.Logger) string {
	resolved := path
	if !filepath.IsAbs(path) {
		resolved = filepath.Join(findProjectRoot(), path)
		if _, err := os.Stat(resolved); err != nil {
			resolved = path
		}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		log.Warn("system prompt file unavailable, using fallback", "path", path, "error", err)
		return fallbackSystemPrompt
	}

	prompt := strings.ReplaceAll(string(data), "{platform_info}", platformInfo())
	return strings.TrimSpace(prompt)
}

// findProjectRoot walks up from the working directory looking for common
// project markers, so a relative SYSTEM_PROMPT_FILE resolves the same way
// regardless of where the binary is invoked.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	check := dir
	for i := 0; i < 10; i++ {
		for _, marker := range []string{"go.mod", ".git"} {
			if _, err := os.Stat(filepath.Join(check, marker)); err == nil {
				return check
			}
		}
		parent := filepath.Dir(check)
		if parent == check {
			break
		}
		check = parent
	}
	return dir
}

// platformInfo describes the host for the prompt template, e.g.
// "Linux, 6.1.0, #1 SMP ...". Falls back to GOOS/GOARCH when uname is
// unavailable.
func platformInfo() string {
	parts := []string{osName()}
	for _, flag := range []string{"-r", "-v"} {
		if out, err := exec.Command("uname", flag).Output(); err == nil {
			if s := strings.TrimSpace(string(out)); s != "" {
				parts = append(parts, s)
			}
		}
	}
	if len(parts) == 1 {
		parts = append(parts, runtime.GOARCH)
	}
	return strings.Join(parts, ", ")
}

func osName() string {
	switch runtime.GOOS {
	case "darwin":
		return "Darwin"
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	default:
		return runtime.GOOS
	}
}
