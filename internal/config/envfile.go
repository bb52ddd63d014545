package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// envFileName is the per-user configuration file under ~/.azion.
const envFileName = ".aicorp.env"

// envLine matches a KEY=VALUE assignment. Keys follow the uppercase
// environment-variable convention; values keep everything after the equals
// sign and may be quoted.
var envLine = regexp.MustCompile(`^([A-Z_][A-Z0-9_]*)\s*=\s*(.*)$`)

// UserEnvPath returns the fixed per-user location of the env file,
// ~/.azion/.aicorp.env. The AICORP_ENV_FILE variable overrides it, which is
// how tests redirect configuration to a temp directory.
func UserEnvPath() string {
	if p := os.Getenv("AICORP_ENV_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".azion", envFileName)
}

// locateEnvFile returns the first existing env file: the per-user location,
// then a .env in the working directory. Empty string when neither exists.
func locateEnvFile() string {
	if p := UserEnvPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}

// parseEnv reads KEY=VALUE pairs, skipping comments and blank lines and
// stripping surrounding quotes from values.
func parseEnv(r io.Reader) map[string]string {
	values := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := envLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key, value := m[1], strings.TrimSpace(m[2])
		value = strings.Trim(value, `"'`)
		values[key] = value
	}
	return values
}

// loadEnvFile parses path and merges its pairs into the process environment.
// Variables already set in the environment win; the file and the environment
// are one namespace.
func loadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values := parseEnv(f)
	for key, value := range values {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	return values, nil
}

// ReadEnvFile returns the pairs stored in the env file without touching the
// process environment. A missing file yields an empty map.
func ReadEnvFile(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return map[string]string{}
	}
	defer f.Close()
	return parseEnv(f)
}

// SaveEnvFile writes the configuration to path with the standard comment
// banner, quoting values that contain spaces. The file is created with 0600
// permissions since it may hold an API key.
func SaveEnvFile(path string, values map[string]string) error {
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	var b strings.Builder
	b.WriteString("\n# AI Corp WebUI API configuration\n")
	b.WriteString("# AI Corp is the name given to the WebUI service\n")
	writeEnvEntry(&b, values, KeyBaseURL)
	writeEnvEntry(&b, values, KeyAPIKey)
	b.WriteString("\n# Default model to use when none is specified\n")
	b.WriteString("# Run `aicorp --list-models` to see available models\n")
	writeEnvEntry(&b, values, KeyDefaultModel)
	b.WriteString("\n# System prompt file path (relative to project root or absolute path)\n")
	promptFile := values[KeySystemPromptFile]
	if promptFile == "" {
		promptFile = DefaultSystemPromptFile
	}
	fmt.Fprintf(&b, "%s=%s\n", KeySystemPromptFile, promptFile)

	// Preserve unrecognized keys so a hand-edited file survives the wizard.
	var extra []string
	for key := range values {
		switch key {
		case KeyBaseURL, KeyAPIKey, KeyDefaultModel, KeySystemPromptFile:
		default:
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		b.WriteString("\n")
		for _, key := range extra {
			fmt.Fprintf(&b, "%s=%s\n", key, quoteIfNeeded(values[key]))
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeEnvEntry(b *strings.Builder, values map[string]string, key string) {
	if v, ok := values[key]; ok && v != "" {
		fmt.Fprintf(b, "%s=%s\n", key, quoteIfNeeded(v))
	}
}

func quoteIfNeeded(v string) string {
	if strings.Contains(v, " ") {
		return `"` + v + `"`
	}
	return v
}
