package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/aicorp/aicorp/internal/config"
	"github.com/aicorp/aicorp/internal/observability"
	"github.com/aicorp/aicorp/internal/progress"
	"github.com/aicorp/aicorp/internal/selector"
	"github.com/aicorp/aicorp/internal/webui"
)

// defaultBaseURL is offered by the wizard when no base URL is configured yet.
const defaultBaseURL = "https://ai.corp.azion.com"

var errCancelled = errors.New("configuration cancelled")

// runConfigure is the interactive setup wizard: base URL, API key, default
// model (picked from the live model list when reachable), persisted to the
// per-user env file.
func runConfigure(log *observability.Logger) error {
	fmt.Printf("\n🔧 %s v%s — Configuration Setup\n", appName, version)
	fmt.Println("This will configure your env file for AI Corp WebUI API access.")

	path := config.UserEnvPath()
	existing := config.ReadEnvFile(path)

	fmt.Printf("\nConfiguration file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("✓ Existing configuration file found")
	} else {
		fmt.Println("! Configuration file will be created")
	}
	fmt.Println()

	rl, err := readline.New("")
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer rl.Close()

	values := map[string]string{}

	baseURL, err := askBaseURL(rl, existing[config.KeyBaseURL])
	if err != nil {
		fmt.Println("\nConfiguration cancelled")
		return nil
	}
	values[config.KeyBaseURL] = baseURL
	fmt.Println()

	apiKey, err := askAPIKey(rl, existing[config.KeyAPIKey])
	if err != nil {
		fmt.Println("\nConfiguration cancelled")
		return nil
	}
	if apiKey != "" {
		values[config.KeyAPIKey] = apiKey
	}
	fmt.Println()

	model, err := askModel(rl, log, baseURL, apiKey, existing[config.KeyDefaultModel])
	if err != nil {
		fmt.Println("\nConfiguration cancelled")
		return nil
	}
	values[config.KeyDefaultModel] = model
	fmt.Println()

	// Keep whatever prompt file was configured; SaveEnvFile fills the default.
	if f := existing[config.KeySystemPromptFile]; f != "" {
		values[config.KeySystemPromptFile] = f
	}

	printSummary(values)

	confirm, err := prompt(rl, "Save this configuration? [Y/n]", "")
	if err != nil {
		fmt.Println("\nConfiguration cancelled")
		return nil
	}
	switch strings.ToLower(confirm) {
	case "", "y", "yes":
	default:
		fmt.Println("\nConfiguration cancelled")
		return nil
	}

	if err := config.SaveEnvFile(path, values); err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to save configuration: %v\n", err)
		return err
	}
	fmt.Printf("\n✓ Configuration saved to %s\n", path)
	fmt.Printf("You can now use: %s \"Your prompt here\"\n\n", appName)
	return nil
}

func askBaseURL(rl *readline.Instance, current string) (string, error) {
	fmt.Println("1. WebUI Base URL")
	fmt.Println("   The base URL of your AI Corp WebUI API endpoint")
	fmt.Printf("   Default: %s\n", defaultBaseURL)
	if current != "" {
		fmt.Printf("   Current: %s\n", current)
	}

	label := "   Enter WebUI Base URL"
	if current != "" {
		label += " (Enter to keep current, 'd' for default)"
	} else {
		label += " (Enter for default)"
	}

	answer, err := prompt(rl, label, "")
	if err != nil {
		return "", err
	}
	switch {
	case answer == "" && current != "":
		return current, nil
	case answer == "" || strings.EqualFold(answer, "d"):
		return defaultBaseURL, nil
	default:
		return strings.TrimRight(answer, "/"), nil
	}
}

func askAPIKey(rl *readline.Instance, current string) (string, error) {
	fmt.Println("2. API Key (Optional)")
	fmt.Println("   Your API key for authentication (leave empty if not required)")
	if current != "" {
		fmt.Printf("   Current: %s\n", maskKey(current))
	}

	label := "   Enter API Key"
	if current != "" {
		label += " (Enter to keep current)"
	}
	fmt.Printf("%s: ", label)

	key, err := readSecret(rl)
	if err != nil {
		return "", err
	}
	if key == "" {
		return current, nil
	}
	return key, nil
}

func askModel(rl *readline.Instance, log *observability.Logger, baseURL, apiKey, current string) (string, error) {
	fmt.Println("3. Default Model")
	fmt.Println("   The model to use when none is specified")
	if current == "" {
		current = config.DefaultModelName
	}
	fmt.Printf("   Current: %s\n", current)

	cfg := &config.Config{BaseURL: baseURL, APIKey: apiKey, DefaultModel: current}
	client := webui.New(cfg, log)

	var models []webui.Model
	err := progress.Run("fetching available models...", func() error {
		var listErr error
		models, listErr = client.ListModels(context.Background())
		return listErr
	})
	if err != nil || len(models) == 0 {
		fmt.Println("   Could not fetch models (enter the name manually)")
		return prompt(rl, "   Enter default model name", current)
	}

	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	choice, ok, err := selector.Select(ids, "Default model", os.Stdout)
	if err != nil {
		return "", err
	}
	if !ok {
		// Picker cancelled; fall back to manual entry.
		return prompt(rl, "   Enter default model name", current)
	}
	fmt.Printf("   ✓ Model: %s\n", choice)
	return choice, nil
}

func printSummary(values map[string]string) {
	fmt.Println("Configuration Summary:")
	fmt.Printf("   WebUI Base URL: %s\n", values[config.KeyBaseURL])
	if key := values[config.KeyAPIKey]; key != "" {
		fmt.Printf("   API Key: %s\n", maskKey(key))
	} else {
		fmt.Println("   API Key: (not set)")
	}
	fmt.Printf("   Default Model: %s\n", values[config.KeyDefaultModel])
	promptFile := values[config.KeySystemPromptFile]
	if promptFile == "" {
		promptFile = config.DefaultSystemPromptFile
	}
	fmt.Printf("   System Prompt File: %s\n\n", promptFile)
}

// prompt asks one line of input, returning def on an empty answer.
func prompt(rl *readline.Instance, label, def string) (string, error) {
	if def != "" {
		rl.SetPrompt(fmt.Sprintf("%s [%s]: ", label, def))
	} else {
		rl.SetPrompt(label + ": ")
	}
	line, err := rl.Readline()
	if err == readline.ErrInterrupt || err == io.EOF {
		return "", errCancelled
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// readSecret reads a line without echo when a terminal is attached, falling
// back to plain line input otherwise.
func readSecret(rl *readline.Instance) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	rl.SetPrompt("")
	line, err := rl.Readline()
	if err == readline.ErrInterrupt || err == io.EOF {
		return "", errCancelled
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// maskKey shortens a secret for display.
func maskKey(key string) string {
	if len(key) > 8 {
		return key[:8] + "..."
	}
	return key
}
