// Package main is the AI Corp WebUI command-line client.
//
// Usage:
//
//	aicorp "your prompt"          — send a prompt to the configured service
//	aicorp --list-models          — show the provider's model list
//	aicorp --configure            — run the interactive setup wizard
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aicorp/aicorp/internal/config"
	"github.com/aicorp/aicorp/internal/observability"
	"github.com/aicorp/aicorp/internal/progress"
	"github.com/aicorp/aicorp/internal/render"
	"github.com/aicorp/aicorp/internal/webui"
)

const (
	version = "0.1.0"
	appName = "aicorp"
)

type cliOptions struct {
	listModels  bool
	model       string
	configure   bool
	verbosity   int
	temperature float64
	maxTokens   int
	timeout     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:     "aicorp [prompt]",
		Short:   "Client for the AI Corp WebUI chat-completion API",
		Version: version,
		Example: `  aicorp "How do I list open ports?"
  aicorp --list-models
  aicorp --model "Azion Copilot" "Hello!"
  aicorp -vv "Hello!"
  aicorp --configure`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.listModels, "list-models", "l", false, "show available models")
	f.StringVarP(&opts.model, "model", "m", "", "model to use for generation")
	f.BoolVarP(&opts.configure, "configure", "c", false, "run interactive configuration setup")
	f.CountVarP(&opts.verbosity, "verbose", "v", "increase verbosity (-v warnings, -vv info, -vvv debug)")
	f.Float64Var(&opts.temperature, "temperature", 0, "sampling temperature [0.0, 2.0]")
	f.IntVar(&opts.maxTokens, "max-tokens", 0, "response token limit [1, 32768]")
	f.IntVar(&opts.timeout, "timeout", 0, "generation timeout in seconds")
	return cmd
}

func run(cmd *cobra.Command, args []string, opts *cliOptions) error {
	log := observability.Named(appName, opts.verbosity)

	if opts.configure {
		return runConfigure(log)
	}

	prompt := strings.TrimSpace(strings.Join(args, " "))
	modelExplicit := cmd.Flags().Changed("model")

	if modelExplicit && prompt == "" && !opts.listModels {
		fmt.Fprintln(os.Stderr, "Error: --model requires a prompt")
		return cmd.Help()
	}
	if prompt == "" && !opts.listModels {
		return cmd.Help()
	}

	cfg, err := config.Load(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := webui.New(cfg, log)
	out := render.NewAuto()

	executed := false
	showList := opts.listModels

	if prompt != "" {
		params := buildParams(cmd.Flags(), opts)
		needList := sendPrompt(ctx, client, out, prompt, opts.model, params, modelExplicit)
		showList = showList || needList
		executed = true
	}
	if showList {
		showModels(ctx, client)
		executed = true
	}
	if !executed {
		return cmd.Help()
	}
	return nil
}

// buildParams assembles the extra-parameter map from the flags that were
// explicitly set. The builder's allow-list does the validation; the timeout
// key is the reserved transport override.
func buildParams(flags interface{ Changed(string) bool }, opts *cliOptions) map[string]any {
	params := map[string]any{}
	if flags.Changed("temperature") {
		params["temperature"] = opts.temperature
	}
	if flags.Changed("max-tokens") {
		params["max_tokens"] = opts.maxTokens
	}
	if flags.Changed("timeout") {
		params["timeout"] = opts.timeout
	}
	return params
}

// sendPrompt runs the full generation path. The returned flag requests a
// model listing as a recovery aid when the explicitly requested model is
// absent from the provider's list.
func sendPrompt(ctx context.Context, client *webui.Client, out *render.Renderer, prompt, model string, params map[string]any, modelExplicit bool) (needList bool) {
	if modelExplicit {
		var models []webui.Model
		err := progress.Run("checking model...", func() error {
			var listErr error
			models, listErr = client.ListModels(ctx)
			return listErr
		})
		if err == nil && !modelKnown(models, model) {
			fmt.Fprintf(os.Stderr, "Error: model %q not found in available models.\n", model)
			return true
		}
		// A failed listing is not fatal; the provider gets the final say.
	}

	var completion *webui.Completion
	err := progress.Run("thinking...", func() error {
		var sendErr error
		completion, sendErr = client.SendPrompt(ctx, prompt, model, params)
		return sendErr
	})
	if err != nil {
		reportError(err)
		return false
	}

	resultModel := completion.Model
	if resultModel == "" {
		resultModel = model
	}
	elapsed := completion.Elapsed.Seconds()
	out.Print(os.Stdout, out.Render(completion.Content, render.Meta{
		Model:      resultModel,
		TokenCount: completion.TokenCount,
		Elapsed:    &elapsed,
		Now:        time.Now(),
	}))
	return false
}

func modelKnown(models []webui.Model, id string) bool {
	for _, m := range models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// reportError prints a failure in user terms. All of these end the current
// invocation but none crash the process; nothing is ever retried.
func reportError(err error) {
	var verr *webui.ValidationError
	var perr *webui.ProviderError
	var terr *webui.TransportError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(os.Stderr, "Error: invalid request: %v\n", verr)
	case errors.As(err, &perr):
		fmt.Fprintf(os.Stderr, "Error: the service rejected the request (HTTP %d)\n%s\n", perr.StatusCode, perr.Body)
	case errors.As(err, &terr):
		fmt.Fprintf(os.Stderr, "Error: could not reach the service: %v\n", terr.Cause)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// showModels fetches and prints the model table.
func showModels(ctx context.Context, client *webui.Client) {
	var models []webui.Model
	err := progress.Run("fetching models...", func() error {
		var listErr error
		models, listErr = client.ListModels(ctx)
		return listErr
	})
	if err != nil {
		reportError(err)
		return
	}
	if len(models) == 0 {
		fmt.Println("No models found in response")
		return
	}

	colored := isatty.IsTerminal(os.Stdout.Fd())
	head := lipgloss.NewStyle()
	dim := lipgloss.NewStyle()
	if colored {
		head = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
		dim = lipgloss.NewStyle().Faint(true)
	}

	ruleWidth := min(render.TerminalWidth(), 80)
	rule := head.Render(strings.Repeat("─", ruleWidth))

	fmt.Printf("\n%s\n%s\n", head.Render(fmt.Sprintf("Available Models (%d total):", len(models))), rule)
	for _, m := range models {
		if m.DisplayName != m.ID {
			fmt.Printf("%s %s\n", m.ID, dim.Render("("+m.DisplayName+")"))
		} else {
			fmt.Println(m.ID)
		}
	}
	fmt.Printf("%s\n%s\n", rule, dim.Render(`Usage: aicorp -m "<Model ID>" "Your prompt"`))
}
