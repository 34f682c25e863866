package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// initAnswers collects the interactive setup answers.
type initAnswers struct {
	BotToken      string
	TelegramMode  string
	VertexProject string
	VertexModel   string
	BecknURI      string
	MockBeckn     bool
	GatewayBind   string
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Interactively generate a starter configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "solarbot.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, refusing to overwrite", path)
			}

			answers := initAnswers{
				TelegramMode: "polling",
				VertexModel:  "gemini-2.0-flash",
				GatewayBind:  "127.0.0.1:8080",
			}
			if err := initForm(&answers).Run(); err != nil {
				return err
			}

			content := renderConfig(answers)
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			fmt.Println("Set TELEGRAM_BOT_TOKEN in the environment (or a .env file) and run: solarbot start")
			return nil
		},
	}
	return cmd
}

func initForm(a *initAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Telegram update mode").
				Description("Polling needs no public URL; webhook needs the gateway reachable from Telegram.").
				Options(
					huh.NewOption("Long polling", "polling"),
					huh.NewOption("Webhook", "webhook"),
				).
				Value(&a.TelegramMode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Vertex AI project ID").
				Description("Leave empty to run without LLM assistance.").
				Value(&a.VertexProject),
			huh.NewInput().
				Title("Vertex AI model").
				Value(&a.VertexModel),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Use the built-in mock Beckn network?").
				Description("The mock serves catalogs and confirms orders locally, no registry needed.").
				Value(&a.MockBeckn),
			huh.NewInput().
				Title("Beckn network base URL").
				Description("Ignored when the mock network is enabled.").
				Value(&a.BecknURI),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("HTTP gateway bind address").
				Value(&a.GatewayBind),
		),
	)
}

// renderConfig builds the starter YAML. Secrets stay in the environment;
// the config references them with ${VAR} expansion.
func renderConfig(a initAnswers) string {
	cfg := "version: \"1\"\n\nlog:\n  level: \"${LOG_LEVEL:-info}\"\n\nmodules:\n"

	cfg += "  store.sessions:\n    path: \"${SOLARBOT_DB:-solarbot.db}\"\n\n"

	if a.VertexProject != "" {
		cfg += fmt.Sprintf("  provider.vertex:\n    project_id: %q\n    model: %q\n\n", a.VertexProject, a.VertexModel)
	}

	cfg += "  network.beckn:\n"
	if a.MockBeckn {
		cfg += "    mock_mode: true\n\n"
	} else {
		cfg += fmt.Sprintf("    base_url: %q\n\n", a.BecknURI)
	}

	cfg += "  analyzer.rooftop:\n    mock: ${MOCK_IMAGE_ANALYSIS:-true}\n\n"

	cfg += "  channel.telegram:\n    token: \"${TELEGRAM_BOT_TOKEN}\"\n"
	cfg += fmt.Sprintf("    mode: %q\n\n", a.TelegramMode)

	cfg += "  agent.solar: {}\n  agent.prosumer: {}\n\n"

	cfg += fmt.Sprintf("  gateway.http:\n    bind: %q\n", a.GatewayBind)
	return cfg
}
