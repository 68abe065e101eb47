package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/respmsl/resp-cli/internal/config"
	"github.com/respmsl/resp-cli/internal/gemini"
	"github.com/respmsl/resp-cli/internal/ui"
)

var modelsSave bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available Gemini models",
	Long: `List the models available to your API key.

With --save, pick one interactively and store it as the default model in
the config file.`,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsSave, "save", false, "pick a model and save it to the config")
}

func runModels(_ *cobra.Command, _ []string) error {
	client, err := gemini.New(gemini.Config{Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		ui.PrintWarn("no models returned; check your API key")
		return nil
	}

	if !modelsSave {
		fmt.Println("Model List: (https://ai.google.dev/gemini-api/docs/models)")
		for _, m := range models {
			if m.DisplayName != "" {
				fmt.Printf("- %s (%s)\n", m.Name, m.DisplayName)
			} else {
				fmt.Printf("- %s\n", m.Name)
			}
		}
		return nil
	}

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "✓ {{ . | green }}",
	}
	selectPrompt := promptui.Select{
		Label:     "Select default model",
		Items:     names,
		Templates: templates,
		Size:      10,
	}
	index, _, err := selectPrompt.Run()
	if err != nil {
		fmt.Println("\nSelection cancelled")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Model = names[index]
	if err := config.Save(cfg); err != nil {
		return err
	}
	ui.PrintOK(fmt.Sprintf("default model set to %s", cfg.Model))
	fmt.Println(ui.Indent("saved to " + config.GetConfigPath()))
	return nil
}
