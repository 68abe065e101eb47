package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/respmsl/resp-cli/internal/gemini"
	"github.com/respmsl/resp-cli/internal/ui"
	"github.com/respmsl/resp-cli/internal/util/env"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Store the Gemini API key in .resp/.env",
	Long: `Store the Gemini API key in the project-local .resp/.env file.

The GEMINI_API_KEY environment variable always takes precedence over the
stored key.`,
	RunE: runKey,
}

func runKey(_ *cobra.Command, _ []string) error {
	if env.GetAPIKey(gemini.APIKeyEnv) != "" {
		ui.PrintInfo("an API key is already configured; entering a new one replaces it for this project")
	}

	prompt := promptui.Prompt{
		Label: "Gemini API key",
		Mask:  '*',
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("key must not be empty")
			}
			return nil
		},
	}
	apiKey, err := prompt.Run()
	if err != nil {
		fmt.Println("\nCancelled")
		return nil
	}

	envPath := filepath.FromSlash(env.EnvFile)
	if err := env.SaveKeyToEnvFile(envPath, gemini.APIKeyEnv, strings.TrimSpace(apiKey)); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	ui.PrintOK("API key saved to " + envPath)
	return nil
}
