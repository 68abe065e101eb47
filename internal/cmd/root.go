package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// verbose is a global flag for verbose output
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "resp",
	Short: "resp - Gemini chat with schema-constrained responses",
	Long: `resp is a terminal chat client for the Gemini API with structured output.

End a prompt with a :::: line followed by a respMSL block to constrain
the model's reply to a JSON Schema compiled from that block:

  Suggest a dinner.
  ::::
  DishName: Name of the dish expressed humorously
  Ingredients:
   - IngredientName: Describe the raw material concretely
   - Quantity: Also specify the unit

In chat, end a prompt line with :::: to enter the block interactively,
one line at a time, finishing with a blank line.

Attach files inline with [[path/to/file]] notation.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(mcpCmd)
}
