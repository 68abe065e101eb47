package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/respmsl/resp-cli/internal/chat"
	"github.com/respmsl/resp-cli/internal/config"
	"github.com/respmsl/resp-cli/internal/gemini"
	"github.com/respmsl/resp-cli/internal/schema"
	"github.com/respmsl/resp-cli/internal/ui"
)

var (
	chatModel     string
	chatGrounding bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the configured Gemini model.

End a prompt line with :::: to open a respMSL schema block, then enter
the block line by line and finish with a blank line. The block is
compiled to a JSON Schema and the model's reply is constrained to that
shape. Files referenced as [[path]] are attached inline.

Type "exit" or "quit" (or say goodbye) to end the session.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "model identifier (overrides config)")
	chatCmd.Flags().BoolVarP(&chatGrounding, "grounding", "g", false, "enable Google Search grounding")
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	model := chatModel
	if model == "" {
		model = cfg.Model
	}
	client, err := gemini.New(gemini.Config{
		Model:   model,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		Verbose: verbose,
	})
	if err != nil {
		if errors.Is(err, gemini.ErrAPIKeyRequired) {
			ui.PrintError("no API key found")
			fmt.Println(ui.Indent("Set GEMINI_API_KEY or run 'resp key' to store one in .resp/.env"))
		}
		return err
	}
	defer func() { _ = client.Close() }()

	grounding := chatGrounding || cfg.Grounding

	fmt.Printf("model: %s\n", client.Model())
	if grounding {
		fmt.Println(ui.Info("Google Search grounding enabled"))
	}
	fmt.Println()

	session := chat.NewSession()
	for {
		text, ok := readPrompt()
		if !ok {
			text = "It's OK, good bye."
			fmt.Println(text)
		}
		if text == "" {
			continue
		}
		if done := runTurn(client, session, text, grounding); done || !ok {
			break
		}
	}
	fmt.Println()
	return nil
}

// readPrompt reads one user turn. A line ending with the :::: delimiter
// switches to block entry: further lines are collected verbatim until a
// blank line, so indented respMSL can be typed or pasted. ok is false on
// interrupt or EOF, which ends the session gracefully.
func readPrompt() (string, bool) {
	prompt := promptui.Prompt{
		Label:       chat.RoleUser,
		AllowEdit:   true,
		HideEntered: false,
	}
	text, err := prompt.Run()
	if err != nil {
		return "", false
	}
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, schema.Delimiter) {
		return text, true
	}
	return readSchemaBlock(text, readBlockLine), true
}

// readBlockLine reads one raw schema block line. Leading whitespace is
// preserved because indentation is significant.
func readBlockLine() (string, bool) {
	prompt := promptui.Prompt{Label: "...", HideEntered: false}
	line, err := prompt.Run()
	if err != nil {
		return "", false
	}
	return line, true
}

// readSchemaBlock assembles a multi-line prompt from a first line ending
// in the :::: delimiter, pulling block lines from next until a blank
// line or end of input. The delimiter is re-emitted on its own line so
// the result parses the same as a pasted prompt.
func readSchemaBlock(first string, next func() (string, bool)) string {
	head := strings.TrimSpace(strings.TrimSuffix(first, schema.Delimiter))
	lines := []string{head, schema.Delimiter}
	for {
		line, ok := next()
		if !ok || strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// runTurn sends one user turn and streams the reply. It reports whether
// the conversation is over.
func runTurn(client *gemini.Client, session *chat.Session, text string, grounding bool) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "exit" || lower == "quit" {
		session.AddUser(text)
		return true
	}

	genCfg, err := chat.BuildGenerationConfig(text)
	if err != nil {
		// A broken schema block never silently constrains the model;
		// the turn proceeds unconstrained instead.
		ui.PrintWarn(fmt.Sprintf("schema block ignored: %v", err))
	}

	attachments, warnings := chat.ExtractAttachments(text)
	for _, w := range warnings {
		ui.PrintWarn(w)
	}

	session.AddUser(text, attachments...)

	fmt.Print(ui.Role(chat.RoleModel) + " ")
	var reply strings.Builder
	streamErr := client.StreamGenerate(context.Background(), gemini.GenerateRequest{
		Contents:         session.History(),
		GenerationConfig: genCfg,
		Grounding:        grounding,
	}, func(ch gemini.Chunk) error {
		delta := ch.JoinText()
		fmt.Print(delta)
		reply.WriteString(delta)
		return nil
	})
	if !strings.HasSuffix(reply.String(), "\n") {
		fmt.Println()
	}
	if streamErr != nil {
		ui.PrintError(streamErr.Error())
		return false
	}

	replyText := strings.TrimRight(reply.String(), "\n")
	session.AddModel(replyText)

	return chat.IsFarewell(text) || chat.IsFarewell(replyText)
}
