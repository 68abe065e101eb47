package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/respmsl/resp-cli/internal/schema"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a respMSL block to JSON Schema",
	Long: `Compile a respMSL block to a JSON Schema document.

Reads the given file, or stdin when no file is given. Input may be a bare
block or a full prompt containing a :::: delimiter line; in the latter
case only the text after the delimiter is compiled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func runCompile(_ *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return err
	}

	input := string(data)
	if block, ok := schema.ExtractBlock(input); ok {
		input = block
	}

	node, err := schema.Compile(input)
	if err != nil {
		return err
	}

	out, err := json.Marshal(node)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, out, "", "  "); err != nil {
		return err
	}
	fmt.Println(pretty.String())
	return nil
}
