// Command schema writes the JSON schema of the config file, or with --check
// verifies that an existing schema file is up to date.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/umputun/newsdigest/pkg/config"
)

type options struct {
	Check bool `long:"check" description:"fail if the schema file differs from the generated one"`
	Args  struct {
		Output string `positional-arg-name:"FILE" default:"schema.json"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "schema: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	data, err := render()
	if err != nil {
		return err
	}

	if opts.Check {
		current, err := os.ReadFile(opts.Args.Output)
		if err != nil {
			return fmt.Errorf("read %s: %w", opts.Args.Output, err)
		}
		if !bytes.Equal(current, data) {
			return fmt.Errorf("%s is stale, regenerate with go generate ./pkg/config", opts.Args.Output)
		}
		fmt.Printf("%s is up to date\n", opts.Args.Output)
		return nil
	}

	if err := os.WriteFile(opts.Args.Output, data, 0o644); err != nil { //nolint:gosec // schema file is not sensitive
		return fmt.Errorf("write %s: %w", opts.Args.Output, err)
	}
	fmt.Printf("schema generated at %s\n", opts.Args.Output)
	return nil
}

func render() ([]byte, error) {
	schema, err := config.GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("generate schema: %w", err)
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
