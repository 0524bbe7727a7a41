// Command correlator-ge emits checkpoint validation results as OpenLineage
// events. The primary integration is the correlator library called from
// the host validation pipeline; the CLI covers version reporting,
// configuration inspection, and one-shot emission from a result file.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/correlator-io/correlator-go/correlator"
)

func main() {
	app := &cli.App{
		Name:    "correlator-ge",
		Usage:   "Emit checkpoint validation results as OpenLineage events",
		Version: correlator.Version,
		Commands: []*cli.Command{
			configCommand(),
			emitCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "config",
		Usage: "Path to a YAML configuration file",
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the resolved configuration with the credential redacted",
		Flags: []cli.Flag{configFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := correlator.ResolveConfig(c.String("config"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 2)
			}
			out, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return err
			}
			fmt.Fprint(c.App.Writer, string(out))
			return nil
		},
	}
}

func emitCommand() *cli.Command {
	return &cli.Command{
		Name:  "emit",
		Usage: "Emit events for a checkpoint result document",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "result",
				Usage:    "Path to a checkpoint result JSON file",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := correlator.ResolveConfig(c.String("config"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 2)
			}

			result, err := readResult(c.String("result"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			action, err := correlator.NewAction(logger, cfg)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			// Delivery failures are logged, never turned into a nonzero
			// exit: the run's own outcome stays untouched.
			action.Run(context.Background(), result)
			return nil
		},
	}
}

func readResult(path string) (correlator.CheckpointResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return correlator.CheckpointResult{}, fmt.Errorf("read result file: %w", err)
	}
	var result correlator.CheckpointResult
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&result); err != nil {
		return correlator.CheckpointResult{}, fmt.Errorf("parse result file %s: %w", path, err)
	}
	return result, nil
}
