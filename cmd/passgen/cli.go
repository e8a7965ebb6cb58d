package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/ops"
	"github.com/hpungsan/passgen/internal/password"
	"github.com/hpungsan/passgen/internal/web"
)

// maxStdinBytes caps input read for check and copy.
const maxStdinBytes = 64 << 10

// newCLIApp creates the CLI application with all commands.
func newCLIApp(d *ops.Deps) *cli.App {
	app := &cli.App{
		Name:    "passgen",
		Usage:   "Password generator and strength checker",
		Version: Version,
		Commands: []*cli.Command{
			generateCmd(d),
			batchCmd(d),
			checkCmd(),
			historyCmd(d),
			clearCmd(d),
			exportCmd(d),
			copyCmd(d),
			brandingCmd(d),
			tipsCmd(),
			serveCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// selectionFlags are the character-class switches shared by generate and batch.
func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "length", Aliases: []string{"l"}, Usage: "Password length, 4-32 (default from config)"},
		&cli.BoolFlag{Name: "no-upper", Usage: "Exclude A-Z"},
		&cli.BoolFlag{Name: "no-lower", Usage: "Exclude a-z"},
		&cli.BoolFlag{Name: "no-numbers", Usage: "Exclude 0-9"},
		&cli.BoolFlag{Name: "no-symbols", Usage: "Exclude symbols"},
	}
}

// selectionFrom reads the class switches; every class is on unless excluded.
func selectionFrom(c *cli.Context) password.Selection {
	return password.Selection{
		Uppercase: !c.Bool("no-upper"),
		Lowercase: !c.Bool("no-lower"),
		Numbers:   !c.Bool("no-numbers"),
		Symbols:   !c.Bool("no-symbols"),
	}
}

// generateCmd creates the generate command.
func generateCmd(d *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate one password and record it in history",
		Flags: append(selectionFlags(),
			&cli.BoolFlag{Name: "copy", Aliases: []string{"c"}, Usage: "Also copy the password to the clipboard"},
		),
		Action: func(c *cli.Context) error {
			output, err := ops.Generate(c.Context, d, ops.GenerateInput{
				Length:    c.Int("length"),
				Selection: selectionFrom(c),
			})
			if err != nil {
				return outputError(err)
			}

			if !c.Bool("copy") {
				return outputJSON(output)
			}

			result := struct {
				*ops.GenerateOutput
				Copied    bool   `json:"copied"`
				CopyError string `json:"copy_error,omitempty"`
			}{GenerateOutput: output}
			if _, err := ops.Copy(c.Context, d, ops.CopyInput{Text: output.Password}); err != nil {
				result.CopyError = err.Error()
			} else {
				result.Copied = true
			}
			return outputJSON(result)
		},
	}
}

// batchCmd creates the batch command.
func batchCmd(d *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Generate several passwords (not recorded in history)",
		Flags: append(selectionFlags(),
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "Number of passwords, 1-20 (default from config)"},
			&cli.BoolFlag{Name: "export", Aliases: []string{"e"}, Usage: "Also write the batch to CSV (unquoted fields)"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "CSV path for --export (default: ~/.passgen/exports/batch_passwords_<date>.csv)"},
		),
		Action: func(c *cli.Context) error {
			output, err := ops.GenerateBatch(c.Context, d, ops.BatchInput{
				Length:    c.Int("length"),
				Count:     c.Int("count"),
				Selection: selectionFrom(c),
			})
			if err != nil {
				return outputError(err)
			}

			if !c.Bool("export") {
				return outputJSON(output)
			}

			exported, err := ops.ExportBatch(c.Context, d, ops.ExportBatchInput{
				Passwords: output.Passwords(),
				Path:      c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(struct {
				*ops.BatchOutput
				Export *ops.ExportOutput `json:"export"`
			}{output, exported})
		},
	}
}

// checkCmd creates the check command.
func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Score a password's strength (argument or stdin); nothing is stored",
		ArgsUsage: "[password]",
		Action: func(c *cli.Context) error {
			pwd, err := argOrStdin(c, "password")
			if err != nil {
				return outputError(err)
			}
			return outputJSON(ops.Check(ops.CheckInput{Password: pwd}))
		},
	}
}

// historyCmd creates the history command.
func historyCmd(d *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List generated passwords, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultHistoryLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListHistory(d, ops.ListHistoryInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// clearCmd creates the clear command.
func clearCmd(d *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every history entry (requires --yes)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm clearing history"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ClearHistory(c.Context, d, ops.ClearHistoryInput{Confirm: c.Bool("yes")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(d *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write history to CSV (UTF-8 BOM, unquoted fields)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output path (default: ~/.passgen/exports/passwords_<date>.csv)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ExportHistory(c.Context, d, ops.ExportHistoryInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// copyCmd creates the copy command.
func copyCmd(d *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "Copy text to the clipboard (argument or stdin)",
		ArgsUsage: "[text]",
		Action: func(c *cli.Context) error {
			text, err := argOrStdin(c, "text")
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Copy(c.Context, d, ops.CopyInput{Text: text})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// brandingCmd creates the branding command and its subcommands.
func brandingCmd(d *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "branding",
		Usage: "Show or change the company name and colour",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show current branding",
				Action: func(c *cli.Context) error {
					return outputJSON(ops.GetBranding(c.Context, d))
				},
			},
			{
				Name:  "set",
				Usage: "Save branding",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company", Usage: "Company name (empty removes it)"},
					&cli.StringFlag{Name: "color", Usage: "Primary colour, #rgb or #rrggbb"},
				},
				Action: func(c *cli.Context) error {
					current := ops.GetBranding(c.Context, d)
					input := ops.SetBrandingInput{
						CompanyName:  current.CompanyName,
						PrimaryColor: current.PrimaryColor,
					}
					if c.IsSet("company") {
						input.CompanyName = c.String("company")
					}
					if c.IsSet("color") {
						input.PrimaryColor = c.String("color")
					}
					output, err := ops.SetBranding(c.Context, d, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "reset",
				Usage: "Restore default branding",
				Action: func(c *cli.Context) error {
					output, err := ops.SetBranding(c.Context, d, ops.SetBrandingInput{Reset: true})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// tipsCmd creates the tips command.
func tipsCmd() *cli.Command {
	return &cli.Command{
		Name:  "tips",
		Usage: "Show password hygiene tips",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
		},
		Action: func(c *cli.Context) error {
			output := ops.Tips()
			if c.Bool("json") {
				return outputJSON(output)
			}
			_, err := fmt.Fprint(c.App.Writer, output.Markdown)
			return err
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(d *ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Interface to listen on (default from config, 127.0.0.1)"},
			&cli.IntFlag{Name: "port", Usage: "Port to listen on (default from config, 8765)"},
		},
		Action: func(c *cli.Context) error {
			bind, port := d.Config.WebBind, d.Config.WebPort
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			if c.IsSet("port") {
				port = c.Int("port")
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := web.NewServer(d, Version, bind, port)
			if err := web.Run(ctx, srv, d.Log); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var pErr *errors.PassgenError
	if stderrors.As(err, &pErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// argOrStdin returns the first positional argument, or piped stdin.
func argOrStdin(c *cli.Context, name string) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidRequest(fmt.Sprintf("%s must be given as an argument or piped via stdin", name))
	}
	text, err := readStdin(maxStdinBytes)
	if err != nil {
		return "", err
	}
	return text, nil
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads stdin up to limit bytes and trims the trailing newline.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if int64(len(data)) > limit {
		return "", errors.NewInvalidRequest(fmt.Sprintf("stdin exceeds %d bytes", limit))
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

