package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/five82/daybook/internal/app"
	"github.com/five82/daybook/internal/config"
)

func options(cmd *cli.Command) app.Options {
	return app.Options{
		ConfigPath: cmd.String("config"),
		PrefsPath:  cmd.String("prefs"),
		DBPath:     cmd.String("db"),
		Debug:      cmd.Bool("debug"),
	}
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	if err := app.Run(ctx, options(cmd)); err != nil {
		return fmt.Errorf("daybook: %w", err)
	}
	return nil
}

// withEnv opens the shared resources for a subcommand.
func withEnv(fn func(ctx context.Context, cmd *cli.Command, env *app.Env) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		env, err := app.Open(options(cmd))
		if err != nil {
			return err
		}
		defer env.Close()
		return fn(ctx, cmd, env)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "daybook",
		Usage:  "A journal with one note per day, edited in the terminal",
		Action: runTUI,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/daybook/config.toml",
				Sources:     cli.EnvVars("DAYBOOK_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Path to the notes database (overrides db_path)",
				Sources: cli.EnvVars("DAYBOOK_DB"),
			},
			&cli.StringFlag{
				Name:        "prefs",
				Usage:       "Path to the UI preferences file",
				DefaultText: "~/.config/daybook/prefs.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug output to the log file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List days that have a note",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, env *app.Env) error {
					return listNotes(ctx, env.Store, os.Stdout, env.Logger)
				}),
			},
			{
				Name:      "show",
				Usage:     "Print the note for a day",
				ArgsUsage: "<YYYY-MM-DD>",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, env *app.Env) error {
					return showNote(ctx, env.Store, os.Stdout, cmd.Args().First())
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete the note for a day",
				ArgsUsage: "<YYYY-MM-DD>",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, env *app.Env) error {
					return deleteNote(ctx, env.Store, os.Stdout, cmd.Args().First(), env.Logger)
				}),
			},
			{
				Name:  "log",
				Usage: "Print the tail of the log file",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "lines",
						Aliases: []string{"n"},
						Usage:   "Number of lines to print (0 for all)",
						Value:   50,
					},
					&cli.StringFlag{
						Name:  "run",
						Usage: `Only lines from this run id ("last" for the most recent run)`,
					},
					&cli.StringFlag{
						Name:  "level",
						Usage: "Minimum level (debug, info, warn, error)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := config.Load(cmd.String("config"))
					if err != nil {
						return fmt.Errorf("load config: %w", err)
					}
					return showLog(os.Stdout, logOptions{
						path:  cfg.LogPath,
						lines: int(cmd.Int("lines")),
						run:   cmd.String("run"),
						level: cmd.String("level"),
					})
				},
			},
		},
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}
