package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erikmagkekse/nas-console/console"
	"github.com/erikmagkekse/nas-console/engine"
	"github.com/erikmagkekse/nas-console/menu"
	"github.com/erikmagkekse/nas-console/model"
	"github.com/erikmagkekse/nas-console/server"

	"github.com/caarlos0/env/v11"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	level := zerolog.InfoLevel
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		if parsed, err := zerolog.ParseLevel(l); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
	}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg(model.AppName + " failed")
	}
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:    model.AppName,
		Usage:   "administrative console for the hybrid-cloud NAS REST API",
		Version: version + " (" + commit + ")",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the web console",
				Action: runServe,
			},
			{
				Name:   "menu",
				Usage:  "print the menu catalog",
				Action: runMenu,
			},
			{
				Name:      "open",
				Usage:     "select a menu item and run its default request",
				ArgsUsage: "<menu-key>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "actions", Usage: "also run every action with its sample payload"},
				},
				Action: runOpen,
			},
			{
				Name:      "call",
				Usage:     "send a single request to the backend",
				ArgsUsage: "<METHOD> <endpoint>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "body", Aliases: []string{"d"}, Usage: "JSON request body"},
				},
				Action: runCall,
			},
		},
	}
}

func loadConfig() (*model.ConsoleConfig, error) {
	cfg, err := env.ParseAs[model.ConsoleConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse console config: %w", err)
	}
	return &cfg, nil
}

func loadCatalog(cfg *model.ConsoleConfig) (*menu.Catalog, error) {
	if cfg.MenuFile != "" {
		return menu.LoadFile(cfg.MenuFile)
	}
	return menu.Default()
}

func newSession() (*model.ConsoleConfig, *console.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, console.NewSession(cat, engine.NewClient(cfg.APIBase, cfg.RequestTimeout)), nil
}

func runServe(ctx context.Context, _ *cli.Command) error {
	log.Info().Str("version", version).Str("commit", commit).Msg("starting " + model.AppName)

	cfg, session, err := newSession()
	if err != nil {
		return err
	}
	log.Info().Str("apiBase", cfg.APIBase).Int("items", session.Catalog().Len()).Msg("menu catalog loaded")

	srv := server.New(cfg, session, version, commit)
	srv.Start(ctx)

	<-ctx.Done()
	log.Info().Msg("shutting down")
	return nil
}

func runMenu(_ context.Context, _ *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	printCatalog(os.Stdout, cat)
	return nil
}

func runOpen(ctx context.Context, cmd *cli.Command) error {
	key := cmd.Args().First()
	if key == "" {
		return cli.Exit("menu key is required", 1)
	}

	_, session, err := newSession()
	if err != nil {
		return err
	}

	out, err := session.Open(ctx, key)
	if err != nil {
		return err
	}
	v := session.View()
	printHeader(os.Stdout, v)
	printOutcome(os.Stdout, v.Primary.Label, out)

	if cmd.Bool("actions") {
		for i, a := range v.Actions {
			o, err := session.RunAction(ctx, i)
			if err != nil {
				return err
			}
			printOutcome(os.Stdout, a.Label+" ("+a.Method+" "+a.Endpoint+")", o)
		}
	}
	return nil
}

func runCall(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return cli.Exit("usage: call <METHOD> <endpoint>", 1)
	}

	_, session, err := newSession()
	if err != nil {
		return err
	}
	if err := session.EditDraft(cmd.Args().Get(0), cmd.Args().Get(1), cmd.String("body")); err != nil {
		return err
	}

	out, err := session.RunPrimary(ctx)
	if err != nil {
		return err
	}
	p := session.View().Primary
	printOutcome(os.Stdout, p.Method+" "+p.Endpoint, out)
	if out.State == console.StateFailed {
		return cli.Exit("", 2)
	}
	return nil
}

var (
	titleColor = color.New(color.Bold, color.FgCyan)
	keyColor   = color.New(color.FgHiBlack)
	okColor    = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
)

func printCatalog(w io.Writer, cat *menu.Catalog) {
	for _, g := range cat.Groups() {
		titleColor.Fprintln(w, g.Title)
		for _, it := range g.Items {
			fmt.Fprintf(w, "  %-28s %s\n", it.Name, keyColor.Sprint(it.Key))
			fmt.Fprintf(w, "    %s\n", it.APIKey())
			for _, a := range it.Actions {
				fmt.Fprintf(w, "    - %s: %s %s\n", a.Label, a.Method, a.Endpoint)
			}
		}
	}
}

func printHeader(w io.Writer, v console.View) {
	if v.Item == nil {
		return
	}
	titleColor.Fprintln(w, v.Item.Name)
	if v.Item.Description != "" {
		fmt.Fprintln(w, v.Item.Description)
	}
	fmt.Fprintf(w, "path: %s  menuKey: %s  api: %s\n", v.Item.Path, v.Item.Key, v.Item.APIKey)
	if v.Item.ActionCount > 0 {
		fmt.Fprintf(w, "%d actions available\n", v.Item.ActionCount)
	}
}

func printOutcome(w io.Writer, label string, out console.Outcome) {
	if out.State == console.StateFailed {
		failColor.Fprintf(w, "%s failed (%d ms): %s\n", label, out.DurationMs, out.Error)
		return
	}
	okColor.Fprintf(w, "%s succeeded (%d ms)\n", label, out.DurationMs)
	if out.Output != "" {
		fmt.Fprintln(w, out.Output)
	}
}
