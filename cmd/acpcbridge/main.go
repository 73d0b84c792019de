package main

import (
	"github.com/alecthomas/kong"

	"github.com/lox/acpcbridge/cmd/acpcbridge/shared"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"acpcbridge.hcl" help:"HCL config file (ignored if missing)"`
	EnvFile  string `default:".env" help:"Environment file loaded before the config"`
	LogLevel string `default:"" help:"Log level (debug|info|warn|error), overrides the config"`
	LogJSON  bool   `help:"Output JSON logs instead of console format"`
}

// Validate runs after flags are parsed, before any command.
func (g *Globals) Validate() error {
	return shared.CheckLevel(g.LogLevel)
}

type CLI struct {
	Globals

	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Translate  TranslateCmd     `cmd:"" help:"Translate a table action string into ACPC notation"`
	Board      BoardCmd         `cmd:"" help:"Insert street separators into a board"`
	MatchState MatchStateCmd    `cmd:"matchstate" help:"Build an ACPC match-state line"`
	Advice     AdviceCmd        `cmd:"" help:"Interpret an agent reply"`
	Relay      RelayCmd         `cmd:"" help:"Relay table observations to an agent and print its decisions"`
	Agent      AgentCmd         `cmd:"" help:"Run a stub ACPC agent for testing"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("acpcbridge"),
		kong.Description("Bridge between a web poker table and an ACPC decision agent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
