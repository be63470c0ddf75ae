package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/limbo/accountability/internal/service"
	"github.com/limbo/accountability/pkg/cleanup"
)

func init() {
	service.InitValidator()
}

var CLI struct {
	Engine string `help:"Engine settings file." type:"path" default:"./configs/engine.yaml"`

	Run   RunCmd   `cmd:"" help:"Generate the weekly report for the active cohort and print it as JSON."`
	Serve ServeCmd `cmd:"" help:"Serve the operator API."`
	Pool  struct {
		Show  PoolShowCmd  `cmd:"" help:"Show the pool reset baseline."`
		Reset PoolResetCmd `cmd:"" help:"Reset the pool baseline to a week start."`
	} `cmd:"" help:"Manage the price pool baseline."`
	Token TokenCmd `cmd:"" help:"Issue an operator token for the API."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("accountability"),
		kong.Description("Weekly accountability and compliance engine"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&Globals{EnginePath: CLI.Engine})
	cleanup.CleanUp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
