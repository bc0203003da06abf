// Package command defines the shopctl commands. Every command talks to the
// services over the command broker, so nothing needs to expose HTTP.
package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/contracts"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
)

// Dispatcher is the subset of rpc.Dispatcher used by the commands.
type Dispatcher interface {
	Dispatch(ctx context.Context, service, command string, payload any, timeout time.Duration) (json.RawMessage, error)
}

// Connector opens a dispatcher for the broker named by the global flags. The
// returned func releases it.
type Connector func(c *cli.Context) (Dispatcher, func(), error)

// App builds the shopctl application.
func App(connect Connector) *cli.App {
	return &cli.App{
		Name:  "shopctl",
		Usage: "operate the shop services over the command broker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "broker",
				Aliases: []string{"b"},
				Usage:   "broker URL",
				EnvVars: []string{config.EnvPrefix + "BROKER_URL"},
				Value:   "redis://localhost:6379/0",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "how long to wait for each reply",
				Value:   5 * time.Second,
			},
		},
		Commands: []*cli.Command{
			callCommand(connect),
			tokenCommand(connect),
			healthCommand(connect),
		},
	}
}

func callCommand(connect Connector) *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "send one command and print its reply",
		ArgsUsage: "<service> <command> [payload-json]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return cli.Exit("usage: shopctl call <service> <command> [payload-json]", 2)
			}
			payload := json.RawMessage(`{}`)
			if raw := c.Args().Get(2); raw != "" {
				if !json.Valid([]byte(raw)) {
					return cli.Exit("payload is not valid JSON", 2)
				}
				payload = json.RawMessage(raw)
			}
			return dispatchAndPrint(c, connect, c.Args().Get(0), c.Args().Get(1), payload)
		},
	}
}

func tokenCommand(connect Connector) *cli.Command {
	tokenAction := func(command string) cli.ActionFunc {
		return func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("exactly one token expected", 2)
			}
			return dispatchAndPrint(c, connect, config.Auth, command, contracts.TokenRequest{Token: c.Args().First()})
		}
	}
	return &cli.Command{
		Name:  "token",
		Usage: "inspect or revoke session tokens",
		Subcommands: []*cli.Command{
			{Name: "verify", Usage: "check whether a token is live", ArgsUsage: "<token>", Action: tokenAction(contracts.VerifyToken)},
			{Name: "revoke", Usage: "end the session behind a token", ArgsUsage: "<token>", Action: tokenAction(contracts.RevokeSession)},
		},
	}
}

func healthCommand(connect Connector) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check every service",
		Action: func(c *cli.Context) error {
			d, release, err := connect(c)
			if err != nil {
				return err
			}
			defer release()

			services := make([]string, 0)
			for svc := range config.DefaultQueues() {
				services = append(services, svc)
			}
			sort.Strings(services)

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SERVICE\tSTATUS")
			down := 0
			for _, svc := range services {
				status := "up"
				if _, err := d.Dispatch(c.Context, svc, rpc.HealthCommand, nil, c.Duration("timeout")); err != nil {
					status = "down"
					down++
				}
				fmt.Fprintf(w, "%s\t%s\n", svc, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if down > 0 {
				return cli.Exit(fmt.Sprintf("%d service(s) down", down), 1)
			}
			return nil
		},
	}
}

func dispatchAndPrint(c *cli.Context, connect Connector, service, command string, payload any) error {
	d, release, err := connect(c)
	if err != nil {
		return err
	}
	defer release()

	data, err := d.Dispatch(c.Context, service, command, payload, c.Duration("timeout"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	var out bytes.Buffer
	if len(data) == 0 || json.Indent(&out, data, "", "  ") != nil {
		out.Reset()
		out.Write(data)
	}
	_, err = fmt.Fprintln(c.App.Writer, out.String())
	return err
}
