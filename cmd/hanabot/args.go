package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/DoyleJ11/hanabot/internal/config"
	"github.com/spf13/pflag"
)

const maxBots = 6

// args apply to every bot, except --create: the first bot creates a table
// and the others join it.
type args struct {
	N          int
	Users      []string
	Create     bool
	Table      string
	FollowUser string
	Password   string
	ConfigPath string

	nSet bool
}

func parseArgs(argv []string) (args, error) {
	var a args
	fs := pflag.NewFlagSet("hanabot", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.IntVarP(&a.N, "n", "n", 1, "number of default bots to run (1-6)")
	fs.StringArrayVar(&a.Users, "user", nil, "bot username to run (repeatable)")
	fs.BoolVarP(&a.Create, "create", "c", false, "create a table; the other bots join it")
	fs.StringVarP(&a.Table, "table", "t", "", "table to create or join")
	fs.StringVarP(&a.FollowUser, "follow-user", "f", "", "keep joining whichever table this user is at")
	fs.StringVarP(&a.Password, "password", "p", "", "password for created or joined tables")
	fs.StringVar(&a.ConfigPath, "config", "config.json", "config file")

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return a, fmt.Errorf("usage of hanabot:\n%s", fs.FlagUsages())
		}
		return a, err
	}
	if fs.NArg() > 0 {
		return a, fmt.Errorf("unexpected arguments %q", fs.Args())
	}
	a.nSet = fs.Changed("n")

	switch {
	case a.N < 1 || a.N > maxBots:
		return a, fmt.Errorf("-n must be between 1 and %d", maxBots)
	case a.nSet && len(a.Users) > 0:
		return a, errors.New("-n and --user are mutually exclusive")
	case len(a.Users) > maxBots:
		return a, fmt.Errorf("at most %d bots", maxBots)
	case a.Create && a.FollowUser != "":
		return a, errors.New("--create and --follow-user are mutually exclusive")
	case a.Table != "" && a.FollowUser != "":
		return a, errors.New("--table and --follow-user are mutually exclusive")
	}
	return a, nil
}

// botNames picks the bots to run: the --user list, or the first -n default
// bots from the config.
func (a args) botNames(cfg *config.Config) ([]string, error) {
	if len(a.Users) > 0 {
		return a.Users, nil
	}
	if a.N > len(cfg.DefaultBots) {
		return nil, fmt.Errorf("-n %d but only %d default bots configured", a.N, len(cfg.DefaultBots))
	}
	return cfg.DefaultBots[:a.N], nil
}
