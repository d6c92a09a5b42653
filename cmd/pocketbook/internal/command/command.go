// Package command holds the pocketbook subcommands. Every command is one
// externally triggered operation, suitable for cron.
package command

import (
	"context"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/pocketbook/internal/app"
	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
)

var Commands = []subcommands.Command{
	&syncCmd{},
	&normalizeCmd{},
	&tokenCmd{},
	&wipeCmd{},
}

// session is what a command acts with: the opened stores and the scope of the
// configured token.
type session struct {
	cfg    *config.Config
	deps   *app.Deps
	scopes func(context.Context) (string, bool, error)
}

func open() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	issuer := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	scopes := issuer.TokenScope(cfg.Auth.Token)

	deps, err := app.Open(cfg, scopes)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, deps: deps, scopes: scopes}, nil
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
