package command

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
)

type tokenCmd struct {
	user string
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue a session token for a user" }
func (*tokenCmd) Usage() string {
	return `pocketbook token -user <id>

  Prints a token signed with AUTH_SECRET. Set it as AUTH_TOKEN, or send it as
  a bearer token to the API, to sync as that user.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "The user id the token is issued for.")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.user == "" {
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load()
	if err != nil {
		return fail("%v", err)
	}

	if cfg.Auth.Secret == "" {
		return fail("AUTH_SECRET is not set")
	}

	token, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL).Issue(c.user)
	if err != nil {
		return fail("%v", err)
	}

	fmt.Println(token)

	return subcommands.ExitSuccess
}
