package command

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type wipeCmd struct {
	all bool
}

func (*wipeCmd) Name() string     { return "wipe" }
func (*wipeCmd) Synopsis() string { return "delete local data" }
func (*wipeCmd) Usage() string {
	return `pocketbook wipe [-all]

  Deletes every local record of the current scope, or of every scope with
  -all. The remote store is not touched.
`
}

func (c *wipeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Wipe every scope on this device.")
}

func (c *wipeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	s, err := open()
	if err != nil {
		return fail("%v", err)
	}
	defer s.deps.Close()

	if c.all {
		if err := s.deps.Ledger.ClearAll(ctx); err != nil {
			return fail("wipe failed: %v", err)
		}

		fmt.Println("wiped all scopes")

		return subcommands.ExitSuccess
	}

	scope, _, err := s.scopes(ctx)
	if err != nil {
		return fail("%v", err)
	}

	if err := s.deps.Ledger.ClearScope(ctx, scope); err != nil {
		return fail("wipe failed: %v", err)
	}

	fmt.Printf("wiped scope %s\n", scope)

	return subcommands.ExitSuccess
}
