package command

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type normalizeCmd struct{}

func (*normalizeCmd) Name() string     { return "normalize" }
func (*normalizeCmd) Synopsis() string { return "migrate legacy identifiers to canonical ones" }
func (*normalizeCmd) Usage() string {
	return `pocketbook normalize

  Rewrites every non-canonical record id of the current scope and every
  reference to it. Running it again changes nothing.
`
}

func (*normalizeCmd) SetFlags(*flag.FlagSet) {}

func (*normalizeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	s, err := open()
	if err != nil {
		return fail("%v", err)
	}
	defer s.deps.Close()

	scope, _, err := s.scopes(ctx)
	if err != nil {
		return fail("%v", err)
	}

	res, err := s.deps.Normalizer.Run(ctx, scope)
	if err != nil {
		return fail("normalize failed: %v", err)
	}

	if !res.Changed {
		fmt.Println("nothing to normalize")
		return subcommands.ExitSuccess
	}

	for old, id := range res.Renames {
		fmt.Printf("%s -> %s\n", old, id)
	}

	return subcommands.ExitSuccess
}
