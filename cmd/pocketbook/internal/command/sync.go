package command

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/pocketbook/internal/syncer"
)

type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "run one sync cycle against the remote store" }
func (*syncCmd) Usage() string {
	return `pocketbook sync

  Pulls remote changes since the last pull, merges them into the local store,
  pushes local changes since the last push and records the new watermarks.
  Signs in with AUTH_TOKEN; without it the command does nothing.
`
}

func (*syncCmd) SetFlags(*flag.FlagSet) {}

func (*syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	s, err := open()
	if err != nil {
		return fail("%v", err)
	}
	defer s.deps.Close()

	res, err := s.deps.Orchestrator.SyncStored(ctx)
	if err != nil {
		if errors.Is(err, syncer.ErrCycleInFlight) {
			return fail("a sync is already running")
		}

		return fail("sync failed: %v", err)
	}

	if res.Disabled {
		fmt.Println("sync disabled: no remote configured or not signed in")
		return subcommands.ExitSuccess
	}

	for _, st := range res.Stats {
		fmt.Printf("%-20s pulled %4d  pushed %4d\n", st.Collection, st.Pulled, st.Pushed)
	}

	for _, e := range res.Errors {
		fmt.Println(e.Error())
	}

	if len(res.Errors) > 0 {
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
