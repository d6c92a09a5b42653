// Package app opens the stores once and wires the services every binary
// shares.
package app

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/normalize"
	"github.com/MrJamesThe3rd/pocketbook/internal/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/syncer"
	"github.com/MrJamesThe3rd/pocketbook/internal/syncer/remote"
)

type Deps struct {
	Ledger       *ledger.Repository
	Normalizer   *normalize.Normalizer
	Orchestrator *syncer.Orchestrator
	Issuer       *auth.Issuer

	local  *sql.DB
	remote *sql.DB
}

// Open opens the local store and, when enabled, the remote database.
// scopes decides which tenant each sync cycle runs for.
func Open(cfg *config.Config, scopes syncer.ScopeFunc) (*Deps, error) {
	local, err := database.OpenLocal(cfg.Local.Path)
	if err != nil {
		return nil, err
	}

	d := &Deps{
		Ledger: ledger.NewRepository(store.New(local)),
		Issuer: auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		local:  local,
	}
	d.Normalizer = normalize.New(d.Ledger)

	// A nil Remote interface disables sync; a typed nil pointer would not.
	var r syncer.Remote

	if cfg.DB.Enabled {
		if err := database.MigrateRemote(cfg.ConnectionString()); err != nil {
			local.Close()
			return nil, err
		}

		d.remote, err = database.New(cfg.ConnectionString())
		if err != nil {
			local.Close()
			return nil, fmt.Errorf("connecting to remote: %w", err)
		}

		r = remote.New(d.remote, cfg.Sync.RemoteTimeout)
	}

	d.Orchestrator = syncer.New(d.Ledger, r, scopes)

	return d, nil
}

func (d *Deps) Close() error {
	var errs []error

	if d.remote != nil {
		errs = append(errs, d.remote.Close())
	}

	errs = append(errs, d.local.Close())

	return errors.Join(errs...)
}
