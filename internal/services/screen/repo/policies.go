// Package repo persists tenant policies in Postgres and screening results in ClickHouse
package repo

import (
	"context"
	"encoding/json"
	"time"

	"textguard/internal/core/policy"
	"textguard/internal/modkit/repokit"
	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/store"
)

// Schema creates the policy table. Rules are stored as jsonb per direction
const Schema = `
create table if not exists screen_policies (
	tenant_id  text primary key,
	name       text not null default '',
	input      jsonb not null default '{}'::jsonb,
	output     jsonb not null default '{}'::jsonb,
	updated_at timestamptz not null default now()
)`

// Policies is the policy table contract
type Policies interface {
	Get(ctx context.Context, tenantID string) (policy.Policy, error)
	Upsert(ctx context.Context, p policy.Policy) error
	Delete(ctx context.Context, tenantID string) error
}

type (
	// PG binds Policies to a Postgres queryer
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns the Postgres policy binder
func NewPG() repokit.Binder[Policies] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Policies { return &queries{q: q} }

// EnsureSchema creates the policy table when it is missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, Schema)
	return perr.FromPostgres(err, "create screen_policies")
}

func (r *queries) Get(ctx context.Context, tenantID string) (policy.Policy, error) {
	const sql = `
select tenant_id, name, input::text, output::text
from screen_policies
where tenant_id = $1
`
	p, err := store.One(ctx, r.q, scanPolicy, sql, tenantID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return policy.Policy{}, perr.NotFoundf("no policy for tenant %q", tenantID)
	}
	if err != nil && !perr.IsCode(err, perr.ErrorCodeConfig) {
		err = perr.FromPostgres(err, "get policy")
	}
	return p, err
}

func (r *queries) Upsert(ctx context.Context, p policy.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	in, err := json.Marshal(p.Input)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode input rules")
	}
	out, err := json.Marshal(p.Output)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode output rules")
	}
	const sql = `
insert into screen_policies (tenant_id, name, input, output, updated_at)
values ($1, $2, $3::jsonb, $4::jsonb, now())
on conflict (tenant_id) do update
set name = excluded.name, input = excluded.input, output = excluded.output, updated_at = now()
`
	_, err = r.q.Exec(ctx, sql, p.TenantID, p.Name, string(in), string(out))
	return perr.FromPostgres(err, "upsert policy")
}

func (r *queries) Delete(ctx context.Context, tenantID string) error {
	tag, err := r.q.Exec(ctx, `delete from screen_policies where tenant_id = $1`, tenantID)
	if err != nil {
		return perr.FromPostgres(err, "delete policy")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("no policy for tenant %q", tenantID)
	}
	return nil
}

func scanPolicy(row store.Row) (policy.Policy, error) {
	var (
		p       policy.Policy
		in, out string
	)
	if err := row.Scan(&p.TenantID, &p.Name, &in, &out); err != nil {
		return policy.Policy{}, err
	}
	if err := json.Unmarshal([]byte(in), &p.Input); err != nil {
		return policy.Policy{}, perr.Wrapf(err, perr.ErrorCodeConfig, "tenant %q input rules", p.TenantID)
	}
	if err := json.Unmarshal([]byte(out), &p.Output); err != nil {
		return policy.Policy{}, perr.Wrapf(err, perr.ErrorCodeConfig, "tenant %q output rules", p.TenantID)
	}
	return p, nil
}

// PolicyStore serves engine lookups from Postgres, each in a short
// transaction bounded server side
type PolicyStore struct {
	db     repokit.TxRunner
	binder repokit.Binder[Policies]
}

// NewPolicyStore wraps db; timeout <= 0 means 2s per statement
func NewPolicyStore(db repokit.TxRunner, binder repokit.Binder[Policies], timeout time.Duration) *PolicyStore {
	if db == nil {
		panic("repo.PolicyStore requires a non nil TxRunner")
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &PolicyStore{db: repokit.WithBeginHooks(db, repokit.StatementTimeout(timeout)), binder: binder}
}

// Lookup implements engine.PolicyStore
func (s *PolicyStore) Lookup(ctx context.Context, tenantID string) (policy.Policy, error) {
	var p policy.Policy
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		p, err = repokit.MustBind(s.binder, q).Get(ctx, tenantID)
		return err
	})
	return p, err
}

// Put validates and stores p
func (s *PolicyStore) Put(ctx context.Context, p policy.Policy) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		return repokit.MustBind(s.binder, q).Upsert(ctx, p)
	})
}
