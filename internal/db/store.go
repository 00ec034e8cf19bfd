package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/karolisr/disputedesk/internal/app/ports"
)

// UpsertAccount inserts or overwrites a linked account credential.
func (c *Database) UpsertAccount(ctx context.Context, account ports.Account) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO accounts (id, access_token, scope, linked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			scope = excluded.scope,
			linked_at = excluded.linked_at`,
		account.ID, account.AccessToken, account.Scope, formatTime(account.LinkedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", account.ID, err)
	}
	return nil
}

// GetAccount fetches a linked account by id.
func (c *Database) GetAccount(ctx context.Context, id string) (ports.Account, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, access_token, scope, linked_at
		FROM accounts
		WHERE id = ?`, id)

	var account ports.Account
	var linkedAt string
	if err := row.Scan(&account.ID, &account.AccessToken, &account.Scope, &linkedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.Account{}, fmt.Errorf("account %s: %w", id, ports.ErrNotFound)
		}
		return ports.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}
	account.LinkedAt = parseTime(linkedAt)
	return account, nil
}

// UpsertCase inserts or overwrites a dispute case. The rowid assigned on
// first insertion fixes the record's position in listing order.
func (c *Database) UpsertCase(ctx context.Context, record ports.Case) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cases (id, account_id, amount, currency, reason, status, charge_id,
			created_at, evidence_due_by, draft, received_at, raw_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			account_id = excluded.account_id,
			amount = excluded.amount,
			currency = excluded.currency,
			reason = excluded.reason,
			status = excluded.status,
			charge_id = excluded.charge_id,
			created_at = excluded.created_at,
			evidence_due_by = excluded.evidence_due_by,
			draft = excluded.draft,
			received_at = excluded.received_at,
			raw_json = excluded.raw_json`,
		record.ID, record.AccountID, record.Amount, record.Currency, record.Reason,
		record.Status, record.ChargeID, nullTime(record.CreatedAt), nullTime(record.EvidenceDueBy),
		record.Draft, formatTime(record.ReceivedAt), record.RawJSON,
	)
	if err != nil {
		return fmt.Errorf("upsert case %s: %w", record.ID, err)
	}
	return nil
}

// GetCase fetches a dispute case by id.
func (c *Database) GetCase(ctx context.Context, id string) (ports.Case, error) {
	row := c.db.QueryRowContext(ctx, caseSelect+` WHERE id = ?`, id)
	record, err := scanCase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.Case{}, fmt.Errorf("case %s: %w", id, ports.ErrNotFound)
		}
		return ports.Case{}, fmt.Errorf("get case %s: %w", id, err)
	}
	return record, nil
}

// ListCases returns all dispute cases in insertion order.
func (c *Database) ListCases(ctx context.Context) ([]ports.Case, error) {
	rows, err := c.db.QueryContext(ctx, caseSelect+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	records := make([]ports.Case, 0)
	for rows.Next() {
		record, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("list cases: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return records, nil
}

var (
	_ ports.AccountStore = (*Database)(nil)
	_ ports.CaseStore    = (*Database)(nil)
)

const caseSelect = `
	SELECT id, account_id, amount, currency, reason, status, charge_id,
		created_at, evidence_due_by, draft, received_at, raw_json
	FROM cases`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (ports.Case, error) {
	var record ports.Case
	var createdAt, evidenceDueBy sql.NullString
	var receivedAt string
	err := row.Scan(
		&record.ID, &record.AccountID, &record.Amount, &record.Currency,
		&record.Reason, &record.Status, &record.ChargeID,
		&createdAt, &evidenceDueBy, &record.Draft, &receivedAt, &record.RawJSON,
	)
	if err != nil {
		return ports.Case{}, err
	}
	if createdAt.Valid {
		record.CreatedAt = parseTime(createdAt.String)
	}
	if evidenceDueBy.Valid {
		record.EvidenceDueBy = parseTime(evidenceDueBy.String)
	}
	record.ReceivedAt = parseTime(receivedAt)
	return record, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
