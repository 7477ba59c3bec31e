package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied at startup. Statements are idempotent so repeated boots
// are safe; real schema changes go through new statements appended here.
//
// user_profiles.identity_id deliberately has no foreign key: identities model
// an external auth system and must be deletable before the profile rows
// during composite account deletion.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS auth_identities (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		invite_token  TEXT NOT NULL DEFAULT '',
		invited_at    TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_auth_identities_invite_token
		ON auth_identities (invite_token) WHERE invite_token <> ''`,

	`CREATE TABLE IF NOT EXISTS user_profiles (
		id          UUID PRIMARY KEY,
		identity_id UUID NOT NULL,
		full_name   TEXT NOT NULL,
		role        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_profiles_identity ON user_profiles (identity_id)`,

	`CREATE TABLE IF NOT EXISTS client_profiles (
		id         UUID PRIMARY KEY,
		profile_id UUID NOT NULL REFERENCES user_profiles(id),
		company    TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS reference_counters (
		prefix TEXT    NOT NULL,
		year   INTEGER NOT NULL,
		value  INTEGER NOT NULL,
		PRIMARY KEY (prefix, year)
	)`,

	`CREATE TABLE IF NOT EXISTS cases (
		id                UUID PRIMARY KEY,
		case_number       TEXT NOT NULL UNIQUE,
		client_id         UUID NOT NULL REFERENCES client_profiles(id) ON DELETE CASCADE,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		category          TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'pending',
		assigned_attorney UUID,
		opening_date      TIMESTAMPTZ NOT NULL,
		closing_date      TIMESTAMPTZ,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cases_client ON cases (client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cases_status ON cases (status)`,

	`CREATE TABLE IF NOT EXISTS complaints (
		id               UUID PRIMARY KEY,
		complaint_number TEXT NOT NULL UNIQUE,
		client_id        UUID NOT NULL REFERENCES client_profiles(id) ON DELETE CASCADE,
		subject          TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'submitted',
		resolution_notes TEXT NOT NULL DEFAULT '',
		resolved_at      TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_client ON complaints (client_id)`,

	`CREATE TABLE IF NOT EXISTS subscriptions (
		id           UUID PRIMARY KEY,
		client_id    UUID NOT NULL REFERENCES client_profiles(id) ON DELETE CASCADE,
		plan_code    TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending',
		started_at   TIMESTAMPTZ,
		renews_at    TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_client ON subscriptions (client_id)`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id              UUID PRIMARY KEY,
		invoice_number  TEXT NOT NULL UNIQUE,
		subscription_id UUID NOT NULL REFERENCES subscriptions(id) ON DELETE CASCADE,
		client_id       UUID NOT NULL REFERENCES client_profiles(id) ON DELETE CASCADE,
		amount_cents    BIGINT NOT NULL CHECK (amount_cents > 0),
		currency        TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'draft',
		issued_at       TIMESTAMPTZ,
		paid_at         TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_subscription ON invoices (subscription_id)`,

	`CREATE TABLE IF NOT EXISTS consultations (
		id                  UUID PRIMARY KEY,
		consultation_number TEXT NOT NULL UNIQUE,
		client_id           UUID NOT NULL REFERENCES client_profiles(id) ON DELETE CASCADE,
		attorney_id         UUID,
		topic               TEXT NOT NULL,
		notes               TEXT NOT NULL DEFAULT '',
		scheduled_at        TIMESTAMPTZ,
		duration_mins       INTEGER NOT NULL DEFAULT 0,
		status              TEXT NOT NULL DEFAULT 'requested',
		completed_at        TIMESTAMPTZ,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_consultations_client ON consultations (client_id)`,

	`CREATE TABLE IF NOT EXISTS service_registrations (
		id                  UUID PRIMARY KEY,
		registration_number TEXT NOT NULL UNIQUE,
		client_id           UUID NOT NULL REFERENCES client_profiles(id) ON DELETE CASCADE,
		service_code        TEXT NOT NULL,
		details             TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT 'received',
		completed_at        TIMESTAMPTZ,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_client ON service_registrations (client_id)`,

	`CREATE TABLE IF NOT EXISTS activity_records (
		id          UUID PRIMARY KEY,
		parent_id   UUID NOT NULL,
		kind        TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		actor_id    TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_parent_created
		ON activity_records (parent_id, created_at DESC)`,
}

// Migrate applies the schema. Each statement runs in its own implicit
// transaction; a failure aborts the boot.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
