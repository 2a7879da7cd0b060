package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_status') THEN
			CREATE TYPE complaint_status AS ENUM ('CREATED', 'ASSIGNED', 'IN_PROGRESS', 'PENDING_VERIFICATION', 'RESOLVED', 'REJECTED', 'WITHDRAWN');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_priority') THEN
			CREATE TYPE complaint_priority AS ENUM ('LOW', 'MEDIUM', 'HIGH', 'CRITICAL');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_category') THEN
			CREATE TYPE complaint_category AS ENUM ('ROAD', 'WATER', 'ELECTRICITY', 'SANITATION', 'OTHER');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('CITIZEN', 'OFFICER', 'SUPERVISOR', 'ADMIN', 'SYSTEM');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		role user_role NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_users_role_active ON users (role, is_active);`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		reporter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		category complaint_category NOT NULL,
		area VARCHAR(255),
		status complaint_status NOT NULL DEFAULT 'CREATED',
		priority complaint_priority NOT NULL DEFAULT 'MEDIUM',
		assigned_supervisor_id UUID REFERENCES users(id) ON DELETE SET NULL,
		assigned_officer_id UUID REFERENCES users(id) ON DELETE SET NULL,
		remarks TEXT,
		supervisor_image TEXT,
		officer_image TEXT,
		sla_assigned_at TIMESTAMPTZ,
		sla_due_by TIMESTAMPTZ,
		sla_escalated_at TIMESTAMPTZ,
		sla_escalation_level INTEGER NOT NULL DEFAULT 0,
		version BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_reporter_id ON complaints (reporter_id);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_supervisor ON complaints (assigned_supervisor_id);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_officer ON complaints (assigned_officer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_due_by ON complaints (sla_due_by) WHERE sla_due_by IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS complaint_status_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		complaint_id UUID NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
		status complaint_status NOT NULL,
		actor_id UUID NOT NULL,
		actor_role user_role NOT NULL,
		remarks TEXT,
		seq BIGSERIAL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_status_history_complaint_id ON complaint_status_history (complaint_id, seq);`,
	`CREATE TABLE IF NOT EXISTS complaint_comments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		complaint_id UUID NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
		user_id UUID NOT NULL,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_comments_complaint_id ON complaint_comments (complaint_id);`,
	`CREATE TABLE IF NOT EXISTS complaint_images (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		complaint_id UUID NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
		file_url TEXT NOT NULL,
		uploaded_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_images_complaint_id ON complaint_images (complaint_id);`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		complaint_id UUID REFERENCES complaints(id) ON DELETE SET NULL,
		target_user_id UUID,
		actor_id UUID NOT NULL,
		actor_role user_role NOT NULL,
		old_status complaint_status,
		new_status complaint_status,
		action VARCHAR(64) NOT NULL,
		remarks TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_complaint_id ON audit_log (complaint_id);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_actor_id ON audit_log (actor_id);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log (action);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log (created_at);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_complaints_updated_at') THEN
			CREATE TRIGGER trg_complaints_updated_at
			BEFORE UPDATE ON complaints
			FOR EACH ROW EXECUTE FUNCTION set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_users_updated_at') THEN
			CREATE TRIGGER trg_users_updated_at
			BEFORE UPDATE ON users
			FOR EACH ROW EXECUTE FUNCTION set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(database *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := database.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
