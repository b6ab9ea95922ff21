// Package schema holds the table definitions applied at startup.
// Statements are idempotent so they can run on every boot.
package schema

// TableDefinitions contains all the SQL statements to create the database tables.
// Don't put REFERENCES in the CREATE TABLE statements; deletes are handled by the services.
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		first_name VARCHAR(255),
		last_name VARCHAR(255),
		phone VARCHAR(50),
		notes TEXT,
		tags TEXT[] NOT NULL DEFAULT '{}',
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		source VARCHAR(50),
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contact_list_members (
		contact_id UUID NOT NULL,
		list_id VARCHAR(64) NOT NULL,
		added_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (contact_id, list_id)
	)`,
	`CREATE TABLE IF NOT EXISTS email_templates (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		subject VARCHAR(255) NOT NULL,
		html TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS forms (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS form_submissions (
		id UUID PRIMARY KEY,
		form_id VARCHAR(64) NOT NULL,
		data JSONB NOT NULL,
		ip_address VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS workflows (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL,
		trigger_type VARCHAR(32) NOT NULL,
		trigger_config JSONB NOT NULL DEFAULT '{}'::jsonb,
		actions JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS workflow_executions (
		id UUID PRIMARY KEY,
		workflow_id UUID NOT NULL,
		contact_id UUID,
		trigger_data JSONB,
		status VARCHAR(20) NOT NULL,
		actions_completed JSONB NOT NULL DEFAULT '[]'::jsonb,
		next_action_index INTEGER NOT NULL DEFAULT 0,
		scheduled_at TIMESTAMPTZ,
		error_message TEXT,
		failed_action_index INTEGER,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS workflow_trigger_claims (
		workflow_id UUID NOT NULL,
		contact_id UUID NOT NULL,
		window_bucket BIGINT NOT NULL,
		claimed_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (workflow_id, contact_id, window_bucket)
	)`,
}

// IndexDefinitions are applied after the tables exist
var IndexDefinitions = []string{
	`CREATE INDEX IF NOT EXISTS idx_contacts_status_updated_at ON contacts (status, updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_workflows_trigger ON workflows (status, trigger_type)`,
	`CREATE INDEX IF NOT EXISTS idx_workflows_form_id ON workflows ((trigger_config->>'form_id')) WHERE trigger_type = 'form_submission'`,
	`CREATE INDEX IF NOT EXISTS idx_workflow_executions_workflow ON workflow_executions (workflow_id, started_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_workflow_executions_pair ON workflow_executions (workflow_id, contact_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_workflow_executions_due ON workflow_executions (scheduled_at) WHERE status = 'scheduled'`,
	`CREATE INDEX IF NOT EXISTS idx_workflow_executions_claimed ON workflow_executions (updated_at) WHERE status = 'pending' AND scheduled_at IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_form_submissions_form_id ON form_submissions (form_id, created_at)`,
}

// TableNames lists every table in creation order
var TableNames = []string{
	"contacts",
	"contact_list_members",
	"email_templates",
	"forms",
	"form_submissions",
	"workflows",
	"workflow_executions",
	"workflow_trigger_claims",
}
