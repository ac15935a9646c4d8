// Package schema: safe database initialization — create only missing tables, never drop or overwrite.

package schema

import (
	"database/sql"
	"log"
)

// tableDefinitions lists every table in dependency order: directory tables
// first, then complaints, then child tables keyed by complaint_id.
var tableDefinitions = []struct {
	name string
	ddl  string
}{
	{"departments", `
CREATE TABLE IF NOT EXISTS departments (
    department_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"branches", `
CREATE TABLE IF NOT EXISTS branches (
    branch_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"handler_accounts", `
CREATE TABLE IF NOT EXISTS handler_accounts (
    account_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    employee_id BIGINT NOT NULL UNIQUE,
    full_name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    role ENUM('employee', 'handler', 'admin') NOT NULL DEFAULT 'employee',
    tier INT NOT NULL DEFAULT 1,
    department_id BIGINT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_tier (tier),
    FOREIGN KEY (department_id) REFERENCES departments(department_id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"complaints", `
CREATE TABLE IF NOT EXISTS complaints (
    complaint_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_number VARCHAR(50) NOT NULL UNIQUE,
    employee_id BIGINT NOT NULL,
    title VARCHAR(500) NOT NULL,
    description TEXT NOT NULL,
    categories TEXT NOT NULL,
    priority ENUM('low', 'medium', 'high', 'urgent', 'critical') NOT NULL DEFAULT 'medium',
    current_status ENUM('draft', 'submitted', 'under_review', 'investigating', 'pending_info', 'escalated', 'resolved', 'closed', 'rejected') NOT NULL DEFAULT 'draft',
    department_id BIGINT NULL,
    assigned_handler_id BIGINT NULL,
    incident_date TIMESTAMP NULL,
    incident_location VARCHAR(500) NULL,
    is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    is_confidential BOOLEAN NOT NULL DEFAULT FALSE,
    is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
    sla_hours INT NOT NULL DEFAULT 72,
    sla_breach_at TIMESTAMP NULL,
    is_escalated BOOLEAN NOT NULL DEFAULT FALSE,
    escalated_at TIMESTAMP NULL,
    current_escalation_level INT NOT NULL DEFAULT 0,
    submitted_at TIMESTAMP NULL,
    acknowledged_at TIMESTAMP NULL,
    resolved_at TIMESTAMP NULL,
    closed_at TIMESTAMP NULL,
    due_date TIMESTAMP NULL,
    follow_up_date TIMESTAMP NULL,
    deleted_at TIMESTAMP NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_employee_id (employee_id),
    INDEX idx_current_status (current_status),
    INDEX idx_due_date (due_date),
    FOREIGN KEY (department_id) REFERENCES departments(department_id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"complaint_status_history", `
CREATE TABLE IF NOT EXISTS complaint_status_history (
    history_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    from_status VARCHAR(50) NULL,
    to_status VARCHAR(50) NOT NULL,
    notes TEXT NULL,
    actor_type ENUM('employee', 'handler', 'admin', 'system') NOT NULL,
    actor_id BIGINT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_complaint_id (complaint_id),
    FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"complaint_subjects", `
CREATE TABLE IF NOT EXISTS complaint_subjects (
    subject_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    subject_kind ENUM('employee', 'department', 'branch', 'management', 'policy', 'workplace', 'other') NOT NULL,
    subject_ref_id BIGINT NULL,
    subject_name VARCHAR(255) NOT NULL,
    relationship VARCHAR(255) NULL,
    specific_issue TEXT NULL,
    is_primary BOOLEAN NOT NULL DEFAULT FALSE,
    desired_outcome TEXT NULL,
    witnesses TEXT NULL,
    prior_resolution_tried BOOLEAN NOT NULL DEFAULT FALSE,
    prior_resolution_note TEXT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_complaint_id (complaint_id),
    FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"complaint_comments", `
CREATE TABLE IF NOT EXISTS complaint_comments (
    comment_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    author_id BIGINT NOT NULL,
    body TEXT NOT NULL,
    visibility ENUM('internal', 'external') NOT NULL DEFAULT 'internal',
    is_private BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_complaint_id (complaint_id),
    FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"complaint_documents", `
CREATE TABLE IF NOT EXISTS complaint_documents (
    document_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    document_type ENUM('evidence', 'resolution', 'supporting', 'other') NOT NULL DEFAULT 'other',
    title VARCHAR(500) NOT NULL,
    description TEXT NULL,
    file_ref VARCHAR(255) NOT NULL,
    uploaded_by_id BIGINT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_complaint_id (complaint_id),
    FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"complaint_escalations", `
CREATE TABLE IF NOT EXISTS complaint_escalations (
    escalation_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    from_handler_id BIGINT NULL,
    escalated_to TEXT NOT NULL,
    escalation_level VARCHAR(10) NOT NULL,
    reason TEXT NOT NULL,
    escalated_by_type ENUM('employee', 'handler', 'admin', 'system') NOT NULL,
    escalated_by_id BIGINT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uq_complaint_level (complaint_id, escalation_level),
    FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"complaint_reminders", `
CREATE TABLE IF NOT EXISTS complaint_reminders (
    reminder_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL,
    kind ENUM('follow_up', 'due_soon', 'info_needed', 'custom') NOT NULL,
    remind_at TIMESTAMP NOT NULL,
    is_sent BOOLEAN NOT NULL DEFAULT FALSE,
    sent_at TIMESTAMP NULL,
    message TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_pending (is_sent, remind_at),
    FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},

	{"complaint_resolutions", `
CREATE TABLE IF NOT EXISTS complaint_resolutions (
    resolution_id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id BIGINT NOT NULL UNIQUE,
    summary TEXT NOT NULL,
    actions_taken TEXT NULL,
    preventive_measures TEXT NULL,
    satisfaction_rating INT NULL,
    feedback TEXT NULL,
    resolved_by_id BIGINT NOT NULL,
    resolved_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NULL ON UPDATE CURRENT_TIMESTAMP,
    FOREIGN KEY (complaint_id) REFERENCES complaints(complaint_id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// InitializeDatabase ensures all tables exist. Checks INFORMATION_SCHEMA.TABLES
// and creates only missing tables, in dependency order. Does not drop or
// recreate tables; does not remove data.
func InitializeDatabase(db *sql.DB) {
	for _, table := range tableDefinitions {
		exists, err := tableExists(db, table.name)
		if err != nil {
			log.Fatalf("[SCHEMA] Failed to check if table %s exists: %v", table.name, err)
		}
		if exists {
			continue
		}
		if _, err := db.Exec(table.ddl); err != nil {
			log.Fatalf("[SCHEMA] Failed to create table %s: %v", table.name, err)
		}
		log.Printf("[SCHEMA] Created table: %s", table.name)
	}
	log.Println("[SCHEMA] Schema check passed")
}

func tableExists(db *sql.DB, table string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`,
		table,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
