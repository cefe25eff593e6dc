package database

import (
	"context"
	"database/sql"
)

// schemaStatements creates the two application tables when they do not
// exist yet. The unique key on users.username backs the duplicate-username
// check in the user repository; the owner_id index keeps ownership-scoped
// list queries cheap.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(64)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		first_name    VARCHAR(64)  NOT NULL,
		last_name     VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		role          VARCHAR(16)  NOT NULL DEFAULT 'user',
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS todos (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title       VARCHAR(255) NOT NULL,
		description VARCHAR(512) NOT NULL DEFAULT '',
		priority    TINYINT      NOT NULL DEFAULT 1,
		completed   TINYINT(1)   NOT NULL DEFAULT 0,
		owner_id    BIGINT UNSIGNED NOT NULL,
		created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_todos_owner (owner_id),
		CONSTRAINT fk_todos_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema runs the idempotent DDL statements at startup so a fresh
// database is usable without a separate migration step.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
