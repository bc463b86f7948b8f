package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
	id              TEXT PRIMARY KEY,
	folder          TEXT NOT NULL DEFAULT '',
	subject         TEXT NOT NULL DEFAULT '',
	sender          TEXT NOT NULL DEFAULT '',
	sender_email    TEXT NOT NULL DEFAULT '',
	received        TEXT NOT NULL DEFAULT '',
	preview         TEXT NOT NULL DEFAULT '',
	is_read         INTEGER NOT NULL DEFAULT 0,
	has_attachments INTEGER NOT NULL DEFAULT 0,
	importance      TEXT NOT NULL DEFAULT 'normal',
	categories      TEXT NOT NULL DEFAULT '[]',
	fetched_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS folders (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	total_count  INTEGER NOT NULL DEFAULT 0,
	unread_count INTEGER NOT NULL DEFAULT 0,
	fetched_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS candidates (
	id                 INTEGER PRIMARY KEY,
	name               TEXT NOT NULL DEFAULT '',
	email              TEXT NOT NULL DEFAULT '',
	phone              TEXT NOT NULL DEFAULT '',
	location           TEXT NOT NULL DEFAULT '',
	titles             TEXT NOT NULL DEFAULT '[]',
	skills             TEXT NOT NULL DEFAULT '[]',
	years_exp          REAL NOT NULL DEFAULT 0,
	notes              TEXT NOT NULL DEFAULT '',
	tags               TEXT NOT NULL DEFAULT '[]',
	duplicate_group_id TEXT NOT NULL DEFAULT '',
	is_duplicate       INTEGER NOT NULL DEFAULT 0,
	source_email_uid   TEXT NOT NULL DEFAULT '',
	created_at         DATETIME NOT NULL,
	fetched_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_emails_folder ON emails(folder);
CREATE INDEX IF NOT EXISTS idx_emails_received ON emails(received);
CREATE INDEX IF NOT EXISTS idx_emails_sender_email ON emails(sender_email);
CREATE INDEX IF NOT EXISTS idx_candidates_name ON candidates(name);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_emails_folder_received
	ON emails(folder, received);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
