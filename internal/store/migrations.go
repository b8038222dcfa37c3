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

CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	fetched_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id            INTEGER PRIMARY KEY,
	project_id    TEXT NOT NULL,
	title         TEXT NOT NULL,
	description   TEXT,
	status        TEXT NOT NULL DEFAULT 'To Do',
	is_completed  INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	priority      TEXT NOT NULL DEFAULT 'Medium',
	due_date      TEXT,
	creator_id    TEXT,
	assignee_id   TEXT,
	assignee_name TEXT,
	created_at    TEXT NOT NULL DEFAULT '',
	position      INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_tasks_project_position ON tasks(project_id, position);

CREATE TABLE IF NOT EXISTS comments (
	id                INTEGER PRIMARY KEY,
	task_id           INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	comment_text      TEXT NOT NULL,
	user_name         TEXT,
	is_alert          INTEGER NOT NULL DEFAULT 0 CHECK(is_alert IN (0, 1)),
	media_attachments TEXT,
	created_at        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_comments_task_id ON comments(task_id);

CREATE TABLE IF NOT EXISTS sync_state (
	project_id  TEXT PRIMARY KEY,
	snapshot_id TEXT NOT NULL,
	task_count  INTEGER NOT NULL DEFAULT 0,
	fetched_at  DATETIME NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS invitations (
	token       TEXT PRIMARY KEY,
	email       TEXT NOT NULL DEFAULT '',
	project_id  TEXT NOT NULL DEFAULT '',
	role        TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'pending',
	invite_link TEXT NOT NULL DEFAULT '',
	message     TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL CHECK(source IN ('sent', 'inbox')),
	recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_invitations_recorded ON invitations(recorded_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
