// Package query builds the SQL statements shared by the PostgreSQL and
// SQLite gateways. Both dialects run the same statements; only the
// placeholder format and the time representation in the arguments differ.
package query

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	TableSoftware = "software"
	TableActivity = "activity_log"
	TableComment  = "comment"
	TableSummary  = "summary"

	columnID         = "id"
	columnSoftwareID = "software_id"
	columnCreatedAt  = "created_at"
)

var (
	// Postgres numbers placeholders ($1, $2, ...).
	Postgres = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	// SQLite uses positional question marks.
	SQLite = sq.StatementBuilder.PlaceholderFormat(sq.Question)
)

var (
	softwareColumns = []string{"id", "name", "version", "developer", "stack", "description", "created_at"}
	activityColumns = []string{"id", "software_id", "action_type", "description", "created_at"}
	commentColumns  = []string{"id", "software_id", "comment", "author", "created_at"}
	summaryColumns  = []string{"id", "software_id", "summary", "next_steps", "deadline", "updated_at"}
)

// InsertSoftware inserts one project. values follow SoftwareColumns.
func InsertSoftware(b sq.StatementBuilderType, values ...any) sq.InsertBuilder {
	return b.Insert(TableSoftware).Columns(softwareColumns...).Values(values...)
}

// SelectSoftware lists projects, newest first.
func SelectSoftware(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select(softwareColumns...).From(TableSoftware).
		OrderBy(columnCreatedAt+" DESC", columnID+" DESC")
}

// SoftwareByID selects one project.
func SoftwareByID(b sq.StatementBuilderType, id any) sq.SelectBuilder {
	return b.Select(softwareColumns...).From(TableSoftware).Where(sq.Eq{columnID: id})
}

// DeleteSoftware removes the project row itself.
func DeleteSoftware(b sq.StatementBuilderType, id any) sq.DeleteBuilder {
	return b.Delete(TableSoftware).Where(sq.Eq{columnID: id})
}

// DeleteBySoftware removes every row of a dependent table owned by a project.
func DeleteBySoftware(b sq.StatementBuilderType, table string, softwareID any) sq.DeleteBuilder {
	return b.Delete(table).Where(sq.Eq{columnSoftwareID: softwareID})
}

// InsertActivity appends one ledger entry. values follow
// id, software_id, action_type, description, created_at.
func InsertActivity(b sq.StatementBuilderType, values ...any) sq.InsertBuilder {
	return b.Insert(TableActivity).Columns(activityColumns...).Values(values...)
}

// RecentActivity selects the newest entries across all projects joined with
// the owning project's name. Rows scan as the activity columns followed by
// the software name.
func RecentActivity(b sq.StatementBuilderType, limit uint64) sq.SelectBuilder {
	return b.Select(prefixed("a", activityColumns)...).Column("s.name").
		From(TableActivity + " a").
		Join(TableSoftware + " s ON s.id = a.software_id").
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(limit)
}

// InsertComment stores one review. values follow
// id, software_id, comment, author, created_at.
func InsertComment(b sq.StatementBuilderType, values ...any) sq.InsertBuilder {
	return b.Insert(TableComment).Columns(commentColumns...).Values(values...)
}

// CommentsForSoftware selects a project's reviews, newest first, joined with
// the project name.
func CommentsForSoftware(b sq.StatementBuilderType, softwareID any) sq.SelectBuilder {
	return b.Select(prefixed("c", commentColumns)...).Column("s.name").
		From(TableComment + " c").
		Join(TableSoftware + " s ON s.id = c.software_id").
		Where(sq.Eq{"c.software_id": softwareID}).
		OrderBy("c.created_at DESC", "c.id DESC")
}

// SummaryForSoftware selects the summary of a project, if any.
func SummaryForSoftware(b sq.StatementBuilderType, softwareID any) sq.SelectBuilder {
	return b.Select(summaryColumns...).From(TableSummary).Where(sq.Eq{columnSoftwareID: softwareID})
}

// UpsertSummary inserts the first summary of a project or replaces the
// content of the existing one in a single statement. The row id and owner
// are never rewritten. values follow
// id, software_id, summary, next_steps, deadline, updated_at.
func UpsertSummary(b sq.StatementBuilderType, values ...any) sq.InsertBuilder {
	return b.Insert(TableSummary).Columns(summaryColumns...).Values(values...).
		Suffix(`ON CONFLICT (software_id) DO UPDATE SET
			summary = excluded.summary,
			next_steps = excluded.next_steps,
			deadline = excluded.deadline,
			updated_at = excluded.updated_at
		RETURNING id, software_id, summary, next_steps, deadline, updated_at`)
}

// Helper functions

func prefixed(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
