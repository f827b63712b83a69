package sql

import (
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_run.sql
var RegisterRun string

//go:embed queries/lookup_run.sql
var LookupRun string

//go:embed queries/restart_run.sql
var RestartRun string

//go:embed queries/update_run_status.sql
var UpdateRunStatus string

//go:embed queries/finalize_run.sql
var FinalizeRun string

//go:embed queries/delete_batch_rows.sql
var DeleteBatchRows string

//go:embed queries/ensure_schema_migrations.sql
var EnsureSchemaMigrations string

//go:embed queries/list_migrations.sql
var ListMigrations string

//go:embed queries/record_migration.sql
var RecordMigration string
