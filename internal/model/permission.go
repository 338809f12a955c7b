package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionClassLogsRead allows viewing imported class logs and import reports.
	PermissionClassLogsRead Permission = "class_logs:read"

	// PermissionClassLogsImport allows triggering an import run.
	PermissionClassLogsImport Permission = "class_logs:import"
)

// OperatorPermissions is granted to the configured operator account.
var OperatorPermissions = []string{
	string(PermissionClassLogsRead),
	string(PermissionClassLogsImport),
}
