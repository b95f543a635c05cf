package ingest

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agency-intel/internal/table"
)

// Role classifies a source file by what facts it contributes.
type Role string

const (
	RoleCoverage  Role = "coverage"
	RoleRateCard  Role = "rate_card"
	RoleScorecard Role = "scorecard"
)

// ErrNoInput is returned when the pipeline is invoked with no source files.
var ErrNoInput = eris.New("ingest: no input files supplied")

// MissingColumnsError is the user-facing halt for a source that matched a
// role but lacks that role's required columns.
type MissingColumnsError struct {
	Path    string
	Role    Role
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s file is missing required columns: %s",
		e.Path, e.Role, strings.Join(e.Columns, ", "))
}

// requiredRoles must each be represented among the loaded sources for a
// reconciliation run to proceed. Scorecards only enrich, so they stay
// optional.
var requiredRoles = []Role{RoleCoverage, RoleRateCard}

// MissingRolesError is the user-facing halt for an upload set with no file
// of a required role.
type MissingRolesError struct {
	Roles []Role
}

func (e *MissingRolesError) Error() string {
	names := make([]string, len(e.Roles))
	for i, r := range e.Roles {
		names[i] = string(r)
	}
	return fmt.Sprintf("missing required source files: %s", strings.Join(names, ", "))
}

// RequireRoles verifies every required role is represented among the
// sources, returning the error enumerating absent roles.
func RequireRoles(sources []Source) error {
	present := make(map[Role]bool, len(sources))
	for _, s := range sources {
		present[s.Role] = true
	}
	var missing []Role
	for _, r := range requiredRoles {
		if !present[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return &MissingRolesError{Roles: missing}
	}
	return nil
}

// scorecardSignals are the columns any one of which marks a scorecard.
var scorecardSignals = []string{"fulfilled_val", "shifts_requested", "shifts_filled"}

// DetectRole infers a standardized table's role from its headers. Rules are
// checked in order and the first match wins; a file satisfying several
// signatures keeps the earliest role. Priority: coverage, rate card,
// scorecard.
func DetectRole(t *table.Table) (Role, bool) {
	if t.HasColumn("supply_capability") || t.HasColumn("role_category") {
		return RoleCoverage, true
	}
	if t.HasColumn("agency_margin") {
		return RoleRateCard, true
	}
	for _, c := range scorecardSignals {
		if t.HasColumn(c) {
			return RoleScorecard, true
		}
	}
	return "", false
}

// requiredColumns lists the columns a role must carry after standardization.
// Scorecard signal columns are checked by DetectRole, so only the join
// dimensions are listed here.
var requiredColumns = map[Role][]string{
	RoleCoverage:  {"agency_name", "city"},
	RoleRateCard:  {"agency_name", "city", "agency_margin"},
	RoleScorecard: {"agency_name", "city"},
}

// validateColumns returns the user-facing error enumerating every required
// column the table lacks, or nil.
func validateColumns(path string, role Role, t *table.Table) error {
	var missing []string
	for _, c := range requiredColumns[role] {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Path: path, Role: role, Columns: missing}
	}
	return nil
}
