package domain

import "strings"

// Role is the access tier of a user.
type Role string

// Known roles. Values match the persisted representation.
const (
	RoleAdministrator Role = "administrador"
	RoleManager       Role = "gerente"
	RoleOperator      Role = "operador"
	RoleConsultant    Role = "consultor"
)

// ParseRole normalizes a textual role. Unknown values return false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleAdministrator, RoleManager, RoleOperator, RoleConsultant:
		return r, true
	default:
		return "", false
	}
}

// IsPrivileged reports whether the role may act on any quotation regardless of ownership.
func (r Role) IsPrivileged() bool {
	return r == RoleAdministrator || r == RoleManager
}

// IsOperatorTier reports whether the role may be assigned as a quotation's operator.
func (r Role) IsOperatorTier() bool {
	return r == RoleOperator || r.IsPrivileged()
}

// Capability names a guarded operation.
type Capability string

// Capabilities known to the role policy.
const (
	CapManageUsers          Capability = "manage_users"
	CapCreateCompany        Capability = "create_company"
	CapEditCompany          Capability = "edit_company"
	CapDeleteCompany        Capability = "delete_company"
	CapViewCompany          Capability = "view_company"
	CapAccessAdministration Capability = "access_administration"
	CapExportData           Capability = "export_data"
	CapImportData           Capability = "import_data"
	CapImportExcel          Capability = "import_excel"
	CapCreateQuotation      Capability = "create_quotation"
	CapViewQuotations       Capability = "view_quotations"
	CapAcceptQuotation      Capability = "accept_quotation"
	CapRespondQuotation     Capability = "respond_quotation"
	CapFinalizeQuotation    Capability = "finalize_quotation"
	CapReassignQuotation    Capability = "reassign_quotation"
)

// Scope qualifies a granted capability.
type Scope int

const (
	// ScopeNone means the capability is not granted.
	ScopeNone Scope = iota
	// ScopeOwn grants the capability on records owned by the user only.
	ScopeOwn
	// ScopeAll grants the capability on every record.
	ScopeAll
)

type grant struct {
	role Role
	cap  Capability
}

// policy is built once and only read afterwards.
var policy = buildPolicy()

func buildPolicy() map[grant]Scope {
	all := []Role{RoleAdministrator, RoleManager, RoleOperator, RoleConsultant}
	staff := []Role{RoleAdministrator, RoleManager, RoleOperator}
	privileged := []Role{RoleAdministrator, RoleManager}

	table := map[Capability][]Role{
		CapManageUsers:          {RoleAdministrator},
		CapCreateCompany:        staff,
		CapEditCompany:          staff,
		CapDeleteCompany:        privileged,
		CapViewCompany:          all,
		CapAccessAdministration: privileged,
		CapExportData:           privileged,
		CapImportData:           privileged,
		CapImportExcel:          staff,
		CapCreateQuotation:      {RoleAdministrator, RoleManager, RoleConsultant},
		CapViewQuotations:       staff,
		CapAcceptQuotation:      staff,
		CapRespondQuotation:     staff,
		CapFinalizeQuotation:    staff,
		CapReassignQuotation:    privileged,
	}

	p := make(map[grant]Scope)
	for c, roles := range table {
		for _, r := range roles {
			p[grant{r, c}] = ScopeAll
		}
	}
	p[grant{RoleConsultant, CapViewQuotations}] = ScopeOwn

	return p
}

// ScopeOf returns the scope the role holds for the capability. Unknown pairs yield ScopeNone.
func ScopeOf(role Role, c Capability) Scope {
	return policy[grant{role, c}]
}

// Can reports whether the role holds the capability in any scope.
func Can(role Role, c Capability) bool {
	return ScopeOf(role, c) != ScopeNone
}

// Authorize checks an acting user against the policy. Inactive users are denied everything.
func Authorize(u User, c Capability) error {
	if !u.Active {
		return NewPermissionDeniedError(string(c), "user is inactive")
	}
	if !Can(u.Role, c) {
		return NewPermissionDeniedError(string(c), "role "+string(u.Role)+" lacks capability")
	}

	return nil
}
