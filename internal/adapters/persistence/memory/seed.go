package memory

import "github.com/brchinacargo-glitch/BRCcSis/internal/domain"

// DemoUsers is the staff and sales roster loaded by Seed.
var DemoUsers = []domain.User{
	{ID: 1, Name: "Administrador", Email: "admin@brcargo.local", Role: domain.RoleAdministrator, Active: true},
	{ID: 2, Name: "Gerente Comercial", Email: "gerente@brcargo.local", Role: domain.RoleManager, Active: true},
	{ID: 3, Name: "Operador Rodoviário", Email: "operador1@brcargo.local", Role: domain.RoleOperator, Active: true},
	{ID: 4, Name: "Operador Marítimo", Email: "operador2@brcargo.local", Role: domain.RoleOperator, Active: true},
	{ID: 5, Name: "Consultor Sul", Email: "consultor1@brcargo.local", Role: domain.RoleConsultant, Active: true},
	{ID: 6, Name: "Consultor Norte", Email: "consultor2@brcargo.local", Role: domain.RoleConsultant, Active: true},
	{ID: 7, Name: "Operador Inativo", Email: "inativo@brcargo.local", Role: domain.RoleOperator, Active: false},
}

// DemoCompanies are the providers a quotation can be assigned to.
var DemoCompanies = []domain.Company{
	{ID: 10, LegalName: "BR Cargo Logística Ltda", TradeName: "BR Cargo", CNPJ: "11222333000181"},
	{ID: 11, LegalName: "China Cargo Transportes S.A.", TradeName: "China Cargo", CNPJ: "45997418000153"},
}

// Seed loads the demo roster so a local instance is usable without a database.
func Seed(s *Store) {
	for _, u := range DemoUsers {
		s.PutUser(u)
	}
	for _, c := range DemoCompanies {
		s.PutCompany(c)
	}
}
