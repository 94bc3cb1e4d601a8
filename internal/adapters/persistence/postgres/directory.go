package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

// GetUser implements ports.UserDirectory.
func (s *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT id, nome_completo, email, tipo_usuario, ativo FROM usuarios WHERE id = $1`, id))

	return u, mapError("get user", "user", id, err)
}

// ListActiveUsers implements ports.UserDirectory.
func (s *Store) ListActiveUsers(ctx context.Context, roles ...domain.Role) ([]domain.User, error) {
	texts := make([]string, len(roles))
	for i, r := range roles {
		texts[i] = string(r)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, nome_completo, email, tipo_usuario, ativo
		FROM usuarios
		WHERE ativo AND tipo_usuario = ANY($1)
		ORDER BY nome_completo, id`, texts)
	if err != nil {
		return nil, storageError("list users", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, storageError("list users", err)
	}

	return users, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.Active); err != nil {
		return domain.User{}, err
	}

	r, ok := domain.ParseRole(role)
	if !ok {
		return domain.User{}, fmt.Errorf("user %d: unknown role %q", u.ID, role)
	}
	u.Role = r

	return u, nil
}

// GetCompany implements ports.CompanyDirectory.
func (s *Store) GetCompany(ctx context.Context, id int64) (domain.Company, error) {
	var c domain.Company
	err := s.pool.QueryRow(ctx,
		`SELECT id, razao_social, nome_fantasia, cnpj FROM empresas WHERE id = $1`, id,
	).Scan(&c.ID, &c.LegalName, &c.TradeName, &c.CNPJ)

	return c, mapError("get company", "company", id, err)
}
