package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// quotationColumns is shared by every SELECT and must match scanQuotation.
const quotationColumns = `id, numero_cotacao, status, modalidade, consultor_id, operador_id, empresa_prestadora_id,
	cliente_nome, cliente_cnpj, cliente_telefone, cliente_email,
	origem_cep, origem_endereco, origem_cidade, origem_estado,
	destino_cep, destino_endereco, destino_cidade, destino_estado,
	carga_descricao, carga_peso_kg, carga_comprimento_cm, carga_largura_cm, carga_altura_cm,
	carga_valor_mercadoria, carga_tipo_embalagem,
	prazo_servico, tipo_servico, observacoes_servico, data_coleta_preferida, instrucoes_manuseio,
	seguro_adicional, servicos_complementares,
	net_weight, gross_weight, cubagem, incoterm, tipo_carga_maritima, tamanho_container,
	quantidade_containers, porto_origem, porto_destino, numero_cliente, cliente_endereco, cliente_complemento,
	valor_frete, prazo_entrega, observacoes_resposta, observacoes_decisao, observacoes_finalizacao,
	created_at, updated_at, data_aceite, data_resposta, data_decisao, data_finalizacao`

func scanQuotation(row pgx.Row) (domain.Quotation, error) {
	var (
		q                domain.Quotation
		status, modality string
		freight          decimal.NullDecimal
		leadTime         *int32
		responseNotes    string
	)
	r, m := &q.Request, &q.Request.Maritime

	err := row.Scan(
		&q.ID, &q.Number, &status, &modality, &q.ConsultantID, &q.OperatorID, &q.ProviderCompanyID,
		&r.ClientName, &r.ClientCNPJ, &r.ClientPhone, &r.ClientEmail,
		&r.Origin.CEP, &r.Origin.Street, &r.Origin.City, &r.Origin.State,
		&r.Destination.CEP, &r.Destination.Street, &r.Destination.City, &r.Destination.State,
		&r.CargoDescription, &r.WeightKg, &r.LengthCm, &r.WidthCm, &r.HeightCm,
		&r.GoodsValue, &r.PackagingType,
		&r.ServiceDeadline, &r.ServiceType, &r.ServiceNotes, &r.PreferredPickupDate, &r.HandlingInstructions,
		&r.ExtraInsurance, &r.ComplementaryServices,
		&m.NetWeightKg, &m.GrossWeightKg, &m.CubicMeters, &m.Incoterm, &m.CargoType, &m.ContainerSize,
		&m.ContainerQuantity, &m.OriginPort, &m.DestinationPort, &m.ClientNumber, &m.ClientAddress, &m.ClientAddressExtra,
		&freight, &leadTime, &responseNotes, &q.DecisionNotes, &q.FinalNotes,
		&q.CreatedAt, &q.UpdatedAt, &q.AcceptedAt, &q.RespondedAt, &q.DecidedAt, &q.FinalizedAt,
	)
	if err != nil {
		return domain.Quotation{}, err
	}

	if q.Status, err = domain.ParseStatus(status); err != nil {
		return domain.Quotation{}, fmt.Errorf("quotation %d: %w", q.ID, err)
	}
	if r.Modality, err = domain.ParseModality(modality); err != nil {
		return domain.Quotation{}, fmt.Errorf("quotation %d: %w", q.ID, err)
	}

	if freight.Valid {
		q.Response = &domain.Response{FreightValue: freight.Decimal, Notes: responseNotes}
		if leadTime != nil {
			q.Response.LeadTimeDays = int(*leadTime)
		}
	}

	return q, nil
}

// mutableArgs returns the values of every column written by Insert and Update,
// in the order of mutableColumns.
func mutableArgs(q *domain.Quotation) []any {
	r, m := &q.Request, &q.Request.Maritime

	var (
		freight       decimal.NullDecimal
		leadTime      *int
		responseNotes string
	)
	if q.Response != nil {
		freight = decimal.NewNullDecimal(q.Response.FreightValue)
		leadTime = &q.Response.LeadTimeDays
		responseNotes = q.Response.Notes
	}

	return []any{
		q.Status.String(), r.Modality.String(), q.OperatorID, q.ProviderCompanyID,
		r.ClientName, r.ClientCNPJ, r.ClientPhone, r.ClientEmail,
		r.Origin.CEP, r.Origin.Street, r.Origin.City, r.Origin.State,
		r.Destination.CEP, r.Destination.Street, r.Destination.City, r.Destination.State,
		r.CargoDescription, r.WeightKg, r.LengthCm, r.WidthCm, r.HeightCm,
		r.GoodsValue, r.PackagingType,
		r.ServiceDeadline, r.ServiceType, r.ServiceNotes, r.PreferredPickupDate, r.HandlingInstructions,
		r.ExtraInsurance, r.ComplementaryServices,
		m.NetWeightKg, m.GrossWeightKg, m.CubicMeters, m.Incoterm, m.CargoType, m.ContainerSize,
		m.ContainerQuantity, m.OriginPort, m.DestinationPort, m.ClientNumber, m.ClientAddress, m.ClientAddressExtra,
		freight, leadTime, responseNotes, q.DecisionNotes, q.FinalNotes,
		q.UpdatedAt, q.AcceptedAt, q.RespondedAt, q.DecidedAt, q.FinalizedAt,
	}
}

var mutableColumns = []string{
	"status", "modalidade", "operador_id", "empresa_prestadora_id",
	"cliente_nome", "cliente_cnpj", "cliente_telefone", "cliente_email",
	"origem_cep", "origem_endereco", "origem_cidade", "origem_estado",
	"destino_cep", "destino_endereco", "destino_cidade", "destino_estado",
	"carga_descricao", "carga_peso_kg", "carga_comprimento_cm", "carga_largura_cm", "carga_altura_cm",
	"carga_valor_mercadoria", "carga_tipo_embalagem",
	"prazo_servico", "tipo_servico", "observacoes_servico", "data_coleta_preferida", "instrucoes_manuseio",
	"seguro_adicional", "servicos_complementares",
	"net_weight", "gross_weight", "cubagem", "incoterm", "tipo_carga_maritima", "tamanho_container",
	"quantidade_containers", "porto_origem", "porto_destino", "numero_cliente", "cliente_endereco", "cliente_complemento",
	"valor_frete", "prazo_entrega", "observacoes_resposta", "observacoes_decisao", "observacoes_finalizacao",
	"updated_at", "data_aceite", "data_resposta", "data_decisao", "data_finalizacao",
}

var (
	insertQuotationSQL = buildInsertQuotation()
	updateQuotationSQL = buildUpdateQuotation()
)

func buildInsertQuotation() string {
	cols := append([]string{"numero_cotacao", "consultor_id", "created_at"}, mutableColumns...)
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = "$" + strconv.Itoa(i+1)
	}

	return "INSERT INTO cotacoes (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.Join(marks, ", ") + ") RETURNING id"
}

func buildUpdateQuotation() string {
	sets := make([]string, len(mutableColumns))
	for i, c := range mutableColumns {
		sets[i] = c + " = $" + strconv.Itoa(i+2)
	}

	return "UPDATE cotacoes SET " + strings.Join(sets, ", ") + " WHERE id = $1"
}

// GetQuotation implements ports.QuotationReader.
func (s *Store) GetQuotation(ctx context.Context, id int64) (domain.Quotation, error) {
	q, err := scanQuotation(s.pool.QueryRow(ctx,
		`SELECT `+quotationColumns+` FROM cotacoes WHERE id = $1`, id))

	return q, mapError("get quotation", "quotation", id, err)
}

// ListQuotations implements ports.QuotationReader.
func (s *Store) ListQuotations(ctx context.Context, filter ports.QuotationFilter) (ports.QuotationPage, error) {
	filter = filter.Normalize()
	where, args := buildWhere(filter)

	page := ports.QuotationPage{
		Items:   []domain.Quotation{},
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}

	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM cotacoes`+where, args...).Scan(&page.Total); err != nil {
		return ports.QuotationPage{}, storageError("count quotations", err)
	}
	if page.Total == 0 {
		return page, nil
	}

	n := len(args)
	args = append(args, filter.PerPage, filter.Offset())
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM cotacoes%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		quotationColumns, where, n+1, n+2), args...)
	if err != nil {
		return ports.QuotationPage{}, storageError("list quotations", err)
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return ports.QuotationPage{}, storageError("scan quotation", err)
		}
		page.Items = append(page.Items, q)
	}
	if err := rows.Err(); err != nil {
		return ports.QuotationPage{}, storageError("list quotations", err)
	}

	return page, nil
}

// QuotationStats implements ports.QuotationReader.
func (s *Store) QuotationStats(ctx context.Context, filter ports.QuotationFilter) (ports.QuotationStats, error) {
	where, args := buildWhere(filter.Normalize())

	rows, err := s.pool.Query(ctx,
		`SELECT status, modalidade, count(*) FROM cotacoes`+where+` GROUP BY status, modalidade`, args...)
	if err != nil {
		return ports.QuotationStats{}, storageError("quotation stats", err)
	}
	defer rows.Close()

	stats := ports.QuotationStats{
		ByStatus:   make(map[domain.Status]int),
		ByModality: make(map[domain.Modality]int),
	}
	for rows.Next() {
		var (
			status, modality string
			n                int
		)
		if err := rows.Scan(&status, &modality, &n); err != nil {
			return ports.QuotationStats{}, storageError("scan stats", err)
		}

		st, err := domain.ParseStatus(status)
		if err != nil {
			return ports.QuotationStats{}, storageError("quotation stats", err)
		}
		mod, err := domain.ParseModality(modality)
		if err != nil {
			return ports.QuotationStats{}, storageError("quotation stats", err)
		}

		stats.Total += n
		stats.ByStatus[st] += n
		stats.ByModality[mod] += n
	}
	if err := rows.Err(); err != nil {
		return ports.QuotationStats{}, storageError("quotation stats", err)
	}

	return stats, nil
}

// buildWhere renders the filter as a WHERE clause with positional arguments.
// Pagination is not part of it.
func buildWhere(f ports.QuotationFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if len(f.Statuses) > 0 {
		texts := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			texts[i] = s.String()
		}
		add("status = ANY(?)", texts)
	}
	if f.Modality.Valid() {
		add("modalidade = ?", f.Modality.String())
	}
	if f.ConsultantID != nil {
		add("consultor_id = ?", *f.ConsultantID)
	}
	if f.OperatorID != nil {
		add("operador_id = ?", *f.OperatorID)
	}
	if f.AssignedOnly {
		conds = append(conds, "operador_id IS NOT NULL")
	}
	if f.CreatedFrom != nil {
		add("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		add("created_at <= ?", *f.CreatedTo)
	}
	if f.ClientCNPJ != "" {
		add("cliente_cnpj LIKE ?", "%"+f.ClientCNPJ+"%")
	}
	if f.ClientName != "" {
		add("cliente_nome ILIKE ?", likePattern(f.ClientName))
	}
	if f.OriginCity != "" {
		add("origem_cidade ILIKE ?", likePattern(f.OriginCity))
	}
	if f.DestinationCity != "" {
		add("destino_cidade ILIKE ?", likePattern(f.DestinationCity))
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

// quotationWriter is the transactional side.
type quotationWriter struct {
	tx querier
}

// GetForUpdate implements ports.QuotationRepository.
func (w quotationWriter) GetForUpdate(ctx context.Context, id int64) (domain.Quotation, error) {
	q, err := scanQuotation(w.tx.QueryRow(ctx,
		`SELECT `+quotationColumns+` FROM cotacoes WHERE id = $1 FOR UPDATE`, id))

	return q, mapError("lock quotation", "quotation", id, err)
}

// Insert implements ports.QuotationRepository. The yearly sequence row stays
// locked until the transaction ends, so numbers are assigned in commit order.
func (w quotationWriter) Insert(ctx context.Context, q *domain.Quotation) error {
	year := q.CreatedAt.Year()

	var seq int
	err := w.tx.QueryRow(ctx, `
		INSERT INTO cotacao_sequencias (ano, ultimo) VALUES ($1, 1)
		ON CONFLICT (ano) DO UPDATE SET ultimo = cotacao_sequencias.ultimo + 1
		RETURNING ultimo`, year).Scan(&seq)
	if err != nil {
		return storageError("next quotation number", err)
	}

	number := domain.FormatQuotationNumber(year, seq)
	args := append([]any{number, q.ConsultantID, q.CreatedAt}, mutableArgs(q)...)

	var id int64
	if err := w.tx.QueryRow(ctx, insertQuotationSQL, args...).Scan(&id); err != nil {
		return mapError("insert quotation", "quotation", number, err)
	}

	q.ID = id
	q.Number = number

	return nil
}

// Update implements ports.QuotationRepository.
func (w quotationWriter) Update(ctx context.Context, q domain.Quotation) error {
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = time.Now().UTC()
	}

	args := append([]any{q.ID}, mutableArgs(&q)...)
	tag, err := w.tx.Exec(ctx, updateQuotationSQL, args...)
	if err != nil {
		return mapError("update quotation", "quotation", q.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("quotation", strconv.FormatInt(q.ID, 10))
	}

	return nil
}
