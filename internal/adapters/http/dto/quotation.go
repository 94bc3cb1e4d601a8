package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// dateLayout is the layout of date-only query parameters.
const dateLayout = "2006-01-02"

// CreateQuotationRequest is the body of POST /quotations.
// Modality-specific requirements are checked by the domain, not by tags.
type CreateQuotationRequest struct {
	Modalidade string `json:"modalidade"`

	ClienteNome     string `json:"cliente_nome" validate:"required,notempty,max=200"`
	ClienteCNPJ     string `json:"cliente_cnpj" validate:"required,cnpj"`
	ClienteTelefone string `json:"cliente_telefone" validate:"max=30"`
	ClienteEmail    string `json:"cliente_email" validate:"omitempty,email"`

	OrigemCEP       string `json:"origem_cep" validate:"cep"`
	OrigemEndereco  string `json:"origem_endereco"`
	OrigemCidade    string `json:"origem_cidade"`
	OrigemEstado    string `json:"origem_estado" validate:"omitempty,len=2"`
	DestinoCEP      string `json:"destino_cep" validate:"cep"`
	DestinoEndereco string `json:"destino_endereco"`
	DestinoCidade   string `json:"destino_cidade"`
	DestinoEstado   string `json:"destino_estado" validate:"omitempty,len=2"`

	CargaDescricao       string              `json:"carga_descricao" validate:"required,notempty"`
	CargaPesoKg          decimal.Decimal     `json:"carga_peso_kg"`
	CargaComprimentoCm   decimal.NullDecimal `json:"carga_comprimento_cm"`
	CargaLarguraCm       decimal.NullDecimal `json:"carga_largura_cm"`
	CargaAlturaCm        decimal.NullDecimal `json:"carga_altura_cm"`
	CargaValorMercadoria decimal.NullDecimal `json:"carga_valor_mercadoria"`
	CargaTipoEmbalagem   string              `json:"carga_tipo_embalagem"`

	PrazoServico           string     `json:"prazo_servico"`
	TipoServico            string     `json:"tipo_servico"`
	ObservacoesServico     string     `json:"observacoes_servico"`
	DataColetaPreferida    *time.Time `json:"data_coleta_preferida"`
	InstrucoesManuseio     string     `json:"instrucoes_manuseio"`
	SeguroAdicional        bool       `json:"seguro_adicional"`
	ServicosComplementares string     `json:"servicos_complementares"`

	NetWeight            decimal.NullDecimal `json:"net_weight"`
	GrossWeight          decimal.NullDecimal `json:"gross_weight"`
	Cubagem              decimal.NullDecimal `json:"cubagem"`
	Incoterm             string              `json:"incoterm"`
	TipoCargaMaritima    string              `json:"tipo_carga_maritima"`
	TamanhoContainer     string              `json:"tamanho_container"`
	QuantidadeContainers int                 `json:"quantidade_containers" validate:"gte=0"`
	PortoOrigem          string              `json:"porto_origem"`
	PortoDestino         string              `json:"porto_destino"`
	NumeroCliente        string              `json:"numero_cliente"`
	ClienteEndereco      string              `json:"cliente_endereco"`
	ClienteComplemento   string              `json:"cliente_complemento"`
}

// Validate implements Validatable for the decimal fields tags cannot express.
func (r *CreateQuotationRequest) Validate() error {
	if !r.CargaPesoKg.IsPositive() {
		return domain.NewValidationErrorWithValue("carga_peso_kg", "must be greater than zero", r.CargaPesoKg.String())
	}
	if r.CargaValorMercadoria.Valid && r.CargaValorMercadoria.Decimal.IsNegative() {
		return domain.NewValidationError("carga_valor_mercadoria", "must not be negative")
	}

	return nil
}

// ToDomain converts the payload. Only the modality can fail here.
func (r *CreateQuotationRequest) ToDomain() (domain.Request, error) {
	modality, err := domain.ParseModality(r.Modalidade)
	if err != nil {
		return domain.Request{}, err
	}

	return domain.Request{
		Modality:    modality,
		ClientName:  r.ClienteNome,
		ClientCNPJ:  r.ClienteCNPJ,
		ClientPhone: r.ClienteTelefone,
		ClientEmail: r.ClienteEmail,
		Origin: domain.Address{
			CEP: r.OrigemCEP, Street: r.OrigemEndereco, City: r.OrigemCidade, State: r.OrigemEstado,
		},
		Destination: domain.Address{
			CEP: r.DestinoCEP, Street: r.DestinoEndereco, City: r.DestinoCidade, State: r.DestinoEstado,
		},
		CargoDescription:      r.CargaDescricao,
		WeightKg:              r.CargaPesoKg,
		LengthCm:              r.CargaComprimentoCm,
		WidthCm:               r.CargaLarguraCm,
		HeightCm:              r.CargaAlturaCm,
		GoodsValue:            r.CargaValorMercadoria,
		PackagingType:         r.CargaTipoEmbalagem,
		ServiceDeadline:       r.PrazoServico,
		ServiceType:           r.TipoServico,
		ServiceNotes:          r.ObservacoesServico,
		PreferredPickupDate:   r.DataColetaPreferida,
		HandlingInstructions:  r.InstrucoesManuseio,
		ExtraInsurance:        r.SeguroAdicional,
		ComplementaryServices: r.ServicosComplementares,
		Maritime: domain.MaritimeDetails{
			NetWeightKg:        r.NetWeight,
			GrossWeightKg:      r.GrossWeight,
			CubicMeters:        r.Cubagem,
			Incoterm:           r.Incoterm,
			CargoType:          r.TipoCargaMaritima,
			ContainerSize:      r.TamanhoContainer,
			ContainerQuantity:  r.QuantidadeContainers,
			OriginPort:         r.PortoOrigem,
			DestinationPort:    r.PortoDestino,
			ClientNumber:       r.NumeroCliente,
			ClientAddress:      r.ClienteEndereco,
			ClientAddressExtra: r.ClienteComplemento,
		},
	}, nil
}

// NotesRequest is the optional body of accept, decide and finalize actions.
type NotesRequest struct {
	Observacoes string `json:"observacoes" validate:"max=2000"`
}

// SendResponseRequest is the body of POST /quotations/:id/response.
// Terms are checked by the domain once the actor may respond at all.
type SendResponseRequest struct {
	EmpresaPrestadoraID int64           `json:"empresa_prestadora_id"`
	ValorFrete          decimal.Decimal `json:"valor_frete"`
	PrazoEntrega        int             `json:"prazo_entrega"`
	Observacoes         string          `json:"observacoes" validate:"max=2000"`
}

// ToDomain converts the payload.
func (r *SendResponseRequest) ToDomain() domain.SendResponse {
	return domain.SendResponse{
		ProviderCompanyID: r.EmpresaPrestadoraID,
		FreightValue:      r.ValorFrete,
		LeadTimeDays:      r.PrazoEntrega,
		Notes:             r.Observacoes,
	}
}

// ReassignRequest is the body of POST /quotations/:id/reassign.
type ReassignRequest struct {
	NovoOperadorID int64  `json:"novo_operador_id"`
	Observacoes    string `json:"observacoes" validate:"max=2000"`
}

// ToDomain converts the payload.
func (r *ReassignRequest) ToDomain() domain.Reassign {
	return domain.Reassign{OperatorID: r.NovoOperadorID, Notes: r.Observacoes}
}

// ListQuery is the query string accepted by every listing endpoint.
type ListQuery struct {
	PageRequest

	Status        []string `form:"status"`
	Modalidade    string   `form:"modalidade"`
	ClienteNome   string   `form:"cliente_nome" validate:"max=200"`
	ClienteCNPJ   string   `form:"cliente_cnpj"`
	OrigemCidade  string   `form:"origem_cidade"`
	DestinoCidade string   `form:"destino_cidade"`
	DataInicio    string   `form:"data_inicio"`
	DataFim       string   `form:"data_fim"`
	ConsultorID   *int64   `form:"consultor_id" validate:"omitempty,gt=0"`
	OperadorID    *int64   `form:"operador_id" validate:"omitempty,gt=0"`
}

// ToFilter converts the query. Status may repeat or be comma separated.
// data_fim is inclusive of the whole day.
func (q *ListQuery) ToFilter() (ports.QuotationFilter, error) {
	f := ports.QuotationFilter{
		ClientName:      strings.TrimSpace(q.ClienteNome),
		ClientCNPJ:      q.ClienteCNPJ,
		OriginCity:      strings.TrimSpace(q.OrigemCidade),
		DestinationCity: strings.TrimSpace(q.DestinoCidade),
		ConsultantID:    q.ConsultorID,
		OperatorID:      q.OperadorID,
		Page:            q.Page,
		PerPage:         q.PerPage,
	}

	for _, raw := range q.Status {
		for part := range strings.SplitSeq(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			st, err := domain.ParseStatus(part)
			if err != nil {
				return ports.QuotationFilter{}, err
			}
			f.Statuses = append(f.Statuses, st)
		}
	}

	if q.Modalidade != "" {
		m, err := domain.ParseModality(q.Modalidade)
		if err != nil {
			return ports.QuotationFilter{}, err
		}
		f.Modality = m
	}

	if q.DataInicio != "" {
		from, err := time.Parse(dateLayout, q.DataInicio)
		if err != nil {
			return ports.QuotationFilter{}, domain.NewValidationErrorWithValue("data_inicio", "must be YYYY-MM-DD", q.DataInicio)
		}
		f.CreatedFrom = &from
	}
	if q.DataFim != "" {
		to, err := time.Parse(dateLayout, q.DataFim)
		if err != nil {
			return ports.QuotationFilter{}, domain.NewValidationErrorWithValue("data_fim", "must be YYYY-MM-DD", q.DataFim)
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		f.CreatedTo = &end
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedTo.Before(*f.CreatedFrom) {
		return ports.QuotationFilter{}, domain.NewValidationError("data_fim", "must not precede data_inicio")
	}

	return f.Normalize(), nil
}

// AddressResponse is one end of a road or air quotation.
type AddressResponse struct {
	CEP      string `json:"cep"`
	Endereco string `json:"endereco"`
	Cidade   string `json:"cidade"`
	Estado   string `json:"estado"`
}

// MaritimeResponse holds the maritime-only fields.
type MaritimeResponse struct {
	NetWeight            *decimal.Decimal `json:"net_weight,omitempty"`
	GrossWeight          *decimal.Decimal `json:"gross_weight,omitempty"`
	Cubagem              *decimal.Decimal `json:"cubagem,omitempty"`
	Incoterm             string           `json:"incoterm,omitempty"`
	TipoCarga            string           `json:"tipo_carga,omitempty"`
	TamanhoContainer     string           `json:"tamanho_container,omitempty"`
	QuantidadeContainers int              `json:"quantidade_containers,omitempty"`
	PortoOrigem          string           `json:"porto_origem,omitempty"`
	PortoDestino         string           `json:"porto_destino,omitempty"`
	NumeroCliente        string           `json:"numero_cliente,omitempty"`
	ClienteEndereco      string           `json:"cliente_endereco,omitempty"`
	ClienteComplemento   string           `json:"cliente_complemento,omitempty"`
}

// ResponseDetails is the operator's answer.
type ResponseDetails struct {
	ValorFrete   decimal.Decimal `json:"valor_frete"`
	PrazoEntrega int             `json:"prazo_entrega"`
	Observacoes  string          `json:"observacoes,omitempty"`
}

// QuotationResponse is the public representation of a quotation.
type QuotationResponse struct {
	ID                  int64  `json:"id"`
	NumeroCotacao       string `json:"numero_cotacao"`
	Status              string `json:"status"`
	Modalidade          string `json:"modalidade"`
	ConsultorID         int64  `json:"consultor_id"`
	OperadorID          *int64 `json:"operador_id"`
	EmpresaPrestadoraID *int64 `json:"empresa_prestadora_id"`

	ClienteNome     string `json:"cliente_nome"`
	ClienteCNPJ     string `json:"cliente_cnpj"`
	ClienteTelefone string `json:"cliente_telefone,omitempty"`
	ClienteEmail    string `json:"cliente_email,omitempty"`

	Origem   *AddressResponse  `json:"origem,omitempty"`
	Destino  *AddressResponse  `json:"destino,omitempty"`
	Maritimo *MaritimeResponse `json:"maritimo,omitempty"`

	CargaDescricao       string           `json:"carga_descricao"`
	CargaPesoKg          decimal.Decimal  `json:"carga_peso_kg"`
	CargaComprimentoCm   *decimal.Decimal `json:"carga_comprimento_cm,omitempty"`
	CargaLarguraCm       *decimal.Decimal `json:"carga_largura_cm,omitempty"`
	CargaAlturaCm        *decimal.Decimal `json:"carga_altura_cm,omitempty"`
	CargaValorMercadoria *decimal.Decimal `json:"carga_valor_mercadoria,omitempty"`
	CargaTipoEmbalagem   string           `json:"carga_tipo_embalagem,omitempty"`

	PrazoServico           string     `json:"prazo_servico,omitempty"`
	TipoServico            string     `json:"tipo_servico,omitempty"`
	ObservacoesServico     string     `json:"observacoes_servico,omitempty"`
	DataColetaPreferida    *time.Time `json:"data_coleta_preferida,omitempty"`
	InstrucoesManuseio     string     `json:"instrucoes_manuseio,omitempty"`
	SeguroAdicional        bool       `json:"seguro_adicional"`
	ServicosComplementares string     `json:"servicos_complementares,omitempty"`

	Resposta               *ResponseDetails `json:"resposta,omitempty"`
	ObservacoesDecisao     string           `json:"observacoes_decisao,omitempty"`
	ObservacoesFinalizacao string           `json:"observacoes_finalizacao,omitempty"`

	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DataAceite      *time.Time `json:"data_aceite,omitempty"`
	DataResposta    *time.Time `json:"data_resposta,omitempty"`
	DataDecisao     *time.Time `json:"data_decisao,omitempty"`
	DataFinalizacao *time.Time `json:"data_finalizacao,omitempty"`
}

// NewQuotationResponse renders q. Maritime quotations expose port fields instead of addresses.
func NewQuotationResponse(q *domain.Quotation) QuotationResponse {
	r := q.Request
	resp := QuotationResponse{
		ID:                     q.ID,
		NumeroCotacao:          q.Number,
		Status:                 q.Status.String(),
		Modalidade:             r.Modality.String(),
		ConsultorID:            q.ConsultantID,
		OperadorID:             q.OperatorID,
		EmpresaPrestadoraID:    q.ProviderCompanyID,
		ClienteNome:            r.ClientName,
		ClienteCNPJ:            r.ClientCNPJ,
		ClienteTelefone:        r.ClientPhone,
		ClienteEmail:           r.ClientEmail,
		CargaDescricao:         r.CargoDescription,
		CargaPesoKg:            r.WeightKg,
		CargaComprimentoCm:     nullable(r.LengthCm),
		CargaLarguraCm:         nullable(r.WidthCm),
		CargaAlturaCm:          nullable(r.HeightCm),
		CargaValorMercadoria:   nullable(r.GoodsValue),
		CargaTipoEmbalagem:     r.PackagingType,
		PrazoServico:           r.ServiceDeadline,
		TipoServico:            r.ServiceType,
		ObservacoesServico:     r.ServiceNotes,
		DataColetaPreferida:    r.PreferredPickupDate,
		InstrucoesManuseio:     r.HandlingInstructions,
		SeguroAdicional:        r.ExtraInsurance,
		ServicosComplementares: r.ComplementaryServices,
		ObservacoesDecisao:     q.DecisionNotes,
		ObservacoesFinalizacao: q.FinalNotes,
		CreatedAt:              q.CreatedAt,
		UpdatedAt:              q.UpdatedAt,
		DataAceite:             q.AcceptedAt,
		DataResposta:           q.RespondedAt,
		DataDecisao:            q.DecidedAt,
		DataFinalizacao:        q.FinalizedAt,
	}

	if r.Modality.IsMaritime() {
		m := r.Maritime
		resp.Maritimo = &MaritimeResponse{
			NetWeight:            nullable(m.NetWeightKg),
			GrossWeight:          nullable(m.GrossWeightKg),
			Cubagem:              nullable(m.CubicMeters),
			Incoterm:             m.Incoterm,
			TipoCarga:            m.CargoType,
			TamanhoContainer:     m.ContainerSize,
			QuantidadeContainers: m.ContainerQuantity,
			PortoOrigem:          m.OriginPort,
			PortoDestino:         m.DestinationPort,
			NumeroCliente:        m.ClientNumber,
			ClienteEndereco:      m.ClientAddress,
			ClienteComplemento:   m.ClientAddressExtra,
		}
	} else {
		resp.Origem = newAddressResponse(r.Origin)
		resp.Destino = newAddressResponse(r.Destination)
	}

	if q.Response != nil {
		resp.Resposta = &ResponseDetails{
			ValorFrete:   q.Response.FreightValue,
			PrazoEntrega: q.Response.LeadTimeDays,
			Observacoes:  q.Response.Notes,
		}
	}

	return resp
}

func newAddressResponse(a domain.Address) *AddressResponse {
	return &AddressResponse{CEP: a.CEP, Endereco: a.Street, Cidade: a.City, Estado: a.State}
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

// HistoryEntryResponse is one ledger row.
type HistoryEntryResponse struct {
	ID             int64     `json:"id"`
	UsuarioID      int64     `json:"usuario_id"`
	StatusAnterior *string   `json:"status_anterior"`
	StatusNovo     string    `json:"status_novo"`
	Observacoes    string    `json:"observacoes"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewHistoryEntryResponse renders e. The creation entry has a null previous status.
func NewHistoryEntryResponse(e *domain.HistoryEntry) HistoryEntryResponse {
	resp := HistoryEntryResponse{
		ID:          e.ID,
		UsuarioID:   e.ActorID,
		StatusNovo:  e.ToStatus.String(),
		Observacoes: e.Notes,
		CreatedAt:   e.CreatedAt,
	}
	if e.FromStatus != nil {
		from := e.FromStatus.String()
		resp.StatusAnterior = &from
	}

	return resp
}

// StatsResponse counts quotations by status and modality. Every known key is present.
type StatsResponse struct {
	Total         int            `json:"total"`
	PorStatus     map[string]int `json:"por_status"`
	PorModalidade map[string]int `json:"por_modalidade"`
}

// NewStatsResponse renders s with zero counts filled in.
func NewStatsResponse(s ports.QuotationStats) StatsResponse {
	resp := StatsResponse{
		Total:         s.Total,
		PorStatus:     make(map[string]int, len(domain.Statuses())),
		PorModalidade: make(map[string]int, len(domain.Modalities())),
	}
	for _, st := range domain.Statuses() {
		resp.PorStatus[st.String()] = s.ByStatus[st]
	}
	for _, m := range domain.Modalities() {
		resp.PorModalidade[m.String()] = s.ByModality[m]
	}

	return resp
}
