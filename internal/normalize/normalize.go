// Package normalize converts raw string-keyed rows into typed activity
// records. Source sheets mix per-call detail rows and KPI summary rows under
// the same headers; the two are told apart only by which optional columns
// are populated, and that rule is reproduced here exactly.
package normalize

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/salesdash/internal/model"
	"github.com/sells-group/salesdash/internal/parse"
	"github.com/sells-group/salesdash/internal/roster"
)

// Field is a logical column of an activity record.
type Field string

const (
	FieldCallName      Field = "call_name"      // call identity: present only on detail rows
	FieldAggregateName Field = "aggregate_name" // summary identity: "TOTAL" / role-summary column
	FieldProspector    Field = "prospector"
	FieldCloser        Field = "closer"
	FieldScheduledAt   Field = "scheduled_at"
	FieldRealizedAt    Field = "realized_at"
	FieldQualified     Field = "qualified"
	FieldDealStatus    Field = "deal_status"
	FieldContractValue Field = "contract_value"
	FieldSigned        Field = "signed"
	FieldPaid          Field = "paid"
	FieldOrigin        Field = "origin"
)

// DefaultAliases maps each logical field to the header spellings observed in
// real sheets. Matching is case- and accent-insensitive.
func DefaultAliases() map[Field][]string {
	return map[Field][]string{
		FieldCallName:      {"call", "call name", "nome da call", "lead", "nome do lead"},
		FieldAggregateName: {"total", "resumo", "kpi", "role summary"},
		FieldProspector:    {"sdr", "sdrs", "prospector", "prospector name", "agendado por"},
		FieldCloser:        {"closer", "closers", "fechado por", "closed by"},
		FieldScheduledAt:   {"data", "data agendada", "scheduled", "scheduled at", "agendamento"},
		FieldRealizedAt:    {"data realizada", "realized", "realized at", "realizacao"},
		FieldQualified:     {"qualificada", "qualificado", "qualified", "mql"},
		FieldDealStatus:    {"status", "status do deal", "deal status", "resultado"},
		FieldContractValue: {"valor", "valor do contrato", "contract value", "ticket"},
		FieldSigned:        {"assinado", "signed", "contrato assinado"},
		FieldPaid:          {"pago", "paid", "pagamento"},
		FieldOrigin:        {"origem", "origin", "fonte", "source"},
	}
}

// noShowMarkers are the sentinel strings the source writes into the closer
// column to flag a call that never happened. The encoding conflates "who
// closed" with "whether it happened"; it is unwound here at the boundary so
// calculators see a clean boolean and an empty closer name.
var noShowMarkers = map[string]bool{
	"no show":        true,
	"no-show":        true,
	"noshow":         true,
	"nao compareceu": true,
}

// Normalizer turns raw rows into activity records.
type Normalizer struct {
	byHeader map[string]Field
	source   string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSource tags every produced record with a source label.
func WithSource(source string) Option {
	return func(n *Normalizer) { n.source = source }
}

// New builds a Normalizer from a field-alias table. Pass DefaultAliases()
// unless the sheet uses custom headers.
func New(aliases map[Field][]string, opts ...Option) *Normalizer {
	n := &Normalizer{byHeader: make(map[string]Field)}
	for field, names := range aliases {
		for _, name := range names {
			n.byHeader[roster.Fold(name)] = field
		}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Record normalizes one raw row. It returns ok=false when the row is a KPI
// summary row rather than an individual call: an aggregate-identity column
// is populated but the call-identity column is empty.
func (n *Normalizer) Record(row map[string]string) (model.ActivityRecord, bool) {
	values := n.resolve(row)

	if values[FieldAggregateName] != "" && values[FieldCallName] == "" {
		return model.ActivityRecord{}, false
	}

	rec := model.ActivityRecord{
		ID:             uuid.New().String(),
		ProspectorName: values[FieldProspector],
		ScheduledAt:    n.date(values, FieldScheduledAt, row),
		RealizedAt:     n.date(values, FieldRealizedAt, row),
		Qualified:      parseQualified(values[FieldQualified]),
		DealStatus:     parseDealStatus(values[FieldDealStatus]),
		ContractValue:  parse.Currency(values[FieldContractValue]),
		Signed:         parseBool(values[FieldSigned]),
		Paid:           parseBool(values[FieldPaid]),
		Origin:         parseOrigin(values[FieldOrigin]),
		Source:         n.source,
	}
	if rec.ContractValue < 0 {
		rec.ContractValue = 0
	}

	closer := values[FieldCloser]
	if noShowMarkers[roster.Fold(closer)] {
		rec.NoShow = true
	} else {
		rec.CloserName = closer
	}

	return rec, true
}

// resolve maps the row's raw headers onto logical fields, trimming values.
// Unrecognized headers are ignored.
func (n *Normalizer) resolve(row map[string]string) map[Field]string {
	values := make(map[Field]string, len(row))
	for header, value := range row {
		field, ok := n.byHeader[roster.Fold(header)]
		if !ok {
			continue
		}
		v := strings.TrimSpace(value)
		if v != "" {
			values[field] = v
		}
	}
	return values
}

func (n *Normalizer) date(values map[Field]string, field Field, row map[string]string) *time.Time {
	raw := values[field]
	if raw == "" {
		return nil
	}
	t := parse.FlexibleDate(raw)
	if t == nil {
		zap.L().Debug("unparsable date cell",
			zap.String("field", string(field)),
			zap.String("value", raw),
			zap.String("source", n.source),
		)
	}
	return t
}

func parseQualified(s string) model.Qualified {
	switch roster.Fold(s) {
	case "sim", "yes", "true", "1", "qualificada", "qualificado", "mql":
		return model.QualifiedYes
	case "nao", "no", "false", "0":
		return model.QualifiedNo
	default:
		return model.QualifiedUnknown
	}
}

func parseDealStatus(s string) model.DealStatus {
	switch roster.Fold(s) {
	case "ganho", "won", "fechado", "vendido":
		return model.DealWon
	case "perdido", "lost":
		return model.DealLost
	default:
		return model.DealOpen
	}
}

func parseBool(s string) bool {
	switch roster.Fold(s) {
	case "sim", "yes", "true", "1", "x", "ok":
		return true
	default:
		return false
	}
}

func parseOrigin(s string) model.Origin {
	switch roster.Fold(s) {
	case "outbound", "ativo":
		return model.OriginOutbound
	case "indicacao", "referral":
		return model.OriginReferral
	default:
		return model.OriginInbound
	}
}
