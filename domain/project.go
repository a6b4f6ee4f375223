package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date encoding used by startDate,
// serverTime and paymentDate fields. Dates carry no timezone.
const DateLayout = "2006-01-02"

var dateLayouts = []string{DateLayout, "2006/01/02"}

// ParseDate parses a calendar-date string in local time.
// The boolean is false when the value does not parse.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a decimal-as-string payment amount. Malformed or empty
// values degrade to zero contribution rather than failing; the caller decides
// whether that is worth a data-quality warning.
func ParseAmount(value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// MaintenanceRecord is one billable event belonging to a project. Records are
// addressed by their position in the project's record array; a soft-deleted
// record keeps its slot so later indices stay valid.
type MaintenanceRecord struct {
	PaymentDate   string     `json:"paymentDate"`
	PaymentAmount string     `json:"paymentAmount"`
	IsPayment     bool       `json:"isPayment"`
	Details       string     `json:"Details"`
	IsDeleted     bool       `json:"isDeleted"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
}

// Validate checks the fields required before a record may be persisted.
// Amount strings are not required to be numeric here; malformed amounts
// degrade to zero in aggregates instead.
func (r MaintenanceRecord) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PaymentDate, validation.Required),
		validation.Field(&r.PaymentAmount, validation.Required),
	)
}

// Project is a tracked maintenance/hosting engagement with a unique external id.
type Project struct {
	ProjectID          string              `json:"projectId"`
	ProjectName        string              `json:"projectName"`
	StartDate          string              `json:"startDate"`
	MaintenanceDetails string              `json:"maintenanceDetails"`
	OpeningFee         string              `json:"openingFee"`
	IsOpeningFee       bool                `json:"isOpeningFee"`
	ServerTime         string              `json:"serverTime"`
	MaintenanceRecords []MaintenanceRecord `json:"maintenanceRecords"`
	IsDeleted          bool                `json:"isDeleted"`
	DeletedAt          *time.Time          `json:"deletedAt,omitempty"`
	CreatedAt          time.Time           `json:"createdAt,omitempty"`
	UpdatedAt          time.Time           `json:"updatedAt,omitempty"`
}

// Validate checks the fields required on project creation.
func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ProjectID, validation.Required),
		validation.Field(&p.ProjectName, validation.Required),
		validation.Field(&p.StartDate, validation.Required),
		validation.Field(&p.ServerTime, validation.Required),
	)
}

// Fees holds the derived fee aggregates of one project. The opening fee is
// tracked on the project itself and intentionally excluded here.
type Fees struct {
	TotalFee  decimal.Decimal `json:"totalFee"`
	UnpaidFee decimal.Decimal `json:"unpaidFee"`
}

// ComputeFees derives the fee aggregates from a record set. Soft-deleted
// records never contribute; unpaid is the subset of total with isPayment
// still false. Malformed amounts contribute zero.
func ComputeFees(records []MaintenanceRecord) Fees {
	fees := Fees{TotalFee: decimal.Zero, UnpaidFee: decimal.Zero}
	for _, record := range records {
		if record.IsDeleted {
			continue
		}
		amount, _ := ParseAmount(record.PaymentAmount)
		fees.TotalFee = fees.TotalFee.Add(amount)
		if !record.IsPayment {
			fees.UnpaidFee = fees.UnpaidFee.Add(amount)
		}
	}
	return fees
}

// Fees recomputes the project's derived aggregates on read.
func (p *Project) Fees() Fees {
	if p == nil {
		return Fees{TotalFee: decimal.Zero, UnpaidFee: decimal.Zero}
	}
	return ComputeFees(p.MaintenanceRecords)
}

// ActiveRecords returns the non-deleted records in insertion order.
func (p *Project) ActiveRecords() []MaintenanceRecord {
	return p.filterRecords(false)
}

// DeletedRecords returns the soft-deleted records in insertion order.
func (p *Project) DeletedRecords() []MaintenanceRecord {
	return p.filterRecords(true)
}

func (p *Project) filterRecords(deleted bool) []MaintenanceRecord {
	if p == nil {
		return nil
	}
	var out []MaintenanceRecord
	for _, record := range p.MaintenanceRecords {
		if record.IsDeleted == deleted {
			out = append(out, record)
		}
	}
	return out
}

// RecordPatch describes a partial update of a maintenance record. Nil fields
// are preserved in place.
type RecordPatch struct {
	PaymentDate   *string
	PaymentAmount *string
	IsPayment     *bool
	Details       *string
}

// Apply overlays the patch on a record, leaving soft-delete state untouched.
func (patch RecordPatch) Apply(record MaintenanceRecord) MaintenanceRecord {
	if patch.PaymentDate != nil {
		record.PaymentDate = *patch.PaymentDate
	}
	if patch.PaymentAmount != nil {
		record.PaymentAmount = *patch.PaymentAmount
	}
	if patch.IsPayment != nil {
		record.IsPayment = *patch.IsPayment
	}
	if patch.Details != nil {
		record.Details = *patch.Details
	}
	return record
}

// ProjectPatch describes a partial update of a project's mutable fields.
type ProjectPatch struct {
	ProjectName        *string
	StartDate          *string
	MaintenanceDetails *string
	OpeningFee         *string
	IsOpeningFee       *bool
	ServerTime         *string
}

// Apply overlays the patch on a project, leaving identity, records and
// soft-delete state untouched.
func (patch ProjectPatch) Apply(p Project) Project {
	if patch.ProjectName != nil {
		p.ProjectName = *patch.ProjectName
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.MaintenanceDetails != nil {
		p.MaintenanceDetails = *patch.MaintenanceDetails
	}
	if patch.OpeningFee != nil {
		p.OpeningFee = *patch.OpeningFee
	}
	if patch.IsOpeningFee != nil {
		p.IsOpeningFee = *patch.IsOpeningFee
	}
	if patch.ServerTime != nil {
		p.ServerTime = *patch.ServerTime
	}
	return p
}
