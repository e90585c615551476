package bank

import (
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

var (
	riskTypes            = []string{"Fraud", "Money Laundering", "Cyber Attack", "Regulatory"}
	riskActions          = []string{"Investigated", "Resolved", "Pending", "Escalated"}
	complianceStatuses   = []string{"Compliant", "Non-Compliant", "Under Review"}
	regulations          = []string{"IFRS", "FATCA", "CRS"}
	investigationResults = []string{"Cleared", "Investigating", "Escalated", "Not Applicable"}
)

type RiskAlerts struct{ base }

func NewRiskAlerts() *RiskAlerts {
	return &RiskAlerts{base{
		typ:   entity.RiskAlert,
		space: RiskAlertSpace,
		deps:  []entity.Type{entity.Customer},
		schema: entity.NewSchema(
			entity.ID("AlertID"),
			entity.FK("CustomerID", entity.Customer),
			entity.Enum("RiskType", riskTypes...),
			entity.Integer("RiskScore"),
			entity.Date("AlertDate"),
			entity.Enum("ActionTaken", riskActions...),
			entity.Enum("ComplianceStatus", complianceStatuses...),
		),
		volume: entity.Volume{Divisor: 10},
	}}
}

func (r *RiskAlerts) Synthesize(f *synth.Faker, ids entity.IDRange, pools entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		customer, err := pools.Pick(entity.Customer, f.Rand())
		if err != nil {
			return nil, err
		}
		return entity.Record{
			id,
			customer,
			f.Pick(riskTypes),
			itoa(f.IntRange(1, 100)),
			synth.FormatDate(f.DateWithinYears(3)),
			f.Pick(riskActions),
			f.Pick(complianceStatuses),
		}, nil
	})
}

// AMLRecords tracks anti money laundering reviews per customer.
type AMLRecords struct{ base }

func NewAMLRecords() *AMLRecords {
	return &AMLRecords{base{
		typ:   entity.AMLRecord,
		space: AMLRecordSpace,
		deps:  []entity.Type{entity.Customer},
		schema: entity.NewSchema(
			entity.ID("AMLRecordID"),
			entity.FK("CustomerID", entity.Customer),
			entity.Enum("Regulation", regulations...),
			entity.Enum("ComplianceStatus", complianceStatuses...),
			entity.Enum("InvestigationStatus", investigationResults...),
			entity.Integer("SuspicionScore"),
			entity.Bool("ReportFiled"),
			entity.Date("FilingDate"),
			entity.Bool("HighRiskJurisdiction"),
			entity.Bool("OffshoreAccountFlag"),
			entity.Text("Comments"),
			entity.Date("LastUpdated"),
		),
		volume: entity.Volume{Divisor: 20},
	}}
}

func (a *AMLRecords) Synthesize(f *synth.Faker, ids entity.IDRange, pools entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		customer, err := pools.Pick(entity.Customer, f.Rand())
		if err != nil {
			return nil, err
		}
		filed := f.Bool()
		filingDate := ""
		if filed {
			filingDate = synth.FormatDate(f.DateWithinYears(3))
		}
		return entity.Record{
			id,
			customer,
			f.Pick(regulations),
			f.Pick(complianceStatuses),
			f.Pick(investigationResults),
			itoa(f.IntRange(0, 100)),
			synth.FormatBool(filed),
			filingDate,
			synth.FormatBool(f.Bool()),
			synth.FormatBool(f.Bool()),
			f.Sentence(6),
			synth.FormatDate(f.DateWithinYears(1)),
		}, nil
	})
}
