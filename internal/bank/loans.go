package bank

import (
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

var (
	loanTypes       = []string{"Personal", "Mortgage", "Auto", "Business"}
	loanTerms       = []int{5, 10, 15, 20, 25, 30}
	loanStatuses    = []string{"Active", "Closed", "Default"}
	collateralTypes = []string{"Property", "Vehicle", "Equipment", "None"}
	loanPurposes    = []string{
		"Home Improvement", "Debt Consolidation", "Business Expansion",
		"Car Purchase", "Education", "Medical", "Vacation",
	}
	loanSubTypes = map[string][]string{
		"Mortgage": {"Fixed", "Adjustable"},
		"Personal": {"Secured", "Unsecured"},
		"Auto":     {"New", "Used"},
		"Business": {"Small Business", "Corporate"},
	}
)

type Loans struct{ base }

func NewLoans() *Loans {
	return &Loans{base{
		typ:   entity.Loan,
		space: LoanSpace,
		deps:  []entity.Type{entity.Customer},
		schema: entity.NewSchema(
			entity.ID("LoanID"),
			entity.FK("CustomerID", entity.Customer),
			entity.Enum("LoanType", loanTypes...),
			entity.Amount("LoanAmount"),
			entity.Amount("InterestRate"),
			entity.Integer("LoanTermYears"),
			entity.Date("ApprovalDate"),
			entity.Enum("Status", loanStatuses...),
			entity.Enum("CollateralType", collateralTypes...),
			entity.Amount("CollateralValue"),
			entity.Text("LoanProductSubType"),
			entity.Amount("MonthlyPayment"),
			entity.Amount("OutstandingBalance"),
			entity.Enum("LoanPurpose", loanPurposes...),
			entity.Date("LoanStartDate"),
			entity.Date("LoanEndDate"),
		),
		volume: entity.Volume{Divisor: 2},
	}}
}

func (l *Loans) Synthesize(f *synth.Faker, ids entity.IDRange, pools entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		customer, err := pools.Pick(entity.Customer, f.Rand())
		if err != nil {
			return nil, err
		}
		kind := f.Pick(loanTypes)
		amount := f.Amount(5_000, 500_000)
		term := loanTerms[f.Rand().IntN(len(loanTerms))]
		collateral := f.Pick(collateralTypes)
		collateralValue := 0.0
		if collateral != "None" {
			collateralValue = f.Amount(1_000, 300_000)
		}
		approved := f.DateWithinYears(10)
		start := approved.AddDate(0, 0, f.IntRange(0, 29))
		return entity.Record{
			id,
			customer,
			kind,
			synth.FormatAmount(amount),
			synth.FormatAmount(f.Amount(2.5, 10.5)),
			itoa(term),
			synth.FormatDate(approved),
			f.Pick(loanStatuses),
			collateral,
			synth.FormatAmount(collateralValue),
			f.Pick(loanSubTypes[kind]),
			synth.FormatAmount(amount / float64(term*12) * f.Amount(0.9, 1.1)),
			synth.FormatAmount(f.Amount(0, amount)),
			f.Pick(loanPurposes),
			synth.FormatDate(start),
			synth.FormatDate(start.AddDate(term, 0, 0)),
		}, nil
	})
}
