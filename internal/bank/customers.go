package bank

import (
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

var (
	genders            = []string{"Male", "Female"}
	employmentStatuses = []string{"Employed", "Unemployed", "Retired", "Student", "Self-Employed"}
	incomeBands        = []string{"<25K", "25K-50K", "50K-100K", "100K-250K", ">250K"}
	maritalStatuses    = []string{"Single", "Married", "Divorced", "Widowed"}
	nationalities      = []string{"USA", "Canada", "UK", "Germany", "India", "China", "France", "Australia"}
	customerSegments   = []string{"Retail", "SME", "Corporate", "High Net Worth"}
	kycStatuses        = []string{"Verified", "Pending", "Not Verified"}
	loyaltyStatuses    = []string{"Active", "Inactive", "Not Enrolled"}
)

// Customers has no dependencies; every other customer-facing entity references it.
type Customers struct{ base }

func NewCustomers() *Customers {
	return &Customers{base{
		typ:   entity.Customer,
		space: CustomerSpace,
		schema: entity.NewSchema(
			entity.ID("CustomerID"),
			entity.Text("FirstName"),
			entity.Text("LastName"),
			entity.Text("SSN"),
			entity.Enum("Gender", genders...),
			entity.Date("DateOfBirth"),
			entity.Text("Email"),
			entity.Text("PhoneNumber"),
			entity.Text("StreetAddress"),
			entity.Text("City"),
			entity.Text("State"),
			entity.Text("ZipCode"),
			entity.Date("AccountCreated"),
			entity.Enum("EmploymentStatus", employmentStatuses...),
			entity.Text("Occupation"),
			entity.Text("Employer"),
			entity.Enum("AnnualIncome", incomeBands...),
			entity.Enum("MaritalStatus", maritalStatuses...),
			entity.Enum("Nationality", nationalities...),
			entity.Integer("CreditScore"),
			entity.Integer("RiskRating"),
			entity.Enum("CustomerSegment", customerSegments...),
			entity.Enum("KYCStatus", kycStatuses...),
			entity.Bool("AMLFlag"),
			entity.Enum("LoyaltyProgramStatus", loyaltyStatuses...),
			entity.Integer("RewardPoints"),
			entity.Amount("ChurnProbability"),
			entity.Text("PreferredBranch"),
			entity.Date("LastLoginDate"),
			entity.Integer("CustomerRating"),
		),
		volume: entity.Volume{Multiplier: 1},
	}}
}

func (c *Customers) Synthesize(f *synth.Faker, ids entity.IDRange, _ entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		return entity.Record{
			id,
			f.FirstName(),
			f.LastName(),
			f.SSN(),
			f.Pick(genders),
			synth.FormatDate(f.BirthDate(18, 80)),
			f.Email(),
			f.Phone(),
			f.Street(),
			f.City(),
			f.State(),
			f.Zip(),
			synth.FormatDate(f.DateWithinYears(10)),
			f.Pick(employmentStatuses),
			f.Job(),
			f.Company(),
			f.Pick(incomeBands),
			f.Pick(maritalStatuses),
			f.Pick(nationalities),
			itoa(f.IntRange(300, 850)),
			itoa(f.IntRange(1, 5)),
			f.Pick(customerSegments),
			f.Pick(kycStatuses),
			synth.FormatBool(f.Bool()),
			f.Pick(loyaltyStatuses),
			itoa(f.IntRange(0, 9999)),
			synth.FormatAmount(f.Amount(0, 1)),
			f.Code("BR", 100, 998),
			synth.FormatDate(f.DateWithinYears(1)),
			itoa(f.IntRange(1, 5)),
		}, nil
	})
}
