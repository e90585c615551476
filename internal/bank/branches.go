package bank

import (
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

var branchCountries = []string{"USA", "Canada", "UK", "Germany", "France", "Australia"}

// Branches are independent of customers. The bulk volume is fixed.
type Branches struct{ base }

func NewBranches() *Branches {
	return &Branches{base{
		typ:   entity.Branch,
		space: BranchSpace,
		schema: entity.NewSchema(
			entity.ID("BranchID"),
			entity.Text("BranchName"),
			entity.Text("StreetAddress"),
			entity.Text("City"),
			entity.Text("State"),
			entity.Text("ZipCode"),
			entity.Enum("Country", branchCountries...),
			entity.Text("OperationalHours"),
			entity.Integer("TransactionVolume"),
			entity.Text("ManagerName"),
			entity.Date("OpeningDate"),
			entity.Text("ContactNumber"),
			entity.Integer("NumberOfEmployees"),
			entity.Integer("ATMCount"),
		),
		volume: entity.Volume{Fixed: 100},
	}}
}

func (b *Branches) Synthesize(f *synth.Faker, ids entity.IDRange, _ entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		return entity.Record{
			id,
			f.Code("Branch ", 1000, 9999),
			f.Street(),
			f.City(),
			f.State(),
			f.Zip(),
			f.Pick(branchCountries),
			"9:00-17:00",
			itoa(f.IntRange(1_000, 9_999)),
			f.FullName(),
			synth.FormatDate(f.DateBetweenYearsAgo(30, 5)),
			f.Phone(),
			itoa(f.IntRange(10, 99)),
			itoa(f.IntRange(1, 19)),
		}, nil
	})
}
