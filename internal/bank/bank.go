// Package bank holds one entity descriptor per kind of synthetic banking
// record: its reserved ID space, dependencies, column layout, bulk volume and
// record synthesis.
package bank

import (
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

// Reserved ID spaces. They are pairwise disjoint; NewCatalog enforces it.
var (
	CustomerSpace       = entity.IDSpace{Base: 100_000, Capacity: 100_000}
	AccountSpace        = entity.IDSpace{Base: 200_000, Capacity: 800_000}
	BranchSpace         = entity.IDSpace{Base: 1_000_000, Capacity: 9_000_000}
	LoanSpace           = entity.IDSpace{Base: 10_000_000, Capacity: 10_000_000}
	MarketingSpace      = entity.IDSpace{Base: 20_000_000, Capacity: 10_000_000}
	DigitalSessionSpace = entity.IDSpace{Base: 30_000_000, Capacity: 10_000_000}
	RiskAlertSpace      = entity.IDSpace{Base: 40_000_000, Capacity: 10_000_000}
	ShareSpace          = entity.IDSpace{Base: 50_000_000, Capacity: 10_000_000}
	DepotSpace          = entity.IDSpace{Base: 60_000_000, Capacity: 10_000_000}
	AMLRecordSpace      = entity.IDSpace{Base: 70_000_000, Capacity: 10_000_000}
	TransactionSpace    = entity.IDSpace{Base: 100_000_000, Capacity: 900_000_000}
)

type base struct {
	typ    entity.Type
	space  entity.IDSpace
	deps   []entity.Type
	schema entity.Schema
	volume entity.Volume
}

func (b base) Type() entity.Type           { return b.typ }
func (b base) IDSpace() entity.IDSpace     { return b.space }
func (b base) Dependencies() []entity.Type { return append([]entity.Type(nil), b.deps...) }
func (b base) Schema() entity.Schema       { return b.schema }
func (b base) BulkVolume() entity.Volume   { return b.volume }

// Descriptors returns a fresh descriptor for every entity type.
func Descriptors() []entity.Descriptor {
	return []entity.Descriptor{
		NewCustomers(),
		NewAccounts(),
		NewTransactions(),
		NewLoans(),
		NewBranches(),
		NewMarketing(),
		NewDigitalSessions(),
		NewRiskAlerts(),
		NewShares(),
		NewDepots(),
		NewAMLRecords(),
	}
}

// Catalog returns the validated registry of all banking entities.
func Catalog() (*entity.Catalog, error) {
	return entity.NewCatalog(Descriptors()...)
}

// synthesizeEach builds one record per id.
func synthesizeEach(ids entity.IDRange, row func(id string) (entity.Record, error)) ([]entity.Record, error) {
	out := make([]entity.Record, 0, ids.Count)
	for _, id := range ids.IDs() {
		rec, err := row(synth.FormatInt(id))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func itoa(v int) string {
	return synth.FormatInt(int64(v))
}
