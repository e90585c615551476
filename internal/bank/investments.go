package bank

import (
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

type stock struct {
	symbol, name, sector, exchange string
}

var (
	stocks = []stock{
		{"AAPL", "Apple Inc.", "Technology", "NASDAQ"},
		{"GOOGL", "Alphabet Inc.", "Technology", "NASDAQ"},
		{"MSFT", "Microsoft Corp.", "Technology", "NASDAQ"},
		{"AMZN", "Amazon.com Inc.", "Consumer Discretionary", "NASDAQ"},
		{"TSLA", "Tesla Inc.", "Consumer Discretionary", "NASDAQ"},
		{"NFLX", "Netflix Inc.", "Communication Services", "NASDAQ"},
		{"FB", "Meta Platforms", "Communication Services", "NASDAQ"},
		{"NVDA", "NVIDIA Corp.", "Technology", "NASDAQ"},
		{"BABA", "Alibaba Group", "Consumer Discretionary", "NYSE"},
		{"ORCL", "Oracle Corp.", "Technology", "NYSE"},
	}
	depotTypes    = []string{"Standard", "Premium", "Gold"}
	depotStatuses = []string{"Active", "Inactive", "Closed"}
)

type Shares struct{ base }

func NewShares() *Shares {
	return &Shares{base{
		typ:   entity.Share,
		space: ShareSpace,
		deps:  []entity.Type{entity.Customer},
		schema: entity.NewSchema(
			entity.ID("ShareID"),
			entity.FK("CustomerID", entity.Customer),
			entity.Text("StockSymbol"),
			entity.Text("StockName"),
			entity.Text("Sector"),
			entity.Text("Exchange"),
			entity.Integer("Quantity"),
			entity.Amount("PurchasePrice"),
			entity.Amount("CurrentPrice"),
			entity.Date("PurchaseDate"),
			entity.Amount("TotalValue"),
		),
		volume: entity.Volume{Multiplier: 3},
	}}
}

func (s *Shares) Synthesize(f *synth.Faker, ids entity.IDRange, pools entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		customer, err := pools.Pick(entity.Customer, f.Rand())
		if err != nil {
			return nil, err
		}
		st := stocks[f.Rand().IntN(len(stocks))]
		qty := f.IntRange(1, 999)
		current := f.Amount(10, 500)
		return entity.Record{
			id,
			customer,
			st.symbol,
			st.name,
			st.sector,
			st.exchange,
			itoa(qty),
			synth.FormatAmount(f.Amount(10, 500)),
			synth.FormatAmount(current),
			synth.FormatDate(f.DateWithinYears(3)),
			synth.FormatAmount(float64(qty) * current),
		}, nil
	})
}

// Depots are securities custody accounts.
type Depots struct{ base }

func NewDepots() *Depots {
	return &Depots{base{
		typ:   entity.Depot,
		space: DepotSpace,
		deps:  []entity.Type{entity.Customer},
		schema: entity.NewSchema(
			entity.ID("DepotID"),
			entity.FK("CustomerID", entity.Customer),
			entity.Enum("DepotType", depotTypes...),
			entity.Date("OpeningDate"),
			entity.Enum("Status", depotStatuses...),
			entity.Amount("TotalValue"),
			entity.Text("Custodian"),
			entity.Integer("NumberOfSecurities"),
		),
		volume: entity.Volume{Divisor: 2},
	}}
}

func (d *Depots) Synthesize(f *synth.Faker, ids entity.IDRange, pools entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		customer, err := pools.Pick(entity.Customer, f.Rand())
		if err != nil {
			return nil, err
		}
		return entity.Record{
			id,
			customer,
			f.Pick(depotTypes),
			synth.FormatDate(f.DateWithinYears(10)),
			f.Pick(depotStatuses),
			synth.FormatAmount(f.Amount(1_000, 500_000)),
			f.Company(),
			itoa(f.IntRange(1, 49)),
		}, nil
	})
}
