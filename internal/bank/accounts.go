package bank

import (
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

var (
	accountTypes     = []string{"Savings", "Checking", "Business", "Investment"}
	accountStatuses  = []string{"Active", "Inactive", "Closed"}
	currencies       = []string{"USD", "CAD", "EUR", "GBP"}
	accountSubTypes  = []string{"Basic", "Premium", "Gold", "Platinum"}
	transactionTypes = []string{"Deposit", "Withdrawal", "Transfer", "Payment", "Investment"}
	txStatuses       = []string{"Completed", "Pending", "Failed"}
	channels         = []string{"ATM", "Online", "Branch", "Mobile"}
	cards            = []string{"Visa", "MasterCard", "Amex", "Discover", "None"}
)

type Accounts struct{ base }

func NewAccounts() *Accounts {
	return &Accounts{base{
		typ:   entity.Account,
		space: AccountSpace,
		deps:  []entity.Type{entity.Customer},
		schema: entity.NewSchema(
			entity.ID("AccountID"),
			entity.FK("CustomerID", entity.Customer),
			entity.Enum("AccountType", accountTypes...),
			entity.Amount("Balance"),
			entity.Date("OpenedDate"),
			entity.Enum("Status", accountStatuses...),
			entity.Enum("Currency", currencies...),
			entity.Text("BranchCode"),
			entity.Amount("InterestRate"),
			entity.Enum("AccountSubType", accountSubTypes...),
			entity.Amount("OverdraftLimit"),
			entity.Date("LastTransactionDate"),
		),
		volume: entity.Volume{Multiplier: 2},
	}}
}

func (a *Accounts) Synthesize(f *synth.Faker, ids entity.IDRange, pools entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		customer, err := pools.Pick(entity.Customer, f.Rand())
		if err != nil {
			return nil, err
		}
		opened := f.DateWithinYears(10)
		return entity.Record{
			id,
			customer,
			f.Pick(accountTypes),
			synth.FormatAmount(f.Amount(-23_000, 991_234)),
			synth.FormatDate(opened),
			f.Pick(accountStatuses),
			f.Pick(currencies),
			f.Code("BR", 100, 999),
			synth.FormatAmount(f.Amount(0.1, 5.0)),
			f.Pick(accountSubTypes),
			synth.FormatAmount(f.Amount(0, 5_000)),
			synth.FormatDate(f.DateBetween(opened, f.Now())),
		}, nil
	})
}

// Transactions reference accounts, so they are generated only once accounts exist.
type Transactions struct{ base }

func NewTransactions() *Transactions {
	return &Transactions{base{
		typ:   entity.Transaction,
		space: TransactionSpace,
		deps:  []entity.Type{entity.Account},
		schema: entity.NewSchema(
			entity.ID("TransactionID"),
			entity.FK("AccountID", entity.Account),
			entity.Enum("TransactionType", transactionTypes...),
			entity.Amount("Amount"),
			entity.Date("TransactionDate"),
			entity.Enum("Status", txStatuses...),
			entity.Enum("Channel", channels...),
			entity.Text("MerchantName"),
			entity.Text("MerchantLocation"),
			entity.Text("TransactionTime"),
			entity.Amount("Fee"),
			entity.Amount("ExchangeRate"),
			entity.Amount("OriginalAmount"),
			entity.Enum("CardUsed", cards...),
			entity.Text("POSID"),
			entity.Amount("Tax"),
		),
		// five per account
		volume: entity.Volume{Multiplier: 10},
	}}
}

func (t *Transactions) Synthesize(f *synth.Faker, ids entity.IDRange, pools entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		account, err := pools.Pick(entity.Account, f.Rand())
		if err != nil {
			return nil, err
		}
		amount := f.Amount(10, 10_000)
		rate := f.Amount(0.8, 1.2)
		when := f.DateWithinYears(5)
		return entity.Record{
			id,
			account,
			f.Pick(transactionTypes),
			synth.FormatAmount(amount),
			synth.FormatDate(when),
			f.Pick(txStatuses),
			f.Pick(channels),
			f.Company(),
			f.City(),
			when.Format(synth.TimeLayout),
			synth.FormatAmount(f.Amount(0, 50)),
			synth.FormatAmount(rate),
			synth.FormatAmount(amount / rate),
			f.Pick(cards),
			f.Code("POS", 1000, 9999),
			synth.FormatAmount(amount * f.Amount(0, 0.1)),
		}, nil
	})
}
