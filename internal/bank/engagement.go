package bank

import (
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

var (
	campaignTypes     = []string{"Email", "SMS", "Social Media", "Direct Mail"}
	campaignResponses = []string{"Positive", "Negative", "Neutral", "No Response"}
	deviceTypes       = []string{"Desktop", "Mobile", "Tablet"}
	browsers          = []string{"Chrome", "Firefox", "Safari", "Edge", "Opera"}
)

type Marketing struct{ base }

func NewMarketing() *Marketing {
	return &Marketing{base{
		typ:   entity.Marketing,
		space: MarketingSpace,
		deps:  []entity.Type{entity.Customer},
		schema: entity.NewSchema(
			entity.ID("CampaignID"),
			entity.FK("CustomerID", entity.Customer),
			entity.Enum("CampaignType", campaignTypes...),
			entity.Date("CampaignDate"),
			entity.Enum("Response", campaignResponses...),
			entity.Bool("OfferAccepted"),
			entity.Text("CampaignName"),
			entity.Amount("CampaignBudget"),
			entity.Integer("Impressions"),
			entity.Integer("Clicks"),
			entity.Amount("ConversionRate"),
			entity.Amount("Cost"),
		),
		volume: entity.Volume{Multiplier: 2},
	}}
}

func (m *Marketing) Synthesize(f *synth.Faker, ids entity.IDRange, pools entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		customer, err := pools.Pick(entity.Customer, f.Rand())
		if err != nil {
			return nil, err
		}
		return entity.Record{
			id,
			customer,
			f.Pick(campaignTypes),
			synth.FormatDate(f.DateWithinYears(2)),
			f.Pick(campaignResponses),
			synth.FormatBool(f.Bool()),
			f.Code("Campaign ", 1000, 9999),
			synth.FormatAmount(f.Amount(1_000, 10_000)),
			itoa(f.IntRange(1_000, 99_999)),
			itoa(f.IntRange(10, 9_999)),
			synth.FormatAmount(f.Amount(0, 1)),
			synth.FormatAmount(f.Amount(100, 1_000)),
		}, nil
	})
}

// DigitalSessions records online banking logins.
type DigitalSessions struct{ base }

func NewDigitalSessions() *DigitalSessions {
	return &DigitalSessions{base{
		typ:   entity.DigitalSession,
		space: DigitalSessionSpace,
		deps:  []entity.Type{entity.Customer},
		schema: entity.NewSchema(
			entity.ID("SessionID"),
			entity.FK("CustomerID", entity.Customer),
			entity.Timestamp("LoginTime"),
			entity.Enum("DeviceType", deviceTypes...),
			entity.Enum("Browser", browsers...),
			entity.Text("IPAddress"),
			entity.Timestamp("LogoutTime"),
		),
		volume: entity.Volume{Multiplier: 3},
	}}
}

func (d *DigitalSessions) Synthesize(f *synth.Faker, ids entity.IDRange, pools entity.Pools) ([]entity.Record, error) {
	return synthesizeEach(ids, func(id string) (entity.Record, error) {
		customer, err := pools.Pick(entity.Customer, f.Rand())
		if err != nil {
			return nil, err
		}
		login := f.DateWithinYears(1).Truncate(time.Second)
		logout := login.Add(time.Duration(f.IntRange(5, 120)) * time.Minute)
		return entity.Record{
			id,
			customer,
			synth.FormatTimestamp(login),
			f.Pick(deviceTypes),
			f.Pick(browsers),
			f.IPv4(),
			synth.FormatTimestamp(logout),
		}, nil
	})
}
