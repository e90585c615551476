package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
	TimeLayout      = "15:04:05"
)

// Faker produces field values for synthetic records. Every value is drawn
// from a single seeded source so a Faker built with the same seed and clock
// yields the same sequence. A Faker is not safe for concurrent use; each
// worker owns one.
type Faker struct {
	rand *rand.Rand
	fake *gofakeit.Faker
	now  time.Time
}

func New(seed uint64) *Faker {
	return NewAt(seed, time.Now())
}

// NewAt returns a Faker whose relative dates ("ten years ago until today")
// are anchored at now.
func NewAt(seed uint64, now time.Time) *Faker {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Faker{
		rand: rand.New(src),
		fake: gofakeit.NewFaker(src, false),
		now:  now.UTC(),
	}
}

// Rand exposes the underlying source, used for sampling foreign keys.
func (f *Faker) Rand() *rand.Rand {
	return f.rand
}

func (f *Faker) Now() time.Time {
	return f.now
}

// IntRange returns a uniform integer in [min, max].
func (f *Faker) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + f.rand.IntN(max-min+1)
}

// Amount returns a uniform value in [min, max) rounded to cents.
func (f *Faker) Amount(min, max float64) float64 {
	return Round2(min + f.rand.Float64()*(max-min))
}

func (f *Faker) Bool() bool {
	return f.rand.IntN(2) == 1
}

func (f *Faker) Pick(values []string) string {
	return values[f.rand.IntN(len(values))]
}

// Code returns prefix followed by a number in [min, max], e.g. "BR512".
func (f *Faker) Code(prefix string, min, max int) string {
	return prefix + strconv.Itoa(f.IntRange(min, max))
}

// DateBetween returns a uniform instant in [start, end].
func (f *Faker) DateBetween(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	span := end.Sub(start)
	return start.Add(time.Duration(f.rand.Int64N(int64(span) + 1)))
}

// DateWithinYears returns a date between years ago and now.
func (f *Faker) DateWithinYears(years int) time.Time {
	return f.DateBetween(f.now.AddDate(-years, 0, 0), f.now)
}

// DateBetweenYearsAgo returns a date between from and to years ago (from > to).
func (f *Faker) DateBetweenYearsAgo(from, to int) time.Time {
	return f.DateBetween(f.now.AddDate(-from, 0, 0), f.now.AddDate(-to, 0, 0))
}

func (f *Faker) BirthDate(minAge, maxAge int) time.Time {
	return f.DateBetweenYearsAgo(maxAge, minAge)
}

func (f *Faker) FirstName() string { return f.fake.FirstName() }
func (f *Faker) LastName() string  { return f.fake.LastName() }
func (f *Faker) FullName() string  { return f.fake.Name() }
func (f *Faker) Email() string     { return f.fake.Email() }
func (f *Faker) Phone() string     { return f.fake.Phone() }
func (f *Faker) Street() string    { return f.fake.Street() }
func (f *Faker) City() string      { return f.fake.City() }
func (f *Faker) State() string     { return f.fake.State() }
func (f *Faker) Zip() string       { return f.fake.Zip() }
func (f *Faker) Company() string   { return f.fake.Company() }
func (f *Faker) Job() string       { return f.fake.JobTitle() }
func (f *Faker) IPv4() string      { return f.fake.IPv4Address() }
func (f *Faker) SSN() string       { return f.fake.SSN() }

func (f *Faker) Sentence(words int) string {
	return f.fake.Sentence(words)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func FormatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func FormatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseBool accepts the spellings written by FormatBool as well as the usual
// strconv forms.
func ParseBool(s string) (bool, error) {
	switch s {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}

// DeriveSeed mixes a base seed with a stream number so independent workers
// get uncorrelated sources.
func DeriveSeed(base, stream uint64) uint64 {
	z := base + (stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
