package entity

import (
	"fmt"
	"strings"
)

// Type enumerates the kinds of synthetic banking records.
type Type int

const (
	Customer Type = iota
	Account
	Transaction
	Loan
	Branch
	Marketing
	DigitalSession
	RiskAlert
	Share
	Depot
	AMLRecord
)

type typeInfo struct {
	name    string
	dataset string
	envKey  string
}

var typeTable = [...]typeInfo{
	Customer:       {"customer", "customers", "CUSTOMERS"},
	Account:        {"account", "accounts", "ACCOUNTS"},
	Transaction:    {"transaction", "transactions", "TRANSACTIONS"},
	Loan:           {"loan", "loans", "LOANS"},
	Branch:         {"branch", "branches", "BRANCHES"},
	Marketing:      {"marketing", "marketing", "MARKETING"},
	DigitalSession: {"digital_session", "digital_interactions", "DIGITAL"},
	RiskAlert:      {"risk_alert", "risk_alerts", "RISK_ALERTS"},
	Share:          {"share", "shares", "SHARES"},
	Depot:          {"depot", "depots", "DEPOTS"},
	AMLRecord:      {"aml_record", "aml_compliance", "AML"},
}

// Types returns every entity type in declaration order.
func Types() []Type {
	out := make([]Type, len(typeTable))
	for i := range typeTable {
		out[i] = Type(i)
	}
	return out
}

func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(typeTable)
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("entity(%d)", int(t))
	}
	return typeTable[t].name
}

// Dataset is the base name of the entity's canonical table file, without extension.
func (t Type) Dataset() string {
	if !t.Valid() {
		return ""
	}
	return typeTable[t].dataset
}

// EnvKey is the suffix used by the per-entity cadence variables,
// e.g. MAX_BATCH_RISK_ALERTS.
func (t Type) EnvKey() string {
	if !t.Valid() {
		return ""
	}
	return typeTable[t].envKey
}

// ParseType accepts the entity name, its dataset name or its env suffix, case-insensitively.
func ParseType(s string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	for i, info := range typeTable {
		if key == info.name || key == info.dataset || key == strings.ToLower(info.envKey) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown entity type %q", s)
}

// IDSpace is the reserved identifier range [Base, Base+Capacity) of one entity type.
type IDSpace struct {
	Base     int64
	Capacity int64
}

// End returns the first identifier past the space.
func (s IDSpace) End() int64 {
	return s.Base + s.Capacity
}

func (s IDSpace) Contains(id int64) bool {
	return id >= s.Base && id < s.End()
}

func (s IDSpace) Overlaps(o IDSpace) bool {
	return s.Base < o.End() && o.Base < s.End()
}

func (s IDSpace) String() string {
	return fmt.Sprintf("[%d, %d)", s.Base, s.End())
}

// IDRange is a contiguous ascending block of identifiers.
type IDRange struct {
	First int64
	Count int
}

func (r IDRange) Last() int64 {
	return r.First + int64(r.Count) - 1
}

// IDs expands the range.
func (r IDRange) IDs() []int64 {
	ids := make([]int64, r.Count)
	for i := range ids {
		ids[i] = r.First + int64(i)
	}
	return ids
}

func (r IDRange) Overlaps(o IDRange) bool {
	if r.Count == 0 || o.Count == 0 {
		return false
	}
	return r.First <= o.Last() && o.First <= r.Last()
}

func (r IDRange) String() string {
	if r.Count == 0 {
		return "[]"
	}
	return fmt.Sprintf("[%d..%d]", r.First, r.Last())
}
