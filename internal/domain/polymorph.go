package domain

import (
	"encoding/json"
)

// Savings is the polymorphic savings field: stored records hold either
// a running numeric total or an itemized list of signed deposits. The
// variant remembers which wire shape it was decoded from and marshals
// back to the same shape so legacy slots round-trip unchanged.
type Savings struct {
	total    float64
	history  []Deposit
	itemized bool
}

// NumericSavings returns the running-total variant.
func NumericSavings(total float64) Savings {
	return Savings{total: total}
}

// ItemizedSavings returns the deposit-history variant.
func ItemizedSavings(history ...Deposit) Savings {
	return Savings{history: history, itemized: true}
}

// IsItemized reports whether the field carries a deposit history.
func (s Savings) IsItemized() bool { return s.itemized }

// Total returns the numeric total, or the sum of history entries for
// the itemized variant.
func (s Savings) Total() float64 {
	if !s.itemized {
		return s.total
	}
	var sum float64
	for _, d := range s.history {
		sum += d.Amount
	}
	return sum
}

// History returns a copy of the deposit entries (nil for the numeric
// variant).
func (s Savings) History() []Deposit {
	if len(s.history) == 0 {
		return nil
	}
	out := make([]Deposit, len(s.history))
	copy(out, s.history)
	return out
}

// SetTotal replaces the numeric total. Only meaningful for the numeric
// variant; callers branch on IsItemized first.
func (s *Savings) SetTotal(total float64) { s.total = total }

// Append adds an entry to the itemized history.
func (s *Savings) Append(d Deposit) {
	s.history = append(s.history, d)
	s.itemized = true
}

// UnmarshalJSON accepts a number, a deposit list, or null. Any other
// shape decodes as a zero total: stored slots must never fail to load
// because one record carries a malformed field.
func (s *Savings) UnmarshalJSON(data []byte) error {
	*s = Savings{}
	trimmed := firstByte(data)
	switch trimmed {
	case 0, 'n':
		return nil
	case '[':
		var history []Deposit
		if err := json.Unmarshal(data, &history); err != nil {
			return nil
		}
		s.history = history
		s.itemized = true
		return nil
	default:
		var total float64
		if err := json.Unmarshal(data, &total); err != nil {
			return nil
		}
		s.total = total
		return nil
	}
}

// MarshalJSON writes the field back in the shape it was read in.
func (s Savings) MarshalJSON() ([]byte, error) {
	if s.itemized {
		if s.history == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.history)
	}
	return json.Marshal(s.total)
}

// DepositList is a deposit history that decodes any non-list shape as
// empty, mirroring how roster records coerce the field on read.
type DepositList []Deposit

func (l *DepositList) UnmarshalJSON(data []byte) error {
	*l = nil
	if firstByte(data) != '[' {
		return nil
	}
	var entries []Deposit
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	*l = entries
	return nil
}

func (l DepositList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Deposit(l))
}

// LoanList is the polymorphic loans field: a structured loan list, or
// a bare numeric count in the oldest records.
type LoanList struct {
	items   []Loan
	count   int
	isCount bool
}

// LoansOf returns the structured-list variant.
func LoansOf(items ...Loan) LoanList {
	return LoanList{items: items}
}

// LoanCount returns the numeric-count variant.
func LoanCount(n int) LoanList {
	return LoanList{count: n, isCount: true}
}

// IsCount reports whether the field is a bare count summary.
func (l LoanList) IsCount() bool { return l.isCount }

// Count returns the numeric count, or the list length.
func (l LoanList) Count() int {
	if l.isCount {
		return l.count
	}
	return len(l.items)
}

// Items returns a copy of the structured loans (nil for the count
// variant).
func (l LoanList) Items() []Loan {
	if len(l.items) == 0 {
		return nil
	}
	out := make([]Loan, len(l.items))
	copy(out, l.items)
	return out
}

// Append adds a structured loan, converting a count variant into a
// structured list.
func (l *LoanList) Append(loan Loan) {
	if l.isCount {
		l.isCount = false
		l.count = 0
	}
	l.items = append(l.items, loan)
}

func (l *LoanList) UnmarshalJSON(data []byte) error {
	*l = LoanList{}
	switch firstByte(data) {
	case 0, 'n':
		return nil
	case '[':
		var items []Loan
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		l.items = items
		return nil
	default:
		var count float64
		if err := json.Unmarshal(data, &count); err != nil {
			return nil
		}
		l.count = int(count)
		l.isCount = true
		return nil
	}
}

func (l LoanList) MarshalJSON() ([]byte, error) {
	if l.isCount {
		return json.Marshal(l.count)
	}
	if l.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

// firstByte returns the first non-whitespace byte of a JSON value, or
// zero for empty input.
func firstByte(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
