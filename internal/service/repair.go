package service

import (
	"context"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/money"
	"github.com/Chiki-tella/safesave/internal/store"
)

// driftTolerance is the largest total/history mismatch treated as
// float noise rather than drift.
const driftTolerance = 0.01

// RepairService audits the slots for the inconsistencies the
// independent-write model can leave behind, fixes total drift, and
// reports what it cannot fix on its own.
type RepairService struct {
	Store store.Store
	Log   *zap.Logger
}

// Finding is one reported inconsistency.
type Finding struct {
	Kind   string
	Email  string
	Detail string
}

// Report is the outcome of a repair pass.
type Report struct {
	TotalsFixed int
	Findings    []Finding
}

// Run fixes roster totals that drifted from their deposit histories
// and reports roster entries with no user record plus probable
// duplicate members. Only drifted totals are written back; findings
// are report-only.
func (s *RepairService) Run(ctx context.Context) (Report, error) {
	var report Report

	_, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyApprovedMembers, func(members []domain.ApprovedMember) ([]domain.ApprovedMember, error) {
		report.TotalsFixed = 0
		changed := false
		for i := range members {
			m := &members[i]
			if len(m.Savings) == 0 {
				continue
			}
			amounts := make([]float64, 0, len(m.Savings))
			for _, d := range m.Savings {
				amounts = append(amounts, d.Amount)
			}
			sum := money.Sum(amounts)
			if math.Abs(sum-m.TotalSavings) <= driftTolerance {
				continue
			}
			s.Log.Info("roster total drifted from history, fixing",
				zap.String("email", m.Email),
				zap.Float64("stored", m.TotalSavings),
				zap.Float64("computed", sum))
			m.TotalSavings = sum
			report.TotalsFixed++
			changed = true
		}
		if !changed {
			return nil, nil
		}
		return members, nil
	})
	if err != nil {
		return Report{}, err
	}

	members, _, err := store.ReadList[domain.ApprovedMember](ctx, s.Store, s.Log, store.KeyApprovedMembers)
	if err != nil {
		return Report{}, err
	}
	users, _, err := store.ReadList[domain.User](ctx, s.Store, s.Log, store.KeyUsers)
	if err != nil {
		return Report{}, err
	}

	byEmail := make(map[string]bool, len(users))
	for _, u := range users {
		byEmail[u.Email] = true
	}
	for _, m := range members {
		if !byEmail[m.Email] {
			report.Findings = append(report.Findings, Finding{
				Kind:   "missing-user",
				Email:  m.Email,
				Detail: "roster entry has no user record",
			})
		}
	}

	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, b := members[i], members[j]
			if a.Email == b.Email || !probableDuplicate(a.Name, b.Name) {
				continue
			}
			report.Findings = append(report.Findings, Finding{
				Kind:   "probable-duplicate",
				Email:  a.Email,
				Detail: "name close to " + b.Email,
			})
		}
	}

	return report, nil
}

// probableDuplicate flags names within edit distance 2 of each other,
// case-insensitive. Short names are excluded; almost any pair of them
// sits within that distance.
func probableDuplicate(a, b string) bool {
	if len(a) < 5 || len(b) < 5 {
		return false
	}
	dist := levenshtein.ComputeDistance(strings.ToUpper(a), strings.ToUpper(b))
	return dist <= 2
}
