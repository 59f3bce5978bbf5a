package domain

// AccountType distinguishes group members from the group admin.
type AccountType string

const (
	AccountMember AccountType = "member"
	AccountAdmin  AccountType = "admin"
)

// LoanStatus is the lifecycle state of a loan request or loan.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
	LoanActive   LoanStatus = "active"
)

// InvestmentStatus is the lifecycle state of a group investment.
type InvestmentStatus string

const (
	InvestmentActive    InvestmentStatus = "active"
	InvestmentCompleted InvestmentStatus = "completed"
	InvestmentPending   InvestmentStatus = "pending"
)

// Deposit is a single signed ledger entry. Negative amounts are
// withdrawals or contributions out (e.g. an investment share).
type Deposit struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Note   string  `json:"note,omitempty"`
}

// User is a registered account. Savings and Loans are polymorphic
// because stored records predate the structured shapes; see Savings
// and LoanList.
type User struct {
	ID            string      `json:"id,omitempty"`
	FullName      string      `json:"fullName,omitempty"`
	Name          string      `json:"name,omitempty"`
	Email         string      `json:"email"`
	Password      string      `json:"password,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	Location      string      `json:"location,omitempty"`
	AccountType   AccountType `json:"accountType,omitempty"`
	GroupCode     string      `json:"groupCode,omitempty"`
	GroupName     string      `json:"groupName,omitempty"`
	WalletBalance float64     `json:"walletBalance"`
	Savings       Savings     `json:"savings"`
	TotalSavings  float64     `json:"totalSavings,omitempty"`
	LoanBalance   float64     `json:"loanBalance,omitempty"`
	Loans         LoanList    `json:"loans,omitempty"`
	CreatedAt     string      `json:"createdAt,omitempty"`
}

// DisplayName prefers the roster name, then the sign-up full name,
// then the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// ApprovedMember is a roster entry for a user accepted into the group.
// It is written independently of the users slot and the two can drift.
type ApprovedMember struct {
	ID           string      `json:"id,omitempty"`
	Name         string      `json:"name,omitempty"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	TotalSavings float64     `json:"totalSavings"`
	Savings      DepositList `json:"savings"`
	LoanBalance  float64     `json:"loanBalance,omitempty"`
	Loans        LoanList    `json:"loans,omitempty"`
	JoinedAt     string      `json:"joinedAt,omitempty"`
}

// MembershipRequest is filed when a member signs up and waits for
// admin approval into the roster.
type MembershipRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	RequestDate string `json:"requestDate"`
	GroupCode   string `json:"groupCode,omitempty"`
}

// LoanRequest is a member's pending/decided loan application.
type LoanRequest struct {
	ID          string     `json:"id"`
	Amount      float64    `json:"amount"`
	Purpose     string     `json:"purpose,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	Status      LoanStatus `json:"status"`
	RequestedBy string     `json:"requestedBy"`
	RequestedAt string     `json:"requestedAt,omitempty"`
}

// Loan is a disbursed loan attached to a user record. Legacy and
// placeholder loans are synthesized at read time from older record
// shapes and never persisted.
type Loan struct {
	ID          string     `json:"id"`
	Amount      float64    `json:"amount"`
	Purpose     string     `json:"purpose,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	Status      LoanStatus `json:"status,omitempty"`
	RequestedBy string     `json:"requestedBy,omitempty"`
	RequestedAt string     `json:"requestedAt,omitempty"`
}

// LoanRepayment is one repayment entry in a member's per-email
// repayments slot. LoanID is optional; legacy entries without one are
// matched to every loan of the member.
type LoanRepayment struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	LoanID string  `json:"loanId,omitempty"`
}

// Investment is a group fund investment.
type Investment struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Invested    float64          `json:"invested"`
	ExpectedROI float64          `json:"expectedROI"`
	ProfitSoFar float64          `json:"profitSoFar"`
	Status      InvestmentStatus `json:"status"`
	Progress    float64          `json:"progress"`
	CreatedAt   string           `json:"createdAt,omitempty"`
}

// MemberLoans is the derived admin view of one member's loan standing,
// produced by read-side reconciliation over the roster, the users slot
// and the repayments slots.
type MemberLoans struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	LoanBalance float64         `json:"loanBalance"`
	Loans       []Loan          `json:"loans"`
	Repayments  []LoanRepayment `json:"repayments,omitempty"`
}
