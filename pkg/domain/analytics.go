package domain

import "time"

// PlatformStats is the aggregate view shown on the admin dashboard and
// persisted by the daily analytics snapshot.
type PlatformStats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	VerifiedUsers int64 `json:"verified_users"`

	TotalProjects   int64 `json:"total_projects"`
	ActiveProjects  int64 `json:"active_projects"`
	PendingProjects int64 `json:"pending_projects"`
	FundedProjects  int64 `json:"funded_projects"`

	TotalInvestments int64 `json:"total_investments"`
	TotalDeposits    int64 `json:"total_deposits"`
	TotalWithdrawals int64 `json:"total_withdrawals"`
}

// FinancialPeriod selects the bucket size for financial analytics.
type FinancialPeriod string

const (
	FinancialPeriodDaily   FinancialPeriod = "daily"
	FinancialPeriodWeekly  FinancialPeriod = "weekly"
	FinancialPeriodMonthly FinancialPeriod = "monthly"
)

// FinancialBucket is one time bucket of the financial analytics series.
type FinancialBucket struct {
	// Bucket is the formatted period label (e.g. 2024-01 for monthly).
	Bucket string `json:"period"`

	Deposits         int64 `json:"total_deposits"`
	Investments      int64 `json:"total_investments"`
	Withdrawals      int64 `json:"total_withdrawals"`
	TransactionCount int64 `json:"transaction_count"`
}

// AnalyticsSnapshot is one persisted day of platform stats.
type AnalyticsSnapshot struct {
	Day       time.Time     `json:"day"`
	Stats     PlatformStats `json:"stats"`
	CreatedAt time.Time     `json:"createdAt"`
}
