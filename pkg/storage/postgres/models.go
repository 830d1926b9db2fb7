package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"wefund/pkg/domain"

	"github.com/google/uuid"
)

type PgUser struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Age          int            `db:"age"`
	PhoneNumber  sql.NullString `db:"phone_number"`
	Role         string         `db:"role"`

	WalletBalance int64 `db:"wallet_balance"`
	TotalInvested int64 `db:"total_invested"`
	TotalReturns  int64 `db:"total_returns"`

	Verified      bool `db:"verified"`
	EmailVerified bool `db:"email_verified"`
	PhoneVerified bool `db:"phone_verified"`

	KYCStatus         string `db:"kyc_status"`
	VerificationLevel string `db:"verification_level"`
	Blocked           bool   `db:"blocked"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgUser) ToDomain() *domain.User {
	return &domain.User{
		ID:                domain.UserID(p.ID),
		Name:              p.Name,
		Email:             p.Email,
		PasswordHash:      p.PasswordHash,
		Age:               p.Age,
		PhoneNumber:       p.PhoneNumber.String,
		Role:              domain.Role(p.Role),
		WalletBalance:     p.WalletBalance,
		TotalInvested:     p.TotalInvested,
		TotalReturns:      p.TotalReturns,
		Verified:          p.Verified,
		EmailVerified:     p.EmailVerified,
		PhoneVerified:     p.PhoneVerified,
		KYCStatus:         domain.KYCStatus(p.KYCStatus),
		VerificationLevel: domain.VerificationLevel(p.VerificationLevel),
		Blocked:           p.Blocked,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt.Time,
		DeletedAt:         p.DeletedAt.Time,
	}
}

func (p *PgUser) FromDomain(user domain.User) {
	*p = PgUser{
		ID:                uuid.UUID(user.ID),
		Name:              user.Name,
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		Age:               user.Age,
		PhoneNumber:       nullString(user.PhoneNumber),
		Role:              string(user.Role),
		WalletBalance:     user.WalletBalance,
		TotalInvested:     user.TotalInvested,
		TotalReturns:      user.TotalReturns,
		Verified:          user.Verified,
		EmailVerified:     user.EmailVerified,
		PhoneVerified:     user.PhoneVerified,
		KYCStatus:         string(user.KYCStatus),
		VerificationLevel: string(user.VerificationLevel),
		Blocked:           user.Blocked,
	}
}

type PgProject struct {
	ID      uuid.UUID `db:"id"       goqu:"skipinsert"`
	OwnerID uuid.UUID `db:"owner_id"`

	Title       string  `db:"title"`
	Description string  `db:"description"`
	ROI         float64 `db:"roi"`
	Duration    string  `db:"duration"`
	Category    string  `db:"category"`
	Image       string  `db:"image"`

	FundingGoal   int64 `db:"funding_goal"`
	FundedAmount  int64 `db:"funded_amount"`
	MinInvestment int64 `db:"min_investment"`
	InvestorCount int   `db:"investor_count"`

	RiskLevel string `db:"risk_level"`
	Status    string `db:"status"`
	Verified  bool   `db:"verified"`
	Blocked   bool   `db:"blocked"`

	ReviewNotes    sql.NullString `db:"review_notes"    goqu:"skipinsert"`
	RiskRating     sql.NullInt64  `db:"risk_rating"     goqu:"skipinsert"`
	ViabilityScore sql.NullInt64  `db:"viability_score" goqu:"skipinsert"`
	ReviewedBy     uuid.NullUUID  `db:"reviewed_by"     goqu:"skipinsert"`
	ReviewedAt     sql.NullTime   `db:"reviewed_at"     goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgProject) ToDomain() *domain.Project {
	out := &domain.Project{
		ID:            domain.ProjectID(p.ID),
		OwnerID:       domain.UserID(p.OwnerID),
		Title:         p.Title,
		Description:   p.Description,
		ROI:           p.ROI,
		Duration:      p.Duration,
		Category:      p.Category,
		Image:         p.Image,
		FundingGoal:   p.FundingGoal,
		FundedAmount:  p.FundedAmount,
		MinInvestment: p.MinInvestment,
		InvestorCount: p.InvestorCount,
		RiskLevel:     domain.RiskLevel(p.RiskLevel),
		Status:        domain.ProjectStatus(p.Status),
		Verified:      p.Verified,
		Blocked:       p.Blocked,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt.Time,
		DeletedAt:     p.DeletedAt.Time,
	}
	if p.ReviewedAt.Valid {
		out.Review = &domain.Review{
			Notes:          p.ReviewNotes.String,
			RiskRating:     int(p.RiskRating.Int64),
			ViabilityScore: int(p.ViabilityScore.Int64),
			ReviewedBy:     domain.UserID(p.ReviewedBy.UUID),
			ReviewedAt:     p.ReviewedAt.Time,
		}
	}

	return out
}

func (p *PgProject) FromDomain(project domain.Project) {
	*p = PgProject{
		ID:            uuid.UUID(project.ID),
		OwnerID:       uuid.UUID(project.OwnerID),
		Title:         project.Title,
		Description:   project.Description,
		ROI:           project.ROI,
		Duration:      project.Duration,
		Category:      project.Category,
		Image:         project.Image,
		FundingGoal:   project.FundingGoal,
		FundedAmount:  project.FundedAmount,
		MinInvestment: project.MinInvestment,
		InvestorCount: project.InvestorCount,
		RiskLevel:     string(project.RiskLevel),
		Status:        string(project.Status),
		Verified:      project.Verified,
		Blocked:       project.Blocked,
	}
}

func pgProjectsToDomain(rows []PgProject) []domain.Project {
	out := make([]domain.Project, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out
}

type PgInvestment struct {
	ID        uuid.UUID `db:"id"         goqu:"skipinsert"`
	ProjectID uuid.UUID `db:"project_id"`
	UserID    uuid.UUID `db:"user_id"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgInvestment) ToDomain() *domain.Investment {
	return &domain.Investment{
		ID:        domain.InvestmentID(p.ID),
		ProjectID: domain.ProjectID(p.ProjectID),
		UserID:    domain.UserID(p.UserID),
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
	}
}

type PgTransaction struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	Type   string `db:"type"`
	Status string `db:"status"`
	Amount int64  `db:"amount"`

	ProjectID    uuid.NullUUID  `db:"project_id"`
	ProjectTitle sql.NullString `db:"project_title"`
	Provider     sql.NullString `db:"provider"`
	PhoneNumber  sql.NullString `db:"phone_number"`
	Reference    sql.NullString `db:"reference"`
	Notes        sql.NullString `db:"notes"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgTransaction) ToDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:           domain.TransactionID(p.ID),
		UserID:       domain.UserID(p.UserID),
		Type:         domain.TransactionType(p.Type),
		Status:       domain.TransactionStatus(p.Status),
		Amount:       p.Amount,
		ProjectID:    domain.ProjectID(p.ProjectID.UUID),
		ProjectTitle: p.ProjectTitle.String,
		Provider:     domain.MoMoProvider(p.Provider.String),
		PhoneNumber:  p.PhoneNumber.String,
		Reference:    p.Reference.String,
		Notes:        p.Notes.String,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt.Time,
	}
}

func (p *PgTransaction) FromDomain(tx domain.Transaction) {
	*p = PgTransaction{
		ID:     uuid.UUID(tx.ID),
		UserID: uuid.UUID(tx.UserID),
		Type:   string(tx.Type),
		Status: string(tx.Status),
		Amount: tx.Amount,
		ProjectID: uuid.NullUUID{
			UUID:  uuid.UUID(tx.ProjectID),
			Valid: tx.ProjectID != domain.ProjectID(uuid.Nil),
		},
		ProjectTitle: nullString(tx.ProjectTitle),
		Provider:     nullString(string(tx.Provider)),
		PhoneNumber:  nullString(tx.PhoneNumber),
		Reference:    nullString(tx.Reference),
		Notes:        nullString(tx.Notes),
	}
}

func pgTransactionsToDomain(rows []PgTransaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out
}

type PgTransfer struct {
	ID     uuid.UUID     `db:"id"      goqu:"skipinsert"`
	UserID uuid.NullUUID `db:"user_id"`

	Direction string         `db:"direction"`
	FromPhone string         `db:"from_phone"`
	ToPhone   string         `db:"to_phone"`
	Amount    int64          `db:"amount"`
	Provider  string         `db:"provider"`
	Reference string         `db:"reference"`
	Status    string         `db:"status"`
	Notes     sql.NullString `db:"notes"`

	CreatedAt   time.Time    `db:"created_at"   goqu:"skipinsert"`
	ProcessedAt sql.NullTime `db:"processed_at"`
}

func (p *PgTransfer) ToDomain() *domain.Transfer {
	return &domain.Transfer{
		ID:          domain.TransferID(p.ID),
		UserID:      domain.UserID(p.UserID.UUID),
		Direction:   domain.TransferDirection(p.Direction),
		FromPhone:   p.FromPhone,
		ToPhone:     p.ToPhone,
		Amount:      p.Amount,
		Provider:    domain.MoMoProvider(p.Provider),
		Reference:   p.Reference,
		Status:      domain.TransactionStatus(p.Status),
		Notes:       p.Notes.String,
		CreatedAt:   p.CreatedAt,
		ProcessedAt: p.ProcessedAt.Time,
	}
}

func (p *PgTransfer) FromDomain(transfer domain.Transfer) {
	*p = PgTransfer{
		ID: uuid.UUID(transfer.ID),
		UserID: uuid.NullUUID{
			UUID:  uuid.UUID(transfer.UserID),
			Valid: transfer.UserID != domain.UserID(uuid.Nil),
		},
		Direction: string(transfer.Direction),
		FromPhone: transfer.FromPhone,
		ToPhone:   transfer.ToPhone,
		Amount:    transfer.Amount,
		Provider:  string(transfer.Provider),
		Reference: transfer.Reference,
		Status:    string(transfer.Status),
		Notes:     nullString(transfer.Notes),
		ProcessedAt: sql.NullTime{
			Time:  transfer.ProcessedAt,
			Valid: !transfer.ProcessedAt.IsZero(),
		},
	}
}

type PgMessage struct {
	ID         uuid.UUID `db:"id"          goqu:"skipinsert"`
	SenderID   uuid.UUID `db:"sender_id"`
	ReceiverID uuid.UUID `db:"receiver_id"`
	Body       string    `db:"body"`
	Read       bool      `db:"read"`
	CreatedAt  time.Time `db:"created_at"  goqu:"skipinsert"`
}

func (p *PgMessage) ToDomain() *domain.Message {
	return &domain.Message{
		ID:         domain.MessageID(p.ID),
		SenderID:   domain.UserID(p.SenderID),
		ReceiverID: domain.UserID(p.ReceiverID),
		Body:       p.Body,
		Read:       p.Read,
		CreatedAt:  p.CreatedAt,
	}
}

type PgNotification struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	Title string          `db:"title"`
	Body  string          `db:"body"`
	Type  string          `db:"type"`
	Data  json.RawMessage `db:"data"`

	Read   bool         `db:"read"`
	Sent   bool         `db:"sent"`
	SentAt sql.NullTime `db:"sent_at" goqu:"skipinsert"`
	ReadAt sql.NullTime `db:"read_at" goqu:"skipinsert"`

	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgNotification) ToDomain() (*domain.Notification, error) {
	data := map[string]string{}
	if len(p.Data) > 0 {
		if err := json.Unmarshal(p.Data, &data); err != nil {
			return nil, fmt.Errorf("could not unmarshal notification data: %w", err)
		}
	}

	return &domain.Notification{
		ID:        domain.NotificationID(p.ID),
		UserID:    domain.UserID(p.UserID),
		Title:     p.Title,
		Body:      p.Body,
		Type:      domain.NotificationType(p.Type),
		Data:      data,
		Read:      p.Read,
		Sent:      p.Sent,
		SentAt:    p.SentAt.Time,
		ReadAt:    p.ReadAt.Time,
		CreatedAt: p.CreatedAt,
	}, nil
}

func (p *PgNotification) FromDomain(notification domain.Notification) error {
	data := notification.Data
	if data == nil {
		data = map[string]string{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("could not marshal notification data: %w", err)
	}

	*p = PgNotification{
		ID:     uuid.UUID(notification.ID),
		UserID: uuid.UUID(notification.UserID),
		Title:  notification.Title,
		Body:   notification.Body,
		Type:   string(notification.Type),
		Data:   b,
		Read:   notification.Read,
		Sent:   notification.Sent,
	}

	return nil
}

type PgDeviceToken struct {
	ID        uuid.UUID `db:"id"         goqu:"skipinsert"`
	UserID    uuid.UUID `db:"user_id"`
	Token     string    `db:"token"`
	Platform  string    `db:"platform"`
	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgDeviceToken) ToDomain() *domain.DeviceToken {
	return &domain.DeviceToken{
		ID:        p.ID,
		UserID:    domain.UserID(p.UserID),
		Token:     p.Token,
		Platform:  domain.DevicePlatform(p.Platform),
		CreatedAt: p.CreatedAt,
	}
}

type PgKYCRecord struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`
	Kind   string    `db:"kind"`

	DocumentType sql.NullString `db:"document_type"`
	Country      sql.NullString `db:"country"`

	FullName    sql.NullString `db:"full_name"`
	DateOfBirth sql.NullString `db:"date_of_birth"`
	Address     sql.NullString `db:"address"`
	IDNumber    sql.NullString `db:"id_number"`

	Status string          `db:"status"`
	Result json.RawMessage `db:"result" goqu:"skipinsert"`

	SubmittedAt time.Time     `db:"submitted_at" goqu:"skipinsert"`
	ReviewedAt  sql.NullTime  `db:"reviewed_at"  goqu:"skipinsert"`
	ReviewedBy  uuid.NullUUID `db:"reviewed_by"  goqu:"skipinsert"`
}

func (p *PgKYCRecord) ToDomain() (*domain.KYCRecord, error) {
	out := &domain.KYCRecord{
		ID:           domain.KYCRecordID(p.ID),
		UserID:       domain.UserID(p.UserID),
		Kind:         domain.KYCRecordKind(p.Kind),
		DocumentType: domain.DocumentType(p.DocumentType.String),
		Country:      p.Country.String,
		FullName:     p.FullName.String,
		DateOfBirth:  p.DateOfBirth.String,
		Address:      p.Address.String,
		IDNumber:     p.IDNumber.String,
		Status:       domain.KYCStatus(p.Status),
		SubmittedAt:  p.SubmittedAt,
		ReviewedAt:   p.ReviewedAt.Time,
		ReviewedBy:   domain.UserID(p.ReviewedBy.UUID),
	}
	if len(p.Result) > 0 {
		var result domain.ScreeningResult
		if err := json.Unmarshal(p.Result, &result); err != nil {
			return nil, fmt.Errorf("could not unmarshal screening result: %w", err)
		}
		if result != (domain.ScreeningResult{}) {
			out.Result = &result
		}
	}

	return out, nil
}

func (p *PgKYCRecord) FromDomain(record domain.KYCRecord) {
	*p = PgKYCRecord{
		ID:           uuid.UUID(record.ID),
		UserID:       uuid.UUID(record.UserID),
		Kind:         string(record.Kind),
		DocumentType: nullString(string(record.DocumentType)),
		Country:      nullString(record.Country),
		FullName:     nullString(record.FullName),
		DateOfBirth:  nullString(record.DateOfBirth),
		Address:      nullString(record.Address),
		IDNumber:     nullString(record.IDNumber),
		Status:       string(record.Status),
	}
}

func pgKYCRecordsToDomain(rows []PgKYCRecord) ([]domain.KYCRecord, error) {
	out := make([]domain.KYCRecord, 0, len(rows))
	for i := range rows {
		d, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}

type PgVerificationToken struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`
	Kind   string    `db:"kind"`
	Token  string    `db:"token"`

	Attempts   int          `db:"attempts"    goqu:"skipinsert"`
	ExpiresAt  time.Time    `db:"expires_at"`
	ConsumedAt sql.NullTime `db:"consumed_at" goqu:"skipinsert"`
	CreatedAt  time.Time    `db:"created_at"  goqu:"skipinsert"`
}

func (p *PgVerificationToken) ToDomain() *domain.VerificationToken {
	return &domain.VerificationToken{
		ID:        domain.VerificationTokenID(p.ID),
		UserID:    domain.UserID(p.UserID),
		Kind:      domain.VerificationKind(p.Kind),
		Token:     p.Token,
		Attempts:  p.Attempts,
		Used:      p.ConsumedAt.Valid,
		UsedAt:    p.ConsumedAt.Time,
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
	}
}

type PgAnalyticsSnapshot struct {
	ID        uuid.UUID       `db:"id"         goqu:"skipinsert"`
	Day       time.Time       `db:"day"`
	Stats     json.RawMessage `db:"stats"`
	CreatedAt time.Time       `db:"created_at" goqu:"skipinsert"`
}

func (p *PgAnalyticsSnapshot) ToDomain() (*domain.AnalyticsSnapshot, error) {
	var stats domain.PlatformStats
	if err := json.Unmarshal(p.Stats, &stats); err != nil {
		return nil, fmt.Errorf("could not unmarshal snapshot stats: %w", err)
	}

	return &domain.AnalyticsSnapshot{
		Day:       p.Day,
		Stats:     stats,
		CreatedAt: p.CreatedAt,
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
