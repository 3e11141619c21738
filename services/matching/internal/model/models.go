package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingModel struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     string    `gorm:"type:uuid;not null;index" json:"owner_id"`
	Kind        string    `gorm:"type:varchar(16);not null" json:"kind"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(64);not null" json:"category"`
	Condition   string    `gorm:"type:varchar(64)" json:"condition"`
	Urgency     string    `gorm:"type:varchar(16)" json:"urgency"`
	Approved    bool      `gorm:"not null;default:false" json:"approved"`
	Status      string    `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ListingModel) TableName() string {
	return "listings"
}

func (l *ListingModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

type RequestModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	ListingID string    `gorm:"type:uuid;not null;index" json:"listing_id"`
	SeekerID  string    `gorm:"type:uuid;not null;index" json:"seeker_id"`
	Message   string    `gorm:"type:text" json:"message"`
	Status    string    `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RequestModel) TableName() string {
	return "requests"
}

func (r *RequestModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type TransactionModel struct {
	ID          string     `gorm:"type:uuid;primary_key" json:"id"`
	ListingID   string     `gorm:"type:uuid;uniqueIndex;not null" json:"listing_id"`
	RequestID   string     `gorm:"type:uuid;uniqueIndex;not null" json:"request_id"`
	DonorID     string     `gorm:"type:uuid;not null;index" json:"donor_id"`
	ReceiverID  string     `gorm:"type:uuid;not null;index" json:"receiver_id"`
	IsReceived  bool       `gorm:"not null;default:false" json:"is_received"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

func (t *TransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type FeedbackModel struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID string    `gorm:"type:uuid;uniqueIndex;not null" json:"transaction_id"`
	GiverID       string    `gorm:"type:uuid;not null" json:"giver_id"`
	ReceiverID    string    `gorm:"type:uuid;not null" json:"receiver_id"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

func (FeedbackModel) TableName() string {
	return "feedback"
}

func (f *FeedbackModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

type OutboxEventModel struct {
	ID          string     `gorm:"type:uuid;primary_key" json:"id"`
	EventType   string     `gorm:"type:varchar(64);not null" json:"event_type"`
	AggregateID string     `gorm:"type:uuid;not null" json:"aggregate_id"`
	Payload     string     `gorm:"type:jsonb;not null" json:"payload"`
	Status      string     `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	LastError   string     `gorm:"type:text" json:"last_error"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (OutboxEventModel) TableName() string {
	return "outbox_events"
}

func (o *OutboxEventModel) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
