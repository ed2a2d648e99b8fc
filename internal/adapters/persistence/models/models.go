package models

import (
	"encoding/json"
	"time"

	"dofe-kas/internal/core/domain"

	"gorm.io/gorm"
)

// User represents the users table
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Nama             string         `gorm:"size:100;not null" json:"nama"`
	NIM              string         `gorm:"column:nim;uniqueIndex;size:20;not null" json:"nim"`
	Password         string         `gorm:"size:255;not null" json:"-"`
	Role             domain.Role    `gorm:"size:20;default:'anggota'" json:"role"`
	RefreshTokenHash *string        `gorm:"size:255;index" json:"-"`
	RefreshExpiresAt *time.Time     `json:"-"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint        `json:"id"`
	Nama      string      `json:"nama"`
	NIM       string      `json:"nim"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Nama:      u.Nama,
		NIM:       u.NIM,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Kas represents the kas table (monthly dues payments).
// One meaningful record per member per month is enforced in the service:
// rejected and soft-deleted records do not block a new submission, so the
// composite index here is for lookups only, not uniqueness.
type Kas struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index:idx_kas_user_bulan" json:"user_id"`
	Jumlah    int64            `gorm:"not null" json:"jumlah"`
	Bulan     string           `gorm:"size:25;not null;index:idx_kas_user_bulan" json:"bulan"`
	Bukti     *string          `gorm:"size:255" json:"bukti"`
	Status    domain.KasStatus `gorm:"type:enum('pending','diterima','ditolak');default:'pending'" json:"status"`
	Catatan   *string          `gorm:"size:50" json:"catatan"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
	User      User             `gorm:"foreignKey:UserID" json:"-"`
}

func (Kas) TableName() string {
	return "kas"
}

// KasResponse DTO, joined with the owning member's name and role.
type KasResponse struct {
	ID        uint             `json:"id"`
	UserID    uint             `json:"user_id"`
	Nama      string           `json:"nama,omitempty"`
	Role      domain.Role      `json:"role,omitempty"`
	Jumlah    int64            `json:"jumlah"`
	Bulan     string           `json:"bulan"`
	Bukti     *string          `json:"bukti"`
	Status    domain.KasStatus `json:"status"`
	Catatan   *string          `json:"catatan"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (k *Kas) ToResponse() *KasResponse {
	return &KasResponse{
		ID:        k.ID,
		UserID:    k.UserID,
		Nama:      k.User.Nama,
		Role:      k.User.Role,
		Jumlah:    k.Jumlah,
		Bulan:     k.Bulan,
		Bukti:     k.Bukti,
		Status:    k.Status,
		Catatan:   k.Catatan,
		CreatedAt: k.CreatedAt,
		UpdatedAt: k.UpdatedAt,
	}
}

// Pengeluaran represents the pengeluaran table (expenses).
type Pengeluaran struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	Jumlah    int64          `gorm:"not null" json:"jumlah"`
	Deskripsi string         `gorm:"size:255;not null" json:"deskripsi"`
	Tanggal   time.Time      `gorm:"not null" json:"tanggal"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
}

func (Pengeluaran) TableName() string {
	return "pengeluaran"
}

// PengeluaranResponse DTO
type PengeluaranResponse struct {
	ID        uint        `json:"id"`
	UserID    uint        `json:"user_id"`
	Nama      string      `json:"nama,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	Jumlah    int64       `json:"jumlah"`
	Deskripsi string      `json:"deskripsi"`
	Tanggal   time.Time   `json:"tanggal"`
	CreatedAt time.Time   `json:"created_at"`
}

func (p *Pengeluaran) ToResponse() *PengeluaranResponse {
	return &PengeluaranResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Nama:      p.User.Nama,
		Role:      p.User.Role,
		Jumlah:    p.Jumlah,
		Deskripsi: p.Deskripsi,
		Tanggal:   p.Tanggal,
		CreatedAt: p.CreatedAt,
	}
}

// AuditLog represents the audit_logs table. Append-only: rows are never
// updated or deleted through the API.
type AuditLog struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	Action       domain.AuditAction `gorm:"size:50;not null;index" json:"action"`
	Description  string             `gorm:"type:text;not null" json:"description"`
	UserID       *uint              `json:"userId"`
	UserName     *string            `gorm:"size:100" json:"userName"`
	TargetUserID *uint              `json:"targetUserId"`
	TargetUser   *string            `gorm:"size:100" json:"targetUser"`
	Metadata     *string            `gorm:"type:text" json:"-"`
	CreatedAt    time.Time          `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// SetMetadata stores arbitrary structured metadata as JSON text.
func (a *AuditLog) SetMetadata(v any) error {
	if v == nil {
		a.Metadata = nil
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s := string(raw)
	a.Metadata = &s
	return nil
}

// MetadataValue decodes the stored metadata, or returns nil when absent.
func (a *AuditLog) MetadataValue() map[string]any {
	if a.Metadata == nil {
		return nil
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(*a.Metadata), &v); err != nil {
		return nil
	}
	return v
}

// AuditLogResponse DTO with metadata decoded back to JSON.
type AuditLogResponse struct {
	ID           uint               `json:"id"`
	Action       domain.AuditAction `json:"action"`
	Description  string             `json:"description"`
	UserID       *uint              `json:"userId"`
	UserName     *string            `json:"userName"`
	TargetUserID *uint              `json:"targetUserId"`
	TargetUser   *string            `json:"targetUser"`
	Metadata     map[string]any     `json:"metadata"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (a *AuditLog) ToResponse() *AuditLogResponse {
	return &AuditLogResponse{
		ID:           a.ID,
		Action:       a.Action,
		Description:  a.Description,
		UserID:       a.UserID,
		UserName:     a.UserName,
		TargetUserID: a.TargetUserID,
		TargetUser:   a.TargetUser,
		Metadata:     a.MetadataValue(),
		CreatedAt:    a.CreatedAt,
	}
}

// AutoMigrate creates or migrates all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Kas{},
		&Pengeluaran{},
		&AuditLog{},
	)
}
