package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// credential is the row holding one user's login credentials. Passwords are
// stored as bcrypt hashes, never in plain text.
type credential struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	Email    string `gorm:"uniqueIndex;type:varchar(255)"`
	Password string `gorm:"type:varchar(255)"`
}

func (credential) TableName() string {
	return "credentials"
}

// LocalProvider is a Provider backed by a GORM credential table.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a LocalProvider and migrates its credential table.
func NewLocalProvider(db *gorm.DB) (*LocalProvider, error) {
	if err := db.AutoMigrate(&credential{}); err != nil {
		return nil, fmt.Errorf("failed to migrate credentials table: %w", err)
	}
	return &LocalProvider{db: db}, nil
}

// Register stores a new credential and returns the assigned user id.
func (p *LocalProvider) Register(email, password string) (string, error) {
	var existing credential
	err := p.db.First(&existing, "email = ?", email).Error
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to check existing email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	cred := credential{
		ID:       uuid.New().String(),
		Email:    email,
		Password: string(hashed),
	}
	if err := p.db.Create(&cred).Error; err != nil {
		return "", fmt.Errorf("failed to store credential: %w", err)
	}
	return cred.ID, nil
}

// Login verifies the email/password pair and returns the user id.
// It does not reveal whether the email exists.
func (p *LocalProvider) Login(email, password string) (string, error) {
	var cred credential
	if err := p.db.First(&cred, "email = ?", email).Error; err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return cred.ID, nil
}
