package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/formhub/internal/security"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Error codes returned by Register.
const (
	CodeEmailExists  = "auth/email-already-exists"
	CodeWeakPassword = "auth/weak-password"
	CodeInvalidEmail = "auth/invalid-email"
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string        { return e.Code + ": " + e.Message }
func (e *Error) ErrorCode() string    { return e.Code }
func (e *Error) ErrorMessage() string { return e.Message }

// Identity is one registered user in the directory.
type Identity struct {
	UID          string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"uniqueIndex;size:320;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type Options struct {
	MinPasswordLength int
	Hasher            security.Hasher
}

// Directory registers identities in a gorm-managed table.
type Directory struct {
	db       *gorm.DB
	opts     Options
	validate *validator.Validate
	now      func() time.Time
	newUID   func() string
}

// Open opens a sqlite database at dsn and migrates the identities table.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})

	if err != nil {
		return nil, fmt.Errorf("open directory db: %w", err)
	}

	if err := db.AutoMigrate(&Identity{}); err != nil {
		return nil, fmt.Errorf("migrate directory db: %w", err)
	}

	return db, nil
}

func New(db *gorm.DB, opts Options) (*Directory, error) {
	if db == nil {
		return nil, fmt.Errorf("directory requires database handle")
	}

	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 6
	}

	return &Directory{
		db:       db,
		opts:     opts,
		validate: validator.New(),
		now:      time.Now,
		newUID:   uuid.NewString,
	}, nil
}

// NormalizeEmail is the form an email is stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new identity and returns its uid.
func (d *Directory) Register(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	if err := d.validate.Var(email, "required,email"); err != nil {
		return "", &Error{Code: CodeInvalidEmail, Message: "The email address is improperly formatted."}
	}

	if len([]rune(password)) < d.opts.MinPasswordLength {
		return "", &Error{
			Code:    CodeWeakPassword,
			Message: fmt.Sprintf("The password must be a string with at least %d characters.", d.opts.MinPasswordLength),
		}
	}

	hash, err := d.opts.Hasher.Hash(password)

	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}

	identity := Identity{
		UID:          d.newUID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    d.now().UTC(),
	}

	err = d.db.WithContext(ctx).Create(&identity).Error

	if err != nil {
		if isDuplicate(err) {
			return "", &Error{Code: CodeEmailExists, Message: "The email address is already in use by another account."}
		}
		return "", fmt.Errorf("create identity: %w", err)
	}

	return identity.UID, nil
}

// Lookup returns the identity registered for email.
func (d *Directory) Lookup(ctx context.Context, email string) (Identity, error) {
	var identity Identity

	err := d.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&identity).Error

	if err != nil {
		return Identity{}, err
	}

	return identity, nil
}

func (d *Directory) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Directory) Close(context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
