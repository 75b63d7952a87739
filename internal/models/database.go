package models

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the database used by the backend.
var DB *gorm.DB

type ContextKey string

const (
	DBContextURL      ContextKey = "coincraft-url"
	DBContextCurrency ContextKey = "coincraft-currency"
)

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

var plural = regexp.MustCompile("ies$")

func config() *gorm.Config {
	return &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &logger{
			Logger: log.Logger,
		},
	}
}

// Connect opens the SQLite database at dsn, migrates it and
// configures the connection pool.
func Connect(dsn string) error {
	// Migrate with foreign keys disabled since sqlite recreates
	// tables to alter columns
	db, err := gorm.Open(sqlite.Open(dsn), config())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Reconnect with foreign keys enabled
	db, err = gorm.Open(sqlite.Open(fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)), config())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection serialises all writers and
	// prevents SQLITE_BUSY errors
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	return register(db)
}

// ConnectPostgres opens the PostgreSQL database described by dsn
// and migrates it.
func ConnectPostgres(dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), config())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return register(db)
}

// register registers the error callbacks and sets DB.
func register(db *gorm.DB) error {
	callbacks := []struct {
		processor interface {
			Register(string, func(*gorm.DB)) error
		}
		name string
		fn   func(*gorm.DB)
	}{
		{db.Callback().Query().After("*"), "coincraft:after_query", queryCallback},
		{db.Callback().Query().After("*"), "coincraft:after_query_general", generalCallback},
		{db.Callback().Create().After("*"), "coincraft:after_create", createUpdateCallback},
		{db.Callback().Create().After("*"), "coincraft:after_create_general", generalCallback},
		{db.Callback().Update().After("*"), "coincraft:after_update", createUpdateCallback},
		{db.Callback().Update().After("*"), "coincraft:after_update_general", generalCallback},
		{db.Callback().Delete().After("*"), "coincraft:after_delete", deleteCallback},
		{db.Callback().Delete().After("*"), "coincraft:after_delete_general", generalCallback},
		{db.Callback().Raw().After("*"), "coincraft:after_raw_general", generalCallback},
		{db.Callback().Row().After("*"), "coincraft:after_row_general", generalCallback},
	}

	for _, c := range callbacks {
		if err := c.processor.Register(c.name, c.fn); err != nil {
			return err
		}
	}

	DB = db
	return nil
}

// Atomic runs fn inside a database transaction on DB.
//
// Errors of the database itself, e.g. when beginning or committing
// the transaction, are logged and reported as ErrGeneral.
func Atomic(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return general(DB.WithContext(ctx).Transaction(fn))
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")
		name = plural.ReplaceAllString(name, "y")
		name = strings.TrimSuffix(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback replaces constraint violations with user friendly errors.
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	msg := db.Error.Error()
	var pgErr *pgconn.PgError
	isPg := errors.As(db.Error, &pgErr)

	switch {
	case strings.Contains(msg, "UNIQUE constraint failed: accounts.owner_id, accounts.name"),
		isPg && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "account_owner_name":
		db.Error = ErrAccountNameNotUnique

	case strings.Contains(msg, "UNIQUE constraint failed: categories.owner_id, categories.name"),
		isPg && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "category_owner_name":
		db.Error = ErrCategoryNameNotUnique

	case strings.Contains(msg, "CHECK constraint failed: source_destination_different"),
		isPg && pgErr.Code == pgCheckViolation && pgErr.ConstraintName == "source_destination_different":
		db.Error = ErrSourceDoesNotEqualDestination
	}
}

// deleteCallback replaces foreign key violations on deletion.
func deleteCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	var pgErr *pgconn.PgError
	if strings.Contains(db.Error.Error(), "FOREIGN KEY constraint failed") || (errors.As(db.Error, &pgErr) && pgErr.Code == pgForeignKeyViolation) {
		db.Error = fmt.Errorf("%w: %s", ErrResourceInUse, db.Statement.Table)
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	db.Error = general(db.Error)
}

func general(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *go_sqlite.Error
	var pgErr *pgconn.PgError

	// "sql: database is closed" is hard-coded in database/sql
	if err.Error() == "sql: database is closed" || errors.As(err, &sqliteErr) || errors.As(err, &pgErr) {
		log.Error().Msgf("%T: %v", err, err.Error())
		return ErrGeneral
	}

	return err
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(Account{}, Category{}, Allocation{}, Transaction{}, AllocationLink{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
