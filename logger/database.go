package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/tracknine/spoor"
	"github.com/tracknine/spoor/postgres"
	"gorm.io/gorm"
)

// A LogRow is the relational shape of a [Record] in the logs table.
// All columns beyond the identifying ones are nullable, because caller
// context and error detail are best effort.
type LogRow struct {
	ID             uint    `gorm:"primaryKey"`
	NameLogger     string  `gorm:"column:name_logger;size:255;not null"`
	Level          string  `gorm:"size:50;not null"`
	Message        string  `gorm:"type:text;not null"`
	Module         *string `gorm:"size:255"`
	Classname      *string `gorm:"size:255"`
	FuncName       *string `gorm:"column:func_name;size:255"`
	Lineno         *int
	ErrorType      *string `gorm:"size:255"`
	ErrorMessage   *string `gorm:"type:text"`
	ErrorArgs      *string `gorm:"type:text"`
	ErrorTraceback *string `gorm:"type:text"`
	CreatedAt      time.Time
}

func (LogRow) TableName() string { return "logs" }

// DatabaseConfig configures a database sink.
//
// Exactly one of DB and Cxn should be set: DB hands the sink an
// established GORM connection the caller keeps owning; Cxn has the
// sink open - and on Close release - its own connection.
type DatabaseConfig struct {
	DB  *gorm.DB
	Cxn *postgres.CxnConfig

	// MinLevel defaults to LevelDebug.
	MinLevel Level
}

func (cfg DatabaseConfig) provision(style spoor.Style) (Sink, error) {
	db := cfg.DB
	owned := false
	if db == nil {
		if cfg.Cxn == nil {
			return nil, fmt.Errorf("%w: database sink requires a connection", spoor.ErrBadConfig)
		}

		var err error
		db, err = postgres.Connect(cfg.Cxn, style)
		if err != nil {
			return nil, err
		}
		owned = true
	}

	if err := db.AutoMigrate(new(LogRow)); err != nil {
		return nil, fmt.Errorf("%w: ensure logs table: %s", spoor.ErrBadConfig, err)
	}

	min := cfg.MinLevel
	if min == LevelUnk {
		min = LevelDebug
	}

	return &DatabaseSink{db: db, owned: owned, min: min}, nil
}

// A DatabaseSink stores each record as one row in the logs table,
// committing a dedicated transaction per emission.
type DatabaseSink struct {
	db    *gorm.DB
	owned bool
	min   Level
}

func (s *DatabaseSink) Emit(r Record) error {
	row := newLogRow(r)

	// One transaction per record; Transaction rolls back on error,
	// so a failed commit leaves neither a partial row nor an open
	// transaction behind.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
	if err != nil {
		return fmt.Errorf("%w: store log row: %s", spoor.ErrUnexpected, err)
	}

	return nil
}

func (s *DatabaseSink) MinLevel() Level { return s.min }

// Close releases the underlying connection when the sink opened it.
func (s *DatabaseSink) Close() error {
	if !s.owned {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func newLogRow(r Record) *LogRow {
	row := &LogRow{
		NameLogger: r.LoggerName,
		Level:      r.Level.String(),
		Message:    r.Message,
		Module:     strCol(r.Caller.Module),
		Classname:  strCol(r.Caller.Class),
		FuncName:   strCol(r.Caller.Function),
	}
	if r.Caller.Line > 0 {
		line := r.Caller.Line
		row.Lineno = &line
	}

	if r.Err != nil {
		row.ErrorType = strCol(r.Err.Kind)
		row.ErrorMessage = strCol(r.Err.Message)
		row.ErrorArgs = strCol(strings.Join(r.Err.Args, ", "))
		row.ErrorTraceback = strCol(strings.Join(r.Err.Trace, "\n"))
	}

	return row
}

// strCol maps an absent string field to a null column.
func strCol(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
