package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"tourneybot/entity"
	"tourneybot/internal/config"
	"tourneybot/internal/storage/jsonfile"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

const (
	stateTable = "tournament_state"
	pingTries  = 3
	pingDelay  = 10 * time.Second
)

// MySql keeps the snapshot as one JSON row, plus a few counters so the table
// can be inspected without decoding the document.
type MySql struct {
	db         *sql.DB
	prefix     string
	statements map[string]*sql.Stmt
	mu         sync.Mutex
}

func mysqlDSN(conf *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
		conf.MySql.UserName, conf.MySql.Password, conf.MySql.HostName, conf.MySql.Port, conf.MySql.Database)
}

func NewSQLClient(conf *config.Config) (*MySql, error) {
	db, err := sql.Open("mysql", mysqlDSN(conf))
	if err != nil {
		return nil, fmt.Errorf("sql connect: %w", err)
	}

	// wait for a database to start
	for i := 0; i < pingTries; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i == pingTries-1 {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		time.Sleep(pingDelay)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &MySql{
		db:         db,
		prefix:     conf.MySql.Prefix,
		statements: make(map[string]*sql.Stmt),
	}
	if err = sdb.createStateTable(); err != nil {
		sdb.Close()
		return nil, err
	}
	if err = sdb.addColumnIfNotExists(stateTable, "pending_count", "INT NOT NULL DEFAULT 0"); err != nil {
		sdb.Close()
		return nil, err
	}
	if err = sdb.addColumnIfNotExists(stateTable, "player_count", "INT NOT NULL DEFAULT 0"); err != nil {
		sdb.Close()
		return nil, err
	}
	return sdb, nil
}

func (s *MySql) Close() {
	s.closeStmt()
	_ = s.db.Close()
}

func (s *MySql) Load(ctx context.Context) (*entity.Snapshot, error) {
	stmt, err := s.stmtSelectState()
	if err != nil {
		return nil, err
	}
	var data string
	err = stmt.QueryRowContext(ctx, stateDocumentID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	var snapshot entity.Snapshot
	if err = json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &snapshot, nil
}

func (s *MySql) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	data, err := jsonfile.Encode(snapshot)
	if err != nil {
		return err
	}
	stmt, err := s.stmtUpsertState()
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx,
		stateDocumentID,
		string(data),
		len(snapshot.Pending),
		countPlayers(snapshot),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func countPlayers(snapshot *entity.Snapshot) int {
	n := 0
	for _, players := range snapshot.Players {
		n += len(players)
	}
	return n
}

func (s *MySql) createStateTable() error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s%s (
		id VARCHAR(16) NOT NULL PRIMARY KEY,
		data MEDIUMTEXT NOT NULL,
		updated_at DATETIME NOT NULL
	) DEFAULT CHARSET=utf8mb4`, s.prefix, stateTable)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create table %s%s: %w", s.prefix, stateTable, err)
	}
	return nil
}

func (s *MySql) addColumnIfNotExists(tableName, columnName, columnType string) error {
	var column string
	err := s.db.QueryRow(
		`SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`,
		s.prefix+tableName, columnName,
	).Scan(&column)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check column %s: %w", columnName, err)
	}
	alterQuery := fmt.Sprintf(`ALTER TABLE %s%s ADD COLUMN %s %s`, s.prefix, tableName, columnName, columnType)
	if _, err = s.db.Exec(alterQuery); err != nil {
		return fmt.Errorf("add column %s: %w", columnName, err)
	}
	return nil
}

func (s *MySql) prepareStmt(name, query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stmt, ok := s.statements[name]; ok {
		return stmt, nil
	}
	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare statement [%s]: %w", name, err)
	}
	s.statements[name] = stmt
	return stmt, nil
}

func (s *MySql) closeStmt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, stmt := range s.statements {
		_ = stmt.Close()
		delete(s.statements, name)
	}
}

func (s *MySql) stmtSelectState() (*sql.Stmt, error) {
	query := fmt.Sprintf(`SELECT data FROM %s%s WHERE id = ?`, s.prefix, stateTable)
	return s.prepareStmt("selectState", query)
}

func (s *MySql) stmtUpsertState() (*sql.Stmt, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s%s (id, data, pending_count, player_count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			data = VALUES(data),
			pending_count = VALUES(pending_count),
			player_count = VALUES(player_count),
			updated_at = VALUES(updated_at)`,
		s.prefix, stateTable,
	)
	return s.prepareStmt("upsertState", query)
}
