// Package review содержит локальное sqlite-хранилище очереди ручной
// проверки: кандидаты сопоставления брендов с ярусами medium/low и
// снимки значений перед разрушающими обновлениями каталога.
package review

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Статусы элемента очереди проверки
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Store локальное хранилище очереди проверки
type Store struct {
	conn             *sql.DB
	tableCreateMutex sync.Mutex
}

// Item элемент очереди ручной проверки
type Item struct {
	ID          int64     `json:"id"`
	ProductKey  string    `json:"product_key"`
	RawBrand    string    `json:"raw_brand"`
	ProductName string    `json:"product_name"`
	Candidate   string    `json:"candidate"`
	Tier        string    `json:"tier"`
	Score       float64   `json:"score"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewStore открывает (или создает) локальное хранилище по указанному пути.
// Для тестов используется ":memory:".
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "review.db"
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open review store: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	s.tableCreateMutex.Lock()
	defer s.tableCreateMutex.Unlock()

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS review_queue (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_key TEXT NOT NULL,
			raw_brand TEXT NOT NULL,
			product_name TEXT NOT NULL DEFAULT '',
			candidate TEXT NOT NULL DEFAULT '',
			tier TEXT NOT NULL,
			score REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_review_queue_status ON review_queue(status)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_review_queue_product_pending ON review_queue(product_key) WHERE status = 'pending'`,
		`CREATE TABLE IF NOT EXISTS rollback_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			operation TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.conn.Exec(migration); err != nil {
			return fmt.Errorf("review store migration failed: %w", err)
		}
	}

	return nil
}

// Close закрывает хранилище
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// GetDB возвращает нижележащее подключение (используется в тестах)
func (s *Store) GetDB() *sql.DB {
	return s.conn
}

// Enqueue ставит кандидата в очередь проверки. Повторная постановка того
// же product_key с ожидающим статусом молча игнорируется.
func (s *Store) Enqueue(item *Item) error {
	if item == nil {
		return fmt.Errorf("item is nil")
	}
	if item.ProductKey == "" {
		return fmt.Errorf("product_key is empty")
	}

	_, err := s.conn.Exec(`
		INSERT OR IGNORE INTO review_queue (product_key, raw_brand, product_name, candidate, tier, score, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.ProductKey, item.RawBrand, item.ProductName, item.Candidate, item.Tier, item.Score, StatusPending)
	if err != nil {
		return fmt.Errorf("failed to enqueue review item for %s: %w", item.ProductKey, err)
	}

	return nil
}

// ListPending возвращает ожидающие проверки элементы
func (s *Store) ListPending(limit int) ([]*Item, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.conn.Query(`
		SELECT id, product_key, raw_brand, product_name, candidate, tier, score, status, created_at
		FROM review_queue
		WHERE status = ?
		ORDER BY id
		LIMIT ?
	`, StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending review items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ProductKey, &item.RawBrand, &item.ProductName,
			&item.Candidate, &item.Tier, &item.Score, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review items: %w", err)
	}

	return items, nil
}

// Get возвращает элемент очереди по идентификатору; (nil, nil) если нет
func (s *Store) Get(id int64) (*Item, error) {
	var item Item
	err := s.conn.QueryRow(`
		SELECT id, product_key, raw_brand, product_name, candidate, tier, score, status, created_at
		FROM review_queue WHERE id = ?
	`, id).Scan(&item.ID, &item.ProductKey, &item.RawBrand, &item.ProductName,
		&item.Candidate, &item.Tier, &item.Score, &item.Status, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review item %d: %w", id, err)
	}

	return &item, nil
}

// SetStatus помечает элемент очереди одобренным или отклоненным
func (s *Store) SetStatus(id int64, status string) error {
	if status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("invalid review status %q", status)
	}

	res, err := s.conn.Exec(`UPDATE review_queue SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set review status for %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("review item %d not found", id)
	}

	return nil
}

// SaveRollbackSnapshot сохраняет снимок значений перед разрушающим
// обновлением. payload сериализуется в JSON.
func (s *Store) SaveRollbackSnapshot(operation string, payload interface{}) (int64, error) {
	if operation == "" {
		return 0, fmt.Errorf("operation is empty")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal rollback payload: %w", err)
	}

	res, err := s.conn.Exec(`INSERT INTO rollback_snapshots (operation, payload) VALUES (?, ?)`,
		operation, string(data))
	if err != nil {
		return 0, fmt.Errorf("failed to save rollback snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get rollback snapshot id: %w", err)
	}

	return id, nil
}

// GetRollbackSnapshot возвращает JSON-снимок по идентификатору
func (s *Store) GetRollbackSnapshot(id int64) (operation string, payload string, err error) {
	err = s.conn.QueryRow(`SELECT operation, payload FROM rollback_snapshots WHERE id = ?`, id).
		Scan(&operation, &payload)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("rollback snapshot %d not found", id)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to get rollback snapshot %d: %w", id, err)
	}

	return operation, payload, nil
}
