// Package repository persists trade records for the store server.
package repository

import (
	"database/sql"
	"fmt"

	"github.com/username/tradebook/backend/src/models"
	"github.com/username/tradebook/backend/src/utils"
)

// TradeRepository is the persistence contract the store handlers depend
// on. The store is the sole authority for identifier assignment: Insert
// returns the id it minted and callers never supply one.
type TradeRepository interface {
	List() ([]models.TradeRecord, error)
	Insert(rec models.TradeRecord) (int64, error)
	DeleteByID(id int64) (bool, error)
}

// SQLiteTradeRepository stores trades in the trades table created by the
// db/migrations schema. Dates are kept as YYYY-MM-DD text.
type SQLiteTradeRepository struct {
	db *sql.DB
}

func NewSQLiteTradeRepository(db *sql.DB) *SQLiteTradeRepository {
	return &SQLiteTradeRepository{db: db}
}

func (r *SQLiteTradeRepository) List() ([]models.TradeRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, date, order_type, sym, unit_price, quantity, fees
		FROM trades
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying trades: %w", err)
	}
	defer rows.Close()

	var records []models.TradeRecord
	for rows.Next() {
		var rec models.TradeRecord
		var dateStr, orderType string
		if err := rows.Scan(&rec.ID, &dateStr, &orderType, &rec.Sym, &rec.UnitPrice, &rec.Quantity, &rec.Fees); err != nil {
			return nil, fmt.Errorf("scanning trade: %w", err)
		}
		date, err := utils.ParseLocalYMD(dateStr)
		if err != nil {
			return nil, fmt.Errorf("trade %d has malformed date %q: %w", rec.ID, dateStr, err)
		}
		rec.Date = date
		rec.OrderType = models.OrderType(orderType)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trades: %w", err)
	}
	return records, nil
}

func (r *SQLiteTradeRepository) Insert(rec models.TradeRecord) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO trades (date, order_type, sym, unit_price, quantity, fees)
		VALUES (?, ?, ?, ?, ?, ?)`,
		utils.FormatLocalYMD(rec.Date),
		rec.OrderType.String(),
		rec.Sym,
		rec.UnitPrice,
		rec.Quantity,
		rec.Fees,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting trade: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading assigned trade id: %w", err)
	}
	return id, nil
}

// DeleteByID reports whether a row was actually removed. Deleting an
// unknown id is not an error; the HTTP surface is idempotent.
func (r *SQLiteTradeRepository) DeleteByID(id int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting trade %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting trade %d: %w", id, err)
	}
	return affected > 0, nil
}
