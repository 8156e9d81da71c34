package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/haras/pkg/types"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ListAll returns every stored horse in insertion order with its mating
// history decoded.
func (b *Backend) ListAll() ([]types.Horse, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query(selectHorses)
	if err != nil {
		return nil, fmt.Errorf("%w: listing horses: %w", types.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	horses := []types.Horse{}
	for rows.Next() {
		h, err := hydrateHorse(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrStorageUnavailable, err)
		}
		horses = append(horses, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing horses: %w", types.ErrStorageUnavailable, err)
	}
	return horses, nil
}

// Insert adds a new row. Returns ErrDuplicateKey if the ID is taken.
func (b *Backend) Insert(horse types.Horse) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if horse.ID == "" {
		return types.ErrInvalidID
	}

	exists, err := horseExists(b.db, horse.ID)
	if err != nil {
		return fmt.Errorf("%w: checking horse existence: %w", types.ErrStorageWrite, err)
	}
	if exists {
		return fmt.Errorf("%w: horse %s", types.ErrDuplicateKey, horse.ID)
	}

	args, err := dehydrateHorse(horse)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStorageWrite, err)
	}
	if _, err := b.db.Exec(insertHorse, args...); err != nil {
		return fmt.Errorf("%w: persisting horse %s: %w", types.ErrStorageWrite, horse.ID, err)
	}
	return nil
}

// Update overwrites every column of the row with the horse's ID.
// Returns ErrNotFound if no row matches.
func (b *Backend) Update(horse types.Horse) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if horse.ID == "" {
		return types.ErrInvalidID
	}

	args, err := dehydrateHorse(horse)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStorageWrite, err)
	}
	// UPDATE takes the id last.
	args = append(args[1:], horse.ID)

	res, err := b.db.Exec(updateHorse, args...)
	if err != nil {
		return fmt.Errorf("%w: updating horse %s: %w", types.ErrStorageWrite, horse.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updating horse %s: %w", types.ErrStorageWrite, horse.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrNotFound, horse.ID)
	}
	return nil
}

// Delete removes the row with the given ID. A missing row is not an error.
func (b *Backend) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if id == "" {
		return types.ErrInvalidID
	}

	if _, err := b.db.Exec(deleteHorse, id); err != nil {
		return fmt.Errorf("%w: deleting horse %s: %w", types.ErrStorageWrite, id, err)
	}
	return nil
}

// ReplaceAll empties the table and inserts horses in one transaction. Any
// failure rolls back, leaving the previous rows in place.
func (b *Backend) ReplaceAll(horses []types.Horse) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning replace transaction: %w", types.ErrStorageWrite, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteAll); err != nil {
		return fmt.Errorf("%w: clearing horses: %w", types.ErrStorageWrite, err)
	}

	stmt, err := tx.Prepare(insertHorse)
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %w", types.ErrStorageWrite, err)
	}
	defer stmt.Close()

	for i, h := range horses {
		if h.ID == "" {
			return fmt.Errorf("record %d: %w", i, types.ErrInvalidID)
		}
		exists, err := horseExists(tx, h.ID)
		if err != nil {
			return fmt.Errorf("%w: record %d: %w", types.ErrStorageWrite, i, err)
		}
		if exists {
			return fmt.Errorf("%w: record %d: horse %s", types.ErrDuplicateKey, i, h.ID)
		}
		args, err := dehydrateHorse(h)
		if err != nil {
			return fmt.Errorf("%w: record %d: %w", types.ErrStorageWrite, i, err)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("%w: record %d: %w", types.ErrStorageWrite, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing replace: %w", types.ErrStorageWrite, err)
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func horseExists(q querier, id string) (bool, error) {
	var one int
	err := q.QueryRow(existsHorse, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// hydrateHorse scans one row into a Horse.
func hydrateHorse(row rowScanner) (types.Horse, error) {
	var (
		h                                    types.Horse
		birthDate, gender                    string
		father, mother, chip, registro       sql.NullString
		picture, history, birthPlace, detail sql.NullString
	)
	if err := row.Scan(&h.ID, &h.Name, &birthDate, &gender, &father, &mother,
		&chip, &registro, &picture, &history, &birthPlace, &detail); err != nil {
		return types.Horse{}, fmt.Errorf("scanning horse: %w", err)
	}

	d, err := types.ParseDate(birthDate)
	if err != nil {
		return types.Horse{}, fmt.Errorf("horse %s: %w", h.ID, err)
	}
	h.BirthDate = d
	h.Gender = types.Gender(gender)
	h.Father = father.String
	h.Mother = mother.String
	h.Chip = chip.String
	h.Registro = registro.String
	h.Picture = picture.String
	h.BirthPlace = birthPlace.String
	h.DeliveryDetails = detail.String

	h.MatingHistory = []types.MatingRecord{}
	if history.String != "" {
		if err := json.Unmarshal([]byte(history.String), &h.MatingHistory); err != nil {
			return types.Horse{}, fmt.Errorf("decoding mating history of horse %s: %w", h.ID, err)
		}
		if h.MatingHistory == nil {
			h.MatingHistory = []types.MatingRecord{}
		}
	}
	return h, nil
}

// dehydrateHorse returns the column values of horse in horseColumns order.
// Empty optional strings become NULL.
func dehydrateHorse(horse types.Horse) ([]any, error) {
	history := horse.MatingHistory
	if history == nil {
		history = []types.MatingRecord{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("encoding mating history of horse %s: %w", horse.ID, err)
	}
	return []any{
		horse.ID,
		horse.Name,
		horse.BirthDate.String(),
		string(horse.Gender),
		nullable(horse.Father),
		nullable(horse.Mother),
		nullable(horse.Chip),
		nullable(horse.Registro),
		nullable(horse.Picture),
		string(historyJSON),
		nullable(horse.BirthPlace),
		nullable(horse.DeliveryDetails),
	}, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
