package sqlite

// createHorses is the only DDL the store ever runs. Column names follow the
// JSON field names so exported documents and rows line up one to one.
const createHorses = `CREATE TABLE IF NOT EXISTS horses (
    id TEXT PRIMARY KEY NOT NULL,
    name TEXT NOT NULL,
    birthDate TEXT NOT NULL,
    gender TEXT NOT NULL,
    father TEXT,
    mother TEXT,
    chip TEXT,
    registro TEXT,
    picture TEXT,
    matingHistory TEXT,
    birthPlace TEXT,
    deliveryDetails TEXT
);`

// horseColumns lists the columns in scan and insert order.
const horseColumns = "id, name, birthDate, gender, father, mother, chip, registro, picture, matingHistory, birthPlace, deliveryDetails"

const (
	selectHorses = "SELECT " + horseColumns + " FROM horses ORDER BY rowid"
	insertHorse  = "INSERT INTO horses (" + horseColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	updateHorse  = `UPDATE horses SET name = ?, birthDate = ?, gender = ?, father = ?, mother = ?,
    chip = ?, registro = ?, picture = ?, matingHistory = ?, birthPlace = ?, deliveryDetails = ?
    WHERE id = ?`
	deleteHorse = "DELETE FROM horses WHERE id = ?"
	deleteAll   = "DELETE FROM horses"
	existsHorse = "SELECT 1 FROM horses WHERE id = ?"
)
