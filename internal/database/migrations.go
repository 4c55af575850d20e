package database

import "fmt"

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT,
			locality TEXT,
			latitude REAL,
			longitude REAL,
			nearest_college TEXT,
			nearby_places TEXT,
			gender TEXT,
			status TEXT NOT NULL DEFAULT 'initial',
			sharing TEXT,
			security_deposit INTEGER,
			amenities TEXT,
			photos TEXT,
			videos TEXT,
			rating REAL,
			review_count INTEGER,
			verified BOOLEAN DEFAULT 0,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create listings table: %v", err)
	}

	// Added after launch; tolerate the column already existing
	_, err = d.db.Exec(`
		ALTER TABLE listings
		ADD COLUMN discount_percent INTEGER;
	`)
	if err != nil && err.Error() != "duplicate column name: discount_percent" {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_status
		ON listings(status);
	`)
	if err != nil {
		return err
	}

	// Spatial index on coordinates
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_coordinates
		ON listings(latitude, longitude);
	`)
	if err != nil {
		return err
	}

	return nil
}
