package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"shelterly/server/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// sharingColumn is the JSON layout of the sharing column.
type sharingColumn struct {
	One   *models.SharingTier `json:"one,omitempty"`
	Two   *models.SharingTier `json:"two,omitempty"`
	Three *models.SharingTier `json:"three,omitempty"`
	Four  *models.SharingTier `json:"four,omitempty"`
	Five  *models.SharingTier `json:"five,omitempty"`
}

// FetchActive returns every listing with status 'active'. Non-active
// listings never leave the database layer.
func (d *Database) FetchActive() ([]models.Listing, error) {
	query := `
        SELECT
            id,
            name,
            address,
            locality,
            latitude,
            longitude,
            nearest_college,
            nearby_places,
            gender,
            status,
            sharing,
            security_deposit,
            amenities,
            photos,
            videos,
            rating,
            review_count,
            verified,
            discount_percent,
            description
        FROM listings
        WHERE status = 'active'
    `
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		var address, locality, nearestCollege, gender, status, description sql.NullString
		var nearbyPlaces, sharing, amenities, photos, videos sql.NullString
		var latitude, longitude, rating sql.NullFloat64
		var securityDeposit, reviewCount, discountPercent sql.NullInt64
		var verified sql.NullBool

		err := rows.Scan(
			&l.ID,
			&l.Name,
			&address,
			&locality,
			&latitude,
			&longitude,
			&nearestCollege,
			&nearbyPlaces,
			&gender,
			&status,
			&sharing,
			&securityDeposit,
			&amenities,
			&photos,
			&videos,
			&rating,
			&reviewCount,
			&verified,
			&discountPercent,
			&description,
		)
		if err != nil {
			return nil, err
		}

		// Handle nullable string fields
		if address.Valid {
			l.Address = address.String
		}
		if locality.Valid {
			l.Locality = locality.String
		}
		if nearestCollege.Valid {
			l.NearestCollege = nearestCollege.String
		}
		if gender.Valid {
			l.Gender = models.Gender(gender.String)
		}
		if status.Valid {
			l.Status = models.ListingStatus(status.String)
		}
		if description.Valid {
			l.Description = description.String
		}

		// Handle nullable numeric fields
		if latitude.Valid && longitude.Valid {
			l.Coordinates = &models.Coordinates{
				Latitude:  latitude.Float64,
				Longitude: longitude.Float64,
			}
		}
		if rating.Valid {
			r := rating.Float64
			l.Rating = &r
		}
		if securityDeposit.Valid {
			l.SecurityDeposit = int(securityDeposit.Int64)
		}
		if reviewCount.Valid {
			l.ReviewCount = int(reviewCount.Int64)
		}
		if discountPercent.Valid {
			l.DiscountPercent = int(discountPercent.Int64)
		}
		if verified.Valid {
			l.Verified = verified.Bool
		}

		// JSON columns; a corrupt column loses that field, not the listing
		if nearbyPlaces.Valid && nearbyPlaces.String != "" {
			_ = json.Unmarshal([]byte(nearbyPlaces.String), &l.NearbyPlaces)
		}
		if sharing.Valid && sharing.String != "" {
			var col sharingColumn
			if err := json.Unmarshal([]byte(sharing.String), &col); err == nil {
				l.OneSharing = col.One
				l.TwoSharing = col.Two
				l.ThreeSharing = col.Three
				l.FourSharing = col.Four
				l.FiveSharing = col.Five
			}
		}
		if amenities.Valid && amenities.String != "" {
			_ = json.Unmarshal([]byte(amenities.String), &l.Amenities)
		}
		if photos.Valid && photos.String != "" {
			_ = json.Unmarshal([]byte(photos.String), &l.Photos)
		}
		if videos.Valid && videos.String != "" {
			_ = json.Unmarshal([]byte(videos.String), &l.Videos)
		}

		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// InsertListings inserts or replaces a batch of listings inside one
// transaction.
func (d *Database) InsertListings(listings []models.Listing) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO listings
		(id, name, address, locality, latitude, longitude, nearest_college,
		 nearby_places, gender, status, sharing, security_deposit, amenities,
		 photos, videos, rating, review_count, verified, discount_percent, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		var latitude, longitude interface{}
		if l.Coordinates != nil {
			latitude = l.Coordinates.Latitude
			longitude = l.Coordinates.Longitude
		}
		var rating interface{}
		if l.Rating != nil {
			rating = *l.Rating
		}

		nearbyPlaces, _ := json.Marshal(l.NearbyPlaces)
		sharing, _ := json.Marshal(sharingColumn{
			One:   l.OneSharing,
			Two:   l.TwoSharing,
			Three: l.ThreeSharing,
			Four:  l.FourSharing,
			Five:  l.FiveSharing,
		})
		amenities, _ := json.Marshal(l.Amenities)
		photos, _ := json.Marshal(l.Photos)
		videos, _ := json.Marshal(l.Videos)

		_, err = stmt.Exec(
			l.ID,
			l.Name,
			l.Address,
			l.Locality,
			latitude,
			longitude,
			l.NearestCollege,
			string(nearbyPlaces),
			string(l.Gender),
			string(l.Status),
			string(sharing),
			l.SecurityDeposit,
			string(amenities),
			string(photos),
			string(videos),
			rating,
			l.ReviewCount,
			l.Verified,
			l.DiscountPercent,
			l.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert listing %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}
