package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/mintbay/pkg/database"
	"github.com/ghuser/mintbay/pkg/events"
	catalogdomain "github.com/ghuser/mintbay/services/catalog/domain"
	domainevents "github.com/ghuser/mintbay/services/catalog/domain/events"
	"github.com/ghuser/mintbay/services/catalog/domain/models"
	"github.com/ghuser/mintbay/services/catalog/domain/repositories"
)

// ListingRepository implements repositories.ListingRepository against PostgreSQL.
// Tags are stored as a JSONB array so insertion order survives round-trips.
type ListingRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewListingRepository returns a ListingRepository backed by the given
// connection pool and event bus. The bus is used to publish listing events
// in the same transaction as the write (outbox pattern).
func NewListingRepository(db *database.Database, bus *events.EventBus) *ListingRepository {
	return &ListingRepository{db: db, bus: bus}
}

const listingColumns = `id, title, description, price_cents, image_url, category, tags,
	editions_total, editions_available, likes, views, listed, created_at,
	creator_id, creator_name, creator_avatar_url`

// Save persists a new Listing and publishes a ListingCreatedEvent within the
// same transaction. Returns ErrListingAlreadyExists on duplicate IDs.
func (r *ListingRepository) Save(ctx context.Context, l *models.Listing) error {
	tags, err := json.Marshal(l.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO listings (`+listingColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			l.ID, l.Title.String(), l.Description, l.PriceCents, l.ImageURL, l.Category, tags,
			l.EditionsTotal, l.EditionsAvailable, l.Likes, l.Views, l.Listed, l.CreatedAt,
			l.Creator.ID, l.Creator.Name, l.Creator.AvatarURL,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return catalogdomain.ErrListingAlreadyExists
			}
			return fmt.Errorf("insert listing: %w", err)
		}

		if r.bus != nil {
			if err := r.publishCreated(tx, l); err != nil {
				return fmt.Errorf("publish listing created: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a Listing by ID. Returns ErrListingNotFound if not found.
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogdomain.ErrListingNotFound
		}
		return nil, fmt.Errorf("query listing: %w", err)
	}
	return l, nil
}

// FindAll retrieves listings ordered by creation time, newest first.
// A zero Limit means no limit.
func (r *ListingRepository) FindAll(ctx context.Context, opts repositories.QueryOpts) ([]*models.Listing, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // LIMIT ALL
	}
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT `+listingColumns+` FROM listings
		ORDER BY created_at DESC
		LIMIT CASE WHEN $1 < 0 THEN NULL ELSE $1 END OFFSET $2`,
		limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var listings []*models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

// Update persists mutable-field changes to an existing Listing and publishes
// a ListingUpdatedEvent in the same transaction.
func (r *ListingRepository) Update(ctx context.Context, l *models.Listing) error {
	tags, err := json.Marshal(l.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE listings
			SET title = $2, description = $3, price_cents = $4, image_url = $5,
				category = $6, tags = $7, editions_available = $8, likes = $9,
				views = $10, listed = $11
			WHERE id = $1`,
			l.ID, l.Title.String(), l.Description, l.PriceCents, l.ImageURL,
			l.Category, tags, l.EditionsAvailable, l.Likes, l.Views, l.Listed,
		)
		if err != nil {
			return fmt.Errorf("update listing: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return catalogdomain.ErrListingNotFound
		}

		if r.bus != nil {
			if err := r.publishUpdated(tx, l); err != nil {
				return fmt.Errorf("publish listing updated: %w", err)
			}
		}
		return nil
	})
}

// DecrementEditions atomically reduces editions_available by qty, never
// below zero. Returns the remaining availability, or ErrListingNotFound when
// the listing does not exist or lacks qty available editions.
func (r *ListingRepository) DecrementEditions(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	var remaining int
	err := r.db.DB().QueryRowContext(ctx, `
		UPDATE listings
		SET editions_available = editions_available - $2
		WHERE id = $1 AND editions_available >= $2
		RETURNING editions_available`,
		id, qty,
	).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, catalogdomain.ErrListingNotFound
		}
		return 0, fmt.Errorf("decrement editions: %w", err)
	}
	return remaining, nil
}

func (r *ListingRepository) publishCreated(tx *sql.Tx, l *models.Listing) error {
	event := domainevents.ListingCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ListingID:  l.ID,
		Title:      l.Title.String(),
		PriceCents: l.PriceCents,
		Category:   l.Category,
		Listed:     l.Listed,
		OccurredAt: l.CreatedAt,
	}
	return r.publish(tx, domainevents.TopicListingCreated, event.EventID, event)
}

func (r *ListingRepository) publishUpdated(tx *sql.Tx, l *models.Listing) error {
	event := domainevents.ListingUpdatedEvent{
		EventID:           uuid.New(),
		Version:           1,
		ListingID:         l.ID,
		PriceCents:        l.PriceCents,
		Listed:            l.Listed,
		EditionsAvailable: l.EditionsAvailable,
		OccurredAt:        time.Now().UTC(),
	}
	return r.publish(tx, domainevents.TopicListingUpdated, event.EventID, event)
}

func (r *ListingRepository) publish(tx *sql.Tx, topic string, eventID uuid.UUID, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanListing(s scanner) (*models.Listing, error) {
	var (
		l     models.Listing
		title string
		tags  []byte
	)
	if err := s.Scan(
		&l.ID, &title, &l.Description, &l.PriceCents, &l.ImageURL, &l.Category, &tags,
		&l.EditionsTotal, &l.EditionsAvailable, &l.Likes, &l.Views, &l.Listed, &l.CreatedAt,
		&l.Creator.ID, &l.Creator.Name, &l.Creator.AvatarURL,
	); err != nil {
		return nil, err
	}
	l.Title = models.Title(title)
	if err := json.Unmarshal(tags, &l.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return &l, nil
}
