package database

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/seadexdb/internal/domain"
)

// CacheRepo implements domain.CacheRepo on the SQLite metadata cache
type CacheRepo struct {
	log zerolog.Logger
	db  *DB
}

// NewCacheRepo creates a new cache repository
func NewCacheRepo(log zerolog.Logger, db *DB) domain.CacheRepo {
	return &CacheRepo{
		log: log.With().Str("repo", "cache").Logger(),
		db:  db,
	}
}

// GetAll returns every cached metadata record keyed by AniList id
func (r *CacheRepo) GetAll(ctx context.Context) (map[int]domain.CachedMetadata, error) {
	queryBuilder := r.db.squirrel.
		Select("al_id", "english", "romaji", "year", "format", "relations", "cached_at").
		From("anilist_cache")

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("GetAll")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	result := make(map[int]domain.CachedMetadata)
	for rows.Next() {
		var (
			record    domain.MetadataRecord
			relations string
			cachedAt  string
		)
		if err := rows.Scan(&record.AnilistID, &record.EnglishTitle, &record.RomajiTitle, &record.ReleaseYear, &record.Format, &relations, &cachedAt); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}

		if err := json.Unmarshal([]byte(relations), &record.Relations); err != nil {
			return nil, errors.Wrapf(err, "error decoding relations for al_id %d", record.AnilistID)
		}

		ts, err := time.Parse(time.RFC3339, cachedAt)
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing cached_at for al_id %d", record.AnilistID)
		}

		result[record.AnilistID] = domain.CachedMetadata{
			Record:   record,
			CachedAt: ts,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return result, nil
}

// Upsert inserts or refreshes a cached metadata record
func (r *CacheRepo) Upsert(ctx context.Context, record domain.MetadataRecord) error {
	relations := record.Relations
	if relations == nil {
		relations = []domain.RelationEdge{}
	}
	encoded, err := json.Marshal(relations)
	if err != nil {
		return errors.Wrap(err, "error encoding relations")
	}

	now := time.Now().Format(time.RFC3339)

	queryBuilder := r.db.squirrel.
		Replace("anilist_cache").
		Columns("al_id", "english", "romaji", "year", "format", "relations", "cached_at", "last_used").
		Values(record.AnilistID, record.EnglishTitle, record.RomajiTitle, record.ReleaseYear, record.Format, string(encoded), now, now)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Upsert")

	_, err = r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// Delete removes a cached metadata record
func (r *CacheRepo) Delete(ctx context.Context, anilistID int) error {
	queryBuilder := r.db.squirrel.
		Delete("anilist_cache").
		Where(sq.Eq{"al_id": anilistID})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building delete query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Delete")

	_, err = r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing delete query")
	}

	return nil
}
