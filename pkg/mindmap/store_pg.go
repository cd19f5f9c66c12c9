package mindmap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists mind maps in PostgreSQL. The document is normalized
// into three tables so individual node and edge mutations do not rewrite
// whole maps.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to PostgreSQL and runs migrations
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

// migrate creates the schema if it does not exist
func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS maps (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL,
			title      TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_maps_owner ON maps(owner_id);

		CREATE TABLE IF NOT EXISTS map_nodes (
			id        TEXT PRIMARY KEY,
			map_id    TEXT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
			text      TEXT NOT NULL,
			x         DOUBLE PRECISION NOT NULL,
			y         DOUBLE PRECISION NOT NULL,
			width     DOUBLE PRECISION NOT NULL,
			height    DOUBLE PRECISION NOT NULL,
			fill      TEXT NOT NULL DEFAULT '',
			stroke    TEXT NOT NULL DEFAULT '',
			font_size INT NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_map_nodes_map ON map_nodes(map_id);

		CREATE TABLE IF NOT EXISTS map_edges (
			id     TEXT PRIMARY KEY,
			map_id TEXT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
			a      TEXT NOT NULL REFERENCES map_nodes(id) ON DELETE CASCADE,
			b      TEXT NOT NULL REFERENCES map_nodes(id) ON DELETE CASCADE,
			label  TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_map_edges_map ON map_edges(map_id);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Ping checks database connectivity
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateMap creates an empty map for the owner
func (s *PGStore) CreateMap(ctx context.Context, ownerID, title string) (*MapMeta, error) {
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}

	now := time.Now().UTC()
	id := uuid.New().String()

	query := `INSERT INTO maps (id, owner_id, title, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.pool.Exec(ctx, query, id, ownerID, title, now, now); err != nil {
		return nil, fmt.Errorf("failed to create map: %w", err)
	}

	return &MapMeta{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetMap loads a full map document
func (s *PGStore) GetMap(ctx context.Context, ownerID, mapID string) (*Map, error) {
	m := &Map{
		Nodes: make(map[string]*Node),
		Edges: make(map[string]*Edge),
	}

	query := `SELECT id, owner_id, title, created_at, updated_at FROM maps WHERE id = $1 AND owner_id = $2`
	err := s.pool.QueryRow(ctx, query, mapID, ownerID).Scan(
		&m.ID, &m.OwnerID, &m.Title, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get map: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, text, x, y, width, height, fill, stroke, font_size FROM map_nodes WHERE map_id = $1`, mapID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		n := &Node{}
		if err := rows.Scan(&n.ID, &n.Text, &n.X, &n.Y, &n.Width, &n.Height,
			&n.Style.Fill, &n.Style.Stroke, &n.Style.FontSize); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		m.Nodes[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("node rows: %w", err)
	}

	edgeRows, err := s.pool.Query(ctx,
		`SELECT id, a, b, label FROM map_edges WHERE map_id = $1`, mapID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		e := &Edge{}
		if err := edgeRows.Scan(&e.ID, &e.A, &e.B, &e.Label); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		m.Edges[e.ID] = e
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("edge rows: %w", err)
	}

	return m, nil
}

// ListMaps returns index entries sorted by most recently updated first
func (s *PGStore) ListMaps(ctx context.Context, ownerID string) ([]*MapMeta, error) {
	query := `
		SELECT m.id, m.owner_id, m.title, m.created_at, m.updated_at,
		       (SELECT COUNT(*) FROM map_nodes n WHERE n.map_id = m.id),
		       (SELECT COUNT(*) FROM map_edges e WHERE e.map_id = m.id)
		FROM maps m
		WHERE m.owner_id = $1
		ORDER BY m.updated_at DESC, m.id
	`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}
	defer rows.Close()

	metas := []*MapMeta{}
	for rows.Next() {
		meta := &MapMeta{}
		if err := rows.Scan(&meta.ID, &meta.OwnerID, &meta.Title,
			&meta.CreatedAt, &meta.UpdatedAt, &meta.NodeCount, &meta.EdgeCount); err != nil {
			return nil, fmt.Errorf("failed to scan map meta: %w", err)
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// RenameMap changes a map's title
func (s *PGStore) RenameMap(ctx context.Context, ownerID, mapID, title string) (*MapMeta, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}

	now := time.Now().UTC()
	meta := &MapMeta{}
	query := `
		UPDATE maps SET title = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
		RETURNING id, owner_id, title, created_at, updated_at
	`
	err := s.pool.QueryRow(ctx, query, title, now, mapID, ownerID).Scan(
		&meta.ID, &meta.OwnerID, &meta.Title, &meta.CreatedAt, &meta.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rename map: %w", err)
	}
	return meta, nil
}

// DeleteMap removes a map; nodes and edges cascade
func (s *PGStore) DeleteMap(ctx context.Context, ownerID, mapID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM maps WHERE id = $1 AND owner_id = $2`, mapID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete map: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	return nil
}

// AddNode places a new node on the map
func (s *PGStore) AddNode(ctx context.Context, ownerID, mapID string, input NodeInput) (*Node, error) {
	input = normalizeNodeInput(input)
	n := &Node{
		ID:     uuid.New().String(),
		Text:   input.Text,
		X:      input.X,
		Y:      input.Y,
		Width:  input.Width,
		Height: input.Height,
		Style:  input.Style,
	}

	err := s.withMapTx(ctx, ownerID, mapID, func(tx pgx.Tx) error {
		query := `
			INSERT INTO map_nodes (id, map_id, text, x, y, width, height, fill, stroke, font_size)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.Exec(ctx, query, n.ID, mapID, n.Text, n.X, n.Y,
			n.Width, n.Height, n.Style.Fill, n.Style.Stroke, n.Style.FontSize); err != nil {
			return fmt.Errorf("failed to add node: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// GetNode fetches a single node
func (s *PGStore) GetNode(ctx context.Context, ownerID, mapID, nodeID string) (*Node, error) {
	if err := s.checkMap(ctx, ownerID, mapID); err != nil {
		return nil, err
	}

	n := &Node{}
	query := `SELECT id, text, x, y, width, height, fill, stroke, font_size FROM map_nodes WHERE id = $1 AND map_id = $2`
	err := s.pool.QueryRow(ctx, query, nodeID, mapID).Scan(
		&n.ID, &n.Text, &n.X, &n.Y, &n.Width, &n.Height,
		&n.Style.Fill, &n.Style.Stroke, &n.Style.FontSize)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	return n, nil
}

// UpdateNode applies a partial update to a node
func (s *PGStore) UpdateNode(ctx context.Context, ownerID, mapID, nodeID string, update NodeUpdate) (*Node, error) {
	n := &Node{}
	err := s.withMapTx(ctx, ownerID, mapID, func(tx pgx.Tx) error {
		query := `SELECT id, text, x, y, width, height, fill, stroke, font_size
			FROM map_nodes WHERE id = $1 AND map_id = $2 FOR UPDATE`
		err := tx.QueryRow(ctx, query, nodeID, mapID).Scan(
			&n.ID, &n.Text, &n.X, &n.Y, &n.Width, &n.Height,
			&n.Style.Fill, &n.Style.Stroke, &n.Style.FontSize)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
		}
		if err != nil {
			return fmt.Errorf("failed to get node: %w", err)
		}

		applyNodeUpdate(n, update)

		updateQuery := `
			UPDATE map_nodes SET text = $1, x = $2, y = $3, width = $4, height = $5,
				fill = $6, stroke = $7, font_size = $8
			WHERE id = $9 AND map_id = $10
		`
		if _, err := tx.Exec(ctx, updateQuery, n.Text, n.X, n.Y, n.Width, n.Height,
			n.Style.Fill, n.Style.Stroke, n.Style.FontSize, nodeID, mapID); err != nil {
			return fmt.Errorf("failed to update node: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// DeleteNode removes a node; its edges cascade
func (s *PGStore) DeleteNode(ctx context.Context, ownerID, mapID, nodeID string) error {
	return s.withMapTx(ctx, ownerID, mapID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM map_nodes WHERE id = $1 AND map_id = $2`, nodeID, mapID)
		if err != nil {
			return fmt.Errorf("failed to delete node: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
		}
		return nil
	})
}

// AddEdge connects two existing nodes. The duplicate check and the
// insert run in the same transaction, serialized by the map row lock
func (s *PGStore) AddEdge(ctx context.Context, ownerID, mapID, a, b, label string) (*Edge, error) {
	if a == b {
		return nil, ErrSelfLoop
	}

	e := &Edge{ID: uuid.New().String(), A: a, B: b, Label: label}
	err := s.withMapTx(ctx, ownerID, mapID, func(tx pgx.Tx) error {
		for _, nodeID := range []string{a, b} {
			var id string
			err := tx.QueryRow(ctx,
				`SELECT id FROM map_nodes WHERE id = $1 AND map_id = $2`, nodeID, mapID).Scan(&id)
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
			}
			if err != nil {
				return fmt.Errorf("failed to get node: %w", err)
			}
		}

		var count int
		dupQuery := `SELECT COUNT(*) FROM map_edges WHERE map_id = $1 AND ((a = $2 AND b = $3) OR (a = $3 AND b = $2))`
		if err := tx.QueryRow(ctx, dupQuery, mapID, a, b).Scan(&count); err != nil {
			return fmt.Errorf("failed to check duplicate edge: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEdge
		}

		query := `INSERT INTO map_edges (id, map_id, a, b, label) VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, query, e.ID, mapID, e.A, e.B, e.Label); err != nil {
			return fmt.Errorf("failed to add edge: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEdge fetches a single edge
func (s *PGStore) GetEdge(ctx context.Context, ownerID, mapID, edgeID string) (*Edge, error) {
	if err := s.checkMap(ctx, ownerID, mapID); err != nil {
		return nil, err
	}

	e := &Edge{}
	query := `SELECT id, a, b, label FROM map_edges WHERE id = $1 AND map_id = $2`
	err := s.pool.QueryRow(ctx, query, edgeID, mapID).Scan(&e.ID, &e.A, &e.B, &e.Label)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrEdgeNotFound, edgeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get edge: %w", err)
	}
	return e, nil
}

// DeleteEdge removes a single edge
func (s *PGStore) DeleteEdge(ctx context.Context, ownerID, mapID, edgeID string) error {
	return s.withMapTx(ctx, ownerID, mapID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM map_edges WHERE id = $1 AND map_id = $2`, edgeID, mapID)
		if err != nil {
			return fmt.Errorf("failed to delete edge: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrEdgeNotFound, edgeID)
		}
		return nil
	})
}

// ApplyPositions moves several nodes in one transaction
func (s *PGStore) ApplyPositions(ctx context.Context, ownerID, mapID string, positions map[string]Position) error {
	return s.withMapTx(ctx, ownerID, mapID, func(tx pgx.Tx) error {
		for nodeID, pos := range positions {
			if _, err := tx.Exec(ctx,
				`UPDATE map_nodes SET x = $1, y = $2 WHERE id = $3 AND map_id = $4`,
				pos.X, pos.Y, nodeID, mapID); err != nil {
				return fmt.Errorf("failed to move node %s: %w", nodeID, err)
			}
		}
		return nil
	})
}

// Stats returns store-wide counts
func (s *PGStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	query := `
		SELECT (SELECT COUNT(*) FROM maps),
		       (SELECT COUNT(*) FROM map_nodes),
		       (SELECT COUNT(*) FROM map_edges)
	`
	if err := s.pool.QueryRow(ctx, query).Scan(&stats.Maps, &stats.Nodes, &stats.Edges); err != nil {
		return Stats{}, fmt.Errorf("failed to collect stats: %w", err)
	}
	return stats, nil
}

// checkMap verifies the map exists and belongs to the owner
func (s *PGStore) checkMap(ctx context.Context, ownerID, mapID string) error {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM maps WHERE id = $1 AND owner_id = $2`, mapID, ownerID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	if err != nil {
		return fmt.Errorf("failed to check map: %w", err)
	}
	return nil
}

// withMapTx runs a map mutation in a single transaction. It locks the
// map row (which also validates ownership), applies fn, and bumps
// updated_at only after the mutation succeeds
func (s *PGStore) withMapTx(ctx context.Context, ownerID, mapID string, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx,
		`SELECT id FROM maps WHERE id = $1 AND owner_id = $2 FOR UPDATE`, mapID, ownerID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	if err != nil {
		return fmt.Errorf("failed to check map: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE maps SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), mapID); err != nil {
		return fmt.Errorf("failed to touch map: %w", err)
	}
	return tx.Commit(ctx)
}
