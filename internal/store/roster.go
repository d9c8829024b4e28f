package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nvandessel/polisim/internal/models"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrEmptyStore is returned by LoadRoster when no roster has been saved.
var ErrEmptyStore = errors.New("roster store is empty")

// RosterStore persists a single roster in a SQLite database.
type RosterStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// Open opens (creating if needed) the roster database at path.
func Open(path string) (*RosterStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &RosterStore{db: db, dbPath: path}, nil
}

// Path returns the database file path.
func (s *RosterStore) Path() string {
	return s.dbPath
}

// SaveRoster replaces the stored roster with r in a single transaction.
func (s *RosterStore) SaveRoster(ctx context.Context, r *models.Roster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"party_members", "parties", "edges", "members", "roster_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO roster_meta (id, ideal_dimension, updated_at) VALUES (1, ?, datetime('now'))`,
		r.IdealDimension); err != nil {
		return fmt.Errorf("failed to write roster header: %w", err)
	}

	for i, m := range r.Members {
		ideal, err := json.Marshal(m.Ideal)
		if err != nil {
			return fmt.Errorf("failed to encode ideal for %s: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO members (position, id, ideal, bias, swing) VALUES (?, ?, ?, ?, ?)`,
			i, m.ID, string(ideal), m.Bias, m.Swing); err != nil {
			return fmt.Errorf("failed to insert member %s: %w", m.ID, err)
		}
	}

	for i, p := range r.Parties {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parties (position, id, discipline) VALUES (?, ?, ?)`,
			i, p.ID, p.Discipline); err != nil {
			return fmt.Errorf("failed to insert party %s: %w", p.ID, err)
		}
		for slot, memberID := range p.Members {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO party_members (party_position, slot, member_id) VALUES (?, ?, ?)`,
				i, slot, memberID); err != nil {
				return fmt.Errorf("failed to insert member %s of party %s: %w", memberID, p.ID, err)
			}
		}
	}

	for i, e := range r.Edges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (position, source, target, weight) VALUES (?, ?, ?, ?)`,
			i, e.From, e.To, e.Weight); err != nil {
			return fmt.Errorf("failed to insert edge %s->%s: %w", e.From, e.To, err)
		}
	}

	return tx.Commit()
}

// LoadRoster reads the stored roster, preserving declaration order.
// Returns ErrEmptyStore if nothing has been saved.
func (s *RosterStore) LoadRoster(ctx context.Context) (*models.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := &models.Roster{}
	err := s.db.QueryRowContext(ctx, `SELECT ideal_dimension FROM roster_meta WHERE id = 1`).Scan(&r.IdealDimension)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmptyStore
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roster header: %w", err)
	}

	if r.Members, err = s.loadMembers(ctx); err != nil {
		return nil, err
	}
	if r.Parties, err = s.loadParties(ctx); err != nil {
		return nil, err
	}
	if r.Edges, err = s.loadEdges(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *RosterStore) loadMembers(ctx context.Context) ([]models.MemberSpec, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, ideal, bias, swing FROM members ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []models.MemberSpec
	for rows.Next() {
		var m models.MemberSpec
		var ideal string
		if err := rows.Scan(&m.ID, &ideal, &m.Bias, &m.Swing); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if err := json.Unmarshal([]byte(ideal), &m.Ideal); err != nil {
			return nil, fmt.Errorf("failed to decode ideal for %s: %w", m.ID, err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *RosterStore) loadParties(ctx context.Context) ([]models.PartySpec, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT position, id, discipline FROM parties ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}

	var positions []int
	var parties []models.PartySpec
	for rows.Next() {
		var pos int
		var p models.PartySpec
		if err := rows.Scan(&pos, &p.ID, &p.Discipline); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		positions = append(positions, pos)
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// The pool holds a single connection, so membership is read only after
	// the party cursor is released.
	for i, pos := range positions {
		members, err := s.loadPartyMembers(ctx, pos)
		if err != nil {
			return nil, fmt.Errorf("party %s: %w", parties[i].ID, err)
		}
		parties[i].Members = members
	}
	return parties, nil
}

func (s *RosterStore) loadPartyMembers(ctx context.Context, partyPosition int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id FROM party_members WHERE party_position = ? ORDER BY slot`, partyPosition)
	if err != nil {
		return nil, fmt.Errorf("failed to query party members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan party member: %w", err)
		}
		members = append(members, id)
	}
	return members, rows.Err()
}

func (s *RosterStore) loadEdges(ctx context.Context) ([]models.EdgeSpec, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, target, weight FROM edges ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []models.EdgeSpec
	for rows.Next() {
		var e models.EdgeSpec
		if err := rows.Scan(&e.From, &e.To, &e.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Close closes the database.
func (s *RosterStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
