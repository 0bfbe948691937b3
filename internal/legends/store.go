// SQLite-backed legend storage. The legends table is append-only; rows are
// never updated or deleted by this subsystem.
package legends

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/tribesim/internal/agents"
)

func parseTribeID(s string) (*uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse tribe id %q: %w", s, err)
	}
	return &id, nil
}

// Store wraps a SQLite connection holding the durable legend archive.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite legend archive at the given path.
// Use ":memory:" for an ephemeral archive.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate archive db: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS legends (
		agent_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		specialization TEXT NOT NULL,
		social_rank REAL NOT NULL,
		energy REAL NOT NULL,
		age_ticks INTEGER NOT NULL,
		lineage_depth INTEGER NOT NULL,
		tribe_id TEXT,
		genotype_json TEXT NOT NULL,
		parent_ids_json TEXT NOT NULL,
		archived_tick INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_legends_tick ON legends(archived_tick);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// Append writes one legend record. The primary key on agent_id backs the
// exactly-once guarantee at the storage layer too: a duplicate append fails
// instead of silently rewriting history.
func (st *Store) Append(rec Record) error {
	genotypeJSON, err := json.Marshal(rec.Genotype)
	if err != nil {
		return fmt.Errorf("marshal genotype: %w", err)
	}
	parentsJSON, err := json.Marshal(rec.ParentIDs)
	if err != nil {
		return fmt.Errorf("marshal parent ids: %w", err)
	}

	var tribeID *string
	if rec.TribeID != nil {
		s := rec.TribeID.String()
		tribeID = &s
	}

	_, err = st.conn.Exec(`INSERT INTO legends
		(agent_id, name, specialization, social_rank, energy, age_ticks,
		 lineage_depth, tribe_id, genotype_json, parent_ids_json, archived_tick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AgentID, rec.Name, rec.Specialization, rec.SocialRank, rec.Energy,
		rec.AgeTicks, rec.LineageDepth, tribeID,
		string(genotypeJSON), string(parentsJSON), rec.ArchivedTick,
	)
	if err != nil {
		return fmt.Errorf("insert legend %d: %w", rec.AgentID, err)
	}
	return nil
}

// Contains reports whether the agent already has an archived record.
func (st *Store) Contains(id agents.AgentID) (bool, error) {
	var one int
	err := st.conn.Get(&one, "SELECT 1 FROM legends WHERE agent_id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query legend %d: %w", id, err)
	}
	return true, nil
}

// Count returns the number of archived legends.
func (st *Store) Count() (int, error) {
	var n int
	if err := st.conn.Get(&n, "SELECT COUNT(*) FROM legends"); err != nil {
		return 0, fmt.Errorf("count legends: %w", err)
	}
	return n, nil
}

// Recent returns the most recently archived legends, newest first.
func (st *Store) Recent(limit int) ([]Record, error) {
	rows, err := st.conn.Queryx(`SELECT agent_id, name, specialization,
		social_rank, energy, age_ticks, lineage_depth, tribe_id,
		genotype_json, parent_ids_json, archived_tick
		FROM legends ORDER BY archived_tick DESC, agent_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent legends: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec          Record
			tribeID      *string
			genotypeJSON string
			parentsJSON  string
		)
		if err := rows.Scan(&rec.AgentID, &rec.Name, &rec.Specialization,
			&rec.SocialRank, &rec.Energy, &rec.AgeTicks, &rec.LineageDepth,
			&tribeID, &genotypeJSON, &parentsJSON, &rec.ArchivedTick); err != nil {
			return nil, fmt.Errorf("scan legend: %w", err)
		}
		if tribeID != nil {
			id, err := parseTribeID(*tribeID)
			if err != nil {
				return nil, err
			}
			rec.TribeID = id
		}
		if err := json.Unmarshal([]byte(genotypeJSON), &rec.Genotype); err != nil {
			return nil, fmt.Errorf("unmarshal genotype for legend %d: %w", rec.AgentID, err)
		}
		if err := json.Unmarshal([]byte(parentsJSON), &rec.ParentIDs); err != nil {
			return nil, fmt.Errorf("unmarshal parent ids for legend %d: %w", rec.AgentID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
