package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matsen/netviz/internal/network"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectNodeFields contains the standard field list for node SELECT queries.
const selectNodeFields = `id, label, type, metrics_json, extra_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Nodes, in dataset order
		CREATE TABLE IF NOT EXISTS nodes (
			position INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			label TEXT,
			type TEXT,
			metrics_json TEXT NOT NULL,
			extra_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type);
		CREATE INDEX IF NOT EXISTS idx_nodes_position ON nodes(position);

		-- Links, in dataset order; parallel links are kept
		CREATE TABLE IF NOT EXISTS links (
			position INTEGER NOT NULL,
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			weight REAL
		);

		CREATE INDEX IF NOT EXISTS idx_links_source ON links(source_id);
		CREATE INDEX IF NOT EXISTS idx_links_target ON links(target_id);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from the nodes and
// links JSONL files. Returns the node and link counts.
func (d *DB) RebuildFromJSONL(nodesPath, linksPath string) (int, int, error) {
	nodes, err := ReadAllNodes(nodesPath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading nodes JSONL: %w", err)
	}
	links, err := ReadAllLinks(linksPath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading links JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return 0, 0, fmt.Errorf("clearing nodes table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM links"); err != nil {
		return 0, 0, fmt.Errorf("clearing links table: %w", err)
	}

	nodeStmt, err := tx.Prepare(`
		INSERT INTO nodes (position, id, label, type, metrics_json, extra_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing nodes insert: %w", err)
	}
	defer nodeStmt.Close()

	for i, n := range nodes {
		metricsJSON, err := json.Marshal(n.Metrics)
		if err != nil {
			return 0, 0, fmt.Errorf("marshaling metrics for %s: %w", n.ID, err)
		}
		var extraJSON sql.NullString
		if len(n.Extra) > 0 {
			data, err := json.Marshal(n.Extra)
			if err != nil {
				return 0, 0, fmt.Errorf("marshaling attributes for %s: %w", n.ID, err)
			}
			extraJSON = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := nodeStmt.Exec(i, n.ID, n.Label, n.Type, string(metricsJSON), extraJSON); err != nil {
			return 0, 0, fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}

	linkStmt, err := tx.Prepare(`
		INSERT INTO links (position, source_id, target_id, weight)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing links insert: %w", err)
	}
	defer linkStmt.Close()

	for i, l := range links {
		var weight sql.NullFloat64
		if l.HasWeight() {
			weight = sql.NullFloat64{Float64: l.Weight, Valid: true}
		}
		if _, err := linkStmt.Exec(i, l.Source, l.Target, weight); err != nil {
			return 0, 0, fmt.Errorf("inserting link %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(nodes), len(links), nil
}

// GetAllNodes returns all nodes in dataset order.
func (d *DB) GetAllNodes() ([]network.Node, error) {
	rows, err := d.db.Query(`SELECT ` + selectNodeFields + ` FROM nodes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying all nodes: %w", err)
	}
	defer rows.Close()

	return scanNodes(rows)
}

// GetNodesByType returns nodes of one type in dataset order.
func (d *DB) GetNodesByType(nodeType string) ([]network.Node, error) {
	rows, err := d.db.Query(`SELECT `+selectNodeFields+` FROM nodes WHERE type = ? ORDER BY position`, nodeType)
	if err != nil {
		return nil, fmt.Errorf("querying nodes by type: %w", err)
	}
	defer rows.Close()

	return scanNodes(rows)
}

// GetNodeByID returns a node by id, or nil if it does not exist.
func (d *DB) GetNodeByID(id string) (*network.Node, error) {
	rows, err := d.db.Query(`SELECT `+selectNodeFields+` FROM nodes WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying node: %w", err)
	}
	defer rows.Close()

	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return &nodes[0], nil
}

// GetAllLinks returns all links in dataset order.
func (d *DB) GetAllLinks() ([]network.Link, error) {
	rows, err := d.db.Query(`SELECT source_id, target_id, weight FROM links ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying all links: %w", err)
	}
	defer rows.Close()

	return scanLinks(rows)
}

// GetLinksByNode returns links touching the node, as source or target.
func (d *DB) GetLinksByNode(id string) ([]network.Link, error) {
	rows, err := d.db.Query(`
		SELECT source_id, target_id, weight
		FROM links
		WHERE source_id = ? OR target_id = ?
		ORDER BY position
	`, id, id)
	if err != nil {
		return nil, fmt.Errorf("querying links by node: %w", err)
	}
	defer rows.Close()

	return scanLinks(rows)
}

// CountNodes returns the total number of nodes.
func (d *DB) CountNodes() (int, error) {
	return d.count("nodes")
}

// CountLinks returns the total number of links.
func (d *DB) CountLinks() (int, error) {
	return d.count("links")
}

func (d *DB) count(table string) (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
	if err != nil {
		// Table might not exist yet
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

// scanNodes scans rows into a slice of nodes.
func scanNodes(rows *sql.Rows) ([]network.Node, error) {
	var nodes []network.Node
	for rows.Next() {
		var n network.Node
		var label, nodeType sql.NullString
		var metricsJSON string
		var extraJSON sql.NullString
		if err := rows.Scan(&n.ID, &label, &nodeType, &metricsJSON, &extraJSON); err != nil {
			return nil, err
		}
		n.Label = label.String
		n.Type = nodeType.String
		if err := json.Unmarshal([]byte(metricsJSON), &n.Metrics); err != nil {
			return nil, fmt.Errorf("parsing metrics for %s: %w", n.ID, err)
		}
		if extraJSON.Valid {
			if err := json.Unmarshal([]byte(extraJSON.String), &n.Extra); err != nil {
				return nil, fmt.Errorf("parsing attributes for %s: %w", n.ID, err)
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// scanLinks scans rows into a slice of links.
func scanLinks(rows *sql.Rows) ([]network.Link, error) {
	var links []network.Link
	for rows.Next() {
		var l network.Link
		var weight sql.NullFloat64
		if err := rows.Scan(&l.Source, &l.Target, &weight); err != nil {
			return nil, err
		}
		if weight.Valid {
			l.Weight = weight.Float64
			l.Weighted = true
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
