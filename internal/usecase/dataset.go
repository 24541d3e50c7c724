package usecase

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/prepforge/ai-prep-coach/internal/domain"
	"github.com/prepforge/ai-prep-coach/internal/prompts"
)

// schemaSampleRows is how many rows of each table the routing prompt sees.
const schemaSampleRows = 5

// DatasetService ingests tabular files into a per-session SQLite database
// and answers questions about them through a text-to-SQL round trip.
type DatasetService struct {
	Store   domain.SessionStore
	AI      domain.AIClient
	DataDir string
}

// NewDatasetService constructs a DatasetService. dataDir holds one SQLite
// file per session.
func NewDatasetService(store domain.SessionStore, ai domain.AIClient, dataDir string) DatasetService {
	if dataDir == "" {
		dataDir = filepath.Join(os.TempDir(), "prep-coach-datasets")
	}
	return DatasetService{Store: store, AI: ai, DataDir: dataDir}
}

// DatasetAnswer is the response to one dataset question. SQLQuery and
// QueryResult are only set when the model routed through SQL.
type DatasetAnswer struct {
	Answer      string `json:"answer"`
	SQLQuery    string `json:"sql_query,omitempty"`
	QueryResult string `json:"query_result,omitempty"`
}

var identRe = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// tableNameFor derives a SQL-safe table name from an uploaded filename.
func tableNameFor(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name := identRe.ReplaceAllString(base, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "dataset"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	return strings.ToLower(name)
}

func (s DatasetService) dbPath(sessionID string) string {
	return filepath.Join(s.DataDir, sessionID+".db")
}

func (s DatasetService) openDB(sessionID string) (*sql.DB, error) {
	if err := os.MkdirAll(s.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("op=dataset.mkdir: %w", err)
	}
	db, err := sql.Open("sqlite3", s.dbPath(sessionID))
	if err != nil {
		return nil, fmt.Errorf("op=dataset.open: %w", err)
	}
	return db, nil
}

// Upload parses a CSV or JSON file into a session table. Re-uploading a
// file with the same name replaces its table.
func (s DatasetService) Upload(ctx domain.Context, sessionID, filename string, r io.Reader) (domain.DatasetInfo, error) {
	var columns []string
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		columns, rows, err = parseCSV(r)
	case ".json":
		columns, rows, err = parseJSONRows(r)
	default:
		return domain.DatasetInfo{}, fmt.Errorf("%w: unsupported dataset format %q", domain.ErrInvalidArgument, filepath.Ext(filename))
	}
	if err != nil {
		return domain.DatasetInfo{}, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	if len(columns) == 0 {
		return domain.DatasetInfo{}, fmt.Errorf("%w: dataset has no columns", domain.ErrInvalidArgument)
	}

	db, err := s.openDB(sessionID)
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	defer func() { _ = db.Close() }()

	table := tableNameFor(filename)
	if err := loadTable(ctx, db, table, columns, rows); err != nil {
		return domain.DatasetInfo{}, err
	}

	info := domain.DatasetInfo{
		Table:    table,
		Filename: filepath.Base(filename),
		Columns:  columns,
		Rows:     len(rows),
	}
	if err := s.Store.SaveDataset(ctx, sessionID, info); err != nil {
		return domain.DatasetInfo{}, err
	}
	slog.Info("dataset loaded",
		slog.String("session_id", sessionID),
		slog.String("table", table),
		slog.Int("rows", len(rows)))
	return info, nil
}

func parseCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv")
	}
	header := records[0]
	rows := records[1:]
	// Ragged rows are padded or truncated to the header width.
	for i, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > len(header) {
			rows[i] = row[:len(header)]
		}
	}
	return header, rows, nil
}

// parseJSONRows accepts an array of flat objects. Column order follows the
// first object's keys sorted lexically so ingestion is deterministic.
func parseJSONRows(r io.Reader) ([]string, [][]string, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty json array")
	}
	colSet := map[string]struct{}{}
	for _, rec := range records {
		for k := range rec {
			colSet[k] = struct{}{}
		}
	}
	columns := make([]string, 0, len(colSet))
	for k := range colSet {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := rec[col]; ok && v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}

func loadTable(ctx domain.Context, db *sql.DB, table string, columns []string, rows [][]string) error {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = `"` + identRe.ReplaceAllString(c, "_") + `" TEXT`
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table)); err != nil {
		return fmt.Errorf("op=dataset.drop: %w", err)
	}
	create := fmt.Sprintf(`CREATE TABLE "%s" (%s)`, table, strings.Join(quoted, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("op=dataset.create: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("op=dataset.begin: %w", err)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	insert := fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, table, placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("op=dataset.prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, row := range rows {
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("op=dataset.insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("op=dataset.commit: %w", err)
	}
	return nil
}

// Ask routes a question through the model: either it generates SQL over the
// session's tables and summarizes the query result, or it answers directly
// when the question is unrelated to the data.
func (s DatasetService) Ask(ctx domain.Context, sessionID, question string) (DatasetAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return DatasetAnswer{}, fmt.Errorf("%w: question required", domain.ErrInvalidArgument)
	}
	datasets, err := s.Store.ListDatasets(ctx, sessionID)
	if err != nil {
		return DatasetAnswer{}, err
	}
	if len(datasets) == 0 {
		return DatasetAnswer{}, fmt.Errorf("%w: no datasets uploaded", domain.ErrNotFound)
	}

	db, err := s.openDB(sessionID)
	if err != nil {
		return DatasetAnswer{}, err
	}
	defer func() { _ = db.Close() }()

	info, err := describeTables(ctx, db, datasets)
	if err != nil {
		return DatasetAnswer{}, err
	}

	reply, err := s.AI.ChatJSON(ctx, "", prompts.DatasetSQL(question, info), 1000)
	if err != nil {
		return DatasetAnswer{}, err
	}

	switch {
	case strings.Contains(reply, "text_to_sql"):
		query := cleanSQL(afterFirstColon(reply, "text_to_sql"))
		result, err := runQuery(ctx, db, query)
		if err != nil {
			return DatasetAnswer{}, fmt.Errorf("%w: query failed: %v", domain.ErrInvalidArgument, err)
		}
		finalReply, err := s.AI.ChatJSON(ctx, "", prompts.DatasetAnswer(question, result), 1000)
		if err != nil {
			return DatasetAnswer{}, err
		}
		answer := afterFirstColon(finalReply, "final_answer")
		if answer == "" {
			answer = strings.TrimSpace(finalReply)
		}
		return DatasetAnswer{Answer: answer, SQLQuery: query, QueryResult: result}, nil

	case strings.Contains(reply, "answer_without_sql"):
		return DatasetAnswer{Answer: afterFirstColon(reply, "answer_without_sql")}, nil

	default:
		return DatasetAnswer{}, fmt.Errorf("%w: model did not follow the routing format", domain.ErrSchemaInvalid)
	}
}

// afterFirstColon returns the trimmed text after the first colon following
// marker, mirroring the loose "key: value" reply format the prompt demands.
func afterFirstColon(reply, marker string) string {
	idx := strings.Index(reply, marker)
	if idx < 0 {
		return ""
	}
	rest := reply[idx+len(marker):]
	if i := strings.Index(rest, ":"); i >= 0 {
		rest = rest[i+1:]
	}
	return strings.TrimSpace(rest)
}

func cleanSQL(q string) string {
	q = strings.ReplaceAll(q, "```sql", "")
	q = strings.ReplaceAll(q, "```", "")
	q = strings.ReplaceAll(q, "|", "")
	return strings.TrimSpace(q)
}

// describeTables serializes each table's columns and first rows for the
// routing prompt.
func describeTables(ctx domain.Context, db *sql.DB, datasets []domain.DatasetInfo) (string, error) {
	var b strings.Builder
	for _, ds := range datasets {
		fmt.Fprintf(&b, "Table: %s (file %s, %d rows)\n", ds.Table, ds.Filename, ds.Rows)
		fmt.Fprintf(&b, "Columns: %s\n", strings.Join(ds.Columns, ", "))
		sample, err := runQuery(ctx, db, fmt.Sprintf(`SELECT * FROM "%s" LIMIT %d`, ds.Table, schemaSampleRows))
		if err != nil {
			return "", err
		}
		b.WriteString("Sample rows:\n")
		b.WriteString(sample)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// runQuery executes a read query and renders the result as aligned text.
func runQuery(ctx domain.Context, db *sql.DB, query string) (string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return "", err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(strings.Join(cols, " | "))
	b.WriteString("\n")
	values := make([]sql.NullString, len(cols))
	scan := make([]any, len(cols))
	for i := range values {
		scan[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return "", err
		}
		cells := make([]string, len(cols))
		for i, v := range values {
			cells[i] = v.String
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
