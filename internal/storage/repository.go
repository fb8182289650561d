package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"staffmanager/internal/core"
	"staffmanager/internal/store"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRepository implements the store ports over a single SQLite
// database file. Societies go through the Societies() view because the
// activity FindAll occupies the method name.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ store.ActivityStore     = (*SQLiteRepository)(nil)
	_ store.CollaboratorStore = (*SQLiteRepository)(nil)
	_ store.MissionStore      = (*SQLiteRepository)(nil)
	_ store.InvoiceStore      = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const findAllActivitiesSQL = `
SELECT a.id, a.date, a.quantity, a.category, a.comment,
       c.id, c.first_name, c.last_name, c.email,
       m.id, m.name, m.start_date, m.end_date,
       cu.id, cu.name, cu.address,
       mc.id, mc.first_name, mc.last_name, mc.email
FROM activities a
LEFT JOIN collaborators c ON c.id = a.collaborator_id
LEFT JOIN missions m ON m.id = a.mission_id
LEFT JOIN customers cu ON cu.id = m.customer_id
LEFT JOIN collaborators mc ON mc.id = m.collaborator_id
ORDER BY a.id`

// FindAll implements store.ActivityStore. Mission and collaborator
// links come back resolved; absent links stay nil.
func (r *SQLiteRepository) FindAll(ctx context.Context) ([]core.Activity, error) {
	rows, err := r.db.QueryContext(ctx, findAllActivitiesSQL)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var out []core.Activity
	for rows.Next() {
		var (
			a        core.Activity
			date     string
			collabID sql.NullInt64
			first    sql.NullString
			last     sql.NullString
			email    sql.NullString

			missionID    sql.NullInt64
			missionName  sql.NullString
			missionStart sql.NullString
			missionEnd   sql.NullString

			customerID   sql.NullInt64
			customerName sql.NullString
			customerAddr sql.NullString

			mcID    sql.NullInt64
			mcFirst sql.NullString
			mcLast  sql.NullString
			mcEmail sql.NullString
		)
		err := rows.Scan(
			&a.ID, &date, &a.Quantity, &a.Category, &a.Comment,
			&collabID, &first, &last, &email,
			&missionID, &missionName, &missionStart, &missionEnd,
			&customerID, &customerName, &customerAddr,
			&mcID, &mcFirst, &mcLast, &mcEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}

		a.Date, err = parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", a.ID, err)
		}

		if collabID.Valid {
			a.Collaborator = &core.Collaborator{
				ID:        collabID.Int64,
				FirstName: first.String,
				LastName:  last.String,
				Email:     email.String,
			}
		}

		if missionID.Valid {
			start, err := parseDate(missionStart.String)
			if err != nil {
				return nil, fmt.Errorf("mission %d start: %w", missionID.Int64, err)
			}
			end, err := parseDate(missionEnd.String)
			if err != nil {
				return nil, fmt.Errorf("mission %d end: %w", missionID.Int64, err)
			}
			mission := &core.Mission{
				ID:        missionID.Int64,
				Name:      missionName.String,
				StartDate: start,
				EndDate:   end,
			}
			if customerID.Valid {
				mission.Customer = &core.Customer{
					ID:      customerID.Int64,
					Name:    customerName.String,
					Address: customerAddr.String,
				}
			}
			if mcID.Valid {
				mission.Collaborator = &core.Collaborator{
					ID:        mcID.Int64,
					FirstName: mcFirst.String,
					LastName:  mcLast.String,
					Email:     mcEmail.String,
				}
			}
			a.Mission = mission
		}

		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return out, nil
}

// SaveAll implements store.ActivityStore. The batch is one
// transaction: all records land or none do.
func (r *SQLiteRepository) SaveAll(ctx context.Context, activities []core.Activity) ([]core.Activity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activities (date, quantity, category, comment, collaborator_id, mission_id)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	saved := make([]core.Activity, 0, len(activities))
	for _, a := range activities {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("validate activity: %w", err)
		}
		var missionID any
		if a.Mission != nil {
			missionID = a.Mission.ID
		}
		res, err := stmt.ExecContext(ctx,
			a.Date.Format(dateLayout), a.Quantity, string(a.Category), a.Comment,
			a.Collaborator.ID, missionID)
		if err != nil {
			return nil, fmt.Errorf("insert activity: %w", err)
		}
		a.ID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("activity insert id: %w", err)
		}
		saved = append(saved, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit activities: %w", err)
	}

	slog.InfoContext(ctx, "Activities saved", "count", len(saved))
	return saved, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*core.Collaborator, error) {
	return r.findCollaborator(ctx,
		`SELECT id, first_name, last_name, email FROM collaborators WHERE email = ?`, email)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*core.Collaborator, error) {
	return r.findCollaborator(ctx,
		`SELECT id, first_name, last_name, email FROM collaborators WHERE id = ?`, id)
}

func (r *SQLiteRepository) ListCollaborators(ctx context.Context) ([]core.Collaborator, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email FROM collaborators ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query collaborators: %w", err)
	}
	defer rows.Close()

	var out []core.Collaborator
	for rows.Next() {
		var c core.Collaborator
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email); err != nil {
			return nil, fmt.Errorf("scan collaborator: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) findCollaborator(ctx context.Context, query string, arg any) (*core.Collaborator, error) {
	var c core.Collaborator
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query collaborator: %w", err)
	}
	return &c, nil
}

// FindByCollaborator implements store.MissionStore. Rows come back in
// insertion order; mission matching relies on no stronger guarantee.
func (r *SQLiteRepository) FindByCollaborator(ctx context.Context, collaboratorID int64) ([]core.Mission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.start_date, m.end_date,
		       cu.id, cu.name, cu.address,
		       c.id, c.first_name, c.last_name, c.email
		FROM missions m
		JOIN customers cu ON cu.id = m.customer_id
		JOIN collaborators c ON c.id = m.collaborator_id
		WHERE m.collaborator_id = ?
		ORDER BY m.id`, collaboratorID)
	if err != nil {
		return nil, fmt.Errorf("query missions: %w", err)
	}
	defer rows.Close()

	var out []core.Mission
	for rows.Next() {
		var (
			m          core.Mission
			start, end string
			customer   core.Customer
			collab     core.Collaborator
		)
		err := rows.Scan(&m.ID, &m.Name, &start, &end,
			&customer.ID, &customer.Name, &customer.Address,
			&collab.ID, &collab.FirstName, &collab.LastName, &collab.Email)
		if err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		if m.StartDate, err = parseDate(start); err != nil {
			return nil, fmt.Errorf("mission %d start: %w", m.ID, err)
		}
		if m.EndDate, err = parseDate(end); err != nil {
			return nil, fmt.Errorf("mission %d end: %w", m.ID, err)
		}
		m.Customer = &customer
		m.Collaborator = &collab
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate missions: %w", err)
	}
	return out, nil
}

// Save implements store.InvoiceStore.
func (r *SQLiteRepository) Save(ctx context.Context, invoice core.Invoice) (core.Invoice, error) {
	var customerID, collaboratorID any
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}
	if invoice.Collaborator != nil {
		collaboratorID = invoice.Collaborator.ID
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO invoices (name, created_at, customer_id, collaborator_id, month_year)
		VALUES (?, ?, ?, ?, ?)`,
		invoice.Name, invoice.CreatedAt.Format(dateLayout),
		customerID, collaboratorID, invoice.MonthYear.Format(dateLayout))
	if err != nil {
		return core.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}
	invoice.ID, err = res.LastInsertId()
	if err != nil {
		return core.Invoice{}, fmt.Errorf("invoice insert id: %w", err)
	}

	slog.InfoContext(ctx, "Invoice saved", "id", invoice.ID, "name", invoice.Name)
	return invoice, nil
}

// Societies exposes the repository as a store.SocietyStore.
func (r *SQLiteRepository) Societies() store.SocietyStore {
	return societiesView{r}
}

type societiesView struct{ r *SQLiteRepository }

func (v societiesView) FindAll(ctx context.Context) ([]core.Society, error) {
	rows, err := v.r.db.QueryContext(ctx,
		`SELECT id, name, address, vat_id FROM societies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query societies: %w", err)
	}
	defer rows.Close()

	var out []core.Society
	for rows.Next() {
		var s core.Society
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.VATID); err != nil {
			return nil, fmt.Errorf("scan society: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate societies: %w", err)
	}
	return out, nil
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}
