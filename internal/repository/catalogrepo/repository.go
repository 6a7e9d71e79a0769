package catalogrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
)

// CatalogRepository implementa domain.CatalogRepository: setores,
// eventos, banners, configurações e visitas — entidades administrativas
// sem dono por admin.
type CatalogRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewCatalogRepository cria uma nova instância do repositório de catálogo.
func NewCatalogRepository(db *sql.DB, dbTimeout time.Duration) *CatalogRepository {
	return &CatalogRepository{DB: db, DBTimeout: dbTimeout}
}

// --- Setores ---

func (r *CatalogRepository) SaveSector(ctx context.Context, s domain.Sector) (domain.Sector, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	s.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctxTimeout, `INSERT INTO sectors (id, name) VALUES ($1,$2)`, s.ID, s.Name)
	if err != nil {
		return domain.Sector{}, apperror.NewDBError("failed to insert sector", err)
	}
	return s, nil
}

func (r *CatalogRepository) FindAllSectors(ctx context.Context) ([]domain.Sector, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT id, name FROM sectors ORDER BY name`)
	if err != nil {
		return nil, apperror.NewDBError("failed to list sectors", err)
	}
	defer rows.Close()

	ss := []domain.Sector{}
	for rows.Next() {
		var s domain.Sector
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, apperror.NewDBError("failed to scan sector row", err)
		}
		ss = append(ss, s)
	}
	return ss, rows.Err()
}

func (r *CatalogRepository) DeleteSector(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "sectors", id, "Setor")
}

func (r *CatalogRepository) SaveSubsector(ctx context.Context, s domain.Subsector) (domain.Subsector, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	s.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO subsectors (id, sector_id, name) VALUES ($1,$2,$3)`, s.ID, s.SectorID, s.Name)
	if err != nil {
		return domain.Subsector{}, apperror.NewDBError("failed to insert subsector", err)
	}
	return s, nil
}

func (r *CatalogRepository) FindSubsectors(ctx context.Context, sectorID string) ([]domain.Subsector, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT id, sector_id, name FROM subsectors WHERE sector_id = $1 ORDER BY name`, sectorID)
	if err != nil {
		return nil, apperror.NewDBError("failed to list subsectors", err)
	}
	defer rows.Close()

	ss := []domain.Subsector{}
	for rows.Next() {
		var s domain.Subsector
		if err := rows.Scan(&s.ID, &s.SectorID, &s.Name); err != nil {
			return nil, apperror.NewDBError("failed to scan subsector row", err)
		}
		ss = append(ss, s)
	}
	return ss, rows.Err()
}

func (r *CatalogRepository) DeleteSubsector(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "subsectors", id, "Subsetor")
}

// --- Eventos ---

func (r *CatalogRepository) SaveEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()

	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO events (id, title, description, location, starts_at, ends_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.CreatedAt)
	if err != nil {
		return domain.Event{}, apperror.NewDBError("failed to insert event", err)
	}
	return e, nil
}

func (r *CatalogRepository) FindEvents(ctx context.Context) ([]domain.Event, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT id, title, description, location, starts_at, ends_at, created_at FROM events ORDER BY starts_at`)
	if err != nil {
		return nil, apperror.NewDBError("failed to list events", err)
	}
	defer rows.Close()

	es := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt, &e.CreatedAt); err != nil {
			return nil, apperror.NewDBError("failed to scan event row", err)
		}
		es = append(es, e)
	}
	return es, rows.Err()
}

func (r *CatalogRepository) DeleteEvent(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "events", id, "Evento")
}

// --- Banners ---

func (r *CatalogRepository) SaveBanner(ctx context.Context, b domain.Banner) (domain.Banner, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()

	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO banners (id, title, image_path, link_url, is_active, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.Title, b.ImagePath, b.LinkURL, b.IsActive, b.CreatedAt)
	if err != nil {
		return domain.Banner{}, apperror.NewDBError("failed to insert banner", err)
	}
	return b, nil
}

func (r *CatalogRepository) FindBanners(ctx context.Context, activeOnly bool) ([]domain.Banner, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, title, image_path, link_url, is_active, created_at FROM banners`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("failed to list banners", err)
	}
	defer rows.Close()

	bs := []domain.Banner{}
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.ImagePath, &b.LinkURL, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, apperror.NewDBError("failed to scan banner row", err)
		}
		bs = append(bs, b)
	}
	return bs, rows.Err()
}

func (r *CatalogRepository) UpdateBanner(ctx context.Context, b domain.Banner) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE banners SET title = $2, image_path = $3, link_url = $4, is_active = $5 WHERE id = $1`,
		b.ID, b.Title, b.ImagePath, b.LinkURL, b.IsActive)
	if err != nil {
		return apperror.NewDBError("failed to update banner", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Banner com ID %s não encontrado.", b.ID))
	}
	return nil
}

func (r *CatalogRepository) DeleteBanner(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "banners", id, "Banner")
}

// --- Configurações (registro único) ---

func (r *CatalogRepository) GetSettings(ctx context.Context) (domain.Settings, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, site_name, contact_email, smtp_host, smtp_port, smtp_user, smtp_password, smtp_from, email_active, updated_at
	               FROM settings LIMIT 1`

	var s domain.Settings
	err := r.DB.QueryRowContext(ctxTimeout, query).Scan(
		&s.ID, &s.SiteName, &s.ContactEmail, &s.SMTPHost, &s.SMTPPort,
		&s.SMTPUser, &s.SMTPPassword, &s.SMTPFrom, &s.EmailActive, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Settings{}, apperror.NewNotFoundError("Configurações ainda não inicializadas.")
		}
		return domain.Settings{}, apperror.NewDBError("failed to load settings", err)
	}
	return s, nil
}

func (r *CatalogRepository) UpdateSettings(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	s.UpdatedAt = time.Now().UTC()

	res, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE settings SET site_name = $2, contact_email = $3, smtp_host = $4, smtp_port = $5,
		        smtp_user = $6, smtp_password = $7, smtp_from = $8, email_active = $9, updated_at = $10
		 WHERE id = $1`,
		s.ID, s.SiteName, s.ContactEmail, s.SMTPHost, s.SMTPPort,
		s.SMTPUser, s.SMTPPassword, s.SMTPFrom, s.EmailActive, s.UpdatedAt)
	if err != nil {
		return domain.Settings{}, apperror.NewDBError("failed to update settings", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Settings{}, apperror.NewNotFoundError("Configurações ainda não inicializadas.")
	}
	return s, nil
}

// --- Visitas ---

func (r *CatalogRepository) SaveVisit(ctx context.Context, v domain.SiteVisit) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	v.ID = uuid.NewString()
	v.CreatedAt = time.Now().UTC()

	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO site_visits (id, ip, path, country, region, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		v.ID, v.IP, v.Path, v.Country, v.Region, v.CreatedAt)
	if err != nil {
		return apperror.NewDBError("failed to insert visit", err)
	}
	return nil
}

func (r *CatalogRepository) CountVisits(ctx context.Context, since time.Time) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT COUNT(*) FROM site_visits WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, apperror.NewDBError("failed to count visits", err)
	}
	return count, nil
}

// deleteByID é o helper comum de exclusão das tabelas de catálogo.
func (r *CatalogRepository) deleteByID(ctx context.Context, table, id, label string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// table vem de chamadas internas com nomes fixos.
	res, err := r.DB.ExecContext(ctxTimeout, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return apperror.NewDBError("failed to delete from "+table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("%s com ID %s não encontrado.", label, id))
	}
	return nil
}
