package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func seedEquipment(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'equipment'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// --- ШАГ 1: Загружаем ID справочников в словари ---
	typesMap, err := mapAllIDsByName(ctx, tx, "equipment_types")
	if err != nil {
		return fmt.Errorf("ошибка получения ID типов оборудования: %w", err)
	}
	projectsMap, err := mapAllIDsByName(ctx, tx, "projects")
	if err != nil {
		return fmt.Errorf("ошибка получения ID проектов: %w", err)
	}
	companiesMap, err := mapAllIDsByName(ctx, tx, "companies")
	if err != nil {
		return fmt.Errorf("ошибка получения ID компаний: %w", err)
	}

	// --- ШАГ 2: Вставляем оборудование; срок ТО считается от периода типа ---
	query := `INSERT INTO equipment (
				qr_code, name, serial_number, type_id, status,
				last_maintenance_date, next_maintenance_date,
				location_description, project_id, company_id)
			  SELECT $1, $2, NULLIF($3, ''), t.id, 'active',
				NOW(), NOW() + make_interval(days => t.maintenance_period_days),
				NULLIF($4, ''), $5, $6
			  FROM equipment_types t WHERE t.id = $7
			  ON CONFLICT (qr_code) DO NOTHING`

	for _, e := range demoEquipmentData {
		typeID, ok := typesMap[e.Type]
		if !ok {
			log.Printf("    - ⚠️ Тип '%s' не найден, пропускаем %s", e.Type, e.QRCode)
			continue
		}
		if _, err := tx.Exec(ctx, query,
			e.QRCode, e.Name, e.Serial, e.Location,
			optionalID(projectsMap, e.Project), optionalID(companiesMap, e.Company), typeID,
		); err != nil {
			return fmt.Errorf("ошибка вставки %s: %w", e.QRCode, err)
		}
	}

	return tx.Commit(ctx)
}

func optionalID(m map[string]uint64, name string) *uint64 {
	if id, ok := m[name]; ok {
		return &id
	}
	return nil
}

// mapAllIDsByName - словарь name -> id для таблицы справочника.
func mapAllIDsByName(ctx context.Context, tx pgx.Tx, tableName string) (map[string]uint64, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf("SELECT id, name FROM %s", tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]uint64)
	for rows.Next() {
		var id uint64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, rows.Err()
}
