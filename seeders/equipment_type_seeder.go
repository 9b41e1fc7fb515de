package seeders

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"equipment-tracker/internal/lifecycle"
)

// КЛЮЧИК: true - полностью очистить таблицу и записать типы с нуля.
// false - только добавить новые типы, не трогая существующие.
const fullSync_EquipmentTypes = false

func seedEquipmentTypes(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'equipment_types'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if fullSync_EquipmentTypes {
		log.Println("    - Стратегия: Полная перезапись (TRUNCATE)")
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE equipment_types RESTART IDENTITY CASCADE"); err != nil {
			return err
		}
	} else {
		log.Println("    - Стратегия: Только добавление новых типов (ADDITIVE)")
	}

	query := `INSERT INTO equipment_types (name, maintenance_period_days, checklist_schema)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (name) DO NOTHING`

	for _, t := range equipmentTypesData {
		schema := make([]lifecycle.ChecklistItem, 0, len(t.Checklist))
		for _, label := range t.Checklist {
			schema = append(schema, lifecycle.ChecklistItem{Label: label})
		}
		raw, err := json.Marshal(schema)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, t.Name, t.PeriodDays, raw); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedCompaniesAndProjects(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблиц 'companies' и 'projects'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, c := range companiesData {
		if _, err := tx.Exec(ctx,
			`INSERT INTO companies (name, contact_name, phone) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			c.Name, c.ContactName, c.Phone,
		); err != nil {
			return err
		}
	}

	companies, err := mapAllIDsByName(ctx, tx, "companies")
	if err != nil {
		return err
	}

	for _, p := range projectsData {
		var companyID *uint64
		if id, ok := companies[p.Company]; ok {
			companyID = &id
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO projects (name, company_id, description) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			p.Name, companyID, p.Description,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
