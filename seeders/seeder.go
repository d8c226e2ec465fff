package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDirectory наполняет команды, пользователей и оборудование. Повторный запуск безопасен:
// все вставки идут через ON CONFLICT.
func SeedDirectory(ctx context.Context, db *pgxpool.Pool, withEquipment bool) error {
	log.Println("▶️  Запуск наполнения справочников...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	teams, err := seedTeams(ctx, tx)
	if err != nil {
		return fmt.Errorf("команды: %w", err)
	}
	users, err := seedUsers(ctx, tx, teams)
	if err != nil {
		return fmt.Errorf("пользователи: %w", err)
	}
	if withEquipment {
		if err := seedEquipment(ctx, tx, teams, users); err != nil {
			return fmt.Errorf("оборудование: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	log.Println("✅ Наполнение справочников завершено!")
	return nil
}

func seedTeams(ctx context.Context, tx pgx.Tx) (map[string]uint64, error) {
	log.Println("  - Наполнение таблицы 'maintenance_teams'...")
	ids := make(map[string]uint64, len(teamsData))
	for _, name := range teamsData {
		var id uint64
		err := tx.QueryRow(ctx, `
			INSERT INTO maintenance_teams (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, name).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, nil
}

func seedUsers(ctx context.Context, tx pgx.Tx, teams map[string]uint64) (map[string]uint64, error) {
	log.Println("  - Наполнение таблицы 'users'...")
	ids := make(map[string]uint64, len(usersData))
	for _, u := range usersData {
		var teamID *uint64
		if u.TeamName != "" {
			id, ok := teams[u.TeamName]
			if !ok {
				return nil, fmt.Errorf("команда '%s' не найдена", u.TeamName)
			}
			teamID = &id
		}

		var id uint64
		err := tx.QueryRow(ctx, `
			INSERT INTO users (full_name, email, maintenance_team_id) VALUES ($1, $2, $3)
			ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name, maintenance_team_id = EXCLUDED.maintenance_team_id
			RETURNING id`, u.FullName, u.Email, teamID).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[u.Email] = id
	}
	return ids, nil
}

func seedEquipment(ctx context.Context, tx pgx.Tx, teams, users map[string]uint64) error {
	log.Println("  - Наполнение таблицы 'equipment'...")
	for _, e := range equipmentData {
		teamID, ok := teams[e.TeamName]
		if !ok {
			log.Printf("ПРЕДУПРЕЖДЕНИЕ: Команда '%s' не найдена, пропускаем '%s'.", e.TeamName, e.Name)
			continue
		}
		var techID *uint64
		if id, ok := users[e.TechnicianEmail]; ok {
			techID = &id
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO equipment (name, serial_number, category, maintenance_team_id, default_technician_id, location, manufacturer)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
			ON CONFLICT (serial_number) DO NOTHING`,
			e.Name, e.SerialNumber, e.Category, teamID, techID, e.Location, e.Manufacturer)
		if err != nil {
			return err
		}
	}
	return nil
}

// AdminUserID - ID первого пользователя из набора, для выпуска токена разработчика.
func AdminUserID(ctx context.Context, db *pgxpool.Pool) (uint64, error) {
	var id uint64
	err := db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, usersData[0].Email).Scan(&id)
	return id, err
}
