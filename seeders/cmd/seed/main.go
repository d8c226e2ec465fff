package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/pkg/service"
	"maintenance-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runCore := flag.Bool("core", false, "Команды и пользователи")
	runEquipment := flag.Bool("equipment", false, "Команды, пользователи и демо-оборудование")
	printToken := flag.Bool("token", false, "Вывести JWT администратора для локальной разработки")
	flag.Parse()

	if !*runCore && !*runEquipment && !*printToken {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -core")
		log.Println("  go run ./seeders/cmd/seed -equipment -token")
		log.Println("======================================================")
		return
	}

	ctx := context.Background()
	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns, zap.NewNop())
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer dbPool.Close()

	if err := postgresql.Migrate(dbPool); err != nil {
		log.Fatalf("❌ %v", err)
	}

	if *runCore || *runEquipment {
		if err := seeders.SeedDirectory(ctx, dbPool, *runEquipment); err != nil {
			log.Fatalf("❌ Ошибка наполнения: %v", err)
		}
		log.Println("======================================================")
	}

	if *printToken {
		adminID, err := seeders.AdminUserID(ctx, dbPool)
		if err != nil {
			log.Fatalf("❌ Администратор не найден, сначала запустите -core: %v", err)
		}
		token, err := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL).GenerateToken(adminID)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Printf("🔑 Bearer %s", token)
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
