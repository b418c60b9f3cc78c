// Command nuke_db drops every table so the schema can be rebuilt from scratch.
package main

import (
	"flag"
	"fmt"
	"log"

	"quorum/internal/config"
	"quorum/internal/database"
)

func main() {
	force := flag.Bool("force", false, "Allow running against a production environment")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.IsProduction() && !*force {
		log.Fatalf("refusing to nuke a %s database without -force", cfg.Env)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = database.Close(db) }()

	fmt.Println("Nuking database...")
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("DROP SCHEMA public CASCADE; CREATE SCHEMA public;").Error; err != nil {
			log.Fatalf("failed to nuke schema: %v", err)
		}
		if err := db.Exec("GRANT ALL ON SCHEMA public TO public;").Error; err != nil {
			log.Fatalf("failed to grant schema permissions: %v", err)
		}
	} else {
		tables := append([]any{&database.MigrationLog{}}, database.PersistentModels()...)
		for i := len(tables) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(tables[i]); err != nil {
				log.Fatalf("failed to drop table: %v", err)
			}
		}
	}
	fmt.Println("Database nuked.")
}
