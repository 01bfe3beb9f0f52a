// dbcheck connects with the application's own config and prints store
// state, replacing the pile of one-off connection checker scripts the
// portal used to carry.
package main

import (
	"fmt"
	"log"

	"github.com/engivora/backend/internal/config"
	"github.com/engivora/backend/internal/models"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("cannot connect: %v", err)
	}

	counts := map[string]any{
		"users":         &models.User{},
		"jobs":          &models.Job{},
		"blog_posts":    &models.BlogPost{},
		"blog_drafts":   &models.BlogDraft{},
		"exams":         &models.Exam{},
		"discounts":     &models.Discount{},
		"events":        &models.Event{},
		"notifications": &models.Notification{},
	}

	fmt.Printf("connected to %s/%s\n", cfg.DB_HOST, cfg.DB_NAME)
	for name, model := range counts {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			fmt.Printf("  %-14s error: %v\n", name, err)
			continue
		}
		fmt.Printf("  %-14s %d\n", name, n)
	}

	var admins int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err == nil {
		fmt.Printf("  admin accounts in database: %d\n", admins)
	}

	var pending int64
	if err := db.Model(&models.BlogDraft{}).Where("synced = ?", false).Count(&pending).Error; err == nil {
		fmt.Printf("  unsynced blog drafts: %d\n", pending)
	}
}
