package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/container"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if !cfg.UsePostgres() {
		log.Fatalf("seeding needs a persistent store, set STORE_DRIVER=postgres (got %q)", cfg.StoreDriver)
	}

	ctx := context.Background()
	c, err := container.Connect(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialise dependencies: %v", err)
	}
	defer c.Close()

	username := "demo"
	email := "demo@example.com"
	password := "password123"

	auth := c.AuthService()
	res, err := auth.Register(ctx, application.RegisterInput{Username: username, Email: email, Password: password})
	if errors.Is(err, application.ErrDuplicateIdentity) {
		res, err = auth.Login(ctx, email, password)
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s username=%s password=%s\n", res.User.ID, email, username, password)

	existing, err := c.TaskService().List(ctx, res.User.ID, application.TaskQuery{})
	if err != nil {
		log.Fatalf("failed to list tasks: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("user already has %d tasks, skipping\n", len(existing))
		return
	}

	today := entity.DateOnly(time.Now())
	due := func(days int) *time.Time {
		d := today.AddDate(0, 0, days)
		return &d
	}
	samples := []application.CreateTaskInput{
		{Title: "Set up project board", Status: entity.StatusCompleted, Priority: entity.PriorityMedium, Tags: []string{"work"}},
		{Title: "Write API docs", Description: "Cover auth and task endpoints", Status: entity.StatusInProgress, Priority: entity.PriorityHigh, DueDate: due(2), Tags: []string{"work", "docs"}},
		{Title: "Renew passport", Priority: entity.PriorityHigh, DueDate: due(-1), Tags: []string{"personal", "urgent"}},
		{Title: "Buy groceries", Description: "milk, eggs, coffee", Priority: entity.PriorityLow, DueDate: due(0), Tags: []string{"home"}},
	}
	for _, in := range samples {
		t, err := c.TaskService().Create(ctx, res.User.ID, in)
		if err != nil {
			log.Fatalf("failed to seed task %q: %v", in.Title, err)
		}
		fmt.Printf("seeded task: id=%s title=%q status=%s\n", t.ID, t.Title, t.Status)
	}
}
