package main

import (
	"context"
	"log"
	"os"

	"stylistapi/dbhelper"
	"stylistapi/services"
	"stylistapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"
)

func NewDailyOutfitTask() *asynq.Task {
	return asynq.NewTask("generate:daily_outfits", []byte{})
}

func runScheduler() {

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}, &asynq.SchedulerOpts{

		LogLevel: asynq.InfoLevel,
	})

	// Schedule daily tasks with different cron expressions
	scheduled := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "0 7 * * *", // 7:00 AM daily, before people dress
			task: NewDailyOutfitTask(),
			desc: "Daily outfit generations",
		},
	}

	// Register all tasks
	for _, t := range scheduled {
		entryID, err := scheduler.Register(t.cron, t.task)
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	// Initialize asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"generate": 7,
			"default":  3,
		}},
	)
	stylist := services.GoogleOutfitStylist{}
	weatherService := services.OpenMeteoWeatherService{}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")})
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
		return
	}
	// Set up task handler
	mux := asynq.NewServeMux()
	db := dbhelper.SetupDB()
	mux.HandleFunc("generate:outfits", func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleOutfitGenerationTask(ctx, t, db, stylist, weatherService, app)
	})
	mux.HandleFunc("generate:daily_outfits", func(ctx context.Context, t *asynq.Task) error {
		return tasks.ScheduledDailyOutfitTask(ctx, t, db, asynqClient)
	})

	go runScheduler()
	// Run the worker
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
