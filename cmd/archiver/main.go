package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hoteldesk/go-hotel-reservations/internal/archive"
	"github.com/hoteldesk/go-hotel-reservations/internal/config"
	"github.com/hoteldesk/go-hotel-reservations/internal/hotel"
	kafkax "github.com/hoteldesk/go-hotel-reservations/internal/kafka"
	"github.com/hoteldesk/go-hotel-reservations/internal/postgres"
	"github.com/hoteldesk/go-hotel-reservations/internal/redisx"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &archive.Service{
		Repo:        &archive.Repo{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-archiver",
	}

	// One consumer per reservation topic, shared handler
	group := getenv("ARCHIVER_GROUP", "reservation-archiver")
	workers := mustAtoi(os.Getenv("ARCHIVER_WORKERS"), "4")
	topics := []string{
		hotel.TopicReservationCreated,
		hotel.TopicReservationUpdated,
		hotel.TopicReservationCancelled,
	}
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		go func(topic string) {
			log.Printf("archiver consumer started: group=%s topic=%s workers=%d", group, topic, workers)
			if err := cons.Start(ctx, svc.HandleEvent); err != nil {
				log.Printf("consumer exit (%s): %v", topic, err)
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down archiver...")
	cancel()
}
