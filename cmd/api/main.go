package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hoteldesk/go-hotel-reservations/internal/config"
	"github.com/hoteldesk/go-hotel-reservations/internal/hotel"
	"github.com/hoteldesk/go-hotel-reservations/internal/httpx"
	kafkax "github.com/hoteldesk/go-hotel-reservations/internal/kafka"
	"github.com/hoteldesk/go-hotel-reservations/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Engine, restored from the last snapshot if one exists
	engine, err := hotel.LoadSnapshot(cfg.SnapshotDir)
	if err != nil {
		log.Fatalf("load snapshot: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, hotel.TopicReservationCreated, 1024)
	pCreated.Start(ctx)
	pUpdated := kafkax.NewProducer(cfg.KafkaBrokers, hotel.TopicReservationUpdated, 1024)
	pUpdated.Start(ctx)
	pCancelled := kafkax.NewProducer(cfg.KafkaBrokers, hotel.TopicReservationCancelled, 1024)
	pCancelled.Start(ctx)

	// Router & handler
	router := httpx.NewRouter()
	h := &httpx.Handler{
		Engine:    engine,
		Created:   pCreated,
		Updated:   pUpdated,
		Cancelled: pCancelled,
		Redis:     rdb,
		Service:   cfg.ServiceName,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	if err := hotel.SaveSnapshot(cfg.SnapshotDir, engine); err != nil {
		log.Printf("save snapshot: %v", err)
	}

	pCreated.Close()
	pUpdated.Close()
	pCancelled.Close()
	cancel() // stop producer loops
	pCreated.WaitClosed()
	pUpdated.WaitClosed()
	pCancelled.WaitClosed()
}
