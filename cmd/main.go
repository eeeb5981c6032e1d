package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"google.golang.org/api/option"

	"rewearBack/internal/config"
	"rewearBack/internal/notify"
	"rewearBack/internal/store"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	cfg := config.LoadConfig()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Address
	} else {
		port = ":" + port
	}

	addr := flag.String("addr", port, "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	ctx := context.Background()
	st, fcmClient, err := openStore(ctx, cfg)
	if err != nil {
		errorLog.Fatal(err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	}

	app := initializeApp(cfg, st, fcmClient, rdb, errorLog, infoLog)
	go app.notificationHub.Run()
	if rdb != nil {
		go notify.RelayFromRedis(ctx, rdb, cfg.Redis.Channel, app.bus)
	}

	if err := app.mirror.Start(ctx); err != nil {
		errorLog.Fatal(err)
	}
	defer app.mirror.Stop()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     errorLog,
		Handler:      c.Handler(app.routes()),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	infoLog.Printf("Starting server on %s", *addr)
	if err := srv.ListenAndServe(); err != nil {
		errorLog.Fatal(err)
	}
}

// openStore builds the configured store adapter. Firestore mode also
// yields an FCM client for push notifications; memory mode runs without
// external services.
func openStore(ctx context.Context, cfg config.Config) (store.Store, *messaging.Client, error) {
	if cfg.Store.Driver == "memory" {
		return store.NewMemStore(), nil, nil
	}

	opts := []option.ClientOption{}
	if cfg.Store.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Store.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Store.ProjectID}, opts...)
	if err != nil {
		return nil, nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, err
	}
	fcm, err := app.Messaging(ctx)
	if err != nil {
		return nil, nil, err
	}
	return store.NewFirestoreStore(client), fcm, nil
}
