package main

import (
	"log"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"rewearBack/internal/config"
	"rewearBack/internal/economy"
	"rewearBack/internal/handlers"
	"rewearBack/internal/identity"
	"rewearBack/internal/mirror"
	"rewearBack/internal/notify"
	"rewearBack/internal/repositories"
	"rewearBack/internal/store"
	"rewearBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	store    store.Store
	bus      *notify.Bus
	mirror   *mirror.Mirror
	engine   *economy.Engine
	identity *identity.StoreBridge
	tokens   *utils.Manager

	itemHandler         *handlers.ItemHandler
	redemptionHandler   *handlers.RedemptionHandler
	swapHandler         *handlers.SwapHandler
	notificationHandler *handlers.NotificationHandler
	notificationHub     *NotificationHub
}

func initializeApp(cfg config.Config, st store.Store, fcmClient *messaging.Client, rdb *redis.Client, errorLog, infoLog *log.Logger) *application {
	// Repositories
	itemRepo := &repositories.ItemRepository{Store: st}
	redemptionRepo := &repositories.RedemptionRepository{Store: st}
	swapRepo := &repositories.SwapRequestRepository{Store: st}

	// Identity bridge and notification bus
	bridge := &identity.StoreBridge{Store: st}
	bus := notify.NewBus()

	// The engine publishes to the local bus plus any configured bridges.
	var publisher notify.Publisher = bus
	fanout := notify.Fanout{bus}
	var fcm *notify.FCMNotifier
	if fcmClient != nil {
		fcm = notify.NewFCMNotifier(fcmClient)
		fanout = append(fanout, fcm)
	}
	if rdb != nil {
		fanout = append(fanout, &notify.RedisPublisher{Client: rdb, Channel: cfg.Redis.Channel})
	}
	if len(fanout) > 1 {
		publisher = fanout
	}

	// Mirror and engine
	mir := mirror.New(itemRepo, redemptionRepo, swapRepo, errorLog)
	engine := &economy.Engine{
		Items:       itemRepo,
		Redemptions: redemptionRepo,
		Swaps:       swapRepo,
		Identity:    bridge,
		Bus:         publisher,
		Mirror:      mir,
		ErrorLog:    errorLog,
	}

	tokens, err := utils.NewManager(cfg.JWT.SigningKey)
	if err != nil {
		errorLog.Fatal(err)
	}

	var storage *utils.Storage
	if cfg.Storage.Bucket != "" {
		storage = &utils.Storage{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		}
	}

	return &application{
		errorLog:            errorLog,
		infoLog:             infoLog,
		store:               st,
		bus:                 bus,
		mirror:              mir,
		engine:              engine,
		identity:            bridge,
		tokens:              tokens,
		itemHandler:         &handlers.ItemHandler{Engine: engine, Mirror: mir, Storage: storage},
		redemptionHandler:   &handlers.RedemptionHandler{Engine: engine, Identity: bridge},
		swapHandler:         &handlers.SwapHandler{Engine: engine},
		notificationHandler: &handlers.NotificationHandler{FCM: fcm},
		notificationHub:     NewNotificationHub(bus, errorLog),
	}
}
