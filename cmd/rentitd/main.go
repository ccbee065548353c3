package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/rentit-app/rentit-backend/internal/auth"
	"github.com/rentit-app/rentit-backend/internal/db"
	"github.com/rentit-app/rentit-backend/internal/handlers"
	"github.com/rentit-app/rentit-backend/internal/middleware"
	"github.com/rentit-app/rentit-backend/internal/notify"
	"github.com/rentit-app/rentit-backend/internal/service"
)

func main() {
	godotenv.Load()

	log.SetFormatter(&log.JSONFormatter{})
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(log.DebugLevel)
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client.Disconnect(ctx)
	}()
	log.Info("connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "rentit"
	}
	database := client.Database(dbName)

	bids := &db.MongoBidCollection{Client: client, Collection: database.Collection("bids")}
	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	invoices := &db.MongoInvoiceCollection{Collection: database.Collection("invoices")}

	dispatcher := buildDispatcher()

	bidService := service.NewBidService(bids, vehicles, users, invoices, dispatcher)

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("failed to initialize auth service")
	}

	router := handlers.NewRouter(
		middleware.NewAuthMiddleware(authService),
		middleware.NewRateLimitMiddleware(),
		handlers.NewAuthHandler(authService, users),
		handlers.NewBidHandler(bidService),
		handlers.NewVehicleHandler(vehicles, users),
	)

	expiryJob := service.NewExpiryJob(bids, dispatcher)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := expiryJob.Run(ctx); err != nil {
			log.WithError(err).Error("bid expiry sweep failed")
		}
	}); err != nil {
		log.WithError(err).Fatal("failed to schedule bid expiry job")
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := gorillahandlers.CombinedLoggingHandler(os.Stdout,
		gorillahandlers.CORS(
			gorillahandlers.AllowedOrigins([]string{"*"}),
			gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		)(router))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.WithField("port", port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	if d, ok := dispatcher.(*notify.AsyncDispatcher); ok {
		d.Close()
	}
}

// buildDispatcher assembles the notification fan-out from whatever channels
// the environment configures. With none configured, events are dropped.
func buildDispatcher() notify.Dispatcher {
	var senders []notify.Sender

	if email := notify.NewEmailSender(); email != nil {
		senders = append(senders, email)
		log.Info("email notifications enabled")
	}
	if sms := notify.NewSMSSender(); sms != nil {
		senders = append(senders, sms)
		log.Info("sms notifications enabled")
	}
	mqttSender, err := notify.NewMQTTSender()
	if err != nil {
		log.WithError(err).Warn("mqtt notifications unavailable")
	} else if mqttSender != nil {
		senders = append(senders, mqttSender)
		log.Info("mqtt notifications enabled")
	}

	if len(senders) == 0 {
		log.Warn("no notification channels configured")
		return notify.NopDispatcher{}
	}
	return notify.NewAsyncDispatcher(64, senders...)
}
