package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecocollect/waste-backend/api"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/realtime"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	// load the local .env file if one exists
	if err := godotenv.Load(); err == nil {
		log.Info("loaded local .env file")
	}
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.StringP("secret", "s", "", "API secret")
	flag.String("mongo-url", "", "The URL of the MongoDB server")
	flag.String("mongo-db", "ecocollect", "The name of the MongoDB database")
	flag.String("log-level", "info", "log level (debug, info, warn, error)")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("ECOCOLLECT")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatal("secret is required")
	}
	mongoURL := viper.GetString("mongo-url")
	mongoDB := viper.GetString("mongo-db")
	if level, err := log.ParseLevel(viper.GetString("log-level")); err == nil {
		log.SetLevel(level)
	}
	// initialize the MongoDB storage
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.WithError(err).Fatal("could not connect to the MongoDB database")
	}
	defer database.Close()
	// wire the event bus into the WebSocket hub
	bus := realtime.NewBus()
	hub := realtime.NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)
	// create the local API server
	api.New(&api.Config{
		Host:   host,
		Port:   port,
		Secret: secret,
		DB:     database,
		Bus:    bus,
		Hub:    hub,
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.WithFields(log.Fields{"host": host, "port": port}).Info("server started")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
