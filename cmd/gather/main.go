package main

import (
	"context"
	"net/http"

	cityhandler "gather/internal/cities/handler"
	cityrepository "gather/internal/cities/repository"
	cityservice "gather/internal/cities/service"
	cityvalidator "gather/internal/cities/validator"
	classhandler "gather/internal/classes/handler"
	classrepository "gather/internal/classes/repository"
	classservice "gather/internal/classes/service"
	classvalidator "gather/internal/classes/validator"
	communityhandler "gather/internal/communities/handler"
	communityrepository "gather/internal/communities/repository"
	communityservice "gather/internal/communities/service"
	communityvalidator "gather/internal/communities/validator"
	contacthandler "gather/internal/contacts/handler"
	contactrepository "gather/internal/contacts/repository"
	contactservice "gather/internal/contacts/service"
	contactvalidator "gather/internal/contacts/validator"
	donationhandler "gather/internal/donations/handler"
	donationrepository "gather/internal/donations/repository"
	donationservice "gather/internal/donations/service"
	donationvalidator "gather/internal/donations/validator"
	"gather/pkg/app"
	"gather/pkg/client"
	"gather/pkg/config"
	"gather/pkg/contracts"
	"gather/pkg/kafka"
	kafka_config "gather/pkg/kafka/config"
	kafka_middleware "gather/pkg/kafka/middleware"
	"gather/pkg/payments"
	"gather/pkg/sealer"
	"gather/pkg/tokencache"
)

const ServiceName = "gather"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Gather API")
	publisher := initPublisher(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, initHandlers(cfg, publisher)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher kafka.Publisher) []contracts.Handler {
	contactRepo := contactrepository.NewMongoContactRepository(cfg)
	cityRepo := cityrepository.NewMongoCityRepository(cfg)
	communityRepo := communityrepository.NewMongoCommunityRepository(cfg)
	classRepo := classrepository.NewMongoClassRepository(cfg)
	donationRepo := donationrepository.NewMongoDonationRepository(cfg)

	signupSealer, err := sealer.New(cfg.SignupTokenKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize signup token sealer", "error", err)
	}

	contacts := contactservice.NewContactService(contactRepo, contactvalidator.NewContactValidator(cfg.Log), publisher, cfg)
	cities := cityservice.NewCityService(cityRepo, cityvalidator.NewCityValidator(cfg.Log), cfg)
	communities := communityservice.NewCommunityService(communityRepo, cityRepo, communityvalidator.NewCommunityValidator(cfg.Log), cfg)
	classes := classservice.NewClassService(classRepo, communityRepo, classvalidator.NewClassValidator(cfg.Log), signupSealer, publisher, cfg)
	donations := donationservice.NewDonationService(donationRepo, donationvalidator.NewDonationValidator(cfg.Log), initPayments(cfg), publisher, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		contacthandler.NewContactHandler(contacts, cfg.Log),
		cityhandler.NewCityHandler(cities, cfg.Log),
		communityhandler.NewCommunityHandler(communities, cfg.Log),
		classhandler.NewClassHandler(classes, cfg.Log),
		donationhandler.NewDonationHandler(donations, cfg.Log),
	}
}

func initPublisher(cfg *config.Config) kafka.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Warn("Events disabled, domain events will not be published")
		return kafka.NopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(metrics.ProducerMiddleware())
	}

	cfg.Client.OnShutdown(func(context.Context) error {
		metrics.Log(cfg.Log)
		return producer.Close()
	})
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.EventsTopic, "brokers", kafkaCfg.Brokers)
	return producer
}

// initPayments returns a nil Creator when no provider is configured so the
// donation service answers 503 instead of failing at startup.
func initPayments(cfg *config.Config) payments.Creator {
	if !cfg.PaymentsEnabled() {
		cfg.Log.Warn("Payment provider not configured, donations are unavailable")
		return nil
	}

	credentials := tokencache.NewClientCredentials(cfg.PaymentsTokenURL, cfg.PaymentsClientID, cfg.PaymentsClientSecret).
		WithHTTPClient(&http.Client{Timeout: cfg.TokenRefreshTimeout})
	tokens := tokencache.New(
		credentials,
		tokencache.WithBuffer(cfg.TokenExpiryBuffer),
		tokencache.WithRefreshTimeout(cfg.TokenRefreshTimeout),
		tokencache.WithLogger(cfg.Log),
	)
	cfg.Log.Info("Payment provider configured", "base_url", cfg.PaymentsBaseURL)
	return payments.NewClient(client.NewHttpClient(cfg.PaymentsBaseURL), tokens, cfg.Log)
}
