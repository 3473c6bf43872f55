package container

import (
	"context"
	"fmt"

	"club-rewards/internal/config"
	"club-rewards/internal/repository"
	"club-rewards/internal/service"
	"club-rewards/internal/service/chain"
	"club-rewards/pkg/database"
	"club-rewards/pkg/logger"
	"club-rewards/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client

	Activities  *service.ActivityService
	Submissions *service.SubmissionService
	Settlements *service.SettlementCoordinator
	Moderators  *service.ModeratorService
	Sessions    service.SessionIssuer
	Balances    service.BalanceQuerier
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Redis is optional: caching and the shared settlement lock degrade
	// gracefully without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	activityRepo := repository.NewActivityRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	distributionRepo := repository.NewDistributionRepository(db)
	moderatorRepo := repository.NewModeratorRepository(db)

	chainClient := chain.NewClient(cfg.SolanaRPCURL, cfg.TransferServiceURL, cfg.TokenMint, log)

	verifier := service.NewEd25519Verifier()
	sessions := service.NewSessionService(verifier, moderatorRepo, redisClient, cfg.JWTSecret, cfg.SessionTTL, cfg.AuthReplayWindow, log)

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,

		Activities:  service.NewActivityService(activityRepo, redisClient, log),
		Submissions: service.NewSubmissionService(submissionRepo, activityRepo, log),
		Settlements: service.NewSettlementCoordinator(submissionRepo, distributionRepo, chainClient, redisClient, cfg.TreasuryWallet, cfg.TransferTimeout, log),
		Moderators:  service.NewModeratorService(moderatorRepo, log),
		Sessions:    sessions,
		Balances:    chainClient,
	}, nil
}

// Close releases the container's connections
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
