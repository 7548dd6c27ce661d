// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/credstore/internal/audit"
	auditRepository "github.com/allisson/credstore/internal/audit/repository"
	certificateRepository "github.com/allisson/credstore/internal/certificate/repository"
	certificateUsecase "github.com/allisson/credstore/internal/certificate/usecase"
	"github.com/allisson/credstore/internal/config"
	credentialRepository "github.com/allisson/credstore/internal/credential/repository"
	credentialUsecase "github.com/allisson/credstore/internal/credential/usecase"
	"github.com/allisson/credstore/internal/database"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionRepository "github.com/allisson/credstore/internal/encryption/repository"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	encryptionUsecase "github.com/allisson/credstore/internal/encryption/usecase"
	generationService "github.com/allisson/credstore/internal/generation/service"
	"github.com/allisson/credstore/internal/metrics"
	permissionRepository "github.com/allisson/credstore/internal/permission/repository"
	permissionUsecase "github.com/allisson/credstore/internal/permission/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
//
// Components that depend on the verified key registry (encryptor, rotation,
// credential and certificate use cases) take a context because canary
// verification touches the database on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Repositories
	credentialRepo  *credentialRepository.PostgreSQLCredentialRepository
	valueRepo       *encryptionRepository.PostgreSQLEncryptedValueRepository
	canaryRepo      *encryptionRepository.PostgreSQLCanaryRepository
	permissionRepo  *permissionRepository.PostgreSQLPermissionRepository
	certificateRepo *certificateRepository.PostgreSQLCertificateRepository
	auditSink       audit.Sink

	// Services
	providerFactory encryptionService.ProviderFactory
	keyRegistry     *encryptionDomain.KeyRegistry
	encryptor       encryptionService.Encryptor
	generators      *generationService.Registry

	// Use Cases
	permissionUseCase  permissionUsecase.PermissionUseCase
	registryUseCase    encryptionUsecase.RegistryUseCase
	rotationUseCase    encryptionUsecase.RotationUseCase
	credentialUseCase  credentialUsecase.CredentialUseCase
	certificateUseCase certificateUsecase.CertificateUseCase

	// Initialization flags and mutex for thread-safety
	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	txManagerInit          sync.Once
	credentialRepoInit     sync.Once
	valueRepoInit          sync.Once
	canaryRepoInit         sync.Once
	permissionRepoInit     sync.Once
	certificateRepoInit    sync.Once
	auditSinkInit          sync.Once
	providerFactoryInit    sync.Once
	keyRegistryInit        sync.Once
	encryptorInit          sync.Once
	generatorsInit         sync.Once
	permissionUseCaseInit  sync.Once
	registryUseCaseInit    sync.Once
	rotationUseCaseInit    sync.Once
	credentialUseCaseInit  sync.Once
	certificateUseCaseInit sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled in configuration a no-op recorder is returned.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to get metrics provider: %w", err)
			return
		}
		recorder, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = recorder
	})
	if err, exists := c.initErrors["businessMetrics"]; exists {
		return nil, err
	}
	return c.businessMetrics, nil
}

// CredentialRepository returns the credential repository instance.
func (c *Container) CredentialRepository() (*credentialRepository.PostgreSQLCredentialRepository, error) {
	c.credentialRepoInit.Do(func() {
		db, err := c.repositoryDB("credential repository")
		if err != nil {
			c.initErrors["credentialRepo"] = err
			return
		}
		c.credentialRepo = credentialRepository.NewPostgreSQLCredentialRepository(db)
	})
	if err, exists := c.initErrors["credentialRepo"]; exists {
		return nil, err
	}
	return c.credentialRepo, nil
}

// EncryptedValueRepository returns the encrypted value repository instance.
func (c *Container) EncryptedValueRepository() (*encryptionRepository.PostgreSQLEncryptedValueRepository, error) {
	c.valueRepoInit.Do(func() {
		db, err := c.repositoryDB("encrypted value repository")
		if err != nil {
			c.initErrors["valueRepo"] = err
			return
		}
		c.valueRepo = encryptionRepository.NewPostgreSQLEncryptedValueRepository(db)
	})
	if err, exists := c.initErrors["valueRepo"]; exists {
		return nil, err
	}
	return c.valueRepo, nil
}

// CanaryRepository returns the canary repository instance.
func (c *Container) CanaryRepository() (*encryptionRepository.PostgreSQLCanaryRepository, error) {
	c.canaryRepoInit.Do(func() {
		db, err := c.repositoryDB("canary repository")
		if err != nil {
			c.initErrors["canaryRepo"] = err
			return
		}
		c.canaryRepo = encryptionRepository.NewPostgreSQLCanaryRepository(db)
	})
	if err, exists := c.initErrors["canaryRepo"]; exists {
		return nil, err
	}
	return c.canaryRepo, nil
}

// PermissionRepository returns the permission repository instance.
func (c *Container) PermissionRepository() (*permissionRepository.PostgreSQLPermissionRepository, error) {
	c.permissionRepoInit.Do(func() {
		db, err := c.repositoryDB("permission repository")
		if err != nil {
			c.initErrors["permissionRepo"] = err
			return
		}
		c.permissionRepo = permissionRepository.NewPostgreSQLPermissionRepository(db)
	})
	if err, exists := c.initErrors["permissionRepo"]; exists {
		return nil, err
	}
	return c.permissionRepo, nil
}

// CertificateRepository returns the certificate repository instance.
func (c *Container) CertificateRepository() (*certificateRepository.PostgreSQLCertificateRepository, error) {
	c.certificateRepoInit.Do(func() {
		db, err := c.repositoryDB("certificate repository")
		if err != nil {
			c.initErrors["certificateRepo"] = err
			return
		}
		c.certificateRepo = certificateRepository.NewPostgreSQLCertificateRepository(db)
	})
	if err, exists := c.initErrors["certificateRepo"]; exists {
		return nil, err
	}
	return c.certificateRepo, nil
}

// AuditSink returns the audit event sink backed by the database.
func (c *Container) AuditSink() (audit.Sink, error) {
	c.auditSinkInit.Do(func() {
		db, err := c.repositoryDB("audit sink")
		if err != nil {
			c.initErrors["auditSink"] = err
			return
		}
		c.auditSink = auditRepository.NewPostgreSQLEventRepository(db)
	})
	if err, exists := c.initErrors["auditSink"]; exists {
		return nil, err
	}
	return c.auditSink, nil
}

// PermissionUseCase returns the permission use case instance.
func (c *Container) PermissionUseCase() (permissionUsecase.PermissionUseCase, error) {
	c.permissionUseCaseInit.Do(func() {
		permissionRepo, err := c.PermissionRepository()
		if err != nil {
			c.initErrors["permissionUseCase"] = fmt.Errorf("failed to get permission repository: %w", err)
			return
		}
		c.permissionUseCase = permissionUsecase.NewPermissionUseCase(permissionRepo, c.Logger())
	})
	if err, exists := c.initErrors["permissionUseCase"]; exists {
		return nil, err
	}
	return c.permissionUseCase, nil
}

// ProviderFactory returns the encryption provider factory.
func (c *Container) ProviderFactory() encryptionService.ProviderFactory {
	c.providerFactoryInit.Do(func() {
		c.providerFactory = encryptionService.NewProviderFactory(
			encryptionService.NewAEADManager(),
			encryptionDomain.Algorithm(c.config.EncryptionAlgorithm),
		)
	})
	return c.providerFactory
}

// RegistryUseCase returns the key registry verification use case.
func (c *Container) RegistryUseCase() (encryptionUsecase.RegistryUseCase, error) {
	c.registryUseCaseInit.Do(func() {
		canaryRepo, err := c.CanaryRepository()
		if err != nil {
			c.initErrors["registryUseCase"] = fmt.Errorf("failed to get canary repository: %w", err)
			return
		}
		valueRepo, err := c.EncryptedValueRepository()
		if err != nil {
			c.initErrors["registryUseCase"] = fmt.Errorf("failed to get encrypted value repository: %w", err)
			return
		}
		c.registryUseCase = encryptionUsecase.NewRegistryUseCase(canaryRepo, valueRepo, c.ProviderFactory(), c.Logger())
	})
	if err, exists := c.initErrors["registryUseCase"]; exists {
		return nil, err
	}
	return c.registryUseCase, nil
}

// KeyRegistry returns the verified key registry, running canary verification
// on first access. Startup fails here when a non-empty store holds no data
// any configured key can decrypt.
func (c *Container) KeyRegistry(ctx context.Context) (*encryptionDomain.KeyRegistry, error) {
	c.keyRegistryInit.Do(func() {
		registryUseCase, err := c.RegistryUseCase()
		if err != nil {
			c.initErrors["keyRegistry"] = fmt.Errorf("failed to get registry use case: %w", err)
			return
		}
		keys, err := encryptionDomain.ParseConfiguredKeys(
			c.config.EncryptionKeys,
			encryptionDomain.ProviderType(c.config.EncryptionProvider),
		)
		if err != nil {
			c.initErrors["keyRegistry"] = fmt.Errorf("failed to parse configured keys: %w", err)
			return
		}
		registry, err := registryUseCase.Verify(ctx, keys, c.config.ActiveKeyName)
		if err != nil {
			c.initErrors["keyRegistry"] = fmt.Errorf("key verification failed: %w", err)
			return
		}
		c.keyRegistry = registry
	})
	if err, exists := c.initErrors["keyRegistry"]; exists {
		return nil, err
	}
	return c.keyRegistry, nil
}

// Encryptor returns the registry-backed encryptor.
func (c *Container) Encryptor(ctx context.Context) (encryptionService.Encryptor, error) {
	c.encryptorInit.Do(func() {
		registry, err := c.KeyRegistry(ctx)
		if err != nil {
			c.initErrors["encryptor"] = fmt.Errorf("failed to get key registry: %w", err)
			return
		}
		c.encryptor = encryptionService.NewEncryptor(registry, c.ProviderFactory())
	})
	if err, exists := c.initErrors["encryptor"]; exists {
		return nil, err
	}
	return c.encryptor, nil
}

// GenerationRegistry returns the credential material generator registry.
func (c *Container) GenerationRegistry() (*generationService.Registry, error) {
	c.generatorsInit.Do(func() {
		registry, err := generationService.NewRegistry()
		if err != nil {
			c.initErrors["generators"] = fmt.Errorf("failed to create generation registry: %w", err)
			return
		}
		c.generators = registry
	})
	if err, exists := c.initErrors["generators"]; exists {
		return nil, err
	}
	return c.generators, nil
}

// RotationUseCase returns the key rotation use case instance.
func (c *Container) RotationUseCase(ctx context.Context) (encryptionUsecase.RotationUseCase, error) {
	c.rotationUseCaseInit.Do(func() {
		registry, err := c.KeyRegistry(ctx)
		if err != nil {
			c.initErrors["rotationUseCase"] = fmt.Errorf("failed to get key registry: %w", err)
			return
		}
		valueRepo, err := c.EncryptedValueRepository()
		if err != nil {
			c.initErrors["rotationUseCase"] = fmt.Errorf("failed to get encrypted value repository: %w", err)
			return
		}
		encryptor, err := c.Encryptor(ctx)
		if err != nil {
			c.initErrors["rotationUseCase"] = fmt.Errorf("failed to get encryptor: %w", err)
			return
		}
		c.rotationUseCase = encryptionUsecase.NewRotationUseCase(
			registry,
			valueRepo,
			encryptor,
			c.config.RotationBatchSize,
			c.config.RotationPagesPerSec,
			c.Logger(),
		)
	})
	if err, exists := c.initErrors["rotationUseCase"]; exists {
		return nil, err
	}
	return c.rotationUseCase, nil
}

// CredentialUseCase returns the credential use case wrapped with metrics.
func (c *Container) CredentialUseCase(ctx context.Context) (credentialUsecase.CredentialUseCase, error) {
	c.credentialUseCaseInit.Do(func() {
		useCase, err := c.buildCredentialUseCase(ctx)
		if err != nil {
			c.initErrors["credentialUseCase"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["credentialUseCase"] = fmt.Errorf("failed to get business metrics: %w", err)
			return
		}
		c.credentialUseCase = credentialUsecase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics)
	})
	if err, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, err
	}
	return c.credentialUseCase, nil
}

// CertificateUseCase returns the certificate use case instance.
func (c *Container) CertificateUseCase(ctx context.Context) (certificateUsecase.CertificateUseCase, error) {
	c.certificateUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["certificateUseCase"] = fmt.Errorf("failed to get tx manager: %w", err)
			return
		}
		credentialRepo, err := c.CredentialRepository()
		if err != nil {
			c.initErrors["certificateUseCase"] = fmt.Errorf("failed to get credential repository: %w", err)
			return
		}
		certificateRepo, err := c.CertificateRepository()
		if err != nil {
			c.initErrors["certificateUseCase"] = fmt.Errorf("failed to get certificate repository: %w", err)
			return
		}
		valueRepo, err := c.EncryptedValueRepository()
		if err != nil {
			c.initErrors["certificateUseCase"] = fmt.Errorf("failed to get encrypted value repository: %w", err)
			return
		}
		permissions, err := c.PermissionUseCase()
		if err != nil {
			c.initErrors["certificateUseCase"] = fmt.Errorf("failed to get permission use case: %w", err)
			return
		}
		encryptor, err := c.Encryptor(ctx)
		if err != nil {
			c.initErrors["certificateUseCase"] = fmt.Errorf("failed to get encryptor: %w", err)
			return
		}
		saver, err := c.CredentialUseCase(ctx)
		if err != nil {
			c.initErrors["certificateUseCase"] = fmt.Errorf("failed to get credential use case: %w", err)
			return
		}
		generators, err := c.GenerationRegistry()
		if err != nil {
			c.initErrors["certificateUseCase"] = fmt.Errorf("failed to get generation registry: %w", err)
			return
		}
		auditSink, err := c.AuditSink()
		if err != nil {
			c.initErrors["certificateUseCase"] = fmt.Errorf("failed to get audit sink: %w", err)
			return
		}
		c.certificateUseCase = certificateUsecase.NewCertificateUseCase(
			txManager,
			credentialRepo,
			certificateRepo,
			valueRepo,
			permissions,
			encryptor,
			saver,
			generators,
			auditSink,
			c.config.RegenerationConcurrency,
			c.Logger(),
		)
	})
	if err, exists := c.initErrors["certificateUseCase"]; exists {
		return nil, err
	}
	return c.certificateUseCase, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// repositoryDB fetches the database connection for a repository and rejects
// drivers the repositories do not support.
func (c *Container) repositoryDB(component string) (*sql.DB, error) {
	if c.config.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver for %s: %s", component, c.config.DBDriver)
	}
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for %s: %w", component, err)
	}
	return db, nil
}

// buildCredentialUseCase assembles the undecorated credential use case.
func (c *Container) buildCredentialUseCase(ctx context.Context) (credentialUsecase.CredentialUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager: %w", err)
	}
	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository: %w", err)
	}
	valueRepo, err := c.EncryptedValueRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get encrypted value repository: %w", err)
	}
	permissions, err := c.PermissionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission use case: %w", err)
	}
	encryptor, err := c.Encryptor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get encryptor: %w", err)
	}
	auditSink, err := c.AuditSink()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit sink: %w", err)
	}

	return credentialUsecase.NewCredentialUseCase(
		txManager,
		credentialRepo,
		valueRepo,
		permissions,
		encryptor,
		auditSink,
		c.config.MaxValueSizeBytes,
		c.Logger(),
	), nil
}
