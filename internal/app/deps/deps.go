package deps

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ovidot/internal/config"
	dcache "ovidot/internal/core/domain/cache"
	dl "ovidot/internal/core/domain/logging"
	"ovidot/internal/core/domain/user"
	"ovidot/internal/db"
	dbuser "ovidot/internal/db/user"
	"ovidot/internal/http/handlers/auth"
	"ovidot/internal/http/handlers/health"
	"ovidot/internal/implementations/blacklist"
	"ovidot/internal/implementations/cache"
	"ovidot/internal/implementations/email"
	"ovidot/internal/implementations/logging"
	notificationpublisher "ovidot/internal/implementations/notification_publisher"
	passwordhasher "ovidot/internal/implementations/password_hasher"
	resettoken "ovidot/internal/implementations/reset_token"
	"ovidot/internal/mongodb"
	mongouser "ovidot/internal/mongodb/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/r3labs/sse/v2"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type Deps struct {
	Config *config.Config
	Logger dl.Logger

	DB        *pgxpool.Pool
	Mongo     *mongo.Client
	SseServer *sse.Server
	JWT       *auth.JWT

	Now func() time.Time

	Cache    dcache.Store
	DBPinger health.Pinger

	UserRepository              user.UserRepository
	PasswordHasher              user.PasswordHasher
	PasswordResetTokenGenerator user.PasswordResetTokenGenerator
	PasswordResetLinkSender     user.PasswordResetLinkSender
	PasswordResetTokenBlacklist user.PasswordResetTokenBlacklist
	NotificationPublisher       user.NotificationPublisher
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()

	closeLogger := deps.initLogger()
	closeUserStore := deps.initUserStore()
	closeCache := deps.initCache()
	closeSseServer := deps.initSseServer()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.JWT = auth.NewJWT(deps.Config.JWTSecret)
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordResetTokenGenerator = resettoken.NewUUID()
	deps.PasswordResetLinkSender = deps.initMailer()
	deps.PasswordResetTokenBlacklist = blacklist.NewCache(deps.Cache)
	deps.NotificationPublisher = notificationpublisher.NewSSE(deps.SseServer)

	flushSentry := deps.initSentry()

	return deps, func() {
		closeFuncs := []func(){
			closeSseServer,
			closeCache,
			closeUserStore,
			closeLogger,
			flushSentry,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.IsDevelopment())
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initUserStore() func() {
	var closeStore func()
	switch deps.Config.UserStore {
	case config.USER_STORE_MONGO:
		closeStore = deps.initMongo()
	default:
		closeStore = deps.initPgxPool()
	}
	deps.UserRepository = user.WithTimeout(deps.UserRepository, deps.Config.DBTimeout)
	return closeStore
}

func (deps *Deps) initPgxPool() func() {
	if err := db.ApplyMigrations(deps.Config.PostgresqlURL, deps.Config.MigrationsPath); err != nil {
		deps.Logger.Error(context.Background(), "Could not apply DB migrations.", dl.Entry("err", err))
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.DBTimeout)
	defer cancel()
	pool, err := pgxpool.Connect(ctx, deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	deps.DBPinger = pool
	deps.UserRepository = dbuser.NewPgxRepository(pool)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initMongo() func() {
	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.DBTimeout)
	defer cancel()
	client, err := mongodb.Connect(ctx, deps.Config.MongodbURI, deps.Config.DBTimeout)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to MongoDB.", dl.Entry("err", err))
		panic(err)
	}
	repository, err := mongouser.NewMongoRepository(ctx, client.Database(deps.Config.MongodbName))
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create MongoDB indexes.", dl.Entry("err", err))
		panic(err)
	}
	deps.Mongo = client
	deps.DBPinger = health.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
	deps.UserRepository = repository
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down MongoDB connection.")
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.DBTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			deps.Logger.Error(ctx, "Could not disconnect from MongoDB.", dl.Entry("err", err))
			return
		}
		deps.Logger.Info(context.Background(), "MongoDB connection shut down.")
	}
}

func (deps *Deps) initCache() func() {
	if deps.Config.CacheBackend == config.CACHE_BACKEND_MEMORY {
		memory := cache.NewMemory(deps.Config.CacheBucketTTL)
		deps.Cache = memory
		return func() {
			memory.Close()
			deps.Logger.Info(context.Background(), "Memory cache closed.")
		}
	}

	options, err := cache.NewRedisOptions(cache.RedisConfig{
		Local:      deps.Config.IsTestMode(),
		Addr:       fmt.Sprintf("%s:%d", deps.Config.RedisHost, deps.Config.RedisPort),
		Username:   deps.Config.RedisUsername,
		Password:   deps.Config.RedisPassword,
		KeyFile:    deps.Config.RedisTLSKeyFile,
		CertFile:   deps.Config.RedisTLSCertFile,
		CAFile:     deps.Config.RedisTLSCAFile,
		MaxRetries: deps.Config.RedisMaxRetries,
		Timeout:    deps.Config.CacheOperationTimeout,
	})
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not configure Redis client.", dl.Entry("err", err))
		panic(err)
	}
	store := cache.NewRedis(redis.NewClient(options), deps.Logger, cache.Settings{
		BucketTTL:        deps.Config.CacheBucketTTL,
		OperationTimeout: deps.Config.CacheOperationTimeout,
		MaxRetries:       deps.Config.RedisMaxRetries,
	})
	deps.Cache = store

	ctx, cancel := context.WithCancel(context.Background())
	go store.Connect(ctx)

	return func() {
		cancel()
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		store.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initSseServer() func() {
	deps.SseServer = sse.New()
	deps.SseServer.AutoStream = true
	deps.SseServer.AutoReplay = false
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initMailer() user.PasswordResetLinkSender {
	if deps.Config.MailBackend == config.MAIL_BACKEND_SMTP {
		return email.NewSMTPSender(email.SMTPConfig{
			Host:     deps.Config.SMTPHost,
			Port:     deps.Config.SMTPPort,
			Username: deps.Config.SMTPUsername,
			Password: deps.Config.SMTPPassword,
			From:     deps.Config.SMTPFrom,
			Timeout:  deps.Config.MailTimeout,
			Insecure: deps.Config.IsTestMode(),
		})
	}
	return email.NewSESSender(
		deps.initAwsConfig(),
		deps.Config.AwsEmailSender,
		deps.Config.AwsEmailPasswordResetTemplate,
	)
}

func (deps *Deps) initAwsConfig() aws.Config {
	cfg, err := email.NewAWSConfig(
		context.Background(),
		deps.Config.AwsRegion,
		deps.Config.AwsAccessKey,
		deps.Config.AwsSecretKey,
	)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not load AWS config.", dl.Entry("err", err))
		panic(err)
	}
	return cfg
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn,
			Environment:      deps.Config.Environment,
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
