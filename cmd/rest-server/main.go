package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	esv7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"
	"go.uber.org/zap"

	"github.com/taskboard/taskboard-api/cmd/internal"
	internaldomain "github.com/taskboard/taskboard-api/internal"
	"github.com/taskboard/taskboard-api/internal/elasticsearch"
	"github.com/taskboard/taskboard-api/internal/envvar"
	"github.com/taskboard/taskboard-api/internal/kafka"
	"github.com/taskboard/taskboard-api/internal/memcached"
	"github.com/taskboard/taskboard-api/internal/postgresql"
	"github.com/taskboard/taskboard-api/internal/rabbitmq"
	"github.com/taskboard/taskboard-api/internal/redis"
	"github.com/taskboard/taskboard-api/internal/rest"
	"github.com/taskboard/taskboard-api/internal/service"
)

//go:embed static
var content embed.FS

func main() {
	var env, address string

	flag.StringVar(&env, "env", "", "Environment Variables filename")
	flag.StringVar(&address, "address", ":9234", "HTTP Server Address")
	flag.Parse()

	errC, err := run(env, address)
	if err != nil {
		log.Fatalf("Couldn't run: %s", err)
	}

	if err := <-errC; err != nil {
		log.Fatalf("Error while running: %s", err)
	}
}

func run(env, address string) (<-chan error, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "zap.NewProduction")
	}

	if err := envvar.Load(env); err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "envvar.Load")
	}

	vault, err := internal.NewVaultProvider()
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewVaultProvider")
	}

	conf := envvar.New(vault)

	pool, err := internal.NewPostgreSQL(conf)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewPostgreSQL")
	}

	es, err := internal.NewElasticSearch(conf)
	if err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewElasticSearch")
	}

	if err := internal.NewOTExporter(conf, "taskboard-api-server"); err != nil {
		return nil, internaldomain.WrapErrorf(err, internaldomain.ErrorCodeUnknown, "internal.NewOTExporter")
	}

	requestID := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set("X-Request-Id", id)
			h.ServeHTTP(w, r)
		})
	}

	logging := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info(r.Method,
				zap.Time("time", time.Now()),
				zap.String("url", r.URL.String()),
				zap.String("request_id", w.Header().Get("X-Request-Id")),
			)
			h.ServeHTTP(w, r)
		})
	}

	srv, teardown, err := newServer(serverConfig{
		Address:     address,
		Conf:        conf,
		DB:          pool,
		ES:          es,
		Middlewares: []func(next http.Handler) http.Handler{otelchi.Middleware("taskboard-api-server"), requestID, logging},
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("newServer: %w", err)
	}

	errC := make(chan error, 1)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		defer func() {
			_ = logger.Sync()
			teardown()
			pool.Close()
			stop()
			cancel()
			close(errC)
		}()

		srv.SetKeepAlivesEnabled(false)

		if err := srv.Shutdown(ctxTimeout); err != nil {
			errC <- err
		}

		logger.Info("Shutdown completed")
	}()

	go func() {
		logger.Info("Listening and serving", zap.String("address", address))

		// "ListenAndServe always returns a non-nil error. After Shutdown or
		// Close, the returned error is ErrServerClosed."
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errC <- err
		}
	}()

	return errC, nil
}

type serverConfig struct {
	Address     string
	Conf        *envvar.Configuration
	DB          *pgxpool.Pool
	ES          *esv7.Client
	Middlewares []func(next http.Handler) http.Handler
	Logger      *zap.Logger
}

func newServer(conf serverConfig) (*http.Server, func(), error) {
	router := chi.NewRouter()
	router.Use(render.SetContentType(render.ContentTypeJSON))
	for _, mw := range conf.Middlewares {
		router.Use(mw)
	}

	repo, err := newTaskStore(conf)
	if err != nil {
		return nil, nil, err
	}

	search := elasticsearch.NewTask(conf.ES)

	msgBroker, closeBroker, err := newMessageBroker(conf)
	if err != nil {
		return nil, nil, err
	}

	svc := service.NewTask(conf.Logger, repo, search, msgBroker)

	rest.RegisterOpenAPI(router)
	rest.NewTaskHandler(svc).Register(router)

	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API is running"))
	})

	fsys, _ := fs.Sub(content, "static")
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(fsys))))
	router.Handle("/metrics", promhttp.Handler())

	lmt := tollbooth.NewLimiter(100, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Second})
	lmtmw := tollbooth.LimitHandler(lmt, router)

	return &http.Server{
		Handler:           lmtmw,
		Addr:              conf.Address,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 1 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}, closeBroker, nil
}

// newTaskStore wires the PostgreSQL repository, optionally decorated with
// the cache backend selected by CACHE_BACKEND.
func newTaskStore(conf serverConfig) (service.TaskRepository, error) {
	repo := postgresql.NewTask(conf.DB)

	backend, err := conf.Conf.Get("CACHE_BACKEND")
	if err != nil {
		return nil, fmt.Errorf("conf.Get CACHE_BACKEND: %w", err)
	}

	switch backend {
	case "memcached":
		client, err := internal.NewMemcached(conf.Conf)
		if err != nil {
			return nil, fmt.Errorf("internal.NewMemcached: %w", err)
		}

		return memcached.NewTask(client, repo, conf.Logger), nil
	case "redis":
		client, err := internal.NewRedis(conf.Conf)
		if err != nil {
			return nil, fmt.Errorf("internal.NewRedis: %w", err)
		}

		return redis.NewTask(client, repo, conf.Logger), nil
	case "", "none":
		return repo, nil
	}

	return nil, fmt.Errorf("unsupported cache backend %q", backend)
}

// newMessageBroker wires the event publisher selected by MESSAGE_BROKER,
// Kafka unless RabbitMQ was requested.
func newMessageBroker(conf serverConfig) (service.TaskMessageBrokerRepository, func(), error) {
	broker, err := conf.Conf.Get("MESSAGE_BROKER")
	if err != nil {
		return nil, nil, fmt.Errorf("conf.Get MESSAGE_BROKER: %w", err)
	}

	if broker == "rabbitmq" {
		rmq, err := internal.NewRabbitMQ(conf.Conf)
		if err != nil {
			return nil, nil, fmt.Errorf("internal.NewRabbitMQ: %w", err)
		}

		return rabbitmq.NewTask(rmq.Channel), rmq.Close, nil
	}

	producer, err := internal.NewKafkaProducer(conf.Conf)
	if err != nil {
		return nil, nil, fmt.Errorf("internal.NewKafkaProducer: %w", err)
	}

	teardown := func() {
		producer.Producer.Flush(5000)
		producer.Producer.Close()
	}

	return kafka.NewTask(producer.Producer, producer.Topic), teardown, nil
}
