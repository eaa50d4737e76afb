package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "union-ganadera/docs"
	blobmem "union-ganadera/internal/adapters/blob/memory"
	mem "union-ganadera/internal/adapters/storage/memory"
	pg "union-ganadera/internal/adapters/storage/postgres"
	"union-ganadera/internal/domain/addresses"
	"union-ganadera/internal/domain/animals"
	"union-ganadera/internal/domain/documents"
	"union-ganadera/internal/domain/events"
	"union-ganadera/internal/domain/parcels"
	"union-ganadera/internal/middleware"
	"union-ganadera/internal/platform/logger"
	"union-ganadera/internal/platform/metrics"
	"union-ganadera/internal/ports/auth"
	"union-ganadera/internal/ports/blob"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si no viene, documentos en memoria.
	Blob       blob.Store
	PresignTTL time.Duration

	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		animalRepo   animals.Repository
		eventRepo    events.Repository
		parcelRepo   parcels.Repository
		addressRepo  addresses.Repository
		documentRepo documents.Repository
	)

	if opts.DB != nil {
		animalRepo = pg.NewAnimalsRepo(opts.DB)
		eventRepo = pg.NewEventsRepo(opts.DB)
		parcelRepo = pg.NewParcelsRepo(opts.DB)
		addressRepo = pg.NewAddressesRepo(opts.DB)
		documentRepo = pg.NewDocumentsRepo(opts.DB)
	} else {
		// los procedimientos en memoria actualizan el bovino: comparten repo
		memAnimals := mem.NewAnimalRepo()
		animalRepo = memAnimals
		eventRepo = mem.NewEventRepo(memAnimals)
		parcelRepo = mem.NewParcelRepo()
		addressRepo = mem.NewAddressRepo()
		documentRepo = mem.NewDocumentRepo()
	}

	store := opts.Blob
	if store == nil {
		store = blobmem.New("http://localhost/blobs")
	}
	ttl := opts.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalRepo)
	eventsSvc := events.NewService(eventRepo, animalsSvc)
	parcelsSvc := parcels.NewService(parcelRepo, animalsSvc)
	addressesSvc := addresses.NewService(addressRepo)
	documentsSvc := documents.NewService(documentRepo, store, ttl, log.With(map[string]any{"module": "documents"}))

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	events.RegisterRoutes(r, eventsSvc, opts.Metrics)
	parcels.RegisterRoutes(r, parcelsSvc)
	addresses.RegisterRoutes(r, addressesSvc)
	documents.RegisterRoutes(r, documentsSvc)

	return r
}
