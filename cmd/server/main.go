package main

import (
	"context"
	"log"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	httpadapter "taleward/internal/adapter/http"
	metricsinmem "taleward/internal/adapter/metrics/inmemory"
	gormrepo "taleward/internal/adapter/repo/gorm"
	"taleward/internal/adapter/repo/memory"
	"taleward/internal/app/ports"
	"taleward/internal/app/replay"
	"taleward/internal/app/session"
	"taleward/internal/app/turn"
	"taleward/internal/domain/bio"
	"taleward/internal/domain/dice"
	"taleward/internal/domain/names"
	"taleward/internal/domain/threat"
	"taleward/internal/platform/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	tuning := bio.DefaultTuning()
	if cfg.TuningPath != "" {
		tuning, err = bio.LoadTuning(cfg.TuningPath)
		if err != nil {
			log.Fatalf("load tuning %s: %v", cfg.TuningPath, err)
		}
	}

	stateRepo, turnRepo, auditRepo, txManager := buildRepos(cfg)
	resolver := names.NewResolver(nil, nil)
	kpiRecorder := metricsinmem.NewRecorder()

	seed := cfg.RollSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	h := httpadapter.Handler{
		SessionUC: session.UseCase{
			TxManager: txManager,
			StateRepo: stateRepo,
			Names:     resolver,
		},
		TurnUC: turn.UseCase{
			TxManager: txManager,
			StateRepo: stateRepo,
			TurnRepo:  turnRepo,
			AuditRepo: auditRepo,
			Metrics:   kpiRecorder,
			Engine:    bio.NewEngine(tuning),
			Gate:      threat.DefaultGate(),
			Names:     resolver,
			Roller:    dice.NewRoller(seed),
			Now:       time.Now,
		},
		ReplayUC: replay.UseCase{Audit: auditRepo},
		KPI:      kpiRecorder,
	}

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	log.Printf("taleward server listening on %s", cfg.Addr)
	s.Spin()
}

func buildRepos(cfg config.Config) (ports.SessionStateRepository, ports.TurnExecutionRepository, ports.AuditRepository, ports.TxManager) {
	if cfg.DBDSN == "" {
		log.Println("TALEWARD_DB_DSN not set, using in-memory storage")
		store := memory.NewStore()
		return memory.NewSessionStateRepo(store), memory.NewTurnExecutionRepo(store), memory.NewAuditRepo(store), memory.NewTxManager(store)
	}

	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	return gormrepo.NewSessionStateRepo(db), gormrepo.NewTurnExecutionRepo(db), gormrepo.NewAuditRepo(db), gormrepo.NewTxManager(db)
}
