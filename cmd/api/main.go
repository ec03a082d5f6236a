package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fahrwerk/driveschool-scheduler/internal/cache"
	"github.com/fahrwerk/driveschool-scheduler/internal/config"
	dbpkg "github.com/fahrwerk/driveschool-scheduler/internal/db"
	infraRepo "github.com/fahrwerk/driveschool-scheduler/internal/infra/repository"
	"github.com/fahrwerk/driveschool-scheduler/internal/logger"
	"github.com/fahrwerk/driveschool-scheduler/internal/queue"
	"github.com/fahrwerk/driveschool-scheduler/internal/routes"
	ucSchedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

func main() {

	cfg := config.Load()
	log := logger.New()
	defer log.Sync()

	db := dbpkg.NewDB(cfg)

	slotCache := cache.NewRedisSlotCache(cfg, log)
	recalcQueue := queue.NewGormQueue(db)

	// Background recalc loop: drains the queue on a cron tick and regenerates
	// availability over the configured horizon.
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	resolver := ucSchedule.NewResolver(scheduleRepo)
	aggregator := ucSchedule.NewBusyAggregator(scheduleRepo, log)
	generator := ucSchedule.NewSlotGenerator(scheduleRepo, resolver, aggregator, slotCache, log)

	worker := queue.NewWorker(recalcQueue, scheduleRepo, generator, cfg, log)
	if err := worker.Start(); err != nil {
		log.Fatal("failed to start recalc worker", zap.Error(err))
	}
	defer worker.Stop()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, log, slotCache, recalcQueue)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
