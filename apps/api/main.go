package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/b7r7b1440/control/apps/api/echo"
	"github.com/b7r7b1440/control/core"
	"github.com/b7r7b1440/control/core/committee"
	"github.com/b7r7b1440/control/core/exam"
	"github.com/b7r7b1440/control/core/stage"
	"github.com/b7r7b1440/control/core/user"
	emailsvc "github.com/b7r7b1440/control/services/email"
	logsvc "github.com/b7r7b1440/control/services/logger"
	"github.com/b7r7b1440/control/storage/database"
	inmemdb "github.com/b7r7b1440/control/storage/database/inmem"
	sqlxrepos "github.com/b7r7b1440/control/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	errAndDie(err)
	core.Conf = conf

	// set up logger
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up repositories; the in-memory tables back local development,
	// Postgres everything else
	var (
		stageRepo     stage.Repository
		committeeRepo committee.Repository
		envelopeRepo  exam.Repository
		userRepo      user.Repository
	)
	if conf.Debug {
		db, err := inmemdb.Open()
		errAndDie(err)
		stageRepo = inmemdb.NewStageRepository(db)
		committeeRepo = inmemdb.NewCommitteeRepository(db)
		envelopeRepo = inmemdb.NewEnvelopeRepository(db)
		userRepo = inmemdb.NewUserRepository(db)
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Critical(fmt.Sprintf("setting up database: %v", err), err)
			os.Exit(1)
		}
		defer db.Close()
		stageRepo = sqlxrepos.NewStageRepository(db)
		committeeRepo = sqlxrepos.NewCommitteeRepository(db)
		envelopeRepo = sqlxrepos.NewEnvelopeRepository(db)
		userRepo = sqlxrepos.NewUserRepository(db)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	stageSvc := stage.NewService(stageRepo)
	committeeSvc := committee.NewService(committeeRepo)
	userSvc := user.NewService(userRepo)
	examSvc := exam.NewService(envelopeRepo, mailSvc, exam.Options{
		AttendanceDefaultPresent: conf.AttendanceDefaultPresent,
		ShuffleInvigilators:      conf.ShuffleInvigilators,
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:        conf.ServerAddress(),
			Logger:         logger,
			Validate:       validate,
			Translator:     translator,
			UserSvc:        userSvc,
			StageSvc:       stageSvc,
			CommitteeSvc:   committeeSvc,
			ExamSvc:        examSvc,
			SignalShutdown: func() { shutdown <- syscall.SIGTERM },
		},
	)

	go server.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return sqlx.NewDb(db, conf.Database.Engine), nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
