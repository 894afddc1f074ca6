package main

import (
	"log"
	"os"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
	emailsvc "github.com/trezcool/maoni/services/email"
	logsvc "github.com/trezcool/maoni/services/logger"
	"github.com/trezcool/maoni/storage/database"
	gormrepos "github.com/trezcool/maoni/storage/database/gorm"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(false) // local tool; keep errors on stdout only

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(db.Ping())

	gdb, err := database.OpenGorm(db, conf)
	errAndDie(err)

	fbSvc := feedback.NewService(gormrepos.NewFeedbackRepository(gdb), appLogger)
	usrRepo := gormrepos.NewUserRepository(gdb)
	usrSvc := user.NewService(usrRepo, fbSvc, emailsvc.NewConsoleService(conf), appLogger, conf)

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: usrRepo,
		usrSvc:  usrSvc,
		fbSvc:   fbSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
