package main

import (
	"log"
	"os"

	echoapi "github.com/trezcool/matokeo/apps/api/echo"
	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/grade"
	"github.com/trezcool/matokeo/core/result"
	"github.com/trezcool/matokeo/core/staff"
	"github.com/trezcool/matokeo/core/student"
	"github.com/trezcool/matokeo/core/tenant"
	emailsvc "github.com/trezcool/matokeo/services/email"
	logsvc "github.com/trezcool/matokeo/services/logger"
	"github.com/trezcool/matokeo/storage/database"
	sqlxrepos "github.com/trezcool/matokeo/storage/database/sqlx"
)

func main() {
	// set up logger
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()

	// set up table catalog & tenant discovery
	store := sqlxrepos.NewTableCatalog(db)
	dir := tenant.NewDirectory(store, logger)
	resolver := tenant.NewResolver(dir, store, logger)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), store, dir, resolver, mailSvc, logger)
	staffSvc := staff.NewService(sqlxrepos.NewStaffRepository(db), store, logger)
	resultSvc := result.NewService(sqlxrepos.NewResultRepository(db), store, logger)
	gradeSvc := grade.NewService(sqlxrepos.NewGradeRepository(db), store, logger)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:    core.Conf.ServerAddress(),
			Logger:     logger,
			StudentSvc: studentSvc,
			StaffSvc:   staffSvc,
			ResultSvc:  resultSvc,
			GradeSvc:   gradeSvc,
			Resolver:   resolver,
			Directory:  dir,
		},
	)
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
