package main

import (
	"log"
	"os"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/staff"
	"github.com/trezcool/matokeo/core/student"
	"github.com/trezcool/matokeo/core/tenant"
	emailsvc "github.com/trezcool/matokeo/services/email"
	"github.com/trezcool/matokeo/storage/database"
	sqlxrepos "github.com/trezcool/matokeo/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()

	store := sqlxrepos.NewTableCatalog(db)
	appLogger := core.NopLogger{}
	dir := tenant.NewDirectory(store, appLogger)
	resolver := tenant.NewResolver(dir, store, appLogger)

	// start CLI
	cli := commandLine{
		staffSvc: staff.NewService(sqlxrepos.NewStaffRepository(db), store, appLogger),
		studentSvc: student.NewService(
			sqlxrepos.NewStudentRepository(db), store, dir, resolver, emailsvc.NewConsoleService(), appLogger),
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
