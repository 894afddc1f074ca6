package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sql.DB
	usrRepo user.Repository
	usrSvc  *user.Service
	fbSvc   *feedback.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up|up-by-one|up-to|down|down-to|redo|reset|status|version|fix|create)")
	fmt.Println("  addinstructor -course COURSE -email EMAIL -name NAME [-role ROLE] - add or update an instructor; the password is prompted next")
	fmt.Println("  resetpassword -email EMAIL - reset an instructor's password; the password is prompted next")
	fmt.Println("  repairranks -course COURSE - renumber rank answers against the current roster")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCmd := flag.NewFlagSet("addinstructor", flag.ExitOnError)
	addCourse := addCmd.String("course", "", "The course ID.")
	addEmail := addCmd.String("email", "", "The instructor's email.")
	addName := addCmd.String("name", "", "The instructor's full name.")
	addRole := addCmd.String("role", user.RoleCoOwner, "The instructor's privilege role.")

	resetCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetEmail := resetCmd.String("email", "", "The instructor's email. The password will be prompted next.")

	repairCmd := flag.NewFlagSet("repairranks", flag.ExitOnError)
	repairCourse := repairCmd.String("course", "", "The course ID.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "addinstructor":
		if err := addCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addCourse == "" || *addEmail == "" || *addName == "" {
			addCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addCmd.Usage)
		if err != nil {
			return err
		}
		return cli.addInstructor(*addCourse, *addEmail, *addName, *addRole, pwd)

	case "resetpassword":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetEmail == "" {
			resetCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetCmd.Usage)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetEmail, pwd)

	case "repairranks":
		if err := repairCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *repairCourse == "" {
			repairCmd.Usage()
			return errHelp
		}
		return cli.repairRanks(*repairCourse)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(usage func()) (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		usage()
		return "", errHelp
	}
	return string(pwd), nil
}
