package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/bcdev/ocdb-client/client/cli"
	"github.com/bcdev/ocdb-client/common/errors"
	"github.com/bcdev/ocdb-client/common/log/hooks"
)

// CLI binary to talk to an OC-DB server
//	Command groups: (see "-h" for all options)
//		conf [name [value]]
//		ds find|get|list|add|upd|del|validate|get-by-sb|del-by-sb
//		sbm upload|get|user|delete|status
//		sbmfile get|download|upload|validate
//		user add|get|delete|update|password|login
//		lic
//	Global flags:
//		--server [<url> of the OC-DB server, default $EOCDB_SERVER_URL]
//		--config [<path> of the JSON configuration file]
//		--log_level [<error|warn|info|debug> level and above should be logged]

func main() {
	log.AddHook(hooks.NewContextHook())

	cl, err := cli.NewCLIClient(nil, nil)
	if err != nil {
		log.Fatal("Failed to create new ocdb CLI client: ", err)
	}

	if err := cl.Exec(); err != nil {
		os.Exit(int(errors.ExitCodeOf(err)))
	}
}
