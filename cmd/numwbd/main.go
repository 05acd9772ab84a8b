/*
Numwbd starts the numwb HTTP service and begins listening for requests.

Usage:

	numwbd [flags]
	numwbd [flags] -l [[ADDRESS]:PORT]

Once started, numwbd listens for HTTP requests and responds to them using a
JSON REST API: GET /info, POST /login, and a bearer-token-gated
/presets and /solves CRUD surface.

If a JWT token secret is not given, one is generated at startup and seeded
from a CSPRNG. As a consequence, in this mode of operation all tokens become
invalid as soon as the server shuts down. This is suitable for testing, but
a secret must be given via either CLI flags or environment variable if
running in production.

The flags are:

	-v, --version
		Give the current version of numwbd and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the value of environment variable
		NUMWB_LISTEN_ADDRESS, and if that is not given, defaults to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWTs. If there are fewer than 32
		bytes in the secret, it is repeated until it is; the maximum size is
		64 bytes. If not given, defaults to the value of environment variable
		NUMWB_TOKEN_SECRET. If no secret is given, a random secret is
		generated.

	-c, --credential CREDENTIAL
		Set the single static API credential required to log in (its bcrypt
		hash is what is actually stored). If not given, defaults to the
		value of environment variable NUMWB_CREDENTIAL. If neither is set,
		the server starts with login disabled.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of: inmem,
		sqlite. inmem takes no further params; sqlite needs the path to a
		data directory, e.g. sqlite:path/to/db_dir. If not given, defaults
		to the value of environment variable NUMWB_DATABASE, and if that is
		not given, an in-memory database is selected.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/halvardsen/numwb/internal/version"
	"github.com/halvardsen/numwb/server"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvListen     = "NUMWB_LISTEN_ADDRESS"
	EnvSecret     = "NUMWB_TOKEN_SECRET"
	EnvCredential = "NUMWB_CREDENTIAL"
	EnvDB         = "NUMWB_DATABASE"
)

var (
	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of numwbd and then exit.")
	flagListen     = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret     = pflag.StringP("secret", "s", "", "Use the given secret for JWT signing.")
	flagCredential = pflag.StringP("credential", "c", "", "Set the static API login credential.")
	flagDB         = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("numwbd (numwb v%s)\n", version.Current)
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}

	var db server.Database
	if dbConnStr == "" {
		db = server.Database{Type: server.DatabaseInMemory}
	} else {
		var err error
		db, err = server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
			os.Exit(1)
		}
	}

	secretStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		secretStr = *flagSecret
	}

	var secret []byte
	if secretStr != "" {
		secret = []byte(secretStr)
		for len(secret) < server.MinSecretSize {
			doubled := make([]byte, len(secret)*2)
			copy(doubled, secret)
			copy(doubled[len(secret):], secret)
			secret = doubled
		}
		if len(secret) > server.MaxSecretSize {
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(secret), server.MaxSecretSize)
			os.Exit(1)
		}
	} else {
		secret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(secret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err)
			os.Exit(1)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	credential := os.Getenv(EnvCredential)
	if pflag.Lookup("credential").Changed {
		credential = *flagCredential
	}

	var credHash string
	if credential != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not hash credential: %s\n", err)
			os.Exit(1)
		}
		credHash = string(hash)
	} else {
		log.Printf("WARN  No API credential configured; login will always be rejected")
	}

	cfg := server.Config{
		Secret:         secret,
		CredentialHash: credHash,
		DB:             db,
	}.FillDefaults()

	if err := cfg.Validate(); err != nil && credHash != "" {
		log.Fatalf("FATAL invalid configuration: %s", err)
	}

	store, err := cfg.DB.Connect()
	if err != nil {
		log.Fatalf("FATAL could not connect to database: %s", err)
	}
	defer store.Close()

	api := &server.API{
		Store:          store,
		Secret:         cfg.Secret,
		CredentialHash: cfg.CredentialHash,
		UnauthDelay:    cfg.UnauthDelay(),
	}

	router := server.NewRouter(api, cfg.UnauthDelay())

	log.Printf("INFO  Starting numwbd %s on %s...", version.Current, listenAddr)
	if err := http.ListenAndServe(listenAddr, router); err != nil {
		log.Fatalf("FATAL server exited: %s", err)
	}
}

