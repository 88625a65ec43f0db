package app

import (
	"errors"
	"io"
	"log"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Blackdeer1524/hashkit/src/hash"
)

const envPrefix = "HASHKIT"

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

type envVars struct {
	Environment string `default:"prod" desc:"dev or prod; selects the logger preset"`
	ServerHost  string `default:"0.0.0.0" split_words:"true" desc:"address to listen on"`
	ServerPort  int    `default:"8080" split_words:"true" desc:"port to listen on"`
	Seed        uint64 `default:"0" desc:"seed of hash requests that name none"`

	hash.Config
}

// loadEnv reads an optional .env file, then the HASHKIT_* variables.
func loadEnv() (envVars, error) {
	var env envVars

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return env, err
	}

	if err := envconfig.Process(envPrefix, &env); err != nil {
		return env, err
	}

	if env.Environment != EnvDev && env.Environment != EnvProd {
		return env, errors.New("HASHKIT_ENVIRONMENT must be dev or prod")
	}

	return env, nil
}

func mustLoadEnv() envVars {
	if len(os.Args) >= 2 && slices.ContainsFunc(os.Args[1:], func(arg string) bool {
		return arg == "-h" || arg == "--help"
	}) {
		_ = PrintUsage(os.Stdout)
		os.Exit(1)
	}

	env, err := loadEnv()
	if err != nil {
		// zap is configured from env, so it does not exist yet
		log.Fatalf("failed to load environment: %s", err)
	}

	return env
}

// PrintUsage lists the environment variables the service reads.
func PrintUsage(w io.Writer) error {
	tabs := tabwriter.NewWriter(w, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(envPrefix, &envVars{}, tabs, usageFormat); err != nil {
		return err
	}

	return tabs.Flush()
}

// see https://github.com/kelseyhightower/envconfig/blob/v1.4.0/usage.go#L31
const usageFormat = `The service is configured with the following environment variables:
KEY	DESCRIPTION	DEFAULT
{{range .}}{{usage_key .}}	{{usage_description .}}	{{usage_default .}}
{{end}}`
