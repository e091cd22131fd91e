package main

import (
	"context"
	"net/http"
	"os"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"

	"github.com/myemma/emma-go/internal/pkg/application/relay"
	"github.com/myemma/emma-go/internal/pkg/infrastructure/router"
	"github.com/myemma/emma-go/internal/pkg/infrastructure/storage"
	"github.com/myemma/emma-go/internal/pkg/presentation/api/webhooks"
)

const (
	appName string = "webhook-relay"
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	configPath := env.GetVariableOrDefault(ctx, "RELAY_CONFIG_FILE", "/opt/emma/config/relay.yaml")
	policyPath := env.GetVariableOrDefault(ctx, "RELAY_POLICY_FILE", "/opt/emma/config/authz.rego")
	servicePort := env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080")

	configFile, err := os.Open(configPath)
	if err != nil {
		log.Error("failed to open relay configuration", "err", err.Error())
		os.Exit(1)
	}

	cfg, err := relay.LoadConfiguration(configFile)
	configFile.Close()
	if err != nil {
		log.Error("failed to parse relay configuration", "err", err.Error())
		os.Exit(1)
	}

	store, err := storage.New(ctx, storage.LoadConfiguration(ctx))
	if err != nil {
		log.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer store.Close()

	app := relay.New(cfg, store)

	policyFile, err := os.Open(policyPath)
	if err != nil {
		log.Error("failed to open authorization policies", "err", err.Error())
		os.Exit(1)
	}
	defer policyFile.Close()

	r := router.New(appName)
	err = webhooks.RegisterHandlers(ctx, r, policyFile, app)
	if err != nil {
		log.Error("failed to register handlers", "err", err.Error())
		os.Exit(1)
	}

	log.Info("starting to listen for incoming connections", "port", servicePort)

	err = http.ListenAndServe(":"+servicePort, r)
	if err != nil {
		log.Error("failed to listen for connections", "err", err.Error())
		os.Exit(1)
	}
}
