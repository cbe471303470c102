// cmd/worker-manager/workers.go
package main

import (
	"context"
	"fmt"

	"mandi-workers/internal/common/aws"
	"mandi-workers/internal/common/camunda"
	"mandi-workers/internal/common/config"
	"mandi-workers/internal/common/database"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/mandi"
	"mandi-workers/pkg/registry"

	lms "mandi-workers/internal/workers/data-access/load-mandi-snapshot"
	sml "mandi-workers/internal/workers/data-access/search-mandi-listings"

	cmm "mandi-workers/internal/workers/mandi/calculate-mandi-metrics"
	qm "mandi-workers/internal/workers/mandi/qualify-mandis"
	rm "mandi-workers/internal/workers/mandi/rank-mandis"
	vpr "mandi-workers/internal/workers/mandi/validate-purchase-request"

	cmo "mandi-workers/internal/workers/order/create-mandi-order"
	mmn "mandi-workers/internal/workers/order/manage-mandi-notifications"
	son "mandi-workers/internal/workers/order/send-order-notification"
)

type deps struct {
	cfg      *config.Config
	catalog  *mandi.Catalog
	registry *registry.ActivityRegistry
	pg       *database.PostgresClient
	es       *database.ElasticsearchClient
	redis    *database.RedisClient
	log      logger.Logger
}

type registration struct {
	taskType string
	handle   camunda.HandlerFunc
}

// buildWorkers constructs every job handler in process order.
func buildWorkers(ctx context.Context, d deps) ([]registration, error) {
	cfg := d.cfg

	// --- Purchase request ---
	vprCfg, err := vpr.LoadConfig(cfg, d.registry, d.catalog.Retailer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", vpr.TaskType, err)
	}

	// --- Ranking pipeline ---
	snapshot := lms.NewHandler(lms.LoadConfig(cfg, d.catalog), d.pg.DB, d.redis, d.log)
	search := sml.NewHandler(sml.LoadConfig(cfg), d.es.Client, d.log)

	// --- Orders & notifications ---
	email, sms, err := notificationSenders(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", son.TaskType, err)
	}
	mmnCfg, err := mmn.LoadConfig(cfg, d.registry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mmn.TaskType, err)
	}

	return []registration{
		{vpr.TaskType, vpr.NewHandler(vprCfg, d.log).Handle},
		{lms.TaskType, snapshot.Handle},
		{sml.TaskType, search.Handle},
		{qm.TaskType, qm.NewHandler(qm.LoadConfig(cfg), d.log).Handle},
		{cmm.TaskType, cmm.NewHandler(cmm.LoadConfig(cfg), d.log).Handle},
		{rm.TaskType, rm.NewHandler(rm.LoadConfig(cfg), d.log).Handle},
		{cmo.TaskType, cmo.NewHandler(cmo.LoadConfig(cfg), d.pg.DB, d.log).Handle},
		{son.TaskType, son.NewHandler(son.LoadConfig(cfg), d.pg.DB, email, sms, d.log).Handle},
		{mmn.TaskType, mmn.NewHandler(mmnCfg, d.pg.DB, d.log).Handle},
	}, nil
}

// notificationSenders returns AWS senders for the enabled channels. A
// disabled channel gets a nil sender, which the worker never calls.
func notificationSenders(ctx context.Context, cfg *config.Config) (son.EmailSender, son.SMSSender, error) {
	var (
		email son.EmailSender
		sms   son.SMSSender
	)
	region := cfg.Notifications.AWS.Region

	if cfg.Notifications.Email.Enabled && cfg.Integrations.AWS.SES.Enabled {
		from := cfg.Integrations.AWS.SES.FromEmail
		if from == "" {
			from = cfg.Notifications.Email.FromEmail
		}
		sender, err := aws.NewEmailSender(ctx, region, from)
		if err != nil {
			return nil, nil, err
		}
		email = sender
	}

	if cfg.Notifications.SMS.Enabled && cfg.Integrations.AWS.SNS.Enabled {
		sender, err := aws.NewSMSSender(ctx, region, cfg.Integrations.AWS.SNS.DefaultSMSSenderID)
		if err != nil {
			return nil, nil, err
		}
		sms = sender
	}

	return email, sms, nil
}
